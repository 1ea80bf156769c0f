// Package seed turns a passphrase into the 32-bit seed that drives every
// shuffle.
//
// # Derivation
//
// The passphrase is hashed with SHA-256 over its UTF-8 bytes. The first four
// bytes of the digest, most significant first, form the seed:
//
//	s := seed.FromPassphrase("abc123") // 0x6ca13d52
//
// A zero value would leave the xorshift generator stuck at zero forever, so it
// is replaced with [Fallback]. The empty passphrase is valid and always yields
// the same seed (0xe3b0c442), which means "shuffle without a key" gives the
// same arrangement on every run.
//
// # Deriver
//
// Callers that treat hashing as an asynchronous, fallible step (the session
// awaits it before touching the board) use the [Deriver] interface. [SHA256]
// is the default implementation; tests substitute a failing one to exercise
// the abort path.
package seed
