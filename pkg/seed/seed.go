package seed

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
)

// Fallback replaces a derived seed of zero.
const Fallback uint32 = 0x6d2b79f5

// FromPassphrase derives the seed for text. It is pure and platform independent.
func FromPassphrase(text string) uint32 {
	sum := sha256.Sum256([]byte(text))
	return FromDigest(sum[:])
}

// FromDigest reads the first four bytes of digest as a big-endian uint32,
// substituting Fallback for zero. Digests shorter than four bytes yield Fallback.
func FromDigest(digest []byte) uint32 {
	if len(digest) < 4 {
		return Fallback
	}
	if s := binary.BigEndian.Uint32(digest[:4]); s != 0 {
		return s
	}
	return Fallback
}

// Deriver derives a seed from a passphrase.
// Implementations must be deterministic: the same passphrase always yields the same seed.
type Deriver interface {
	Derive(ctx context.Context, passphrase string) (uint32, error)
}

// DeriverFunc adapts a function to the Deriver interface.
type DeriverFunc func(ctx context.Context, passphrase string) (uint32, error)

// Derive calls f.
func (f DeriverFunc) Derive(ctx context.Context, passphrase string) (uint32, error) {
	return f(ctx, passphrase)
}

// SHA256 is the default Deriver. It fails only when ctx is already done.
var SHA256 Deriver = DeriverFunc(func(ctx context.Context, passphrase string) (uint32, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return FromPassphrase(passphrase), nil
})
