package board_test

import (
	"fmt"

	"github.com/matzehuels/tilescramble/pkg/board"
	"github.com/matzehuels/tilescramble/pkg/rng"
	"github.com/matzehuels/tilescramble/pkg/seed"
)

func ExampleBoard_Shuffle() {
	b := board.New(9)
	b.Shuffle(rng.New(seed.FromPassphrase("abc123")), true, false)
	fmt.Println(b.Pieces())

	b.Swap(0, 3)
	b.RotateAt(0)
	fmt.Println(b.At(0), b.At(3))

	b.Reset()
	fmt.Println(b.Solved())
	// Output:
	// [5@180 7@0 4@270 0@180 2@270 8@0 6@180 3@0 1@90]
	// 0@270 5@180
	// true
}
