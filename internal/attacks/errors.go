package attacks

import (
	"errors"
	"fmt"

	"github.com/hailam/attacktables/internal/board"
)

var (
	ErrNotInitialized     = errors.New("attacks: tables not initialized")
	ErrAlreadyInitialized = errors.New("attacks: tables already initialized")
	ErrInvalidSquare      = errors.New("attacks: invalid square")
	ErrInvalidPiece       = errors.New("attacks: invalid piece")
)

// BitCountError reports a declared relevant-bit count that does not match
// the generated occupancy mask.
type BitCountError struct {
	Piece    board.PieceType
	Square   board.Square
	Declared int
	Actual   int
}

func (e *BitCountError) Error() string {
	return fmt.Sprintf("attacks: %s on %s: declared %d relevant bits, mask has %d",
		e.Piece, e.Square, e.Declared, e.Actual)
}

// CollisionError reports two occupancies that a magic multiplier hashes to
// the same slot. Equal is set when both have the same attacks, which only
// the injective check rejects.
type CollisionError struct {
	Piece  board.PieceType
	Square board.Square
	Index  uint32
	First  board.Bitboard
	Second board.Bitboard
	Equal  bool
}

func (e *CollisionError) Error() string {
	kind := "collides"
	if e.Equal {
		kind = "is not injective"
	}
	return fmt.Sprintf("attacks: %s magic for %s %s at index %d (occupancies %#x and %#x)",
		e.Piece, e.Square, kind, e.Index, uint64(e.First), uint64(e.Second))
}
