// Package board holds the bitboard, square and piece primitives the attack
// tables are built from.
package board

import (
	"fmt"
	"strings"
)

// Square represents a square on the chess board (0-63).
// Uses Little-Endian Rank-File Mapping: A1=0, H1=7, A8=56, H8=63.
type Square uint8

// Square constants for all 64 squares.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare Square = 64
)

// File returns the file (column) of the square (0-7, where 0=a, 7=h).
func (sq Square) File() int {
	return int(sq) & 7
}

// Rank returns the rank (row) of the square (0-7, where 0=1, 7=8).
func (sq Square) Rank() int {
	return int(sq) >> 3
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '1'+sq.Rank())
}

// NewSquare creates a square from file and rank (0-indexed).
func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

// OnBoard reports whether file and rank both lie in [0,8).
func OnBoard(file, rank int) bool {
	return file >= 0 && file < 8 && rank >= 0 && rank < 8
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	file := int(s[0] - 'a')
	rank := int(s[1] - '1')

	if !OnBoard(file, rank) {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	return NewSquare(file, rank), nil
}

// ParseSquares parses a comma separated list of squares ("d6,f4") into a bitboard.
func ParseSquares(s string) (Bitboard, error) {
	var b Bitboard
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		sq, err := ParseSquare(field)
		if err != nil {
			return Empty, err
		}
		b = b.Set(sq)
	}
	return b, nil
}

// IsValid returns true if the square is a valid board square (0-63).
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// Step moves one step in direction d. The boolean is false if the step
// would leave the board; file and rank are checked independently so a
// step never wraps around an edge.
func (sq Square) Step(d Direction) (Square, bool) {
	f, r := sq.File()+d.DFile, sq.Rank()+d.DRank
	if !OnBoard(f, r) {
		return NoSquare, false
	}
	return NewSquare(f, r), true
}

// Direction is a ray or step offset expressed as file and rank deltas.
type Direction struct {
	DFile int
	DRank int
}

// Offset returns the linear square offset of the direction (N = +8, E = +1).
func (d Direction) Offset() int {
	return d.DRank*8 + d.DFile
}

// The eight ray directions.
var (
	North     = Direction{0, 1}
	South     = Direction{0, -1}
	East      = Direction{1, 0}
	West      = Direction{-1, 0}
	NorthEast = Direction{1, 1}
	NorthWest = Direction{-1, 1}
	SouthEast = Direction{1, -1}
	SouthWest = Direction{-1, -1}
)

// Ray directions per slider.
var (
	DiagonalDirections   = [4]Direction{NorthEast, NorthWest, SouthEast, SouthWest}
	OrthogonalDirections = [4]Direction{North, South, East, West}
	AllDirections        = [8]Direction{North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest}
)
