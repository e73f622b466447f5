package board

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Placement is the piece on every square, NoPiece where empty. It is only
// a source of blocker occupancy; side to move, castling and the clocks of
// a FEN are not kept.
type Placement [64]Piece

// ParsePlacement parses the piece placement field of a FEN string. Any
// fields after the first are ignored.
func ParsePlacement(fen string) (*Placement, error) {
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return nil, fmt.Errorf("invalid FEN: empty")
	}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("invalid piece placement: need 8 ranks, got %d", len(ranks))
	}

	var p Placement
	for i := range p {
		p[i] = NoPiece
	}

	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0

		for _, c := range rankStr {
			if file > 7 {
				return nil, fmt.Errorf("too many squares in rank %d", rank+1)
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			if c >= utf8.RuneSelf {
				return nil, fmt.Errorf("invalid piece character: %c", c)
			}
			piece := PieceFromChar(byte(c))
			if piece == NoPiece {
				return nil, fmt.Errorf("invalid piece character: %c", c)
			}
			p[NewSquare(file, rank)] = piece
			file++
		}

		if file != 8 {
			return nil, fmt.Errorf("invalid number of squares in rank %d: got %d", rank+1, file)
		}
	}
	return &p, nil
}

// Occupancy returns every occupied square.
func (p *Placement) Occupancy() Bitboard {
	var b Bitboard
	for sq, piece := range p {
		if piece != NoPiece {
			b = b.Set(Square(sq))
		}
	}
	return b
}

// Pieces returns the squares holding piece.
func (p *Placement) Pieces(piece Piece) Bitboard {
	var b Bitboard
	for sq, pc := range p {
		if pc == piece {
			b = b.Set(Square(sq))
		}
	}
	return b
}
