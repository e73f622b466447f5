package attacks

import "github.com/hailam/attacktables/internal/board"

var (
	knightOffsets = []board.Direction{
		{DFile: 1, DRank: 2}, {DFile: 2, DRank: 1},
		{DFile: 2, DRank: -1}, {DFile: 1, DRank: -2},
		{DFile: -1, DRank: -2}, {DFile: -2, DRank: -1},
		{DFile: -2, DRank: 1}, {DFile: -1, DRank: 2},
	}

	// Pawns capture diagonally forward only.
	pawnOffsets = [2][]board.Direction{
		board.White: {board.NorthWest, board.NorthEast},
		board.Black: {board.SouthWest, board.SouthEast},
	}
)

// leaperAttacks sets every offset destination that stays on the board.
// File and rank are bounds checked separately, so no jump wraps an edge.
func leaperAttacks(sq board.Square, offsets []board.Direction) board.Bitboard {
	var attacks board.Bitboard
	for _, d := range offsets {
		if to, ok := sq.Step(d); ok {
			attacks = attacks.Set(to)
		}
	}
	return attacks
}

func (t *Tables) initLeapers() {
	for sq := board.A1; sq <= board.H8; sq++ {
		t.knight[sq] = leaperAttacks(sq, knightOffsets)
		t.king[sq] = leaperAttacks(sq, board.AllDirections[:])
		t.pawn[board.White][sq] = leaperAttacks(sq, pawnOffsets[board.White])
		t.pawn[board.Black][sq] = leaperAttacks(sq, pawnOffsets[board.Black])
	}
}
