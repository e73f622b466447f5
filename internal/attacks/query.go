package attacks

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/hailam/attacktables/internal/board"
	"github.com/hailam/attacktables/internal/magic"
)

// KnightAttacks returns the knight attack bitboard for a square.
func (t *Tables) KnightAttacks(sq board.Square) board.Bitboard {
	return t.knight[sq]
}

// KingAttacks returns the king attack bitboard for a square.
func (t *Tables) KingAttacks(sq board.Square) board.Bitboard {
	return t.king[sq]
}

// PawnAttacks returns the pawn attack bitboard for a square and color.
func (t *Tables) PawnAttacks(sq board.Square, c board.Color) board.Bitboard {
	return t.pawn[c][sq]
}

// BishopAttacks returns the bishop attack bitboard for a square with given occupancy.
func (t *Tables) BishopAttacks(sq board.Square, occupied board.Bitboard) board.Bitboard {
	m := &t.bishopMagics[sq]
	return t.bishopTable[m.Offset+m.Index(occupied)]
}

// RookAttacks returns the rook attack bitboard for a square with given occupancy.
func (t *Tables) RookAttacks(sq board.Square, occupied board.Bitboard) board.Bitboard {
	m := &t.rookMagics[sq]
	return t.rookTable[m.Offset+m.Index(occupied)]
}

// QueenAttacks returns the queen attack bitboard for a square with given occupancy.
func (t *Tables) QueenAttacks(sq board.Square, occupied board.Bitboard) board.Bitboard {
	return t.BishopAttacks(sq, occupied) | t.RookAttacks(sq, occupied)
}

// Attacks dispatches on piece type without validating its inputs. Color
// only matters for pawns and occupied only for sliders. Unknown piece
// types yield Empty, which carries no meaning.
func (t *Tables) Attacks(pt board.PieceType, c board.Color, sq board.Square, occupied board.Bitboard) board.Bitboard {
	switch pt {
	case board.Pawn:
		return t.pawn[c&1][sq]
	case board.Knight:
		return t.knight[sq]
	case board.Bishop:
		return t.BishopAttacks(sq, occupied)
	case board.Rook:
		return t.RookAttacks(sq, occupied)
	case board.Queen:
		return t.QueenAttacks(sq, occupied)
	case board.King:
		return t.king[sq]
	}
	return board.Empty
}

// GetAttack returns the squares piece p on sq attacks given the blockers.
// Out-of-range squares and pieces are reported as errors rather than
// answered with an empty board.
func (t *Tables) GetAttack(p board.Piece, sq board.Square, blockers board.Bitboard) (board.Bitboard, error) {
	if !sq.IsValid() {
		return board.Empty, fmt.Errorf("%w: %d", ErrInvalidSquare, sq)
	}
	if p >= board.NoPiece {
		return board.Empty, fmt.Errorf("%w: %d", ErrInvalidPiece, p)
	}
	return t.Attacks(p.Type(), p.Color(), sq, blockers), nil
}

// Between returns the bitboard of squares strictly between two squares.
// Returns empty if squares are not aligned (not on same rank, file, or diagonal).
func (t *Tables) Between(sq1, sq2 board.Square) board.Bitboard {
	return t.betweenBB[sq1][sq2]
}

// Line returns the bitboard of the full line through two squares.
// Returns empty if squares are not aligned.
func (t *Tables) Line(sq1, sq2 board.Square) board.Bitboard {
	return t.lineBB[sq1][sq2]
}

// Aligned returns true if three squares are on the same line.
func (t *Tables) Aligned(sq1, sq2, sq3 board.Square) bool {
	return t.lineBB[sq1][sq2].IsSet(sq3)
}

var (
	initMu        sync.Mutex
	defaultTables atomic.Pointer[Tables]
)

// Init builds the process-wide tables from magic.Default(). It must be
// called once before the package-level GetAttack; later calls return
// ErrAlreadyInitialized.
func Init(opts ...Option) error {
	initMu.Lock()
	defer initMu.Unlock()

	if defaultTables.Load() != nil {
		return ErrAlreadyInitialized
	}
	t, err := New(magic.Default(), opts...)
	if err != nil {
		return err
	}
	defaultTables.Store(t)
	return nil
}

// Default returns the tables built by Init, or nil before Init.
func Default() *Tables {
	return defaultTables.Load()
}

// GetAttack queries the process-wide tables.
func GetAttack(p board.Piece, sq board.Square, blockers board.Bitboard) (board.Bitboard, error) {
	t := defaultTables.Load()
	if t == nil {
		return board.Empty, ErrNotInitialized
	}
	return t.GetAttack(p, sq, blockers)
}
