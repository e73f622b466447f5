package attacks

import "github.com/hailam/attacktables/internal/board"

// rayDirections returns the rays a slider moves along, nil for leapers.
func rayDirections(pt board.PieceType) []board.Direction {
	switch pt {
	case board.Bishop:
		return board.DiagonalDirections[:]
	case board.Rook:
		return board.OrthogonalDirections[:]
	case board.Queen:
		return board.AllDirections[:]
	}
	return nil
}

// OccupancyMask returns the squares whose occupancy can change the attack
// set of a slider on sq. Each ray stops one step short of the board edge,
// since a piece on the last square of a ray never hides anything behind it.
// The origin is never part of the mask.
func OccupancyMask(pt board.PieceType, sq board.Square) board.Bitboard {
	var mask board.Bitboard
	for _, d := range rayDirections(pt) {
		s, ok := sq.Step(d)
		for ok {
			next, more := s.Step(d)
			if !more {
				break
			}
			mask = mask.Set(s)
			s, ok = next, more
		}
	}
	return mask
}

// SlidingAttacks computes slider attacks by ray casting. Every ray includes
// the first blocker it meets and nothing beyond it; unblocked rays run to
// the edge square inclusive. Used to fill the magic tables and as the
// reference the tables are checked against.
func SlidingAttacks(pt board.PieceType, sq board.Square, blockers board.Bitboard) board.Bitboard {
	var attacks board.Bitboard
	for _, d := range rayDirections(pt) {
		for s, ok := sq.Step(d); ok; s, ok = s.Step(d) {
			attacks = attacks.Set(s)
			if blockers.IsSet(s) {
				break
			}
		}
	}
	return attacks
}

// OccupancySubset maps index to one subset of mask. Bit c of index selects
// the c-th lowest set square of mask, so indexes [0, 1<<bits) enumerate every
// subset of a mask with bits set squares exactly once.
func OccupancySubset(index, bits int, mask board.Bitboard) board.Bitboard {
	var occ board.Bitboard
	for i := 0; i < bits; i++ {
		sq := mask.PopLSB()
		if index&(1<<i) != 0 {
			occ = occ.Set(sq)
		}
	}
	return occ
}

// Magic holds the magic bitboard data for a single square.
type Magic struct {
	Mask   board.Bitboard // Relevant occupancy mask (excludes edges)
	Magic  uint64         // Magic multiplier
	Shift  uint8          // 64 - relevant bits
	Offset uint32         // Start of the square's region in the attack table
}

// Bits returns the number of relevant occupancy bits.
func (m *Magic) Bits() int {
	return 64 - int(m.Shift)
}

// Index hashes occupied into the square's region, relative to Offset.
// The result is always below 1<<Bits().
func (m *Magic) Index(occupied board.Bitboard) uint32 {
	return uint32((uint64(occupied&m.Mask) * m.Magic) >> m.Shift)
}

// collisionCheck selects which shared slots fillSquare rejects.
type collisionCheck uint8

const (
	checkNone        collisionCheck = iota // last write wins
	checkDestructive                       // subsets with different attacks
	checkInjective                         // any two subsets
)

// fillSquare writes the attack set of every occupancy subset of m.Mask into
// region, which holds 1<<m.Bits() entries. With checkNone a magic that maps
// two subsets with different attacks to one slot silently keeps the last
// write. Otherwise a rejected shared slot is returned as a *CollisionError
// and the report counts used and shared slots.
func fillSquare(pt board.PieceType, sq board.Square, m *Magic, region []board.Bitboard, check collisionCheck) (SquareReport, error) {
	bits := m.Bits()
	n := 1 << bits
	rep := SquareReport{Square: sq, Bits: bits, Slots: n}

	var owner []board.Bitboard
	var written []bool
	if check != checkNone {
		owner = make([]board.Bitboard, n)
		written = make([]bool, n)
	}

	for i := 0; i < n; i++ {
		occ := OccupancySubset(i, bits, m.Mask)
		attacks := SlidingAttacks(pt, sq, occ)
		idx := m.Index(occ)

		if check != checkNone {
			if written[idx] {
				equal := region[idx] == attacks
				if !equal || check == checkInjective {
					return rep, &CollisionError{
						Piece:  pt,
						Square: sq,
						Index:  idx,
						First:  owner[idx],
						Second: occ,
						Equal:  equal,
					}
				}
				rep.Constructive++
				continue
			}
			written[idx] = true
			owner[idx] = occ
			rep.Used++
		}
		region[idx] = attacks
	}
	rep.Injective = check != checkNone && rep.Constructive == 0
	return rep, nil
}
