// Package attacks builds precomputed attack tables for every piece type and
// answers attack queries with a single lookup. Leapers use one 64-entry
// table each; bishops and rooks use magic bitboards over a per-piece arena.
package attacks

import (
	"runtime"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/attacktables/internal/board"
	"github.com/hailam/attacktables/internal/magic"
)

// Tables holds every attack table. It is immutable once New returns and
// safe for concurrent use without locking.
type Tables struct {
	name        string
	fingerprint uint64

	knight [64]board.Bitboard
	king   [64]board.Bitboard
	pawn   [2][64]board.Bitboard // [Color][Square]

	bishopMagics [64]Magic
	rookMagics   [64]Magic
	bishopTable  []board.Bitboard
	rookTable    []board.Bitboard

	// Between and Line bitboards for pins/checks
	betweenBB [64][64]board.Bitboard // Squares strictly between two squares
	lineBB    [64][64]board.Bitboard // Full line through two squares (including endpoints)
}

// Option configures New and ValidateMagics.
type Option func(*config)

type config struct {
	workers   int
	logger    logr.Logger
	validate  bool
	injective bool
}

// check is the collision check New applies; ValidateMagics always checks.
func (c config) check() collisionCheck {
	switch {
	case !c.validate:
		return checkNone
	case c.injective:
		return checkInjective
	default:
		return checkDestructive
	}
}

func newConfig(opts []Option) config {
	cfg := config{
		workers: runtime.GOMAXPROCS(0),
		logger:  logr.Discard(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.workers < 1 {
		cfg.workers = 1
	}
	return cfg
}

// WithWorkers bounds the number of squares filled concurrently.
// Values below 1 build sequentially.
func WithWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

// WithLogger sets the logger used for build progress.
func WithLogger(l logr.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithValidation makes New reject magic multipliers that map two
// occupancies with different attacks to the same slot, instead of letting
// the last write win.
func WithValidation(on bool) Option {
	return func(c *config) { c.validate = on }
}

// WithInjective makes validation reject any slot shared by two occupancies,
// even when their attacks are equal. It implies WithValidation for New.
func WithInjective(on bool) Option {
	return func(c *config) {
		c.injective = on
		if on {
			c.validate = true
		}
	}
}

// New builds all attack tables from set. A nil set uses magic.Default().
// A relevant-bit count that disagrees with the generated mask is a
// *BitCountError and no tables are returned.
func New(set *magic.Set, opts ...Option) (*Tables, error) {
	if set == nil {
		set = magic.Default()
	}
	cfg := newConfig(opts)
	log := cfg.logger.WithValues("magics", set.Name)
	start := time.Now()

	t := &Tables{name: set.Name, fingerprint: set.Fingerprint()}
	t.initLeapers()

	for _, pt := range [...]board.PieceType{board.Bishop, board.Rook} {
		if _, err := t.initSlider(pt, set, cfg); err != nil {
			return nil, err
		}
		log.V(1).Info("slider table filled", "piece", pt.String(), "entries", len(*t.table(pt)))
	}

	t.initLines()

	log.Info("attack tables built",
		"bishopEntries", len(t.bishopTable),
		"rookEntries", len(t.rookTable),
		"bytes", t.Size(),
		"validated", cfg.validate,
		"injective", cfg.injective,
		"elapsed", time.Since(start))
	return t, nil
}

func (t *Tables) magics(pt board.PieceType) *[64]Magic {
	if pt == board.Bishop {
		return &t.bishopMagics
	}
	return &t.rookMagics
}

func (t *Tables) table(pt board.PieceType) *[]board.Bitboard {
	if pt == board.Bishop {
		return &t.bishopTable
	}
	return &t.rookTable
}

// initSlider lays out one region per square, then fills the regions on a
// bounded worker pool. Each region is written by exactly one goroutine and
// Wait is the barrier before any lookup.
func (t *Tables) initSlider(pt board.PieceType, set *magic.Set, cfg config) ([64]SquareReport, error) {
	var reports [64]SquareReport
	magics := t.magics(pt)
	if err := layoutMagics(pt, set, magics); err != nil {
		return reports, err
	}

	last := &magics[board.H8]
	table := make([]board.Bitboard, last.Offset+uint32(1)<<last.Bits())
	*t.table(pt) = table

	var g errgroup.Group
	g.SetLimit(cfg.workers)
	for sq := board.A1; sq <= board.H8; sq++ {
		sq := sq // per-iteration copy (pre-Go 1.22 loop semantics)
		m := &magics[sq]
		region := table[m.Offset : m.Offset+uint32(1)<<m.Bits()]
		g.Go(func() error {
			rep, err := fillSquare(pt, sq, m, region, cfg.check())
			reports[sq] = rep
			return err
		})
	}
	return reports, g.Wait()
}

// layoutMagics computes mask, shift and arena offset for every square of pt.
func layoutMagics(pt board.PieceType, set *magic.Set, magics *[64]Magic) error {
	numbers, bits := set.Numbers(pt), set.Bits(pt)
	var offset uint32
	for sq := board.A1; sq <= board.H8; sq++ {
		m, err := squareMagic(pt, sq, numbers[sq], bits[sq])
		if err != nil {
			return err
		}
		m.Offset = offset
		magics[sq] = m
		offset += uint32(1) << m.Bits()
	}
	return nil
}

// squareMagic builds the magic of one square with a zero offset, checking
// the declared relevant-bit count against the generated mask.
func squareMagic(pt board.PieceType, sq board.Square, number uint64, bits int) (Magic, error) {
	mask := OccupancyMask(pt, sq)
	n := mask.PopCount()
	if n != bits {
		return Magic{}, &BitCountError{Piece: pt, Square: sq, Declared: bits, Actual: n}
	}
	return Magic{Mask: mask, Magic: number, Shift: uint8(64 - n)}, nil
}

// initLines derives Between and Line from empty-board ray attacks: for two
// aligned squares the rays cast from each toward the other overlap exactly
// on the squares between them.
func (t *Tables) initLines() {
	for sq1 := board.A1; sq1 <= board.H8; sq1++ {
		for sq2 := board.A1; sq2 <= board.H8; sq2++ {
			if sq1 == sq2 {
				continue
			}

			var pt board.PieceType
			switch {
			case SlidingAttacks(board.Rook, sq1, board.Empty).IsSet(sq2):
				pt = board.Rook
			case SlidingAttacks(board.Bishop, sq1, board.Empty).IsSet(sq2):
				pt = board.Bishop
			default:
				continue // Not aligned
			}

			ends := board.SquareBB(sq1) | board.SquareBB(sq2)
			t.betweenBB[sq1][sq2] = SlidingAttacks(pt, sq1, board.SquareBB(sq2)) &
				SlidingAttacks(pt, sq2, board.SquareBB(sq1))
			t.lineBB[sq1][sq2] = SlidingAttacks(pt, sq1, board.Empty)&SlidingAttacks(pt, sq2, board.Empty) | ends
		}
	}
}

// Name returns the name of the magic set the tables were built from.
func (t *Tables) Name() string {
	return t.name
}

// Fingerprint returns the fingerprint of the magic set the tables were built from.
func (t *Tables) Fingerprint() uint64 {
	return t.fingerprint
}

// Magic returns the magic entry of a bishop or rook square.
func (t *Tables) Magic(pt board.PieceType, sq board.Square) Magic {
	return t.magics(pt)[sq]
}

// Entries returns the number of slots in the bishop or rook arena.
func (t *Tables) Entries(pt board.PieceType) int {
	return len(*t.table(pt))
}

// Size returns the approximate memory held by the tables in bytes.
func (t *Tables) Size() uint64 {
	const bb = 8
	n := len(t.knight) + len(t.king) + 2*64 + 2*64*64
	n += len(t.bishopTable) + len(t.rookTable)
	return uint64(n*bb) + uint64(len(t.bishopMagics)+len(t.rookMagics))*24
}
