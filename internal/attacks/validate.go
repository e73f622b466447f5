package attacks

import (
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hailam/attacktables/internal/board"
	"github.com/hailam/attacktables/internal/magic"
)

// SquareReport describes how one square's magic uses its region.
type SquareReport struct {
	Square       board.Square `json:"square"`
	Bits         int          `json:"bits"`
	Slots        int          `json:"slots"`
	Used         int          `json:"used"`
	Constructive int          `json:"constructive"`
	Injective    bool         `json:"injective"`
}

// PieceReport aggregates the square reports of one slider.
type PieceReport struct {
	Piece        board.PieceType  `json:"piece"`
	Slots        int              `json:"slots"`
	Used         int              `json:"used"`
	Constructive int              `json:"constructive"`
	Injective    bool             `json:"injective"`
	Squares      [64]SquareReport `json:"squares"`
}

// Failure is a square whose magic data cannot produce a correct table.
type Failure struct {
	Piece  board.PieceType `json:"piece"`
	Square board.Square    `json:"square"`
	Reason string          `json:"reason"`
}

// Report is the outcome of ValidateMagics.
type Report struct {
	Name        string        `json:"name"`
	Fingerprint uint64        `json:"fingerprint"`
	CheckedAt   time.Time     `json:"checked_at"`
	Elapsed     time.Duration `json:"elapsed"`
	Strict      bool          `json:"strict"`
	Pieces      []PieceReport `json:"pieces"`
	Failures    []Failure     `json:"failures,omitempty"`
}

// OK reports whether every square of every slider passed.
func (r *Report) OK() bool {
	return len(r.Failures) == 0
}

// ValidateMagics enumerates every occupancy subset of every bishop and rook
// square and checks that set hashes them without destructive collisions.
// Two subsets sharing a slot are accepted when their attacks are equal,
// unless WithInjective is given, in which case any shared slot fails.
// SquareReport.Injective and PieceReport.Injective record whether the
// index map was one-to-one either way.
//
// Every square is checked on its own, so the report lists every bad square,
// bit-count mismatches included. The returned error is the first failure in
// bishop-then-rook, a1-to-h8 order, either a *BitCountError or a
// *CollisionError.
func ValidateMagics(set *magic.Set, opts ...Option) (*Report, error) {
	if set == nil {
		set = magic.Default()
	}
	cfg := newConfig(opts)
	check := checkDestructive
	if cfg.injective {
		check = checkInjective
	}
	log := cfg.logger.WithValues("magics", set.Name)
	start := time.Now()

	rep := &Report{
		Name:        set.Name,
		Fingerprint: set.Fingerprint(),
		CheckedAt:   start,
		Strict:      cfg.injective,
	}

	var first error
	for _, pt := range [...]board.PieceType{board.Bishop, board.Rook} {
		pr := PieceReport{Piece: pt}
		numbers, bits := set.Numbers(pt), set.Bits(pt)

		var errs [64]error
		var g errgroup.Group
		g.SetLimit(cfg.workers)
		for sq := board.A1; sq <= board.H8; sq++ {
			sq := sq // per-iteration copy (pre-Go 1.22 loop semantics)
			g.Go(func() error {
				m, err := squareMagic(pt, sq, numbers[sq], bits[sq])
				if err != nil {
					pr.Squares[sq] = SquareReport{Square: sq, Bits: bits[sq]}
					errs[sq] = err
					return nil
				}
				region := make([]board.Bitboard, 1<<m.Bits())
				pr.Squares[sq], errs[sq] = fillSquare(pt, sq, &m, region, check)
				return nil
			})
		}
		g.Wait()

		pr.Injective = true
		for sq := board.A1; sq <= board.H8; sq++ {
			if errs[sq] != nil {
				rep.Failures = append(rep.Failures, Failure{Piece: pt, Square: sq, Reason: errs[sq].Error()})
				if first == nil {
					first = errs[sq]
				}
			}
			s := &pr.Squares[sq]
			pr.Slots += s.Slots
			pr.Used += s.Used
			pr.Constructive += s.Constructive
			pr.Injective = pr.Injective && s.Injective
		}
		rep.Pieces = append(rep.Pieces, pr)
		log.V(1).Info("magics checked", "piece", pt.String(), "slots", pr.Slots, "used", pr.Used,
			"constructive", pr.Constructive, "injective", pr.Injective)
	}

	rep.Elapsed = time.Since(start)
	if first != nil {
		log.Error(first, "magic validation failed", "failures", len(rep.Failures))
	} else {
		log.Info("magic validation passed", "elapsed", rep.Elapsed)
	}
	return rep, first
}
