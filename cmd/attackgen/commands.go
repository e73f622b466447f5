package main

import (
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-logr/logr"

	"github.com/hailam/attacktables/internal/attacks"
	"github.com/hailam/attacktables/internal/board"
	"github.com/hailam/attacktables/internal/magic"
	"github.com/hailam/attacktables/internal/render"
	"github.com/hailam/attacktables/internal/storage"
)

// loadSet returns the built-in set when path is empty.
func loadSet(path string) (*magic.Set, error) {
	if path == "" {
		return magic.Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	set, err := magic.Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if set.Name == "" {
		set.Name = filepath.Base(path)
	}
	return set, nil
}

// ensureValidated validates set unless the store already holds a passing
// report for it, and records fresh reports.
func ensureValidated(logger logr.Logger, store *storage.Store, set *magic.Set, workers int) error {
	ok, err := store.Validated(set.Fingerprint())
	if err != nil {
		return err
	}
	if ok {
		logger.V(1).Info("magic set already validated", "magics", set.Name, "fingerprint", fmt.Sprintf("%016x", set.Fingerprint()))
		return nil
	}

	rep, verr := attacks.ValidateMagics(set, attacks.WithWorkers(workers), attacks.WithLogger(logger))
	if err := store.SaveReport(rep); err != nil {
		return err
	}
	return verr
}

func runValidate(logger logr.Logger, args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	magicsPath := fs.String("magics", "", "magic set JSON file (built-in set if empty)")
	dbDir := fs.String("db", "", "report database directory")
	noStore := fs.Bool("no-store", false, "do not record the report")
	workers := fs.Int("workers", 0, "parallel squares (GOMAXPROCS if 0)")
	injective := fs.Bool("injective", false, "fail on any shared slot, even with equal attacks")
	fs.Parse(args)

	set, err := loadSet(*magicsPath)
	if err != nil {
		return err
	}

	opts := []attacks.Option{attacks.WithLogger(logger), attacks.WithInjective(*injective)}
	if *workers > 0 {
		opts = append(opts, attacks.WithWorkers(*workers))
	}
	rep, verr := attacks.ValidateMagics(set, opts...)

	fmt.Printf("magic set %q (fingerprint %016x), checked in %s\n", rep.Name, rep.Fingerprint, rep.Elapsed)
	for _, pr := range rep.Pieces {
		fmt.Printf("  %-6s slots %s, used %s, shared %s, injective %v\n", pr.Piece,
			humanize.Comma(int64(pr.Slots)), humanize.Comma(int64(pr.Used)), humanize.Comma(int64(pr.Constructive)), pr.Injective)
	}
	for _, f := range rep.Failures {
		fmt.Printf("  FAIL %s %s: %s\n", f.Piece, f.Square, f.Reason)
	}

	if !*noStore {
		store, err := storage.Open(*dbDir)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.SaveReport(rep); err != nil {
			return err
		}
	}

	if verr != nil {
		return verr
	}
	fmt.Println("ok")
	return nil
}

func runBench(logger logr.Logger, args []string) error {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	magicsPath := fs.String("magics", "", "magic set JSON file (built-in set if empty)")
	dbDir := fs.String("db", "", "report database directory")
	noStore := fs.Bool("no-store", false, "validate on every run instead of consulting the report database")
	workers := fs.Int("workers", 0, "parallel squares (GOMAXPROCS if 0)")
	lookups := fs.Int("n", 10_000_000, "number of lookups to time")
	fs.Parse(args)

	set, err := loadSet(*magicsPath)
	if err != nil {
		return err
	}

	opts := []attacks.Option{attacks.WithLogger(logger)}
	if *workers > 0 {
		opts = append(opts, attacks.WithWorkers(*workers))
	}
	if *noStore {
		opts = append(opts, attacks.WithValidation(true))
	} else {
		store, err := storage.Open(*dbDir)
		if err != nil {
			return err
		}
		err = ensureValidated(logger, store, set, *workers)
		store.Close()
		if err != nil {
			return err
		}
	}

	start := time.Now()
	tables, err := attacks.New(set, opts...)
	if err != nil {
		return err
	}
	fmt.Printf("built %s of tables in %s\n", humanize.Bytes(tables.Size()), time.Since(start))

	rng := rand.New(rand.NewSource(1))
	occs := make([]board.Bitboard, 1024)
	for i := range occs {
		occs[i] = board.Bitboard(rng.Uint64() & rng.Uint64())
	}

	var sink board.Bitboard
	start = time.Now()
	for i := 0; i < *lookups; i++ {
		sink ^= tables.QueenAttacks(board.Square(i&63), occs[i&1023])
	}
	elapsed := time.Since(start)
	fmt.Printf("%s queen lookups in %s (%.2f ns/op, checksum %x)\n",
		humanize.Comma(int64(*lookups)), elapsed, float64(elapsed.Nanoseconds())/float64(max(*lookups, 1)), uint64(sink))
	return nil
}

// query is the piece/square/occupancy selection shared by show and render.
type query struct {
	piece    *string
	square   *string
	blockers *string
	occ      *string
	fen      *string
	magics   *string
}

func addQueryFlags(fs *flag.FlagSet) *query {
	return &query{
		piece:    fs.String("piece", "", "piece as a FEN letter, uppercase white (the -fen piece on -square, else Q)"),
		square:   fs.String("square", "d4", "origin square"),
		blockers: fs.String("blockers", "", "comma separated blocker squares, e.g. d6,f4"),
		occ:      fs.String("occ", "", "blocker bitboard as a number, e.g. 0x0008000000000000"),
		fen:      fs.String("fen", "", "position whose pieces are added as blockers"),
		magics:   fs.String("magics", "", "magic set JSON file (built-in set if empty)"),
	}
}

func (q *query) diagram(logger logr.Logger) (render.Diagram, error) {
	var d render.Diagram

	sq, err := board.ParseSquare(strings.ToLower(*q.square))
	if err != nil {
		return d, err
	}
	d.Origin = sq

	var placement *board.Placement
	if *q.fen != "" {
		if placement, err = board.ParsePlacement(*q.fen); err != nil {
			return d, err
		}
		d.Blockers = placement.Occupancy()
	}

	switch {
	case *q.piece != "":
		if len(*q.piece) != 1 {
			return d, fmt.Errorf("invalid piece: %q", *q.piece)
		}
		d.Piece = board.PieceFromChar((*q.piece)[0])
		if d.Piece == board.NoPiece {
			return d, fmt.Errorf("invalid piece: %q", *q.piece)
		}
	case placement != nil && placement[sq] != board.NoPiece:
		d.Piece = placement[sq]
	default:
		d.Piece = board.WhiteQueen
	}

	blockers, err := board.ParseSquares(strings.ToLower(*q.blockers))
	if err != nil {
		return d, err
	}
	d.Blockers |= blockers
	if *q.occ != "" {
		n, err := strconv.ParseUint(*q.occ, 0, 64)
		if err != nil {
			return d, fmt.Errorf("invalid occupancy: %w", err)
		}
		d.Blockers |= board.Bitboard(n)
	}
	d.Blockers = d.Blockers.Clear(d.Origin)

	set, err := loadSet(*q.magics)
	if err != nil {
		return d, err
	}
	tables, err := attacks.New(set, attacks.WithLogger(logger), attacks.WithValidation(*q.magics != ""))
	if err != nil {
		return d, err
	}
	d.Attacks, err = tables.GetAttack(d.Piece, d.Origin, d.Blockers)
	return d, err
}

func runShow(logger logr.Logger, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	q := addQueryFlags(fs)
	fs.Parse(args)

	d, err := q.diagram(logger)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s on %s, blockers %#016x\n", d.Piece.Color(), d.Piece.Type(), d.Origin, uint64(d.Blockers))
	fmt.Print(d.Attacks.String())

	names := make([]string, 0, d.Attacks.PopCount())
	d.Attacks.ForEach(func(sq board.Square) { names = append(names, sq.String()) })
	fmt.Printf("%d squares: %s\n", len(names), strings.Join(names, " "))
	fmt.Printf("bitboard: %#016x\n", uint64(d.Attacks))
	return nil
}

func runRender(logger logr.Logger, args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	q := addQueryFlags(fs)
	out := fs.String("o", "attacks.svg", "output file, .svg or .png")
	size := fs.Int("size", 384, "png width and height in pixels")
	fs.Parse(args)

	ext := strings.ToLower(filepath.Ext(*out))
	if ext != ".png" && ext != ".svg" {
		return fmt.Errorf("unsupported output format %q", filepath.Ext(*out))
	}

	d, err := q.diagram(logger)
	if err != nil {
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	if ext == ".png" {
		err = render.PNG(f, d, *size)
	} else {
		err = render.SVG(f, d, render.Options{Labels: true})
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	logger.Info("diagram written", "file", *out)
	return nil
}

func runHistory(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	dbDir := fs.String("db", "", "report database directory")
	fs.Parse(args)

	store, err := storage.Open(*dbDir)
	if err != nil {
		return err
	}
	defer store.Close()

	reports, err := store.Reports()
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		return errors.New("no reports recorded")
	}

	for _, r := range reports {
		status := "ok"
		if !r.OK() {
			status = fmt.Sprintf("FAIL (%d squares)", len(r.Failures))
		}
		if r.Strict {
			status += " strict"
		}
		fmt.Printf("%016x  %-20s %-14s %s\n", r.Fingerprint, r.Name, humanize.Time(r.CheckedAt), status)
	}
	return nil
}
