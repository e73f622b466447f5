package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/hailam/attacktables/internal/attacks"
	"github.com/hailam/attacktables/internal/board"
	"github.com/hailam/attacktables/internal/magic"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestReportRoundTrip(t *testing.T) {
	s := openTestStore(t)

	rep, err := attacks.ValidateMagics(magic.Default())
	if err != nil {
		t.Fatalf("ValidateMagics: %v", err)
	}
	if err := s.SaveReport(rep); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	got, err := s.LoadReport(rep.Fingerprint)
	if err != nil {
		t.Fatalf("LoadReport: %v", err)
	}
	if got.Name != rep.Name || got.Fingerprint != rep.Fingerprint || !got.OK() {
		t.Errorf("loaded report = %+v", got)
	}
	if got.Pieces[1].Piece != board.Rook || got.Pieces[1].Slots != 102400 {
		t.Errorf("rook piece report = %+v", got.Pieces[1].Slots)
	}

	ok, err := s.Validated(rep.Fingerprint)
	if err != nil || !ok {
		t.Errorf("Validated = %v, %v; want true", ok, err)
	}
}

func TestMissingReport(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.LoadReport(42); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadReport: err = %v, want ErrNotFound", err)
	}
	ok, err := s.Validated(42)
	if err != nil || ok {
		t.Errorf("Validated = %v, %v; want false, nil", ok, err)
	}
}

func TestFailedReportIsNotValidated(t *testing.T) {
	s := openTestStore(t)

	set := magic.Default()
	set.RookMagics[board.A1] = 0
	rep, err := attacks.ValidateMagics(set)
	if err == nil {
		t.Fatal("broken set should fail validation")
	}
	if err := s.SaveReport(rep); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	ok, err := s.Validated(set.Fingerprint())
	if err != nil || ok {
		t.Errorf("Validated = %v, %v; want false, nil", ok, err)
	}
	got, err := s.LoadReport(set.Fingerprint())
	if err != nil {
		t.Fatalf("LoadReport: %v", err)
	}
	if len(got.Failures) != 1 || got.Failures[0].Square != board.A1 {
		t.Errorf("failures = %+v", got.Failures)
	}
}

func TestReportsNewestFirst(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, name := range []string{"old", "new", "middle"} {
		offset := map[string]time.Duration{"old": 0, "middle": time.Hour, "new": 2 * time.Hour}[name]
		r := &attacks.Report{Name: name, Fingerprint: uint64(i + 1), CheckedAt: base.Add(offset)}
		if err := s.SaveReport(r); err != nil {
			t.Fatalf("SaveReport(%s): %v", name, err)
		}
	}

	reports, err := s.Reports()
	if err != nil {
		t.Fatalf("Reports: %v", err)
	}
	want := []string{"new", "middle", "old"}
	if len(reports) != len(want) {
		t.Fatalf("got %d reports, want %d", len(reports), len(want))
	}
	for i, r := range reports {
		if r.Name != want[i] {
			t.Errorf("reports[%d] = %s, want %s", i, r.Name, want[i])
		}
	}

	if err := s.DeleteReport(2); err != nil {
		t.Fatalf("DeleteReport: %v", err)
	}
	if _, err := s.LoadReport(2); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted report still present: %v", err)
	}
}

func TestOpenDir(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	r := &attacks.Report{Name: "disk", Fingerprint: 7, CheckedAt: time.Now()}
	if err := s.SaveReport(r); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, err := s.LoadReport(7)
	if err != nil || got.Name != "disk" {
		t.Errorf("LoadReport after reopen = %+v, %v", got, err)
	}
}

func TestDataPaths(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	dbDir, err := GetDatabaseDir()
	if err != nil {
		t.Fatalf("GetDatabaseDir failed: %v", err)
	}
	if dbDir == "" {
		t.Error("GetDatabaseDir returned empty path")
	}
}
