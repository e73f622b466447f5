package board

import (
	"strings"
	"testing"
)

func TestSquareAddressing(t *testing.T) {
	tests := []struct {
		sq         Square
		file, rank int
		name       string
	}{
		{A1, 0, 0, "a1"},
		{H1, 7, 0, "h1"},
		{D4, 3, 3, "d4"},
		{A8, 0, 7, "a8"},
		{H8, 7, 7, "h8"},
	}
	for _, tc := range tests {
		if tc.sq.File() != tc.file || tc.sq.Rank() != tc.rank {
			t.Errorf("%s: file %d rank %d, want %d %d", tc.name, tc.sq.File(), tc.sq.Rank(), tc.file, tc.rank)
		}
		if got := NewSquare(tc.file, tc.rank); got != tc.sq {
			t.Errorf("NewSquare(%d, %d) = %d, want %d", tc.file, tc.rank, got, tc.sq)
		}
		if got := tc.sq.String(); got != tc.name {
			t.Errorf("String() = %q, want %q", got, tc.name)
		}
		parsed, err := ParseSquare(tc.name)
		if err != nil || parsed != tc.sq {
			t.Errorf("ParseSquare(%q) = %d, %v", tc.name, parsed, err)
		}
	}

	for _, bad := range []string{"", "i1", "a9", "a0", "e44"} {
		if _, err := ParseSquare(bad); err == nil {
			t.Errorf("ParseSquare(%q) should fail", bad)
		}
	}
	if D4 != 27 {
		t.Errorf("d4 = %d, want 27", D4)
	}
	if NoSquare.IsValid() || !H8.IsValid() {
		t.Error("IsValid boundaries wrong")
	}
}

func TestStepDoesNotWrap(t *testing.T) {
	tests := []struct {
		from Square
		d    Direction
		to   Square
		ok   bool
	}{
		{H1, East, NoSquare, false},
		{A4, West, NoSquare, false},
		{H4, NorthEast, NoSquare, false},
		{A8, North, NoSquare, false},
		{A1, SouthWest, NoSquare, false},
		{D4, NorthWest, C5, true},
		{D4, SouthEast, E3, true},
		{G1, Direction{DFile: 2, DRank: 1}, NoSquare, false},
		{G1, Direction{DFile: 1, DRank: 2}, H3, true},
	}
	for _, tc := range tests {
		to, ok := tc.from.Step(tc.d)
		if to != tc.to || ok != tc.ok {
			t.Errorf("%s.Step(%+v) = %s, %v; want %s, %v", tc.from, tc.d, to, ok, tc.to, tc.ok)
		}
	}
}

func TestDirectionOffsets(t *testing.T) {
	want := map[Direction]int{
		North: 8, South: -8, East: 1, West: -1,
		NorthEast: 9, NorthWest: 7, SouthEast: -7, SouthWest: -9,
	}
	for d, off := range want {
		if d.Offset() != off {
			t.Errorf("%+v.Offset() = %d, want %d", d, d.Offset(), off)
		}
	}
}

func TestBitPrimitives(t *testing.T) {
	var b Bitboard
	b = b.Set(C3).Set(A1).Set(H8)
	if b.PopCount() != 3 {
		t.Errorf("PopCount = %d, want 3", b.PopCount())
	}
	if !b.IsSet(C3) || b.IsSet(C4) {
		t.Error("IsSet wrong")
	}
	if b.LSB() != A1 {
		t.Errorf("LSB = %s, want a1", b.LSB())
	}

	got := b.Squares()
	want := []Square{A1, C3, H8}
	if len(got) != len(want) {
		t.Fatalf("Squares = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Squares[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	sq := b.PopLSB()
	if sq != A1 || b.IsSet(A1) || b.PopCount() != 2 {
		t.Errorf("PopLSB = %s, remaining %#x", sq, uint64(b))
	}
	b = b.Clear(C3).Clear(H8)
	if !b.Empty() {
		t.Errorf("after Clear = %#x, want empty", uint64(b))
	}
	if Empty.LSB() != NoSquare {
		t.Error("LSB of empty board should be NoSquare")
	}
	if !BitboardOf(A1, B2).SubsetOf(FileA | FileB) || BitboardOf(C1).SubsetOf(FileA) {
		t.Error("SubsetOf wrong")
	}
}

func TestParseSquares(t *testing.T) {
	b, err := ParseSquares("d6, f4,,a1")
	if err != nil {
		t.Fatalf("ParseSquares: %v", err)
	}
	if b != BitboardOf(D6, F4, A1) {
		t.Errorf("ParseSquares = %#x", uint64(b))
	}
	if _, err := ParseSquares("d6,z9"); err == nil {
		t.Error("ParseSquares should reject z9")
	}
}

func TestBitboardString(t *testing.T) {
	s := SquareBB(A1).String()
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) != 9 {
		t.Fatalf("got %d lines, want 9", len(lines))
	}
	if lines[7] != "1 1 . . . . . . . " {
		t.Errorf("rank 1 line = %q", lines[7])
	}
	if lines[0] != "8 . . . . . . . . " {
		t.Errorf("rank 8 line = %q", lines[0])
	}
}

func TestPieceEncoding(t *testing.T) {
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			p := NewPiece(pt, c)
			if p.Type() != pt || p.Color() != c {
				t.Errorf("NewPiece(%s, %s) round trips to %s %s", pt, c, p.Type(), p.Color())
			}
			if PieceFromChar(p.String()[0]) != p {
				t.Errorf("PieceFromChar(%q) != %d", p.String(), p)
			}
		}
	}
	if NewPiece(NoPieceType, White) != NoPiece || NoPiece.Type() != NoPieceType {
		t.Error("NoPiece handling wrong")
	}
	if !Queen.IsSlider() || Knight.IsSlider() {
		t.Error("IsSlider wrong")
	}
	if c, err := ParseColor("b"); err != nil || c != Black {
		t.Errorf("ParseColor(b) = %s, %v", c, err)
	}
}

func TestParsePlacement(t *testing.T) {
	p, err := ParsePlacement(StartFEN)
	if err != nil {
		t.Fatalf("ParsePlacement: %v", err)
	}
	if got := p.Occupancy(); got != Rank1|Rank2|Rank7|Rank8 {
		t.Errorf("Occupancy = %#x", uint64(got))
	}
	if got := p.Pieces(WhiteKnight); got != BitboardOf(B1, G1) {
		t.Errorf("white knights = %#x", uint64(got))
	}
	if p[E8] != BlackKing || p[D4] != NoPiece {
		t.Errorf("e8 = %s, d4 = %q", p[E8], p[D4])
	}

	// Placement field alone is enough.
	p, err = ParsePlacement("8/8/8/3r4/8/8/8/8")
	if err != nil {
		t.Fatalf("ParsePlacement: %v", err)
	}
	if p.Occupancy() != SquareBB(D5) {
		t.Errorf("Occupancy = %#x, want d5", uint64(p.Occupancy()))
	}

	for _, bad := range []string{"", "8/8/8", "9/8/8/8/8/8/8/8", "8/8/8/8/8/8/8/7x", "8/8/8/8/8/8/8/7", "8/8/8/8/8/8/8/\u01507"} {
		if _, err := ParsePlacement(bad); err == nil {
			t.Errorf("ParsePlacement(%q) should fail", bad)
		}
	}
}
