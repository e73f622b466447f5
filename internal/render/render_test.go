package render

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/hailam/attacktables/internal/attacks"
	"github.com/hailam/attacktables/internal/board"
)

func rookDiagram() Diagram {
	blockers := board.BitboardOf(board.D6, board.F4)
	return Diagram{
		Piece:    board.WhiteRook,
		Origin:   board.D4,
		Attacks:  attacks.SlidingAttacks(board.Rook, board.D4, blockers),
		Blockers: blockers,
	}
}

func TestSVG(t *testing.T) {
	d := rookDiagram()
	var buf bytes.Buffer
	if err := SVG(&buf, d, Options{Labels: true}); err != nil {
		t.Fatalf("SVG: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "<svg") || !strings.Contains(out, "</svg>") {
		t.Fatalf("not an svg document:\n%s", out)
	}
	if n := strings.Count(out, "<rect"); n != 64 {
		t.Errorf("got %d squares, want 64", n)
	}
	if n := strings.Count(out, "<circle"); n != 2 {
		t.Errorf("got %d blocker marks, want 2", n)
	}
	attacked := strings.Count(out, attackLight) + strings.Count(out, attackDark)
	if attacked != d.Attacks.PopCount() {
		t.Errorf("got %d attacked squares, want %d", attacked, d.Attacks.PopCount())
	}
	if !strings.Contains(out, "Rook on d4") {
		t.Error("missing title")
	}
	if !strings.Contains(out, ">R<") {
		t.Error("missing piece letter")
	}
}

func TestPNG(t *testing.T) {
	const size = 160
	var buf bytes.Buffer
	if err := PNG(&buf, rookDiagram(), size); err != nil {
		t.Fatalf("PNG: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != size || b.Dy() != size {
		t.Fatalf("bounds = %v, want %dx%d", b, size, size)
	}

	// Centre of d4 carries the origin colour (0x7f, 0xa6, 0x50).
	sq := size / 8
	r, g, b, a := img.At(3*sq+sq/2, 4*sq+sq/2).RGBA()
	near := func(got uint32, want uint32) bool {
		d := int(got>>8) - int(want)
		return d > -10 && d < 10
	}
	if !near(r, 0x7f) || !near(g, 0xa6) || !near(b, 0x50) || a>>8 < 0xf0 {
		t.Errorf("d4 pixel = %d,%d,%d,%d", r>>8, g>>8, b>>8, a>>8)
	}

	if err := PNG(&bytes.Buffer{}, rookDiagram(), 4); err == nil {
		t.Error("tiny png should be rejected")
	}
}
