package magic

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/hailam/attacktables/internal/board"
)

func TestDefaultTables(t *testing.T) {
	s := Default()
	if s.Numbers(board.Bishop)[0] != 0x0002020202020200 {
		t.Errorf("bishop a1 magic = %#x", s.Numbers(board.Bishop)[0])
	}
	if s.Bits(board.Rook)[board.A1] != 12 || s.Bits(board.Bishop)[board.D4] != 9 {
		t.Error("relevant bit counts wrong")
	}
	if s.Numbers(board.Knight) != nil || s.Bits(board.Queen) != nil {
		t.Error("non magic pieces should have no tables")
	}

	// Default hands out copies.
	s.RookMagics[0] = 0
	if Default().RookMagics[0] == 0 {
		t.Error("Default() shares state between calls")
	}
}

func TestFingerprint(t *testing.T) {
	a, b := Default(), Default()
	b.Name = "renamed"
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("fingerprint should ignore the name")
	}
	b.BishopMagics[10]++
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("fingerprint should change with the numbers")
	}
	c := Default()
	c.RookBits[5]--
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("fingerprint should change with the bit counts")
	}
}

func TestSaveLoad(t *testing.T) {
	s := Default()
	s.Name = "custom"
	s.RookMagics[63] = 0xFFFFFFFFFFFFFFFF

	var buf bytes.Buffer
	if err := s.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(&buf)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *s {
		t.Errorf("Load(Save(s)) differs from s")
	}
}

func TestLoadDefaultsBits(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`{"name":"nobits","bishop_magics":[`)
	for i := 0; i < 64; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`"0x1"`)
	}
	sb.WriteString(`],"rook_magics":[`)
	for i := 0; i < 64; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`"42"`)
	}
	sb.WriteString(`]}`)

	s, err := Load(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.BishopBits != BishopRelevantBits || s.RookBits != RookRelevantBits {
		t.Error("missing bit arrays should default to the standard counts")
	}
	if s.BishopMagics[7] != 1 || s.RookMagics[7] != 42 {
		t.Errorf("parsed magics = %#x, %#x", s.BishopMagics[7], s.RookMagics[7])
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		is    error
	}{
		{"short bishop table", `{"bishop_magics":["0x1"],"rook_magics":[]}`, ErrBadLength},
		{"not json", `{`, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tc.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.is != nil && !errors.Is(err, tc.is) {
				t.Errorf("err = %v, want %v", err, tc.is)
			}
		})
	}
}
