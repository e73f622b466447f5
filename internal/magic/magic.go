// Package magic holds the magic multipliers and relevant-bit counts the
// slider attack tables are hashed with. The numbers are found offline;
// this package only carries and loads them.
package magic

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/hailam/attacktables/internal/board"
)

// ErrBadLength is returned when a loaded table does not have 64 entries.
var ErrBadLength = errors.New("magic: table must have 64 entries")

// Set is one complete collection of magic data for bishops and rooks.
type Set struct {
	Name         string
	BishopMagics [64]uint64
	RookMagics   [64]uint64
	BishopBits   [64]int
	RookBits     [64]int
}

// Default returns the built-in magic set.
func Default() *Set {
	return &Set{
		Name:         "default",
		BishopMagics: bishopMagicNumbers,
		RookMagics:   rookMagicNumbers,
		BishopBits:   BishopRelevantBits,
		RookBits:     RookRelevantBits,
	}
}

// Numbers returns the multipliers for bishop or rook, nil otherwise.
func (s *Set) Numbers(pt board.PieceType) *[64]uint64 {
	switch pt {
	case board.Bishop:
		return &s.BishopMagics
	case board.Rook:
		return &s.RookMagics
	}
	return nil
}

// Bits returns the relevant-bit counts for bishop or rook, nil otherwise.
func (s *Set) Bits(pt board.PieceType) *[64]int {
	switch pt {
	case board.Bishop:
		return &s.BishopBits
	case board.Rook:
		return &s.RookBits
	}
	return nil
}

// Fingerprint identifies the numeric content of the set. The name is not hashed.
func (s *Set) Fingerprint() uint64 {
	h := xxhash.New()
	var buf [8]byte
	for _, table := range [...]*[64]uint64{&s.BishopMagics, &s.RookMagics} {
		for _, m := range table {
			binary.LittleEndian.PutUint64(buf[:], m)
			h.Write(buf[:])
		}
	}
	for _, table := range [...]*[64]int{&s.BishopBits, &s.RookBits} {
		for _, n := range table {
			h.Write([]byte{byte(n)})
		}
	}
	return h.Sum64()
}

// setFile is the on-disk JSON form. Multipliers are hex strings since
// JSON numbers cannot hold every uint64 exactly.
type setFile struct {
	Name         string   `json:"name"`
	BishopMagics []string `json:"bishop_magics"`
	RookMagics   []string `json:"rook_magics"`
	BishopBits   []int    `json:"bishop_bits,omitempty"`
	RookBits     []int    `json:"rook_bits,omitempty"`
}

// Load reads a Set from JSON. Missing bit arrays fall back to the
// standard relevant-bit counts.
func Load(r io.Reader) (*Set, error) {
	var f setFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("magic: decode: %w", err)
	}

	s := &Set{Name: f.Name, BishopBits: BishopRelevantBits, RookBits: RookRelevantBits}
	if err := parseNumbers("bishop_magics", f.BishopMagics, &s.BishopMagics); err != nil {
		return nil, err
	}
	if err := parseNumbers("rook_magics", f.RookMagics, &s.RookMagics); err != nil {
		return nil, err
	}
	if f.BishopBits != nil {
		if len(f.BishopBits) != 64 {
			return nil, fmt.Errorf("bishop_bits: %w", ErrBadLength)
		}
		copy(s.BishopBits[:], f.BishopBits)
	}
	if f.RookBits != nil {
		if len(f.RookBits) != 64 {
			return nil, fmt.Errorf("rook_bits: %w", ErrBadLength)
		}
		copy(s.RookBits[:], f.RookBits)
	}
	return s, nil
}

func parseNumbers(field string, in []string, out *[64]uint64) error {
	if len(in) != 64 {
		return fmt.Errorf("%s: %w", field, ErrBadLength)
	}
	for i, v := range in {
		n, err := strconv.ParseUint(v, 0, 64)
		if err != nil {
			return fmt.Errorf("%s[%d]: %w", field, i, err)
		}
		out[i] = n
	}
	return nil
}

// Save writes s as JSON in the format Load reads.
func (s *Set) Save(w io.Writer) error {
	f := setFile{
		Name:         s.Name,
		BishopMagics: make([]string, 64),
		RookMagics:   make([]string, 64),
		BishopBits:   s.BishopBits[:],
		RookBits:     s.RookBits[:],
	}
	for i := 0; i < 64; i++ {
		f.BishopMagics[i] = fmt.Sprintf("0x%016X", s.BishopMagics[i])
		f.RookMagics[i] = fmt.Sprintf("0x%016X", s.RookMagics[i])
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&f)
}
