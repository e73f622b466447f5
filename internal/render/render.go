// Package render draws attack bitboards as board diagrams.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	svg "github.com/ajstarks/svgo"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"

	"github.com/hailam/attacktables/internal/board"
)

// Square fills. Attacked and origin squares keep a light/dark pair so the
// board pattern stays visible.
const (
	lightFill    = "#f0d9b5"
	darkFill     = "#b58863"
	attackLight  = "#f2a488"
	attackDark   = "#cc6f52"
	originFill   = "#7fa650"
	blockerStyle = "fill:none;stroke:#1d3557;stroke-width:%d"
)

const (
	defaultSquareSize = 48
	labelMargin       = 20
	renderScale       = 3 // Render PNGs at 3x and scale down for smooth edges
)

// Diagram is one attack query to draw.
type Diagram struct {
	Piece    board.Piece
	Origin   board.Square
	Attacks  board.Bitboard
	Blockers board.Bitboard
}

// Options controls SVG output.
type Options struct {
	SquareSize int  // Pixels per square, 48 if zero
	Labels     bool // Draw file/rank coordinates and the piece letter
}

// SVG writes d as an SVG document, rank 8 at the top.
func SVG(w io.Writer, d Diagram, opts Options) error {
	size := opts.SquareSize
	if size <= 0 {
		size = defaultSquareSize
	}
	margin := 0
	if opts.Labels {
		margin = labelMargin
	}
	width := 8*size + margin

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Startview(width, width, 0, 0, width, width)
	canvas.Title(fmt.Sprintf("%s on %s", d.Piece.Type(), d.Origin))

	canvas.Gid("squares")
	for sq := board.A1; sq <= board.H8; sq++ {
		x, y := squareXY(sq, size, margin)
		canvas.Rect(x, y, size, size, "fill:"+fill(sq, d))
	}
	canvas.Gend()

	canvas.Gid("blockers")
	d.Blockers.ForEach(func(sq board.Square) {
		x, y := squareXY(sq, size, margin)
		canvas.Circle(x+size/2, y+size/2, size*3/8, fmt.Sprintf(blockerStyle, max(size/16, 1)))
	})
	canvas.Gend()

	if opts.Labels {
		font := fmt.Sprintf("font-family:sans-serif;font-size:%dpx;text-anchor:middle", labelMargin*3/5)
		for i := 0; i < 8; i++ {
			canvas.Text(margin+i*size+size/2, 8*size+labelMargin*3/4, string(rune('a'+i)), font)
			canvas.Text(labelMargin/2, (7-i)*size+size/2+labelMargin/4, string(rune('1'+i)), font)
		}
		if d.Piece < board.NoPiece {
			x, y := squareXY(d.Origin, size, margin)
			canvas.Text(x+size/2, y+size*2/3, d.Piece.String(),
				fmt.Sprintf("font-family:sans-serif;font-size:%dpx;font-weight:bold;text-anchor:middle", size/2))
		}
	}

	canvas.End()
	_, err := buf.WriteTo(w)
	return err
}

func squareXY(sq board.Square, size, margin int) (int, int) {
	return margin + sq.File()*size, (7 - sq.Rank()) * size
}

func fill(sq board.Square, d Diagram) string {
	light := (sq.File()+sq.Rank())%2 == 1
	switch {
	case sq == d.Origin:
		return originFill
	case d.Attacks.IsSet(sq) && light:
		return attackLight
	case d.Attacks.IsSet(sq):
		return attackDark
	case light:
		return lightFill
	default:
		return darkFill
	}
}

// PNG rasterizes d to a size x size PNG without labels.
func PNG(w io.Writer, d Diagram, size int) error {
	if size < 8 {
		return fmt.Errorf("render: png size %d too small", size)
	}

	var doc bytes.Buffer
	if err := SVG(&doc, d, Options{}); err != nil {
		return err
	}

	icon, err := oksvg.ReadIconStream(&doc, oksvg.IgnoreErrorMode)
	if err != nil {
		return fmt.Errorf("render: parse svg: %w", err)
	}

	// Render at higher resolution for better quality when scaled
	renderSize := size * renderScale
	icon.SetTarget(0, 0, float64(renderSize), float64(renderSize))

	rgba := image.NewRGBA(image.Rect(0, 0, renderSize, renderSize))
	scanner := rasterx.NewScannerGV(renderSize, renderSize, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(renderSize, renderSize, scanner)
	icon.Draw(raster, 1.0)

	out := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(out, out.Bounds(), rgba, rgba.Bounds(), draw.Over, nil)
	return png.Encode(w, out)
}
