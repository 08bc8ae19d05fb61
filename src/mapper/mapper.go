// Package mapper converts pointer offsets inside a board view to squares and back.
package mapper

import (
	"math"

	"trainboard/src/base"
)

// Geometry describes a square board of Size pixels. Unflipped, rank 8 is at the
// top and file a at the left.
type Geometry struct {
	Size    float64
	Flipped bool
}

func (g Geometry) SquareSize() float64 {
	return g.Size / 8
}

// SquareAt returns the square under c, or false when c is off the board.
func (g Geometry) SquareAt(c base.Coord) (base.Square, bool) {
	if !(g.Size > 0) || math.IsNaN(c.X) || math.IsNaN(c.Y) {
		return base.NoSquare, false
	}
	if c.X < 0 || c.Y < 0 || c.X >= g.Size || c.Y >= g.Size {
		return base.NoSquare, false
	}

	sq := g.SquareSize()
	col := int(c.X / sq)
	row := int(c.Y / sq)
	// float rounding at the far edge
	if col > 7 {
		col = 7
	}
	if row > 7 {
		row = 7
	}

	file, rank := col, 7-row
	if g.Flipped {
		file, rank = 7-col, row
	}
	return base.NewSquare(file, rank), true
}

// SquareOrigin is the top-left pixel of sq.
func (g Geometry) SquareOrigin(sq base.Square) base.Coord {
	col, row := sq.File(), 7-sq.Rank()
	if g.Flipped {
		col, row = 7-sq.File(), sq.Rank()
	}
	s := g.SquareSize()
	return base.Coord{X: float64(col) * s, Y: float64(row) * s}
}

func (g Geometry) SquareCenter(sq base.Square) base.Coord {
	o := g.SquareOrigin(sq)
	h := g.SquareSize() / 2
	return base.Coord{X: o.X + h, Y: o.Y + h}
}
