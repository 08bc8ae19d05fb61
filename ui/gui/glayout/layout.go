// Package glayout places the board, side panel and promotion popup in window pixels.
package glayout

import (
	"trainboard/src/base"
	"trainboard/src/mapper"
)

const (
	PanelW   = 180
	MinBoard = 160
)

type Rect struct {
	X, Y, W, H int
}

func (r Rect) Contains(px, py int) bool {
	return px >= r.X && px < r.X+r.W && py >= r.Y && py < r.Y+r.H
}

type Layout struct {
	Board Rect
	Panel Rect
}

// Compute fits the largest board that leaves room for the side panel,
// capped at maxBoard when it is positive.
func Compute(winW, winH, maxBoard int) Layout {
	size := winW - PanelW - 60
	if size > winH-60 {
		size = winH - 60
	}
	if maxBoard > 0 && size > maxBoard {
		size = maxBoard
	}
	if size < MinBoard {
		size = MinBoard
	}
	size -= size % 8

	x := (winW - PanelW - size) / 2
	if x < 20 {
		x = 20
	}
	y := (winH - size) / 2
	if y < 20 {
		y = 20
	}
	return Layout{
		Board: Rect{X: x, Y: y, W: size, H: size},
		Panel: Rect{X: x + size + 30, Y: y, W: PanelW, H: size},
	}
}

func (l Layout) Geometry(flipped bool) mapper.Geometry {
	return mapper.Geometry{Size: float64(l.Board.W), Flipped: flipped}
}

// Local converts window pixels to an offset from the board's top-left corner.
func (l Layout) Local(px, py int) base.Coord {
	return base.Coord{X: float64(px - l.Board.X), Y: float64(py - l.Board.Y)}
}

// Screen converts a board offset back to window pixels.
func (l Layout) Screen(c base.Coord) (float64, float64) {
	return c.X + float64(l.Board.X), c.Y + float64(l.Board.Y)
}

// PromotionTiles stacks the four choices in the destination's column, growing
// from the destination toward the middle of the board.
func (l Layout) PromotionTiles(g mapper.Geometry, dest base.Square) [4]Rect {
	var tiles [4]Rect
	sq := int(g.SquareSize())
	o := g.SquareOrigin(dest)
	x := l.Board.X + int(o.X)
	y := l.Board.Y + int(o.Y)
	step := sq
	if int(o.Y) >= l.Board.H/2 {
		step = -sq
	}
	for i := range tiles {
		tiles[i] = Rect{X: x, Y: y + i*step, W: sq, H: sq}
	}
	return tiles
}
