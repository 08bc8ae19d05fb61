// Package ginput routes window pointer and key events to the interaction board.
package ginput

import (
	"trainboard/src/base"
	"trainboard/src/interact"
	"trainboard/ui/gui/glayout"
)

type Router struct {
	board   *interact.Board
	layout  glayout.Layout
	flipped bool

	down bool
	last base.Coord
}

func NewRouter(b *interact.Board, l glayout.Layout, flipped bool) *Router {
	r := &Router{board: b}
	r.SetLayout(l, flipped)
	return r
}

// SetLayout follows window resizes and board flips.
func (r *Router) SetLayout(l glayout.Layout, flipped bool) {
	r.layout = l
	r.flipped = flipped
	r.board.SetGeometry(l.Geometry(flipped))
}

func (r *Router) Layout() glayout.Layout { return r.layout }

func (r *Router) Flipped() bool { return r.flipped }

// Dragging reports whether a press is being tracked.
func (r *Router) Dragging() bool { return r.down }

// Press handles a button or touch going down and reports whether the board
// took it. A press on a promotion tile resolves the promotion.
func (r *Router) Press(px, py int) bool {
	if st := r.board.State(); st.Promotion != nil {
		tiles := r.layout.PromotionTiles(r.layout.Geometry(r.flipped), st.Promotion.Destination)
		for i, t := range tiles {
			if t.Contains(px, py) {
				r.board.ResolvePromotion(base.PromotionKinds[i])
				return true
			}
		}
	}
	if !r.layout.Board.Contains(px, py) {
		return false
	}
	r.down = true
	r.last = r.layout.Local(px, py)
	r.board.BeginDragAt(r.last)
	return true
}

func (r *Router) Move(px, py int) {
	if !r.down {
		return
	}
	c := r.layout.Local(px, py)
	if c == r.last {
		return
	}
	r.last = c
	r.board.UpdateDrag(c)
}

// Release drops the piece under px, py. Off-board points cancel the drop.
func (r *Router) Release(px, py int) {
	if !r.down {
		return
	}
	r.down = false
	r.board.EndDrag(r.layout.Local(px, py))
}

// Cancel backs out of whatever is open: the promotion choice first, then the drag.
func (r *Router) Cancel() {
	r.down = false
	if r.board.State().Promotion != nil {
		r.board.CancelPromotion()
		return
	}
	r.board.CancelDrag()
}

// Choose resolves a pending promotion from a key press.
func (r *Router) Choose(k base.Kind) {
	r.board.ResolvePromotion(k)
}
