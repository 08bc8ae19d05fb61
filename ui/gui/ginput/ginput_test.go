package ginput

import (
	"testing"

	"trainboard/src/base"
	"trainboard/src/interact"
	"trainboard/src/oracle/notnil"
	"trainboard/ui/gui/glayout"
)

const promoFEN = "8/P7/8/8/8/8/8/k6K w - - 0 1"

func newRouter(t *testing.T, fen string, flipped bool) (*Router, *interact.Board) {
	t.Helper()
	b, err := interact.NewBoard(notnil.New(), fen)
	if err != nil {
		t.Fatalf("new board: %v", err)
	}
	return NewRouter(b, glayout.Compute(1000, 720, 640), flipped), b
}

func screen(t *testing.T, r *Router, name string) (int, int) {
	t.Helper()
	sq, err := base.SquareFromAlgebraic(name)
	if err != nil {
		t.Fatal(err)
	}
	l := r.Layout()
	x, y := l.Screen(l.Geometry(r.Flipped()).SquareCenter(sq))
	return int(x), int(y)
}

func piece(t *testing.T, b *interact.Board, name string) base.Piece {
	t.Helper()
	sq, _ := base.SquareFromAlgebraic(name)
	return b.State().PieceAt(sq)
}

func TestDragAndDrop(t *testing.T) {
	for _, flipped := range []bool{false, true} {
		r, b := newRouter(t, base.FEN_START_GAME, flipped)

		if !r.Press(screen(t, r, "e2")) {
			t.Fatalf("flipped=%v: press on e2 not taken", flipped)
		}
		r.Move(screen(t, r, "e3"))
		if st := b.State(); st.Phase != interact.Dragging || !st.IsLegal(base.NewSquare(4, 3)) {
			t.Fatalf("flipped=%v: state %v legal %v", flipped, st.Phase, st.Legal)
		}
		r.Release(screen(t, r, "e4"))

		if got := piece(t, b, "e4"); got != base.WPawn {
			t.Errorf("flipped=%v: e4 = %v", flipped, got)
		}
		if r.Dragging() {
			t.Errorf("flipped=%v: still tracking a press", flipped)
		}
	}
}

func TestPressOutsideBoard(t *testing.T) {
	r, b := newRouter(t, base.FEN_START_GAME, false)
	l := r.Layout()
	if r.Press(l.Panel.X+5, l.Panel.Y+5) {
		t.Error("press on the panel taken by the board")
	}
	r.Release(l.Panel.X+5, l.Panel.Y+5)
	if b.State().Phase != interact.Idle {
		t.Errorf("phase = %v", b.State().Phase)
	}
}

func TestReleaseOffBoardPutsPieceBack(t *testing.T) {
	r, b := newRouter(t, base.FEN_START_GAME, false)
	r.Press(screen(t, r, "g1"))
	l := r.Layout()
	r.Release(l.Board.X-30, l.Board.Y)

	if st := b.State(); st.Phase != interact.Idle || piece(t, b, "g1") != base.WKnight {
		t.Errorf("phase %v position %s", st.Phase, st.Position)
	}
}

func TestPromotionTileResolves(t *testing.T) {
	r, b := newRouter(t, promoFEN, false)
	r.Press(screen(t, r, "a7"))
	r.Release(screen(t, r, "a8"))
	if b.State().Phase != interact.PromotionPending {
		t.Fatalf("phase = %v", b.State().Phase)
	}

	// second tile from the top edge is the rook
	if !r.Press(screen(t, r, "a7")) {
		t.Fatal("tile press not taken")
	}
	if got := piece(t, b, "a8"); got != base.WRook {
		t.Errorf("a8 = %v", got)
	}
	if b.State().Phase != interact.Idle {
		t.Errorf("phase = %v", b.State().Phase)
	}
}

func TestCancelAndChoose(t *testing.T) {
	r, b := newRouter(t, promoFEN, false)
	r.Press(screen(t, r, "a7"))
	r.Cancel()
	if st := b.State(); st.Phase != interact.Idle || piece(t, b, "a7") != base.WPawn {
		t.Fatalf("cancel drag: phase %v", st.Phase)
	}

	r.Press(screen(t, r, "a7"))
	r.Release(screen(t, r, "a8"))
	r.Cancel()
	if st := b.State(); st.Phase != interact.Idle || piece(t, b, "a7") != base.WPawn {
		t.Fatalf("cancel promotion: phase %v", st.Phase)
	}

	r.Press(screen(t, r, "a7"))
	r.Release(screen(t, r, "a8"))
	r.Choose(base.Knight)
	if got := piece(t, b, "a8"); got != base.WKnight {
		t.Errorf("a8 = %v", got)
	}
}
