package cli

import (
	"bytes"
	"strings"
	"testing"

	"trainboard/src"
	"trainboard/src/base"
	"trainboard/src/conf"
	"trainboard/src/interact"
)

func newTestCLI(t *testing.T) (*CLIProcessing, *bytes.Buffer) {
	t.Helper()
	cfg := conf.Default()
	cfg.JournalPath = ""
	tr, err := src.NewTrainer(cfg, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { tr.Close() })
	var buf bytes.Buffer
	return &CLIProcessing{trainer: tr, draw: PrintState, out: &buf}, &buf
}

func TestGestureCommands(t *testing.T) {
	c, buf := newTestCLI(t)
	b := c.trainer.Board()

	c.Exec("drag e2")
	if st := b.State(); st.Phase != interact.Dragging {
		t.Fatalf("phase = %s", st.Phase)
	}
	if !strings.Contains(buf.String(), "legal: e3 e4") && !strings.Contains(buf.String(), "legal: e4 e3") {
		t.Errorf("legal squares not printed:\n%s", buf.String())
	}
	c.Exec("move 10 20")
	if st := b.State(); st.Dragged.Coord != (base.Coord{X: 10, Y: 20}) {
		t.Errorf("coord = %+v", st.Dragged.Coord)
	}
	c.Exec("drop off")
	if b.State().Phase != interact.Idle {
		t.Fatal("drop off did not cancel")
	}

	c.Exec("drag e2")
	c.Exec("drop e4")
	if b.State().SideToMove != base.Black {
		t.Error("e2e4 not committed")
	}

	buf.Reset()
	c.Exec("e7e6")
	c.Exec("e4e6")
	if !strings.Contains(buf.String(), "Invalid move: e4e6") {
		t.Errorf("illegal move not reported:\n%s", buf.String())
	}
	if c.Exec("q") != true {
		t.Error("q must quit")
	}
}

func TestPromotionCommands(t *testing.T) {
	c, buf := newTestCLI(t)
	b := c.trainer.Board()

	c.Exec("fen 4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	c.Exec("a7a8")
	if b.State().Phase != interact.PromotionPending {
		t.Fatal("no pending promotion")
	}
	c.Exec("promote k")
	if !strings.Contains(buf.String(), "promote takes one of") {
		t.Error("bad promotion letter not reported")
	}
	c.Exec("abandon")
	if b.State().Phase != interact.Idle {
		t.Fatal("abandon did not clear the promotion")
	}

	c.Exec("a7a8n")
	sq, _ := base.SquareFromAlgebraic("a8")
	if b.State().PieceAt(sq) != base.WKnight {
		t.Error("a7a8n did not make a knight")
	}

	buf.Reset()
	c.Exec("fen garbage")
	if !strings.Contains(buf.String(), "error load FEN") {
		t.Error("bad fen not reported")
	}
}

func TestFlip(t *testing.T) {
	c, buf := newTestCLI(t)
	c.Exec("flip")
	if !c.trainer.Board().Geometry().Flipped {
		t.Fatal("geometry not flipped")
	}
	if !strings.Contains(buf.String(), "h  g  f  e  d  c  b  a") {
		t.Error("board not drawn flipped")
	}
	c.Exec("g8f6")
	c.Exec("g1f3")
	sq, _ := base.SquareFromAlgebraic("f3")
	if c.trainer.Board().State().PieceAt(sq) != base.WKnight {
		t.Error("move through flipped geometry failed")
	}
}
