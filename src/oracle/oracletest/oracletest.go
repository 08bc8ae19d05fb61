// Package oracletest holds the behaviour every oracle.Oracle adapter must share.
package oracletest

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"trainboard/src/base"
	"trainboard/src/oracle"
)

const startPlacement = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"

const (
	// white pawn on a7, kings out of the way
	PromotionFEN = "4k3/P7/8/8/8/8/8/4K3 w - - 0 1"
	// black pawn on h2
	BlackPromotionFEN = "4k3/8/8/8/8/8/7p/K7 b - - 0 1"
	// white king on e1 pinned-rook scenario: rook e2 can only move along the e-file
	PinnedFEN = "4r1k1/8/8/8/8/8/4R3/4K3 w - - 0 1"
)

func Sq(t testing.TB, s string) base.Square {
	t.Helper()
	v, err := base.SquareFromAlgebraic(s)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func Squares(t testing.TB, names ...string) []base.Square {
	t.Helper()
	out := make([]base.Square, 0, len(names))
	for _, n := range names {
		out = append(out, Sq(t, n))
	}
	slices.Sort(out)
	return out
}

func MustParse(t testing.TB, o oracle.Oracle, s string) oracle.Position {
	t.Helper()
	p, err := o.Parse(s)
	if err != nil {
		t.Fatalf("%s: parse %q: %v", o.Name(), s, err)
	}
	return p
}

// Run checks o against the shared expectations.
func Run(t *testing.T, o oracle.Oracle) {
	t.Run("ParseRejectsGarbage", func(t *testing.T) {
		for _, s := range []string{"", "hello", "8/8/8/8/8/8/8/8 w - - 0 1"} {
			_, err := o.Parse(s)
			var pe *oracle.ParseError
			if !errors.As(err, &pe) {
				t.Errorf("%q: expected *ParseError, got %v", s, err)
			}
		}
	})

	t.Run("StartPosition", func(t *testing.T) {
		pos := MustParse(t, o, base.FEN_START_GAME)
		if o.SideToMove(pos) != base.White {
			t.Error("white to move")
		}
		if got := o.PieceAt(pos, Sq(t, "e1")); got != base.WKing {
			t.Errorf("e1 = %v", got)
		}
		if got := o.PieceAt(pos, Sq(t, "d8")); got != base.BQueen {
			t.Errorf("d8 = %v", got)
		}
		if got := o.PieceAt(pos, Sq(t, "e4")); got != base.EmptyPiece {
			t.Errorf("e4 = %v", got)
		}
		if f := strings.Fields(pos.String()); len(f) < 2 || f[0] != startPlacement || f[1] != "w" {
			t.Errorf("fen %q", pos.String())
		}
	})

	t.Run("PawnDestinations", func(t *testing.T) {
		pos := MustParse(t, o, base.FEN_START_GAME)
		got, err := o.LegalDestinations(pos, Sq(t, "e2"))
		if err != nil {
			t.Fatal(err)
		}
		slices.Sort(got)
		if want := Squares(t, "e3", "e4"); !slices.Equal(got, want) {
			t.Errorf("e2: got %v want %v", got, want)
		}
		got, err = o.LegalDestinations(pos, Sq(t, "g1"))
		if err != nil {
			t.Fatal(err)
		}
		slices.Sort(got)
		if want := Squares(t, "f3", "h3"); !slices.Equal(got, want) {
			t.Errorf("g1: got %v want %v", got, want)
		}
		got, _ = o.LegalDestinations(pos, Sq(t, "e7"))
		if len(got) != 0 {
			t.Errorf("opponent pawn must have no moves, got %v", got)
		}
	})

	t.Run("PinnedPiece", func(t *testing.T) {
		pos := MustParse(t, o, PinnedFEN)
		got, err := o.LegalDestinations(pos, Sq(t, "e2"))
		if err != nil {
			t.Fatal(err)
		}
		slices.Sort(got)
		if want := Squares(t, "e3", "e4", "e5", "e6", "e7", "e8"); !slices.Equal(got, want) {
			t.Errorf("pinned rook: got %v want %v", got, want)
		}
	})

	t.Run("ApplyMove", func(t *testing.T) {
		pos := MustParse(t, o, base.FEN_START_GAME)
		next, err := o.Apply(pos, base.Move{From: Sq(t, "e2"), To: Sq(t, "e4")})
		if err != nil {
			t.Fatal(err)
		}
		if o.PieceAt(next, Sq(t, "e4")) != base.WPawn || o.PieceAt(next, Sq(t, "e2")) != base.EmptyPiece {
			t.Error("pawn did not move")
		}
		if o.SideToMove(next) != base.Black {
			t.Error("black to move after e4")
		}
		// original untouched
		if o.PieceAt(pos, Sq(t, "e2")) != base.WPawn || o.SideToMove(pos) != base.White {
			t.Error("apply mutated its input")
		}
	})

	t.Run("PromotionDeduplicated", func(t *testing.T) {
		pos := MustParse(t, o, PromotionFEN)
		got, err := o.LegalDestinations(pos, Sq(t, "a7"))
		if err != nil {
			t.Fatal(err)
		}
		if want := Squares(t, "a8"); !slices.Equal(got, want) {
			t.Errorf("a7: got %v want %v", got, want)
		}
		for _, k := range base.PromotionKinds {
			next, err := o.Apply(pos, base.Move{From: Sq(t, "a7"), To: Sq(t, "a8"), Promo: k})
			if err != nil {
				t.Fatalf("%s: %v", k, err)
			}
			if got := o.PieceAt(next, Sq(t, "a8")); got != base.PieceOf(base.White, k) {
				t.Errorf("promote %s: a8 = %v", k, got)
			}
		}
	})

	t.Run("BlackPromotion", func(t *testing.T) {
		pos := MustParse(t, o, BlackPromotionFEN)
		next, err := o.Apply(pos, base.Move{From: Sq(t, "h2"), To: Sq(t, "h1"), Promo: base.Rook})
		if err != nil {
			t.Fatal(err)
		}
		if got := o.PieceAt(next, Sq(t, "h1")); got != base.BRook {
			t.Errorf("h1 = %v", got)
		}
	})

	t.Run("IllegalApply", func(t *testing.T) {
		pos := MustParse(t, o, base.FEN_START_GAME)
		if _, err := o.Apply(pos, base.Move{From: Sq(t, "e2"), To: Sq(t, "e5")}); err == nil {
			t.Error("expected error for e2e5")
		}
	})

	t.Run("ForeignPosition", func(t *testing.T) {
		if _, err := o.LegalDestinations(foreign{}, Sq(t, "e2")); !errors.Is(err, oracle.ErrForeignPosition) {
			t.Errorf("expected ErrForeignPosition, got %v", err)
		}
		if o.PieceAt(foreign{}, Sq(t, "e2")) != base.InvalidPiece {
			t.Error("foreign position must read as invalid")
		}
	})
}

type foreign struct{}

func (foreign) String() string { return "" }
