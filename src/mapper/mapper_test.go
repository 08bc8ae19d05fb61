package mapper

import (
	"math"
	"testing"

	"trainboard/src/base"
)

func sq(t *testing.T, s string) base.Square {
	t.Helper()
	v, err := base.SquareFromAlgebraic(s)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestSquareAt(t *testing.T) {
	g := Geometry{Size: 800}
	tests := []struct {
		c    base.Coord
		want string
	}{
		{base.Coord{X: 0, Y: 0}, "a8"},
		{base.Coord{X: 799.9, Y: 0}, "h8"},
		{base.Coord{X: 0, Y: 799.9}, "a1"},
		{base.Coord{X: 799.9, Y: 799.9}, "h1"},
		{base.Coord{X: 450, Y: 650}, "e2"},
		{base.Coord{X: 100, Y: 100}, "b7"},
	}
	for _, tt := range tests {
		got, ok := g.SquareAt(tt.c)
		if !ok {
			t.Errorf("%+v: reported off-board", tt.c)
			continue
		}
		if got != sq(t, tt.want) {
			t.Errorf("%+v: got %s want %s", tt.c, got, tt.want)
		}
	}
}

func TestSquareAtFlipped(t *testing.T) {
	g := Geometry{Size: 800, Flipped: true}
	got, ok := g.SquareAt(base.Coord{X: 0, Y: 0})
	if !ok || got != sq(t, "h1") {
		t.Errorf("top-left flipped: %s %v", got, ok)
	}
	got, ok = g.SquareAt(base.Coord{X: 799, Y: 799})
	if !ok || got != sq(t, "a8") {
		t.Errorf("bottom-right flipped: %s %v", got, ok)
	}
}

func TestSquareAtOffBoard(t *testing.T) {
	g := Geometry{Size: 800}
	for _, c := range []base.Coord{
		{X: -0.1, Y: 10},
		{X: 10, Y: -1},
		{X: 800, Y: 10},
		{X: 10, Y: 800},
		{X: math.NaN(), Y: 10},
	} {
		if s, ok := g.SquareAt(c); ok || s != base.NoSquare {
			t.Errorf("%+v: expected off-board, got %s", c, s)
		}
	}
	if _, ok := (Geometry{}).SquareAt(base.Coord{}); ok {
		t.Error("zero-size board must be off-board everywhere")
	}
}

func TestOriginRoundTrip(t *testing.T) {
	for _, flipped := range []bool{false, true} {
		g := Geometry{Size: 640, Flipped: flipped}
		for i := 0; i < 64; i++ {
			s := base.Square(i)
			got, ok := g.SquareAt(g.SquareCenter(s))
			if !ok || got != s {
				t.Fatalf("flipped=%v %s: center maps to %s", flipped, s, got)
			}
			got, ok = g.SquareAt(g.SquareOrigin(s))
			if !ok || got != s {
				t.Fatalf("flipped=%v %s: origin maps to %s", flipped, s, got)
			}
		}
	}
}
