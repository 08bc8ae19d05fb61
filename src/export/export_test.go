package export

import (
	"bytes"
	"errors"
	"image/png"
	"strings"
	"testing"

	"trainboard/src/base"
)

func TestMovesToPosition(t *testing.T) {
	tests := []struct {
		name  string
		moves []string
		want  string // placement and side
	}{
		{"empty", nil, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w"},
		{"san", []string{"e4", "e5", "Nf3"}, "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b"},
		{"uci", []string{"e2e4", "e7e5", "g1f3"}, "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b"},
		{"mixed with numbers", []string{"1.e4", "e7e5", "2.Nf3", "*"}, "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b"},
		{"castle", []string{"e4", "e5", "Nf3", "Nc6", "Bc4", "Bc5", "O-O"}, "r1bqk1nr/pppp1ppp/2n5/2b1p3/2B1P3/5N2/PPPP1PPP/RNBQ1RK1 b"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MovesToPosition(tc.moves)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.HasPrefix(got, tc.want+" ") {
				t.Errorf("got %q, want prefix %q", got, tc.want)
			}
		})
	}
}

func TestMovesToPositionFromPromotion(t *testing.T) {
	start := "4k3/P7/8/8/8/8/8/4K3 w - - 0 1"
	for _, mv := range []string{"a8=N", "a7a8n"} {
		got, err := MovesToPositionFrom(start, []string{mv})
		if err != nil {
			t.Fatalf("%s: %v", mv, err)
		}
		if !strings.HasPrefix(got, "N3k3/8/") {
			t.Errorf("%s: got %q", mv, got)
		}
	}
}

func TestMovesToPositionErrors(t *testing.T) {
	for _, moves := range [][]string{{"e5"}, {"e2e5"}, {"e4", "Ke3"}, {"zz"}} {
		_, err := MovesToPosition(moves)
		if !errors.Is(err, ErrBadMove) {
			t.Errorf("%v: expected ErrBadMove, got %v", moves, err)
		}
	}
	if _, err := MovesToPositionFrom("nonsense", nil); err == nil {
		t.Error("bad start accepted")
	}
}

func TestRenderThumbnail(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultThumbOptions
	opts.Size = 128
	opts.Labels = true
	if err := RenderThumbnail(&buf, base.FEN_START_GAME, opts); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 128 || b.Dy() != 128 {
		t.Errorf("bounds = %v", b)
	}

	// e4 is empty and light
	r, g, b, _ := img.At(4*16+2, 4*16+8).RGBA()
	if uint8(r>>8) != opts.Light.R || uint8(g>>8) != opts.Light.G || uint8(b>>8) != opts.Light.B {
		t.Errorf("e4 pixel = %d %d %d", r>>8, g>>8, b>>8)
	}

	if err := RenderThumbnail(&buf, "8/8 w", ThumbOptions{}); err == nil {
		t.Error("bad fen accepted")
	}
}

func TestPieceImage(t *testing.T) {
	img := PieceImage(base.BQueen, 60)
	if b := img.Bounds(); b.Dx() != 60 {
		t.Fatalf("bounds = %v", b)
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Error("corner should stay transparent")
	}
	if _, _, _, a := img.At(30, 10).RGBA(); a == 0 {
		t.Error("disc not drawn")
	}
}
