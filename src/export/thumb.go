package export

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"trainboard/src/base"
	"trainboard/src/fen"
	"trainboard/src/mapper"
)

type ThumbOptions struct {
	Size    int // pixels per side, 64 when zero
	Flipped bool
	Light   color.RGBA
	Dark    color.RGBA
	Labels  bool // file and rank letters along the edges
}

var DefaultThumbOptions = ThumbOptions{
	Size:  256,
	Light: color.RGBA{0xf0, 0xd9, 0xb5, 0xff},
	Dark:  color.RGBA{0xb5, 0x88, 0x63, 0xff},
}

// RenderThumbnail writes a PNG picture of the position in fenStr to w.
func RenderThumbnail(w io.Writer, fenStr string, opts ThumbOptions) error {
	pl, err := fen.Parse(fenStr)
	if err != nil {
		return err
	}
	img := drawBoard(&pl.Mailbox, opts)
	if err := img.EncodePNG(w); err != nil {
		return fmt.Errorf("encode thumbnail: %w", err)
	}
	return nil
}

func drawBoard(mb *base.Mailbox, opts ThumbOptions) *gg.Context {
	size := opts.Size
	if size <= 0 {
		size = 64
	}
	if opts.Light.A == 0 && opts.Dark.A == 0 {
		opts.Light, opts.Dark = DefaultThumbOptions.Light, DefaultThumbOptions.Dark
	}
	geom := mapper.Geometry{Size: float64(size), Flipped: opts.Flipped}
	sq := geom.SquareSize()

	dc := gg.NewContext(size, size)
	dc.SetFontFace(basicfont.Face7x13)
	for s := range base.Square(64) {
		o := geom.SquareOrigin(s)
		if (s.File()+s.Rank())%2 == 0 {
			setRGBA(dc, opts.Dark)
		} else {
			setRGBA(dc, opts.Light)
		}
		dc.DrawRectangle(o.X, o.Y, sq, sq)
		dc.Fill()

		pc := base.GetPieceAt(mb, s)
		if !pc.IsPiece() {
			continue
		}
		c := geom.SquareCenter(s)
		drawPiece(dc, pc, c, sq)
	}

	if opts.Labels {
		dc.SetRGB(0.2, 0.2, 0.2)
		for i := 0; i < 8; i++ {
			fileSq := base.NewSquare(i, 0)
			if opts.Flipped {
				fileSq = base.NewSquare(i, 7)
			}
			o := geom.SquareOrigin(fileSq)
			dc.DrawStringAnchored(string(rune('a'+i)), o.X+sq-2, o.Y+sq-2, 1, 0)

			rankSq := base.NewSquare(0, i)
			if opts.Flipped {
				rankSq = base.NewSquare(7, i)
			}
			o = geom.SquareOrigin(rankSq)
			dc.DrawStringAnchored(string(rune('1'+i)), o.X+2, o.Y+2, 0, 1)
		}
	}
	return dc
}

func drawPiece(dc *gg.Context, pc base.Piece, c base.Coord, sq float64) {
	r := sq * 0.38
	if pc.Side() == base.White {
		dc.SetRGB(1, 1, 1)
	} else {
		dc.SetRGB(0.1, 0.1, 0.1)
	}
	dc.DrawCircle(c.X, c.Y, r)
	dc.FillPreserve()
	dc.SetRGB(0.3, 0.3, 0.3)
	dc.SetLineWidth(1)
	dc.Stroke()

	if r < 5 {
		return
	}
	if pc.Side() == base.White {
		dc.SetRGB(0, 0, 0)
	} else {
		dc.SetRGB(1, 1, 1)
	}
	dc.DrawStringAnchored(strings.ToUpper(string(pc.Kind().Letter())), c.X, c.Y, 0.5, 0.35)
}

// PieceImage draws pc alone on a transparent square of size pixels.
func PieceImage(pc base.Piece, size int) image.Image {
	dc := gg.NewContext(size, size)
	dc.SetFontFace(basicfont.Face7x13)
	half := float64(size) / 2
	drawPiece(dc, pc, base.Coord{X: half, Y: half}, float64(size))
	return dc.Image()
}

func setRGBA(dc *gg.Context, c color.RGBA) {
	dc.SetRGBA255(int(c.R), int(c.G), int(c.B), int(c.A))
}
