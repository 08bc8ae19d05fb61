package ghelper

import (
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/hajimehoshi/ebiten/v2"
)

func RenderRoundedRect(w, h, radius int, fill color.RGBA, stroke color.RGBA, strokeW float64) *ebiten.Image {
	dc := gg.NewContext(w, h)
	dc.SetRGBA255(int(fill.R), int(fill.G), int(fill.B), int(fill.A))
	dc.DrawRoundedRectangle(0, 0, float64(w), float64(h), float64(radius))
	dc.FillPreserve()
	dc.SetRGBA255(int(stroke.R), int(stroke.G), int(stroke.B), int(stroke.A))
	dc.SetLineWidth(strokeW)
	dc.Stroke()
	return ebiten.NewImageFromImage(dc.Image())
}

// RenderDot is a filled circle of diameter d, used for legal-move markers.
func RenderDot(d int, fill color.RGBA) *ebiten.Image {
	dc := gg.NewContext(d, d)
	dc.SetRGBA255(int(fill.R), int(fill.G), int(fill.B), int(fill.A))
	dc.DrawCircle(float64(d)/2, float64(d)/2, float64(d)/2)
	dc.Fill()
	return ebiten.NewImageFromImage(dc.Image())
}

var pixel = func() *ebiten.Image {
	px := ebiten.NewImage(1, 1)
	px.Fill(color.White)
	return px
}()

func DrawRect(screen *ebiten.Image, x, y, w, h float64, c color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	screen.DrawImage(pixel, op)
}

func DrawRectStroke(screen *ebiten.Image, x, y, w, h, thickness float64, col color.Color) {
	if screen == nil || w <= 0 || h <= 0 || thickness <= 0 {
		return
	}
	thickness = math.Min(thickness, math.Min(w, h)/2.0)

	DrawRect(screen, x, y, w, thickness, col)
	DrawRect(screen, x, y+h-thickness, w, thickness, col)
	DrawRect(screen, x, y+thickness, thickness, h-thickness*2, col)
	DrawRect(screen, x+w-thickness, y+thickness, thickness, h-thickness*2, col)
}

// DrawImageIn scales img to fit a size x size box at x, y.
func DrawImageIn(screen, img *ebiten.Image, x, y, size float64) {
	if img == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	sc := size / float64(img.Bounds().Dx())
	op.GeoM.Scale(sc, sc)
	op.GeoM.Translate(x, y)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)
}
