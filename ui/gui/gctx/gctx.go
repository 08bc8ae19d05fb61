package gctx

import (
	"github.com/hajimehoshi/ebiten/v2"

	"trainboard/src"
	"trainboard/src/base"
	"trainboard/src/conf"
	"trainboard/src/logx"
	"trainboard/ui/gui/gbase"
	"trainboard/ui/gui/ghelper/gfont"
	"trainboard/ui/gui/ghelper/gimages"
)

// ---- GUI Context ----

type GUIContext struct {
	Trainer *src.Trainer
	Config  *conf.Config
	Theme   gbase.Palette
	Pieces  map[base.Piece]*ebiten.Image
	Fonts   *gfont.Fonts
	Logx    logx.Logger
	Window  struct{ W, H int }
}

// NewGUIContext loads fonts and piece images from assetsDir. Missing files
// fall back to built-in ones.
func NewGUIContext(t *src.Trainer, assetsDir string, l logx.Logger) (*GUIContext, error) {
	fonts, err := gfont.LoadFonts(assetsDir)
	if err != nil {
		return nil, err
	}
	pieces, err := gimages.LoadImageAssets(assetsDir)
	if err != nil {
		return nil, err
	}
	cfg := t.Config()
	ctx := &GUIContext{
		Trainer: t,
		Config:  cfg,
		Theme:   gbase.PaletteFromString(cfg.Theme),
		Pieces:  pieces,
		Fonts:   fonts,
		Logx:    l,
	}
	ctx.Window.W, ctx.Window.H = cfg.WindowW, cfg.WindowH
	return ctx, nil
}
