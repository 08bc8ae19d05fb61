package gui

import (
	"github.com/hajimehoshi/ebiten/v2"

	"trainboard/src"
	"trainboard/src/logx"
	"trainboard/ui/gui/gctx"
	"trainboard/ui/gui/gdraw"
)

type GUIProcessing struct {
	board *gdraw.GUIPlayDrawer
	ctx   *gctx.GUIContext
}

func NewGUI(t *src.Trainer, assetsDir string, logx logx.Logger) (*GUIProcessing, error) {
	ctx, err := gctx.NewGUIContext(t, assetsDir, logx)
	if err != nil {
		return nil, err
	}
	return &GUIProcessing{
		board: gdraw.NewGUIPlayDrawer(ctx),
		ctx:   ctx,
	}, nil
}

func (gp *GUIProcessing) Run() error {
	defer gp.board.Close()
	ebiten.SetWindowSize(gp.ctx.Window.W, gp.ctx.Window.H)
	ebiten.SetWindowTitle("Trainboard")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(gp)
}

func (gp *GUIProcessing) Update() error {
	return gp.board.Update(gp.ctx)
}

func (gp *GUIProcessing) Draw(screen *ebiten.Image) {
	gp.board.Draw(gp.ctx, screen)
}

func (gp *GUIProcessing) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	gp.ctx.Window.W, gp.ctx.Window.H = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
