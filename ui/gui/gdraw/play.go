package gdraw

import (
	"fmt"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"

	"trainboard/src/base"
	"trainboard/src/export"
	"trainboard/src/interact"
	"trainboard/ui/gui/gbase"
	"trainboard/ui/gui/gctx"
	"trainboard/ui/gui/ghelper"
	"trainboard/ui/gui/ghelper/gclipboard"
	"trainboard/ui/gui/ghelper/gdialog"
	"trainboard/ui/gui/ginput"
	"trainboard/ui/gui/glayout"
)

type openResult struct {
	res gdialog.Result
	err error
}

// GUIPlayDrawer shows the board and feeds pointer gestures to it.
type GUIPlayDrawer struct {
	router *ginput.Router
	states chan interact.State
	unsub  func()
	st     interact.State

	// buttons
	buttons  []*gbase.Button
	idxFlip  int
	idxNew   int
	idxOpen  int
	idxCopy  int
	idxPaste int

	opened  chan openResult
	opening bool
	status  string

	dot     *ebiten.Image
	dotSize int
	border  *ebiten.Image

	lastTick      time.Time
	prevMouseDown bool
	touchID       ebiten.TouchID
	touching      bool
	touchIDs      []ebiten.TouchID
}

func NewGUIPlayDrawer(ctx *gctx.GUIContext) *GUIPlayDrawer {
	b := ctx.Trainer.Board()
	l := glayout.Compute(ctx.Window.W, ctx.Window.H, ctx.Config.BoardSize)
	pd := &GUIPlayDrawer{
		router:   ginput.NewRouter(b, l, ctx.Config.Flipped),
		states:   make(chan interact.State, 32),
		opened:   make(chan openResult, 1),
		lastTick: time.Now(),
	}
	pd.unsub = b.Subscribe(pd.states)
	pd.st = b.State()
	pd.makeLayoutButtons(ctx)
	return pd
}

// Close stops the state subscription.
func (pd *GUIPlayDrawer) Close() {
	if pd.unsub != nil {
		pd.unsub()
	}
}

func (pd *GUIPlayDrawer) recalcLayout(ctx *gctx.GUIContext) {
	l := glayout.Compute(ctx.Window.W, ctx.Window.H, ctx.Config.BoardSize)
	if l == pd.router.Layout() {
		return
	}
	pd.router.SetLayout(l, pd.router.Flipped())
	pd.makeLayoutButtons(ctx)
}

func (pd *GUIPlayDrawer) makeLayoutButtons(ctx *gctx.GUIContext) {
	pd.buttons = []*gbase.Button{}

	panel := pd.router.Layout().Panel
	addBtn := func(label string, x, y, w, h int) int {
		img := ghelper.RenderRoundedRect(w, h, 12, ctx.Theme.ButtonFill, ctx.Theme.ButtonStroke, 3)
		b := &gbase.Button{
			Label: label,
			X:     x, Y: y, W: w, H: h,
			Image: img,
			Scale: 1.0, TargetScale: 1.0, AnimSpeed: 10.0,
		}
		idx := len(pd.buttons)
		pd.buttons = append(pd.buttons, b)
		return idx
	}

	x, y := panel.X, panel.Y+90
	w, h := panel.W, 40
	pd.idxFlip = addBtn("Flip", x, y, w, h)
	y += h + 12
	pd.idxNew = addBtn("New position", x, y, w, h)
	y += h + 12
	pd.idxOpen = addBtn("Open file", x, y, w, h)
	y += h + 12
	pd.idxCopy = addBtn("Copy FEN", x, y, w, h)
	y += h + 12
	pd.idxPaste = addBtn("Paste FEN", x, y, w, h)
}

func (pd *GUIPlayDrawer) Update(ctx *gctx.GUIContext) error {
	pd.recalcLayout(ctx)

	now := time.Now()
	dt := now.Sub(pd.lastTick).Seconds()
	pd.lastTick = now

	select {
	case r := <-pd.opened:
		pd.opening = false
		pd.handleOpened(ctx, r)
	default:
	}

	mx, my := ebiten.CursorPosition()
	mouseDown := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	justPressed := mouseDown && !pd.prevMouseDown
	justReleased := !mouseDown && pd.prevMouseDown
	pd.prevMouseDown = mouseDown

	for i, b := range pd.buttons {
		clicked := b.HandleInput(mx, my, justPressed, justReleased)
		b.UpdateAnim(dt)
		if clicked {
			pd.onButton(ctx, i)
		}
	}

	if ebiten.IsKeyPressed(ebiten.KeyControl) && inpututil.IsKeyJustPressed(ebiten.KeyW) {
		return gbase.ErrExit
	}
	pd.handleKeys()

	// Board gestures: mouse first, then a single tracked touch.
	switch {
	case justPressed:
		pd.router.Press(mx, my)
	case justReleased:
		pd.router.Release(mx, my)
	case mouseDown:
		pd.router.Move(mx, my)
	}
	pd.handleTouch()

	pd.drainStates()
	return nil
}

func (pd *GUIPlayDrawer) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		pd.router.Cancel()
	}
	if pd.st.Phase != interact.PromotionPending {
		return
	}
	for key, kind := range map[ebiten.Key]base.Kind{
		ebiten.KeyQ: base.Queen,
		ebiten.KeyR: base.Rook,
		ebiten.KeyB: base.Bishop,
		ebiten.KeyN: base.Knight,
	} {
		if inpututil.IsKeyJustPressed(key) {
			pd.router.Choose(kind)
			return
		}
	}
}

func (pd *GUIPlayDrawer) handleTouch() {
	if !pd.touching {
		pd.touchIDs = inpututil.AppendJustPressedTouchIDs(pd.touchIDs[:0])
		if len(pd.touchIDs) == 0 {
			return
		}
		pd.touchID = pd.touchIDs[0]
		pd.touching = true
		pd.router.Press(ebiten.TouchPosition(pd.touchID))
		return
	}
	if inpututil.IsTouchJustReleased(pd.touchID) {
		pd.touching = false
		pd.router.Release(inpututil.TouchPositionInPreviousTick(pd.touchID))
		return
	}
	pd.router.Move(ebiten.TouchPosition(pd.touchID))
}

func (pd *GUIPlayDrawer) drainStates() {
	for {
		select {
		case st := <-pd.states:
			pd.st = st
		default:
			return
		}
	}
}

func (pd *GUIPlayDrawer) onButton(ctx *gctx.GUIContext, i int) {
	switch i {
	case pd.idxFlip:
		pd.router.Cancel()
		pd.router.SetLayout(pd.router.Layout(), !pd.router.Flipped())
	case pd.idxNew:
		pd.load(ctx, ctx.Config.StartFEN, "new position")
	case pd.idxOpen:
		if pd.opening {
			return
		}
		pd.opening = true
		go func() {
			res, err := gdialog.OpenFile("Open position")
			pd.opened <- openResult{res: res, err: err}
		}()
	case pd.idxCopy:
		if err := gclipboard.WriteAll(pd.st.Position); err != nil {
			pd.fail(ctx, "copy FEN", err)
			return
		}
		pd.status = "FEN copied"
	case pd.idxPaste:
		data, err := gclipboard.ReadAll()
		if err != nil {
			pd.fail(ctx, "paste FEN", err)
			return
		}
		pd.loadText(ctx, data, "clipboard")
	}
}

func (pd *GUIPlayDrawer) handleOpened(ctx *gctx.GUIContext, r openResult) {
	if r.err != nil {
		if !gdialog.Cancelled(r.err) {
			pd.fail(ctx, "open file", r.err)
		}
		return
	}
	pd.loadText(ctx, string(r.res.Data), r.res.Name)
}

// loadText accepts a FEN or a move list replayed from the start.
func (pd *GUIPlayDrawer) loadText(ctx *gctx.GUIContext, data, from string) {
	data = strings.TrimSpace(data)
	if err := ctx.Trainer.Load(data); err == nil {
		pd.status = "loaded " + from
		return
	}
	fen, err := export.MovesToPosition(strings.Fields(data))
	if err != nil {
		pd.fail(ctx, "load "+from, err)
		return
	}
	pd.load(ctx, fen, from)
}

func (pd *GUIPlayDrawer) load(ctx *gctx.GUIContext, fen, from string) {
	pd.router.Cancel()
	if err := ctx.Trainer.Load(fen); err != nil {
		pd.fail(ctx, "load "+from, err)
		return
	}
	pd.status = "loaded " + from
}

func (pd *GUIPlayDrawer) fail(ctx *gctx.GUIContext, what string, err error) {
	ctx.Logx.Errorf("error %s: %v", what, err)
	pd.status = "error " + what
}

// Draw
func (pd *GUIPlayDrawer) Draw(ctx *gctx.GUIContext, screen *ebiten.Image) {
	screen.Fill(ctx.Theme.Bg)

	l := pd.router.Layout()
	g := l.Geometry(pd.router.Flipped())
	sq := g.SquareSize()
	st := pd.st

	if pd.border == nil || pd.border.Bounds().Dx() != l.Board.W+8 {
		pd.border = ghelper.RenderRoundedRect(l.Board.W+8, l.Board.H+8, 6, ctx.Theme.ButtonFill, ctx.Theme.ButtonStroke, 2)
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(l.Board.X-4), float64(l.Board.Y-4))
	screen.DrawImage(pd.border, op)

	origin := base.NoSquare
	if st.Dragged != nil {
		origin = st.Dragged.Origin
	}

	for s := range base.Square(64) {
		x, y := l.Screen(g.SquareOrigin(s))
		col := ctx.Theme.LightSquare
		if (s.File()+s.Rank())%2 == 0 {
			col = ctx.Theme.DarkSquare
		}
		ghelper.DrawRect(screen, x, y, sq, sq, col)
		if s == origin {
			ghelper.DrawRect(screen, x, y, sq, sq, ctx.Theme.Origin)
		}

		pc := st.PieceAt(s)
		if pc.IsPiece() && s != origin {
			ghelper.DrawImageIn(screen, ctx.Pieces[pc], x, y, sq)
		}
	}

	pd.drawLegal(ctx, screen, st, sq)

	// dragged piece on top of everything, centred on the pointer
	if d := st.Dragged; d != nil {
		x, y := l.Screen(d.Coord)
		ghelper.DrawImageIn(screen, ctx.Pieces[d.Piece], x-sq/2, y-sq/2, sq)
	}

	if p := st.Promotion; p != nil {
		pd.drawPromotion(ctx, screen, p, sq)
	}

	pd.drawPanel(ctx, screen, st)

	for _, b := range pd.buttons {
		b.DrawAnimated(screen, ctx.Fonts.Normal, ctx.Theme)
	}

	if ctx.Config.LogDev {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("TPS: %0.2f", ebiten.ActualTPS()))
	}
}

func (pd *GUIPlayDrawer) drawLegal(ctx *gctx.GUIContext, screen *ebiten.Image, st interact.State, sq float64) {
	if len(st.Legal) == 0 {
		return
	}
	d := int(sq / 3)
	if pd.dot == nil || pd.dotSize != d {
		pd.dot = ghelper.RenderDot(d, ctx.Theme.LegalDot)
		pd.dotSize = d
	}
	l := pd.router.Layout()
	g := l.Geometry(pd.router.Flipped())
	for _, s := range st.Legal {
		x, y := l.Screen(g.SquareCenter(s))
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(x-float64(d)/2, y-float64(d)/2)
		screen.DrawImage(pd.dot, op)
	}
}

func (pd *GUIPlayDrawer) drawPromotion(ctx *gctx.GUIContext, screen *ebiten.Image, p *interact.PendingPromotion, sq float64) {
	l := pd.router.Layout()
	ghelper.DrawRect(screen, float64(l.Board.X), float64(l.Board.Y), float64(l.Board.W), float64(l.Board.H), ctx.Theme.ModalBg)

	tiles := l.PromotionTiles(l.Geometry(pd.router.Flipped()), p.Destination)
	for i, t := range tiles {
		x, y := float64(t.X), float64(t.Y)
		ghelper.DrawRect(screen, x, y, sq, sq, ctx.Theme.ButtonFill)
		ghelper.DrawRectStroke(screen, x, y, sq, sq, 2, ctx.Theme.Accent)
		ghelper.DrawImageIn(screen, ctx.Pieces[p.Candidates[i]], x, y, sq)
	}
}

func (pd *GUIPlayDrawer) drawPanel(ctx *gctx.GUIContext, screen *ebiten.Image, st interact.State) {
	panel := pd.router.Layout().Panel
	x, y := panel.X, panel.Y+16

	text.Draw(screen, fmt.Sprintf("%s to move", st.SideToMove), ctx.Fonts.Bold, x, y, ctx.Theme.MenuText)
	y += 24
	text.Draw(screen, st.Phase.String(), ctx.Fonts.Normal, x, y, ctx.Theme.MenuText)
	y += 20
	hint := "Esc: cancel"
	if st.Phase == interact.PromotionPending {
		hint = "Q R B N or click a piece"
	}
	text.Draw(screen, hint, ctx.Fonts.Small, x, y, ctx.Theme.MenuText)

	if pd.status != "" {
		last := pd.buttons[len(pd.buttons)-1]
		text.Draw(screen, pd.status, ctx.Fonts.Small, x, last.Y+last.H+24, ctx.Theme.Accent)
	}
}
