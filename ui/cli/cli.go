package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"trainboard/src"
	"trainboard/src/base"
	"trainboard/src/interact"
	"trainboard/src/mapper"
)

const help = `Commands:
  drag <sq>          lift the piece on a square
  move <sq>|<x> <y>  move the lifted piece over a square or to pixel x,y
  drop <sq>|off      drop the lifted piece (off: outside the board)
  cancel             put the lifted piece back
  promote q|r|b|n    choose the promotion piece
  abandon            abandon the pending promotion
  e2e4 / a7a8q       drag and drop in one step
  fen [<fen>]        print the position or load a new one
  state              print the interaction state
  flip               flip the board
  help, q`

type CLIProcessing struct {
	trainer *src.Trainer
	draw    DrawFunc
	in      *os.File
	out     io.Writer
	flipped bool
}

func NewCLI(t *src.Trainer, draw DrawFunc) *CLIProcessing {
	return &CLIProcessing{trainer: t, draw: draw, in: os.Stdin, out: os.Stdout, flipped: t.Board().Geometry().Flipped}
}

// Run reads commands through an x/term line editor, falling back to plain
// line mode when stdin is not a terminal.
func (c *CLIProcessing) Run() error {
	fd := int(c.in.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return c.RunLineMode()
	}
	defer term.Restore(fd, oldState) //nolint:errcheck

	t := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{c.in, c.out}, "> ")
	if w, h, err := term.GetSize(fd); err == nil {
		_ = t.SetSize(w, h)
	}
	c.out = t

	c.redraw()
	fmt.Fprintln(c.out, help)
	for {
		line, err := t.ReadLine()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if c.Exec(line) {
			fmt.Fprintln(c.out, "Quitting")
			return nil
		}
	}
}

func (c *CLIProcessing) RunLineMode() error {
	scanner := bufio.NewScanner(c.in)
	c.redraw()
	fmt.Fprintln(c.out, help)
	for scanner.Scan() {
		if c.Exec(scanner.Text()) {
			return nil
		}
	}
	return scanner.Err()
}

// Exec runs one command line and reports whether the user asked to quit.
func (c *CLIProcessing) Exec(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	b := c.trainer.Board()
	geom := b.Geometry()
	arg := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}

	switch strings.ToLower(fields[0]) {
	case "q", "quit", "exit":
		return true
	case "help", "?":
		fmt.Fprintln(c.out, help)
		return false
	case "drag":
		sq, ok := c.square(arg(1))
		if !ok {
			return false
		}
		b.BeginDrag(sq, geom.SquareCenter(sq))
	case "move":
		if len(fields) == 3 {
			var x, y float64
			if _, err := fmt.Sscanf(fields[1]+" "+fields[2], "%g %g", &x, &y); err != nil {
				fmt.Fprintf(c.out, "bad coordinate: %v\n", err)
				return false
			}
			b.UpdateDrag(base.Coord{X: x, Y: y})
			break
		}
		sq, ok := c.square(arg(1))
		if !ok {
			return false
		}
		b.UpdateDrag(geom.SquareCenter(sq))
	case "drop":
		if arg(1) == "off" {
			b.EndDrag(base.Coord{X: -1, Y: -1})
			break
		}
		sq, ok := c.square(arg(1))
		if !ok {
			return false
		}
		b.EndDrag(geom.SquareCenter(sq))
	case "cancel":
		b.CancelDrag()
	case "promote":
		k := base.NoKind
		if a := arg(1); len(a) == 1 {
			k = base.KindFromLetter(rune(a[0]))
		}
		if !k.IsPromotion() {
			fmt.Fprintln(c.out, "promote takes one of q, r, b, n")
			return false
		}
		b.ResolvePromotion(k)
	case "abandon":
		b.CancelPromotion()
	case "fen":
		if len(fields) == 1 {
			fmt.Fprintf(c.out, "FEN: %s\n", b.State().Position)
			return false
		}
		if err := c.trainer.Load(strings.Join(fields[1:], " ")); err != nil {
			fmt.Fprintf(c.out, "error load FEN: %v\n", err)
			return false
		}
	case "state":
		c.printStatus()
		return false
	case "flip":
		c.flipped = !c.flipped
		b.SetGeometry(mapper.Geometry{Size: geom.Size, Flipped: c.flipped})
	default:
		mv, err := base.MoveFromUCI(strings.ToLower(fields[0]))
		if err != nil {
			fmt.Fprintf(c.out, "unknown command: %s\n", fields[0])
			return false
		}
		b.BeginDrag(mv.From, geom.SquareCenter(mv.From))
		b.EndDrag(geom.SquareCenter(mv.To))
		if mv.Promo != base.NoKind && b.State().Phase == interact.PromotionPending {
			b.ResolvePromotion(mv.Promo)
		}
		st := b.State()
		if st.Phase == interact.Idle && st.PieceAt(mv.From).IsPiece() {
			fmt.Fprintf(c.out, "Invalid move: %s\n", fields[0])
		}
	}
	c.redraw()
	return false
}

func (c *CLIProcessing) square(s string) (base.Square, bool) {
	sq, err := base.SquareFromAlgebraic(strings.ToLower(s))
	if err != nil {
		fmt.Fprintf(c.out, "bad square %q\n", s)
		return base.NoSquare, false
	}
	return sq, true
}

func (c *CLIProcessing) redraw() {
	st := c.trainer.Board().State()
	c.draw(c.out, st, c.flipped)
	c.printStatus()
}

func (c *CLIProcessing) printStatus() {
	st := c.trainer.Board().State()
	fmt.Fprintf(c.out, "FEN: %s\n", st.Position)
	fmt.Fprintf(c.out, "To move: %s  Phase: %s\n", st.SideToMove, st.Phase)
	if st.Dragged != nil {
		legal := make([]string, 0, len(st.Legal))
		for _, sq := range st.Legal {
			legal = append(legal, sq.String())
		}
		fmt.Fprintf(c.out, "Dragging %v from %s at (%.0f, %.0f), legal: %s\n",
			st.Dragged.Piece, st.Dragged.Origin, st.Dragged.Coord.X, st.Dragged.Coord.Y, strings.Join(legal, " "))
	}
	if p := st.Promotion; p != nil {
		fmt.Fprintf(c.out, "Promotion %s-%s: choose q, r, b or n\n", p.Origin, p.Destination)
	}
}
