package cli

import (
	"fmt"
	"io"

	"trainboard/src/base"
	"trainboard/src/interact"
)

const (
	reset    = "\033[0m"
	lightBg  = "\033[47m"
	darkBg   = "\033[100m"
	legalBg  = "\033[42m"
	originBg = "\033[43m"
	whiteF   = "\033[97m"
	blackF   = "\033[30m"
	dimF     = "\033[90m"
)

type DrawFunc func(w io.Writer, st interact.State, flipped bool)

func pieceGlyph(p base.Piece) string {
	switch p {
	case base.WKing:
		return "♔"
	case base.WQueen:
		return "♕"
	case base.WRook:
		return "♖"
	case base.WBishop:
		return "♗"
	case base.WKnight:
		return "♘"
	case base.WPawn:
		return "♙"
	case base.BKing:
		return "♚"
	case base.BQueen:
		return "♛"
	case base.BRook:
		return "♜"
	case base.BBishop:
		return "♝"
	case base.BKnight:
		return "♞"
	case base.BPawn:
		return "♟"
	case base.EmptyPiece:
		return " "
	default:
		return "?"
	}
}

// PrintState draws the board with the dragged piece's origin and its legal
// destinations marked.
func PrintState(w io.Writer, st interact.State, flipped bool) {
	files := "   a  b  c  d  e  f  g  h"
	if flipped {
		files = "   h  g  f  e  d  c  b  a"
	}

	origin := base.NoSquare
	if st.Dragged != nil {
		origin = st.Dragged.Origin
	} else if st.Promotion != nil {
		origin = st.Promotion.Origin
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, files)
	for row := 0; row < 8; row++ {
		rank := 7 - row
		if flipped {
			rank = row
		}
		fmt.Fprintf(w, "%d ", rank+1)
		for col := 0; col < 8; col++ {
			file := col
			if flipped {
				file = 7 - col
			}
			sq := base.NewSquare(file, rank)
			p := st.PieceAt(sq)
			g := pieceGlyph(p)

			var bg, fg string
			switch {
			case sq == origin:
				bg = originBg
			case st.IsLegal(sq):
				bg = legalBg
			case (rank+file)%2 == 1:
				bg = lightBg
			default:
				bg = darkBg
			}
			switch {
			case p.Side() == base.White && bg == darkBg:
				fg = whiteF
			case p.IsPiece():
				fg = blackF
			default:
				fg = dimF
			}
			if st.Dragged != nil && sq == origin {
				g = "·"
			}

			fmt.Fprintf(w, "%s%s %s %s", bg, fg, g, reset)
		}
		fmt.Fprintf(w, " %d\n", rank+1)
	}
	fmt.Fprintln(w, files)
	fmt.Fprintln(w)
}
