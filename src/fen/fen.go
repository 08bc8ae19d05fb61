package fen

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"trainboard/src/base"
)

var ErrSyntax = errors.New("fen syntax")

type Castling struct {
	WK bool
	WQ bool
	BK bool
	BQ bool
}

// Placement is the structural content of a FEN string.
type Placement struct {
	Mailbox     base.Mailbox
	WhiteToMove bool
	Castling    Castling
	EnPassant   base.Square
	Halfmove    int
	Fullmove    int
}

func (p *Placement) SideToMove() base.Side {
	if p.WhiteToMove {
		return base.White
	}
	return base.Black
}

func (p *Placement) String() string {
	// pieces
	var b strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pc := p.Mailbox[rank*8+file]
			if !pc.IsPiece() {
				empty++
				continue
			}
			if empty > 0 {
				b.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			b.WriteRune(base.ConvertRuneFromPiece(pc))
		}
		if empty > 0 {
			b.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			b.WriteByte('/')
		}
	}

	// side to move
	if p.WhiteToMove {
		b.WriteString(" w ")
	} else {
		b.WriteString(" b ")
	}

	cast := ""
	if p.Castling.WK {
		cast += "K"
	}
	if p.Castling.WQ {
		cast += "Q"
	}
	if p.Castling.BK {
		cast += "k"
	}
	if p.Castling.BQ {
		cast += "q"
	}
	if cast == "" {
		cast = "-"
	}
	b.WriteString(cast + " ")

	if p.EnPassant.Valid() {
		b.WriteString(p.EnPassant.String() + " ")
	} else {
		b.WriteString("- ")
	}

	b.WriteString(strconv.Itoa(p.Halfmove) + " ")
	b.WriteString(strconv.Itoa(p.Fullmove))
	return b.String()
}

// Parse checks the FEN structure. It does not judge whether the position is reachable.
func Parse(s string) (*Placement, error) {
	p := &Placement{Mailbox: base.EmptyMailbox(), EnPassant: base.NoSquare, Fullmove: 1}

	parts := strings.Fields(s)
	if len(parts) < 4 || len(parts) > 6 {
		return nil, fmt.Errorf("%w: expected 4 to 6 fields, got %d", ErrSyntax, len(parts))
	}

	ranks := strings.Split(parts[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("%w: expected 8 ranks, got %d", ErrSyntax, len(ranks))
	}

	kings := map[base.Piece]int{}
	for r := 0; r < 8; r++ {
		count := 0
		for _, ch := range ranks[r] {
			if count > 8 {
				break
			}
			if ch >= '1' && ch <= '8' {
				count += int(ch - '0')
				continue
			}
			pc := base.ConvertPieceFromRune(ch)
			if pc == base.InvalidPiece {
				return nil, fmt.Errorf("%w: bad piece %q in rank %d", ErrSyntax, ch, 8-r)
			}
			if count < 8 {
				p.Mailbox[(7-r)*8+count] = pc
			}
			if pc.Kind() == base.King {
				kings[pc]++
			}
			count++
		}
		if count != 8 {
			return nil, fmt.Errorf("%w: rank %d has %d files", ErrSyntax, 8-r, count)
		}
	}
	if kings[base.WKing] != 1 || kings[base.BKing] != 1 {
		return nil, fmt.Errorf("%w: need exactly one king per side", ErrSyntax)
	}

	switch parts[1] {
	case "w":
		p.WhiteToMove = true
	case "b":
		p.WhiteToMove = false
	default:
		return nil, fmt.Errorf("%w: side to move must be 'w' or 'b', got %q", ErrSyntax, parts[1])
	}

	if cast := parts[2]; cast != "-" {
		for _, c := range cast {
			switch c {
			case 'K':
				p.Castling.WK = true
			case 'Q':
				p.Castling.WQ = true
			case 'k':
				p.Castling.BK = true
			case 'q':
				p.Castling.BQ = true
			default:
				return nil, fmt.Errorf("%w: bad castling %q", ErrSyntax, cast)
			}
		}
	}

	if ep := parts[3]; ep != "-" {
		sq, err := base.SquareFromAlgebraic(ep)
		if err != nil || (sq.Rank() != 2 && sq.Rank() != 5) {
			return nil, fmt.Errorf("%w: bad en passant square %q", ErrSyntax, ep)
		}
		p.EnPassant = sq
	}

	var err error
	if len(parts) >= 5 {
		if p.Halfmove, err = strconv.Atoi(parts[4]); err != nil || p.Halfmove < 0 {
			return nil, fmt.Errorf("%w: bad halfmove %q", ErrSyntax, parts[4])
		}
	}
	if len(parts) == 6 {
		if p.Fullmove, err = strconv.Atoi(parts[5]); err != nil || p.Fullmove < 1 {
			return nil, fmt.Errorf("%w: bad fullmove %q", ErrSyntax, parts[5])
		}
	}

	return p, nil
}
