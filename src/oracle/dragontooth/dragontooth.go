// Package dragontooth adapts github.com/dylhunn/dragontoothmg, a bitboard move
// generator, to oracle.Oracle. The library trusts its input, so FEN strings are
// checked with package fen first and any panic is turned into an error.
package dragontooth

import (
	"fmt"

	"github.com/dylhunn/dragontoothmg"

	"trainboard/src/base"
	"trainboard/src/fen"
	"trainboard/src/oracle"
)

const Name = "dragontooth"

type position struct {
	board dragontoothmg.Board
}

func (p *position) String() string {
	return p.board.ToFen()
}

type Oracle struct{}

func New() *Oracle {
	return &Oracle{}
}

func (o *Oracle) Name() string { return Name }

func (o *Oracle) Parse(s string) (pos oracle.Position, err error) {
	if _, err := fen.Parse(s); err != nil {
		return nil, &oracle.ParseError{Input: s, Err: err}
	}
	defer func() {
		if r := recover(); r != nil {
			pos, err = nil, &oracle.ParseError{Input: s, Err: fmt.Errorf("dragontooth: %v", r)}
		}
	}()
	return &position{board: dragontoothmg.ParseFen(s)}, nil
}

func (o *Oracle) LegalDestinations(p oracle.Position, from base.Square) (out []base.Square, err error) {
	b, err := unwrap(p)
	if err != nil {
		return nil, err
	}
	defer recoverInto(&err)

	seen := map[uint8]bool{}
	for _, m := range b.GenerateLegalMoves() {
		if m.From() != uint8(from) || seen[m.To()] {
			continue
		}
		seen[m.To()] = true
		out = append(out, base.Square(m.To()))
	}
	return out, nil
}

func (o *Oracle) Apply(p oracle.Position, mv base.Move) (next oracle.Position, err error) {
	b, err := unwrap(p)
	if err != nil {
		return nil, err
	}
	defer recoverInto(&err)

	promo := toPiece(mv.Promo)
	for _, m := range b.GenerateLegalMoves() {
		if m.From() == uint8(mv.From) && m.To() == uint8(mv.To) && m.Promote() == promo {
			// Apply mutates in place; work on a copy
			nb := *b
			nb.Apply(m)
			return &position{board: nb}, nil
		}
	}
	return nil, fmt.Errorf("dragontooth: move %s is not legal in %s", mv, b.ToFen())
}

func (o *Oracle) PieceAt(p oracle.Position, sq base.Square) base.Piece {
	b, err := unwrap(p)
	if err != nil || !sq.Valid() {
		return base.InvalidPiece
	}
	mask := uint64(1) << uint(sq)
	if k := kindAt(&b.White, mask); k != base.NoKind {
		return base.PieceOf(base.White, k)
	}
	if k := kindAt(&b.Black, mask); k != base.NoKind {
		return base.PieceOf(base.Black, k)
	}
	return base.EmptyPiece
}

func (o *Oracle) SideToMove(p oracle.Position) base.Side {
	b, err := unwrap(p)
	if err != nil {
		return base.NoSide
	}
	if b.Wtomove {
		return base.White
	}
	return base.Black
}

func unwrap(p oracle.Position) (*dragontoothmg.Board, error) {
	dp, ok := p.(*position)
	if !ok || dp == nil {
		return nil, fmt.Errorf("dragontooth: %w", oracle.ErrForeignPosition)
	}
	// callers never mutate through this pointer except on a copy
	return &dp.board, nil
}

func recoverInto(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("dragontooth: %v", r)
	}
}

func kindAt(bb *dragontoothmg.Bitboards, mask uint64) base.Kind {
	switch {
	case bb.All&mask == 0:
		return base.NoKind
	case bb.Pawns&mask != 0:
		return base.Pawn
	case bb.Knights&mask != 0:
		return base.Knight
	case bb.Bishops&mask != 0:
		return base.Bishop
	case bb.Rooks&mask != 0:
		return base.Rook
	case bb.Queens&mask != 0:
		return base.Queen
	case bb.Kings&mask != 0:
		return base.King
	default:
		return base.NoKind
	}
}

func toPiece(k base.Kind) dragontoothmg.Piece {
	switch k {
	case base.Knight:
		return dragontoothmg.Knight
	case base.Bishop:
		return dragontoothmg.Bishop
	case base.Rook:
		return dragontoothmg.Rook
	case base.Queen:
		return dragontoothmg.Queen
	default:
		return dragontoothmg.Nothing
	}
}
