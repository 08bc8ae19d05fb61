// Package notnil adapts github.com/notnil/chess to oracle.Oracle.
package notnil

import (
	"fmt"

	"github.com/notnil/chess"

	"trainboard/src/base"
	"trainboard/src/fen"
	"trainboard/src/oracle"
)

const Name = "notnil"

type position struct {
	pos *chess.Position
}

func (p position) String() string {
	return p.pos.String()
}

type Oracle struct{}

func New() *Oracle {
	return &Oracle{}
}

func (o *Oracle) Name() string { return Name }

func (o *Oracle) Parse(s string) (oracle.Position, error) {
	if _, err := fen.Parse(s); err != nil {
		return nil, &oracle.ParseError{Input: s, Err: err}
	}
	opt, err := chess.FEN(s)
	if err != nil {
		return nil, &oracle.ParseError{Input: s, Err: err}
	}
	return position{pos: chess.NewGame(opt).Position()}, nil
}

func (o *Oracle) LegalDestinations(p oracle.Position, from base.Square) ([]base.Square, error) {
	pos, err := unwrap(p)
	if err != nil {
		return nil, err
	}
	seen := map[chess.Square]bool{}
	var out []base.Square
	for _, m := range pos.ValidMoves() {
		if m.S1() != chess.Square(from) || seen[m.S2()] {
			continue
		}
		// promotions show up four times, one per kind
		seen[m.S2()] = true
		out = append(out, base.Square(m.S2()))
	}
	return out, nil
}

func (o *Oracle) Apply(p oracle.Position, mv base.Move) (oracle.Position, error) {
	pos, err := unwrap(p)
	if err != nil {
		return nil, err
	}
	promo := toPieceType(mv.Promo)
	for _, m := range pos.ValidMoves() {
		if m.S1() == chess.Square(mv.From) && m.S2() == chess.Square(mv.To) && m.Promo() == promo {
			return position{pos: pos.Update(m)}, nil
		}
	}
	return nil, fmt.Errorf("notnil: move %s is not legal in %s", mv, pos)
}

func (o *Oracle) PieceAt(p oracle.Position, sq base.Square) base.Piece {
	pos, err := unwrap(p)
	if err != nil || !sq.Valid() {
		return base.InvalidPiece
	}
	pc := pos.Board().Piece(chess.Square(sq))
	if pc == chess.NoPiece {
		return base.EmptyPiece
	}
	return base.PieceOf(fromColor(pc.Color()), fromPieceType(pc.Type()))
}

func (o *Oracle) SideToMove(p oracle.Position) base.Side {
	pos, err := unwrap(p)
	if err != nil {
		return base.NoSide
	}
	return fromColor(pos.Turn())
}

func unwrap(p oracle.Position) (*chess.Position, error) {
	np, ok := p.(position)
	if !ok || np.pos == nil {
		return nil, fmt.Errorf("notnil: %w", oracle.ErrForeignPosition)
	}
	return np.pos, nil
}

func fromColor(c chess.Color) base.Side {
	switch c {
	case chess.White:
		return base.White
	case chess.Black:
		return base.Black
	default:
		return base.NoSide
	}
}

func fromPieceType(t chess.PieceType) base.Kind {
	switch t {
	case chess.Pawn:
		return base.Pawn
	case chess.Knight:
		return base.Knight
	case chess.Bishop:
		return base.Bishop
	case chess.Rook:
		return base.Rook
	case chess.Queen:
		return base.Queen
	case chess.King:
		return base.King
	default:
		return base.NoKind
	}
}

func toPieceType(k base.Kind) chess.PieceType {
	switch k {
	case base.Knight:
		return chess.Knight
	case base.Bishop:
		return chess.Bishop
	case base.Rook:
		return chess.Rook
	case base.Queen:
		return chess.Queen
	default:
		return chess.NoPieceType
	}
}
