// Package oracle is the boundary to the chess rules library. Move generation,
// check detection and position encoding all live behind Oracle.
package oracle

import (
	"errors"
	"fmt"

	"trainboard/src/base"
)

var (
	ErrUnknownOracle   = errors.New("unknown oracle")
	ErrForeignPosition = errors.New("position was created by another oracle")
)

// Position is opaque outside its oracle. String returns FEN.
type Position interface {
	String() string
}

type Oracle interface {
	Name() string
	Parse(fen string) (Position, error)
	LegalDestinations(pos Position, from base.Square) ([]base.Square, error)
	// Apply is only called with moves whose destination was reported legal.
	Apply(pos Position, mv base.Move) (Position, error)
	PieceAt(pos Position, sq base.Square) base.Piece
	SideToMove(pos Position) base.Side
}

// ParseError reports a malformed position string.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse position %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Mailbox reads the whole placement of pos through o.
func Mailbox(o Oracle, pos Position) base.Mailbox {
	mb := base.EmptyMailbox()
	if pos == nil {
		return mb
	}
	for i := 0; i < 64; i++ {
		mb[i] = o.PieceAt(pos, base.Square(i))
	}
	return mb
}
