package fen

import (
	"errors"
	"testing"

	"trainboard/src/base"
)

func TestParseStart(t *testing.T) {
	p, err := Parse(base.FEN_START_GAME)
	if err != nil {
		t.Fatal(err)
	}
	if !p.WhiteToMove || p.SideToMove() != base.White {
		t.Error("white must be to move")
	}
	if p.Mailbox[4] != base.WKing || p.Mailbox[60] != base.BKing {
		t.Errorf("kings misplaced: e1=%v e8=%v", p.Mailbox[4], p.Mailbox[60])
	}
	if p.Mailbox[28] != base.EmptyPiece {
		t.Errorf("e4 should be empty, got %v", p.Mailbox[28])
	}
	if !(p.Castling.WK && p.Castling.WQ && p.Castling.BK && p.Castling.BQ) {
		t.Errorf("castling rights lost: %+v", p.Castling)
	}
	if p.EnPassant != base.NoSquare {
		t.Errorf("unexpected en passant %v", p.EnPassant)
	}
	if got := p.String(); got != base.FEN_START_GAME {
		t.Errorf("round trip:\n got %s\nwant %s", got, base.FEN_START_GAME)
	}
}

func TestParseShortForm(t *testing.T) {
	p, err := Parse("4k3/P7/8/8/8/8/8/4K3 w - -")
	if err != nil {
		t.Fatal(err)
	}
	if p.Halfmove != 0 || p.Fullmove != 1 {
		t.Errorf("counters default: %d %d", p.Halfmove, p.Fullmove)
	}
	if p.Mailbox[48] != base.WPawn {
		t.Errorf("a7 = %v", p.Mailbox[48])
	}
}

func TestParseErrors(t *testing.T) {
	bad := []string{
		"",
		"not a fen",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/ppppxppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkz - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e4 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - x 1",
		"rnbq1bnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQ - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNRR w KQkq - 0 1",
	}
	for _, s := range bad {
		if _, err := Parse(s); !errors.Is(err, ErrSyntax) {
			t.Errorf("%q: expected ErrSyntax, got %v", s, err)
		}
	}
}
