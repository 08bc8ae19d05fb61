// Package export turns stored move lists into positions for non-interactive views.
package export

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/notnil/chess"

	"trainboard/src/base"
)

var ErrBadMove = errors.New("bad move")

var (
	uciRe      = regexp.MustCompile(`^[a-h][1-8][a-h][1-8][qrbnQRBN]?$`)
	moveNumRe  = regexp.MustCompile(`^\d+\.+`)
	gameResult = map[string]bool{"1-0": true, "0-1": true, "1/2-1/2": true, "*": true}
)

// MovesToPosition replays moves from the standard start and returns the FEN.
func MovesToPosition(moves []string) (string, error) {
	return MovesToPositionFrom(base.FEN_START_GAME, moves)
}

// MovesToPositionFrom replays moves from fen. Moves may be SAN ("Nf3", "exd8=Q")
// or UCI ("g1f3", "e7e8q"); move numbers and a trailing result are skipped.
func MovesToPositionFrom(fen string, moves []string) (string, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return "", fmt.Errorf("start position: %w", err)
	}
	pos := chess.NewGame(opt).Position()

	for i, raw := range moves {
		tok := moveNumRe.ReplaceAllString(strings.TrimSpace(raw), "")
		if tok == "" || gameResult[tok] {
			continue
		}
		m, err := decode(pos, tok)
		if err != nil {
			return "", fmt.Errorf("move %d %q: %w", i+1, raw, ErrBadMove)
		}
		pos = pos.Update(m)
	}
	return pos.String(), nil
}

func decode(pos *chess.Position, tok string) (*chess.Move, error) {
	if uciRe.MatchString(tok) {
		if m, err := (chess.UCINotation{}).Decode(pos, strings.ToLower(tok)); err == nil {
			return legal(pos, m)
		}
	}
	m, err := chess.AlgebraicNotation{}.Decode(pos, tok)
	if err != nil {
		return nil, err
	}
	return legal(pos, m)
}

// legal returns the generated move equal to m so Update gets fully tagged input.
func legal(pos *chess.Position, m *chess.Move) (*chess.Move, error) {
	for _, v := range pos.ValidMoves() {
		if v.S1() == m.S1() && v.S2() == m.S2() && v.Promo() == m.Promo() {
			return v, nil
		}
	}
	return nil, ErrBadMove
}
