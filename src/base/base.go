package base

import (
	"errors"
	"fmt"
)

// Forsyth–Edwards Notation
const FEN_START_GAME string = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var ErrInvalidSquare = errors.New("invalid square")

// ---- Side ----

type Side uint8

const (
	NoSide Side = iota
	White
	Black
)

func (s Side) String() string {
	switch s {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return "none"
	}
}

func (s Side) Other() Side {
	switch s {
	case White:
		return Black
	case Black:
		return White
	default:
		return NoSide
	}
}

// TerminalRank is the rank (0..7) where pawns of side s promote.
func TerminalRank(s Side) int {
	if s == Black {
		return 0
	}
	return 7
}

// ---- Kind ----

type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// PromotionKinds in popup order
var PromotionKinds = [4]Kind{Queen, Rook, Bishop, Knight}

func (k Kind) IsPromotion() bool {
	return k == Queen || k == Rook || k == Bishop || k == Knight
}

func (k Kind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "none"
	}
}

// lowercase letter used by UCI promotion suffix
func (k Kind) Letter() byte {
	switch k {
	case Pawn:
		return 'p'
	case Knight:
		return 'n'
	case Bishop:
		return 'b'
	case Rook:
		return 'r'
	case Queen:
		return 'q'
	case King:
		return 'k'
	default:
		return 0
	}
}

func KindFromLetter(r rune) Kind {
	switch r {
	case 'p', 'P':
		return Pawn
	case 'n', 'N':
		return Knight
	case 'b', 'B':
		return Bishop
	case 'r', 'R':
		return Rook
	case 'q', 'Q':
		return Queen
	case 'k', 'K':
		return King
	default:
		return NoKind
	}
}

// ---- Piece ----

type Piece uint8

const (
	WKing        Piece = 19
	WQueen       Piece = 18
	WRook        Piece = 15
	WBishop      Piece = 14
	WKnight      Piece = 13
	WPawn        Piece = 11
	BKing        Piece = 9
	BQueen       Piece = 8
	BRook        Piece = 5
	BBishop      Piece = 4
	BKnight      Piece = 3
	BPawn        Piece = 1
	EmptyPiece   Piece = 99
	InvalidPiece Piece = 0
)

type Mailbox [64]Piece

// EmptyMailbox has every square set to EmptyPiece.
func EmptyMailbox() Mailbox {
	var mb Mailbox
	for i := range mb {
		mb[i] = EmptyPiece
	}
	return mb
}

func PieceIsWhite(p Piece) bool {
	return p >= WPawn && p <= WKing
}

func PieceIsBlack(p Piece) bool {
	return p >= BPawn && p <= BKing
}

func PieceOf(s Side, k Kind) Piece {
	var p Piece
	switch k {
	case Pawn:
		p = WPawn
	case Knight:
		p = WKnight
	case Bishop:
		p = WBishop
	case Rook:
		p = WRook
	case Queen:
		p = WQueen
	case King:
		p = WKing
	default:
		return InvalidPiece
	}
	switch s {
	case White:
		return p
	case Black:
		return SwapColorPiece(p)
	default:
		return InvalidPiece
	}
}

func (p Piece) Side() Side {
	switch {
	case PieceIsWhite(p):
		return White
	case PieceIsBlack(p):
		return Black
	default:
		return NoSide
	}
}

func (p Piece) Kind() Kind {
	switch p {
	case WPawn, BPawn:
		return Pawn
	case WKnight, BKnight:
		return Knight
	case WBishop, BBishop:
		return Bishop
	case WRook, BRook:
		return Rook
	case WQueen, BQueen:
		return Queen
	case WKing, BKing:
		return King
	default:
		return NoKind
	}
}

// IsPiece is false for EmptyPiece and InvalidPiece.
func (p Piece) IsPiece() bool {
	return p.Side() != NoSide
}

func (p Piece) String() string {
	switch p {
	case EmptyPiece:
		return "empty"
	case InvalidPiece:
		return "invalid"
	}
	return p.Side().String() + " " + p.Kind().String()
}

func SwapColorPiece(p Piece) Piece {
	switch p {
	case WKing:
		return BKing
	case WQueen:
		return BQueen
	case WRook:
		return BRook
	case WBishop:
		return BBishop
	case WKnight:
		return BKnight
	case WPawn:
		return BPawn
	case BKing:
		return WKing
	case BQueen:
		return WQueen
	case BRook:
		return WRook
	case BBishop:
		return WBishop
	case BKnight:
		return WKnight
	case BPawn:
		return WPawn
	default:
		return InvalidPiece
	}
}

func ConvertPieceFromRune(p rune) Piece {
	k := KindFromLetter(p)
	if k == NoKind {
		return InvalidPiece
	}
	if p >= 'A' && p <= 'Z' {
		return PieceOf(White, k)
	}
	return PieceOf(Black, k)
}

func ConvertRuneFromPiece(p Piece) rune {
	l := rune(p.Kind().Letter())
	if l == 0 {
		return '.'
	}
	if PieceIsWhite(p) {
		return l - 'a' + 'A'
	}
	return l
}

// ---- Square ----

// Square indexes the board as rank*8+file, a1 == 0, h8 == 63.
type Square int8

const NoSquare Square = -1

func NewSquare(file, rank int) Square {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare
	}
	return Square(rank*8 + file)
}

func (s Square) Valid() bool { return s >= 0 && s < 64 }
func (s Square) File() int   { return int(s) % 8 }
func (s Square) Rank() int   { return int(s) / 8 }

func (s Square) String() string {
	str, err := AlgebraicFromSquare(s)
	if err != nil {
		return "-"
	}
	return str
}

func SquareFromAlgebraic(pos string) (Square, error) {
	// 'a' ~ 'h' to number
	// '1' ~ '8' to 0-7
	if len(pos) != 2 || pos[0] < 'a' || pos[0] > 'h' || pos[1] < '1' || pos[1] > '8' {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, pos)
	}
	return Square(int(pos[1]-'1')*8 + int(pos[0]-'a')), nil
}

func AlgebraicFromSquare(s Square) (string, error) {
	if !s.Valid() {
		return "", fmt.Errorf("%w: index %d", ErrInvalidSquare, s)
	}
	return string([]byte{byte(s.File()) + 'a', byte(s.Rank()) + '1'}), nil
}

func GetPieceAt(mb *Mailbox, s Square) Piece {
	if !s.Valid() || mb == nil {
		return InvalidPiece
	}
	return mb[s]
}

func SetPieceAt(mb *Mailbox, s Square, pc Piece) {
	if !s.Valid() || mb == nil {
		return
	}
	mb[s] = pc
}

// ---- Coord ----

// Coord is a continuous pointer offset from the board's top-left corner, in pixels.
type Coord struct {
	X float64
	Y float64
}

// ---- Move ----

type Move struct {
	From  Square
	To    Square
	Promo Kind // NoKind unless promoting
}

// UCI form, e.g. "e2e4" or "e7e8q"
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.Promo.IsPromotion() {
		s += string(m.Promo.Letter())
	}
	return s
}

func MoveFromUCI(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("invalid uci move %q", s)
	}
	from, err := SquareFromAlgebraic(s[0:2])
	if err != nil {
		return Move{}, err
	}
	to, err := SquareFromAlgebraic(s[2:4])
	if err != nil {
		return Move{}, err
	}
	mv := Move{From: from, To: to}
	if len(s) == 5 {
		mv.Promo = KindFromLetter(rune(s[4]))
		if !mv.Promo.IsPromotion() {
			return Move{}, fmt.Errorf("invalid promotion in %q", s)
		}
	}
	return mv, nil
}
