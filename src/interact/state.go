package interact

import (
	"slices"

	"trainboard/src/base"
)

type Phase uint8

const (
	Idle Phase = iota
	Dragging
	PromotionPending
)

func (p Phase) String() string {
	switch p {
	case Dragging:
		return "dragging"
	case PromotionPending:
		return "promotion pending"
	default:
		return "idle"
	}
}

// DraggedPiece is the piece currently lifted by the pointer.
type DraggedPiece struct {
	Piece  base.Piece
	Side   base.Side
	Origin base.Square
	Coord  base.Coord
}

// PendingPromotion is a legal pawn drop onto its last rank that waits for a kind.
// Destination doubles as the anchor for the choice popup.
type PendingPromotion struct {
	Origin      base.Square
	Destination base.Square
	Side        base.Side
	Candidates  [4]base.Piece
}

// State is an immutable snapshot handed to renderers.
type State struct {
	Phase      Phase
	Position   string // FEN
	SideToMove base.Side
	Mailbox    base.Mailbox
	Dragged    *DraggedPiece
	Legal      []base.Square
	Promotion  *PendingPromotion
	Version    uint64
}

func (s State) IsLegal(sq base.Square) bool {
	return slices.Contains(s.Legal, sq)
}

func (s State) PieceAt(sq base.Square) base.Piece {
	return base.GetPieceAt(&s.Mailbox, sq)
}

func (b *Board) snapshotLocked() State {
	st := State{
		Phase:      Idle,
		Mailbox:    b.mailbox,
		SideToMove: base.NoSide,
		Version:    b.version,
	}
	if b.pos != nil {
		st.Position = b.pos.String()
		st.SideToMove = b.side
	}
	if b.dragged != nil {
		d := *b.dragged
		st.Dragged = &d
		st.Phase = Dragging
	}
	if len(b.legal) > 0 {
		st.Legal = slices.Clone(b.legal)
	}
	if b.pending != nil {
		p := *b.pending
		st.Promotion = &p
		st.Phase = PromotionPending
	}
	return st
}

// Subscribe delivers a State after every change. Sends never block: a full
// channel misses that snapshot. The current state is offered right away.
func (b *Board) Subscribe(ch chan<- State) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextSubID
	b.nextSubID++
	b.subs[id] = ch
	select {
	case ch <- b.snapshotLocked():
	default:
	}
	b.mu.Unlock()
	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

func (b *Board) publishLocked() {
	b.version++
	if len(b.subs) == 0 {
		return
	}
	st := b.snapshotLocked()
	for _, ch := range b.subs {
		select {
		case ch <- st:
		default:
		}
	}
}
