package interact

import (
	"fmt"

	"trainboard/src/base"
)

// PromotionPolicy decides what a new drag does while a promotion choice is open.
type PromotionPolicy uint8

const (
	// PolicyDiscard abandons the pending promotion and starts the drag.
	PolicyDiscard PromotionPolicy = iota
	// PolicyReject ignores the drag until the promotion is resolved or cancelled.
	PolicyReject
)

func (p PromotionPolicy) String() string {
	if p == PolicyReject {
		return "reject"
	}
	return "discard"
}

func ParsePromotionPolicy(s string) (PromotionPolicy, error) {
	switch s {
	case "", "discard":
		return PolicyDiscard, nil
	case "reject":
		return PolicyReject, nil
	default:
		return PolicyDiscard, fmt.Errorf("unknown promotion policy %q", s)
	}
}

func isPromotion(pc base.Piece, dest base.Square) bool {
	return pc.Kind() == base.Pawn && dest.Rank() == base.TerminalRank(pc.Side())
}

func newPendingPromotion(origin, dest base.Square, side base.Side) *PendingPromotion {
	p := &PendingPromotion{Origin: origin, Destination: dest, Side: side}
	for i, k := range base.PromotionKinds {
		p.Candidates[i] = base.PieceOf(side, k)
	}
	return p
}

// ResolvePromotion commits the pending promotion as kind. Anything but queen,
// rook, bishop or knight is ignored and the choice stays open.
func (b *Board) ResolvePromotion(kind base.Kind) {
	b.notify(b.locked("resolve promotion", func() *Commit {
		if b.pending == nil {
			return nil
		}
		if !kind.IsPromotion() {
			b.logger.Debugf("promotion to %s ignored", kind)
			return nil
		}
		p := *b.pending
		mv := base.Move{From: p.Origin, To: p.Destination, Promo: kind}
		return b.applyLocked("resolve promotion", mv, base.PieceOf(p.Side, base.Pawn))
	}))
}

// CancelPromotion abandons the pending promotion without moving.
func (b *Board) CancelPromotion() {
	b.notify(b.locked("cancel promotion", func() *Commit {
		if b.pending == nil {
			return nil
		}
		b.logger.Debugf("promotion %s-%s cancelled", b.pending.Origin, b.pending.Destination)
		b.resetLocked()
		b.publishLocked()
		return nil
	}))
}
