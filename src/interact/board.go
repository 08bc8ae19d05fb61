// Package interact turns pointer drags into chess moves.
//
// A Board owns the current position and the transient drag and promotion
// state. Every exported method is safe for concurrent use and total: gesture
// noise is ignored and oracle failures put the board back to Idle.
package interact

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"trainboard/src/base"
	"trainboard/src/logx"
	"trainboard/src/mapper"
	"trainboard/src/oracle"
)

// Commit describes a move that changed the position.
type Commit struct {
	Move   base.Move
	Piece  base.Piece
	Before string // FEN
	After  string // FEN
	Ply    int    // 1 for the first move after Initialize
	Epoch  uint64 // Initialize count the move belongs to
}

type Option func(*Board)

func WithLogger(l logx.Logger) Option {
	return func(b *Board) { b.logger = l }
}

func WithGeometry(g mapper.Geometry) Option {
	return func(b *Board) { b.geom = g }
}

func WithPromotionPolicy(p PromotionPolicy) Option {
	return func(b *Board) { b.policy = p }
}

// WithCommitHook registers fn to run after each committed move, outside the board lock.
func WithCommitHook(fn func(Commit)) Option {
	return func(b *Board) { b.onCommit = fn }
}

// WithResetHook registers fn to run inside Initialize, under the board lock,
// once the new position is in place. No commit of the new epoch can reach the
// commit hook before fn returns. fn must not call back into the Board.
func WithResetHook(fn func(epoch uint64, fen string)) Option {
	return func(b *Board) { b.onReset = fn }
}

type Board struct {
	mu       sync.Mutex
	oracle   oracle.Oracle
	geom     mapper.Geometry
	policy   PromotionPolicy
	logger   logx.Logger
	onCommit func(Commit)
	onReset  func(epoch uint64, fen string)

	pos     oracle.Position
	side    base.Side
	mailbox base.Mailbox
	ply     int
	epoch   uint64

	dragged *DraggedPiece
	legal   []base.Square
	pending *PendingPromotion

	version   uint64
	subs      map[int]chan<- State
	nextSubID int
}

// NewBoard creates the board for one view lifetime, starting from fen.
func NewBoard(o oracle.Oracle, fen string, opts ...Option) (*Board, error) {
	b := &Board{
		oracle:  o,
		policy:  PolicyDiscard,
		logger:  logx.NewNopLogx(),
		mailbox: base.EmptyMailbox(),
		subs:    make(map[int]chan<- State),
	}
	for _, opt := range opts {
		opt(b)
	}
	if err := b.Initialize(fen); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Board) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

func (b *Board) Geometry() mapper.Geometry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.geom
}

// SetGeometry follows the host view when it is resized or flipped.
func (b *Board) SetGeometry(g mapper.Geometry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.geom = g
}

// Initialize replaces the position and drops all transient state. A malformed
// fen returns a *oracle.ParseError and changes nothing.
func (b *Board) Initialize(fen string) (err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	pos, mb, side, err := b.parse(fen)
	if err != nil {
		b.logger.Warnf("initialize rejected: %v", err)
		return err
	}

	b.pos = pos
	b.mailbox = mb
	b.side = side
	b.ply = 0
	b.epoch++
	b.resetLocked()
	if b.onReset != nil {
		b.onReset(b.epoch, pos.String())
	}
	b.publishLocked()
	b.logger.Infof("board initialized: %s", pos)
	return nil
}

func (b *Board) parse(fen string) (pos oracle.Position, mb base.Mailbox, side base.Side, err error) {
	defer func() {
		if r := recover(); r != nil {
			pos = nil
			err = &oracle.ParseError{Input: fen, Err: fmt.Errorf("oracle panic: %v", r)}
		}
	}()
	pos, err = b.oracle.Parse(fen)
	if err != nil {
		var pe *oracle.ParseError
		if !errors.As(err, &pe) {
			err = &oracle.ParseError{Input: fen, Err: err}
		}
		return nil, mb, side, err
	}
	return pos, oracle.Mailbox(b.oracle, pos), b.oracle.SideToMove(pos), nil
}

// BeginDrag lifts the piece on sq if it belongs to the side to move.
func (b *Board) BeginDrag(sq base.Square, c base.Coord) {
	b.notify(b.locked("begin drag", func() *Commit {
		b.beginDragLocked(sq, c)
		return nil
	}))
}

// BeginDragAt is BeginDrag for the square under c.
func (b *Board) BeginDragAt(c base.Coord) {
	b.notify(b.locked("begin drag", func() *Commit {
		sq, ok := b.geom.SquareAt(c)
		if !ok {
			sq = base.NoSquare
		}
		b.beginDragLocked(sq, c)
		return nil
	}))
}

func (b *Board) beginDragLocked(sq base.Square, c base.Coord) {
	if b.pos == nil {
		return
	}

	changed := false
	if b.pending != nil {
		if b.policy == PolicyReject {
			b.logger.Debugf("drag from %s ignored: promotion on %s outstanding", sq, b.pending.Destination)
			return
		}
		b.logger.Debugf("promotion %s-%s abandoned by new drag", b.pending.Origin, b.pending.Destination)
		changed = true
	}
	if b.dragged != nil {
		b.logger.Debugf("stale drag from %s dropped", b.dragged.Origin)
		changed = true
	}
	b.resetLocked()

	pc := b.oracle.PieceAt(b.pos, sq)
	if !pc.IsPiece() || pc.Side() != b.side {
		b.logger.Debugf("drag from %s ignored: %v, %s to move", sq, pc, b.side)
		if changed {
			b.publishLocked()
		}
		return
	}

	dests, err := b.oracle.LegalDestinations(b.pos, sq)
	if err != nil {
		b.failLocked("begin drag", err)
		return
	}
	legal := make([]base.Square, 0, len(dests))
	for _, d := range dests {
		// a piece never moves onto its own square
		if !d.Valid() || d == sq || slices.Contains(legal, d) {
			continue
		}
		legal = append(legal, d)
	}

	b.dragged = &DraggedPiece{Piece: pc, Side: pc.Side(), Origin: sq, Coord: c}
	b.legal = legal
	b.publishLocked()
}

// UpdateDrag moves the lifted piece with the pointer. Legal highlights do not
// react to the pointer position, on or off the board.
func (b *Board) UpdateDrag(c base.Coord) {
	b.notify(b.locked("update drag", func() *Commit {
		if b.dragged == nil {
			return nil
		}
		b.dragged.Coord = c
		b.publishLocked()
		return nil
	}))
}

// EndDrag drops the lifted piece on the square under c.
func (b *Board) EndDrag(c base.Coord) {
	b.notify(b.locked("end drag", func() *Commit {
		dest, ok := b.geom.SquareAt(c)
		return b.endDragLocked(dest, ok)
	}))
}

// CancelDrag ends the drag with no destination; the piece goes back.
func (b *Board) CancelDrag() {
	b.notify(b.locked("end drag", func() *Commit {
		return b.endDragLocked(base.NoSquare, false)
	}))
}

func (b *Board) endDragLocked(dest base.Square, onBoard bool) *Commit {
	if b.dragged == nil {
		return nil
	}
	d := *b.dragged
	legal := onBoard && slices.Contains(b.legal, dest)
	b.dragged = nil
	b.legal = nil

	if !legal {
		b.logger.Debugf("drop of %v from %s on %s discarded", d.Piece, d.Origin, dest)
		b.publishLocked()
		return nil
	}

	if isPromotion(d.Piece, dest) {
		b.pending = newPendingPromotion(d.Origin, dest, d.Side)
		b.publishLocked()
		return nil
	}

	return b.applyLocked("end drag", base.Move{From: d.Origin, To: dest}, d.Piece)
}

// applyLocked runs the move through the oracle and swaps the position in.
func (b *Board) applyLocked(op string, mv base.Move, pc base.Piece) *Commit {
	next, err := b.oracle.Apply(b.pos, mv)
	if err != nil {
		b.failLocked(op, err)
		return nil
	}
	mb := oracle.Mailbox(b.oracle, next)
	side := b.oracle.SideToMove(next)

	before := b.pos.String()
	b.pos = next
	b.mailbox = mb
	b.side = side
	b.ply++
	b.resetLocked()
	b.publishLocked()

	b.logger.Infof("commit %s (%v)", mv, pc)
	return &Commit{Move: mv, Piece: pc, Before: before, After: next.String(), Ply: b.ply, Epoch: b.epoch}
}

func (b *Board) resetLocked() {
	b.dragged = nil
	b.legal = nil
	b.pending = nil
}

func (b *Board) failLocked(op string, err error) {
	b.logger.Errorf("%s: oracle failure: %v", op, err)
	b.resetLocked()
	b.publishLocked()
}

// locked runs fn under the board lock. A panic escaping the oracle is logged
// and leaves the board Idle.
func (b *Board) locked(op string, fn func() *Commit) (commit *Commit) {
	b.mu.Lock()
	defer b.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			commit = nil
			b.failLocked(op, fmt.Errorf("panic: %v", r))
		}
	}()
	return fn()
}

func (b *Board) notify(c *Commit) {
	if c != nil && b.onCommit != nil {
		b.onCommit(*c)
	}
}
