package src

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"trainboard/src/base"
	"trainboard/src/conf"
	"trainboard/src/export"
	"trainboard/src/interact"
	"trainboard/src/journal"
	"trainboard/src/logx"
	"trainboard/src/mapper"
	"trainboard/src/oracle"
	"trainboard/src/oracle/dragontooth"
	"trainboard/src/oracle/notnil"
)

// NewOracle returns the rules backend registered under name.
func NewOracle(name string) (oracle.Oracle, error) {
	switch name {
	case notnil.Name, "":
		return notnil.New(), nil
	case dragontooth.Name:
		return dragontooth.New(), nil
	default:
		return nil, fmt.Errorf("%q: %w", name, oracle.ErrUnknownOracle)
	}
}

// Trainer wires config, oracle, board and journal for one board view.
type Trainer struct {
	cfg     *conf.Config
	oracle  oracle.Oracle
	board   *interact.Board
	journal *journal.Store
	logger  logx.Logger

	loadMu sync.Mutex // serializes Load so nextID reaches the right reset

	mu        sync.Mutex
	nextID    string
	sessionID string
	sessLog   logx.Logger
	epochs    map[uint64]string // board epoch to session id
}

// keptEpochs bounds how far behind a late commit may be and still be journaled.
const keptEpochs = 16

// NewTrainer opens the journal (when configured) and creates the board from fen,
// or from the configured start position when fen is empty.
func NewTrainer(cfg *conf.Config, fen string, logger logx.Logger) (*Trainer, error) {
	if logger == nil {
		logger = logx.NewNopLogx()
	}
	o, err := NewOracle(cfg.Oracle)
	if err != nil {
		return nil, err
	}
	policy, err := interact.ParsePromotionPolicy(cfg.PromotionPolicy)
	if err != nil {
		return nil, err
	}
	if fen == "" {
		fen = cfg.StartFEN
	}

	t := &Trainer{cfg: cfg, oracle: o, logger: logger, epochs: make(map[uint64]string)}
	t.sessLog = logger
	if cfg.JournalPath != "" {
		if t.journal, err = journal.Open(cfg.JournalPath, logger); err != nil {
			return nil, err
		}
	}

	t.prepareSession()
	t.board, err = interact.NewBoard(o, fen,
		interact.WithLogger(&sessionLogger{t}),
		interact.WithGeometry(mapper.Geometry{Size: float64(cfg.BoardSize), Flipped: cfg.Flipped}),
		interact.WithPromotionPolicy(policy),
		interact.WithResetHook(t.startSession),
		interact.WithCommitHook(t.record),
	)
	if err != nil {
		t.closeJournal()
		return nil, err
	}
	return t, nil
}

func (t *Trainer) Board() *interact.Board { return t.board }

func (t *Trainer) Journal() *journal.Store { return t.journal }

func (t *Trainer) Config() *conf.Config { return t.cfg }

func (t *Trainer) OracleName() string { return t.oracle.Name() }

func (t *Trainer) SessionID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sessionID
}

// Load resets the board to fen and opens a new journal session. On a parse
// error the board and the session are left as they were.
func (t *Trainer) Load(fen string) error {
	t.loadMu.Lock()
	defer t.loadMu.Unlock()
	t.prepareSession()
	return t.board.Initialize(fen)
}

func (t *Trainer) prepareSession() {
	t.mu.Lock()
	t.nextID = uuid.NewString()
	t.mu.Unlock()
}

// startSession runs under the board lock from Initialize. The session row is
// queued before any move of the new epoch can be recorded.
func (t *Trainer) startSession(epoch uint64, fen string) {
	t.mu.Lock()
	id := t.nextID
	t.sessionID = id
	t.sessLog = t.logger.With("session", id)
	t.epochs[epoch] = id
	delete(t.epochs, epoch-keptEpochs)
	t.mu.Unlock()

	t.logger.Debugf("new session %s for %s", id, fen)
	if t.journal == nil {
		return
	}
	if err := t.journal.StartSession(id, fen, t.oracle.Name()); err != nil {
		t.logger.Errorf("journal: %v", err)
	}
}

func (t *Trainer) record(c interact.Commit) {
	if t.journal == nil {
		return
	}
	t.mu.Lock()
	id, ok := t.epochs[c.Epoch]
	t.mu.Unlock()
	if !ok {
		t.logger.Warnf("journal: dropping %s from expired epoch %d", c.Move, c.Epoch)
		return
	}

	side := "w"
	if c.Piece.Side() == base.Black {
		side = "b"
	}
	err := t.journal.RecordMove(journal.MoveRecord{
		SessionID: id,
		Ply:       c.Ply,
		MoveUCI:   c.Move.String(),
		FENAfter:  c.After,
		Side:      side,
	})
	if err != nil {
		t.logger.Errorf("journal: %v", err)
	}
}

// SessionPosition replays a stored session through the exporter.
func SessionPosition(store *journal.Store, sessionID string) (string, error) {
	sess, err := store.Session(sessionID)
	if err != nil {
		return "", err
	}
	moves, err := store.Moves(sessionID)
	if err != nil {
		return "", err
	}
	list := make([]string, 0, len(moves))
	for _, m := range moves {
		list = append(list, m.MoveUCI)
	}
	return export.MovesToPositionFrom(sess.InitialFEN, list)
}

func (t *Trainer) closeJournal() error {
	if t.journal == nil {
		return nil
	}
	return t.journal.Close()
}

func (t *Trainer) Close() error {
	_ = t.logger.Sync()
	return t.closeJournal()
}

// sessionLogger follows the current session id across Load calls.
type sessionLogger struct{ t *Trainer }

func (s *sessionLogger) current() logx.Logger {
	s.t.mu.Lock()
	defer s.t.mu.Unlock()
	return s.t.sessLog
}

func (s *sessionLogger) Debug(args ...interface{}) { s.current().Debug(args...) }
func (s *sessionLogger) Debugf(template string, args ...interface{}) { s.current().Debugf(template, args...) }
func (s *sessionLogger) Info(args ...interface{}) { s.current().Info(args...) }
func (s *sessionLogger) Infof(template string, args ...interface{}) { s.current().Infof(template, args...) }
func (s *sessionLogger) Warn(args ...interface{}) { s.current().Warn(args...) }
func (s *sessionLogger) Warnf(template string, args ...interface{}) { s.current().Warnf(template, args...) }
func (s *sessionLogger) Error(args ...interface{}) { s.current().Error(args...) }
func (s *sessionLogger) Errorf(template string, args ...interface{}) { s.current().Errorf(template, args...) }
func (s *sessionLogger) With(args ...interface{}) logx.Logger { return s.current().With(args...) }
func (s *sessionLogger) Sync() error { return s.current().Sync() }
