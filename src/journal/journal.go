// Package journal stores committed moves so finished sessions can be replayed
// by the exporter.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"trainboard/src/logx"
)

var (
	ErrClosed   = errors.New("journal closed")
	ErrDegraded = errors.New("journal degraded after a failed write")
)

const queueSize = 256

type job struct {
	write func(*sql.Tx) error
	done  chan struct{} // barrier when write is nil
}

// Store writes asynchronously on one goroutine and reads directly.
type Store struct {
	db      *sql.DB
	path    string
	logger  logx.Logger
	queue   chan job
	healthy atomic.Bool
	closed  atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	wg      sync.WaitGroup
}

// Open opens or creates the database at path and starts the writer.
func Open(path string, logger logx.Logger) (*Store, error) {
	if logger == nil {
		logger = logx.NewNopLogx()
	}
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		db:      db,
		path:    path,
		logger:  logger,
		queue:   make(chan job, queueSize),
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
	s.healthy.Store(true)

	s.wg.Add(1)
	go s.writerLoop()
	return s, nil
}

func (s *Store) IsHealthy() bool {
	return s.healthy.Load()
}

func (s *Store) writerLoop() {
	defer s.wg.Done()
	defer close(s.stopped)
	for {
		select {
		case <-s.ctx.Done():
			deadline := time.After(2 * time.Second)
			for {
				select {
				case j := <-s.queue:
					s.run(j)
				case <-deadline:
					return
				default:
					return
				}
			}
		case j := <-s.queue:
			s.run(j)
		}
	}
}

func (s *Store) run(j job) {
	if j.write == nil {
		close(j.done)
		return
	}
	if !s.healthy.Load() {
		return
	}

	tx, err := s.db.Begin()
	if err != nil {
		s.degrade("begin transaction", err)
		return
	}
	if err := j.write(tx); err != nil {
		tx.Rollback()
		s.degrade("write", err)
		return
	}
	if err := tx.Commit(); err != nil {
		s.degrade("commit", err)
	}
}

func (s *Store) degrade(stage string, err error) {
	s.logger.Errorf("journal degraded: %s failed: %v", stage, err)
	s.healthy.Store(false)
}

func (s *Store) enqueue(what string, fn func(*sql.Tx) error) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if !s.healthy.Load() {
		return nil
	}
	select {
	case s.queue <- job{write: fn}:
		return nil
	default:
	}
	// A dropped session row would fail every later move on its foreign key,
	// so a full queue waits for the writer.
	s.logger.Debugf("journal queue full, waiting to queue %s", what)
	select {
	case s.queue <- job{write: fn}:
		return nil
	case <-s.ctx.Done():
		return ErrClosed
	}
}

// StartSession records a new session asynchronously.
func (s *Store) StartSession(id, initialFEN, oracle string) error {
	created := time.Now().UTC()
	return s.enqueue("session", func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO sessions (session_id, initial_fen, oracle, created_at) VALUES (?, ?, ?, ?)`,
			id, initialFEN, oracle, created,
		)
		return err
	})
}

// RecordMove records a committed move asynchronously.
func (s *Store) RecordMove(rec MoveRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	return s.enqueue("move", func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO moves (session_id, ply, move_uci, fen_after, side, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			rec.SessionID, rec.Ply, rec.MoveUCI, rec.FENAfter, rec.Side, rec.CreatedAt,
		)
		return err
	})
}

// Sync waits until every write queued before the call has been attempted.
func (s *Store) Sync(ctx context.Context) error {
	if s.closed.Load() {
		return ErrClosed
	}
	done := make(chan struct{})
	select {
	case s.queue <- job{done: done}:
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ctx.Done():
		return ErrClosed
	}
	select {
	case <-done:
	case <-s.stopped:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	if !s.healthy.Load() {
		return ErrDegraded
	}
	return nil
}

// Moves returns the moves of one session in ply order.
func (s *Store) Moves(sessionID string) ([]MoveRecord, error) {
	rows, err := s.db.Query(
		`SELECT session_id, ply, move_uci, fen_after, side, created_at
		FROM moves WHERE session_id = ? ORDER BY ply`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		if err := rows.Scan(&m.SessionID, &m.Ply, &m.MoveUCI, &m.FENAfter, &m.Side, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		moves = append(moves, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return moves, nil
}

// Session looks up one session by id.
func (s *Store) Session(sessionID string) (SessionRecord, error) {
	var r SessionRecord
	err := s.db.QueryRow(
		`SELECT s.session_id, s.initial_fen, s.oracle, s.created_at, COUNT(m.move_id)
		FROM sessions s LEFT JOIN moves m ON m.session_id = s.session_id
		WHERE s.session_id = ? GROUP BY s.session_id`, sessionID,
	).Scan(&r.SessionID, &r.InitialFEN, &r.Oracle, &r.CreatedAt, &r.MoveCount)
	if err != nil {
		return r, fmt.Errorf("session %s: %w", sessionID, err)
	}
	return r, nil
}

// Sessions lists all sessions, newest first.
func (s *Store) Sessions() ([]SessionRecord, error) {
	rows, err := s.db.Query(
		`SELECT s.session_id, s.initial_fen, s.oracle, s.created_at, COUNT(m.move_id)
		FROM sessions s LEFT JOIN moves m ON m.session_id = s.session_id
		GROUP BY s.session_id ORDER BY s.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var r SessionRecord
		if err := rows.Scan(&r.SessionID, &r.InitialFEN, &r.Oracle, &r.CreatedAt, &r.MoveCount); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return out, nil
}

// Close drains queued writes and closes the database. It is safe to call twice.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		s.logger.Warn("journal writer shutdown timeout, some writes may be lost")
	}
	return s.db.Close()
}
