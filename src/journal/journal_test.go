package journal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "journal.db"), nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndReadBack(t *testing.T) {
	s := openTemp(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.StartSession("s1", "start-fen", "notnil"); err != nil {
		t.Fatal(err)
	}
	for i, uci := range []string{"e2e4", "e7e5", "g1f3"} {
		side := "w"
		if i%2 == 1 {
			side = "b"
		}
		if err := s.RecordMove(MoveRecord{SessionID: "s1", Ply: i + 1, MoveUCI: uci, FENAfter: "fen", Side: side}); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.StartSession("s2", "other-fen", "dragontooth"); err != nil {
		t.Fatal(err)
	}
	if err := s.Sync(ctx); err != nil {
		t.Fatal(err)
	}

	moves, err := s.Moves("s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(moves) != 3 || moves[0].MoveUCI != "e2e4" || moves[2].Ply != 3 || moves[1].Side != "b" {
		t.Fatalf("moves = %+v", moves)
	}
	if moves[0].CreatedAt.IsZero() {
		t.Error("created_at not scanned")
	}

	sess, err := s.Session("s1")
	if err != nil {
		t.Fatal(err)
	}
	if sess.InitialFEN != "start-fen" || sess.Oracle != "notnil" || sess.MoveCount != 3 {
		t.Errorf("session = %+v", sess)
	}

	all, err := s.Sessions()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("sessions = %+v", all)
	}
	for _, r := range all {
		if r.SessionID == "s2" && r.MoveCount != 0 {
			t.Errorf("s2 has %d moves", r.MoveCount)
		}
	}

	if _, err := s.Session("missing"); err == nil {
		t.Error("missing session found")
	}
}

func TestFailedWriteDegrades(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	// no such session: foreign key violation
	if err := s.RecordMove(MoveRecord{SessionID: "ghost", Ply: 1, MoveUCI: "e2e4", FENAfter: "f", Side: "w"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Sync(ctx); !errors.Is(err, ErrDegraded) {
		t.Fatalf("expected ErrDegraded, got %v", err)
	}
	if s.IsHealthy() {
		t.Error("store still healthy")
	}
	if err := s.StartSession("late", "fen", "notnil"); err != nil {
		t.Errorf("degraded writes are dropped quietly, got %v", err)
	}
}

func TestClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	s, err := Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.StartSession("s1", "fen", "notnil"); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
	if err := s.RecordMove(MoveRecord{SessionID: "s1"}); !errors.Is(err, ErrClosed) {
		t.Errorf("record after close: %v", err)
	}
	if err := s.Sync(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("sync after close: %v", err)
	}

	// queued session survived the close
	s, err = Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, err := s.Session("s1"); err != nil {
		t.Error(err)
	}
}

func TestBurstBeyondQueueKeepsEveryWrite(t *testing.T) {
	s := openTemp(t)
	if err := s.StartSession("burst", "fen", "notnil"); err != nil {
		t.Fatal(err)
	}
	n := queueSize * 3
	for ply := 1; ply <= n; ply++ {
		if err := s.RecordMove(MoveRecord{SessionID: "burst", Ply: ply, MoveUCI: "e2e4", FENAfter: "fen", Side: "w"}); err != nil {
			t.Fatalf("ply %d: %v", ply, err)
		}
	}
	if err := s.Sync(context.Background()); err != nil {
		t.Fatal(err)
	}
	moves, err := s.Moves("burst")
	if err != nil {
		t.Fatal(err)
	}
	if len(moves) != n {
		t.Errorf("stored %d moves, want %d", len(moves), n)
	}
}
