package src

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"trainboard/src/base"
	"trainboard/src/conf"
	"trainboard/src/journal"
	"trainboard/src/oracle"
)

func TestNewOracle(t *testing.T) {
	for _, name := range []string{"", "notnil", "dragontooth"} {
		o, err := NewOracle(name)
		if err != nil {
			t.Fatalf("%q: %v", name, err)
		}
		if name != "" && o.Name() != name {
			t.Errorf("%q: got %s", name, o.Name())
		}
	}
	if _, err := NewOracle("stockfish"); !errors.Is(err, oracle.ErrUnknownOracle) {
		t.Errorf("expected ErrUnknownOracle, got %v", err)
	}
}

func drag(t *testing.T, tr *Trainer, from, to string) {
	t.Helper()
	g := tr.Board().Geometry()
	f, err := base.SquareFromAlgebraic(from)
	if err != nil {
		t.Fatal(err)
	}
	d, err := base.SquareFromAlgebraic(to)
	if err != nil {
		t.Fatal(err)
	}
	tr.Board().BeginDrag(f, g.SquareCenter(f))
	tr.Board().EndDrag(g.SquareCenter(d))
}

func placement(fen string) string {
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return fen
	}
	return fields[0] + " " + fields[1]
}

func TestTrainerJournalsCommits(t *testing.T) {
	for _, name := range []string{"notnil", "dragontooth"} {
		t.Run(name, func(t *testing.T) {
			cfg := conf.Default()
			cfg.Oracle = name
			cfg.JournalPath = filepath.Join(t.TempDir(), "journal.db")

			tr, err := NewTrainer(cfg, "", nil)
			if err != nil {
				t.Fatal(err)
			}
			first := tr.SessionID()
			drag(t, tr, "e2", "e4")
			drag(t, tr, "e7", "e5")
			drag(t, tr, "g1", "f3")
			want := tr.Board().State().Position

			if err := tr.Journal().Sync(context.Background()); err != nil {
				t.Fatal(err)
			}
			got, err := SessionPosition(tr.Journal(), first)
			if err != nil {
				t.Fatal(err)
			}
			if placement(got) != placement(want) {
				t.Errorf("replayed %q, board shows %q", got, want)
			}

			if err := tr.Load("bad fen"); err == nil {
				t.Fatal("bad fen accepted")
			}
			if tr.SessionID() != first {
				t.Error("failed load changed the session")
			}

			if err := tr.Load("4k3/P7/8/8/8/8/8/4K3 w - - 0 1"); err != nil {
				t.Fatal(err)
			}
			second := tr.SessionID()
			if second == first {
				t.Fatal("load kept the old session")
			}
			drag(t, tr, "a7", "a8")
			tr.Board().ResolvePromotion(base.Rook)

			if err := tr.Close(); err != nil {
				t.Fatal(err)
			}

			store, err := journal.Open(cfg.JournalPath, nil)
			if err != nil {
				t.Fatal(err)
			}
			defer store.Close()
			moves, err := store.Moves(second)
			if err != nil {
				t.Fatal(err)
			}
			if len(moves) != 1 || moves[0].MoveUCI != "a7a8r" || moves[0].Side != "w" {
				t.Errorf("moves = %+v", moves)
			}
			sessions, err := store.Sessions()
			if err != nil {
				t.Fatal(err)
			}
			if len(sessions) != 2 {
				t.Errorf("sessions = %+v", sessions)
			}
		})
	}
}

func TestTrainerWithoutJournal(t *testing.T) {
	cfg := conf.Default()
	cfg.JournalPath = ""
	cfg.PromotionPolicy = "reject"
	tr, err := NewTrainer(cfg, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer tr.Close()
	drag(t, tr, "e2", "e4")
	if tr.Board().State().SideToMove != base.Black {
		t.Error("move not committed")
	}

	cfg.Oracle = "nope"
	if _, err := NewTrainer(cfg, "", nil); err == nil {
		t.Error("unknown oracle accepted")
	}
}

func TestLoadDuringCommitsKeepsJournalHealthy(t *testing.T) {
	cfg := conf.Default()
	cfg.JournalPath = filepath.Join(t.TempDir(), "journal.db")
	tr, err := NewTrainer(cfg, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer tr.Close()

	b := tr.Board()
	g := b.Geometry()
	var route [][2]base.Square
	for _, mv := range []string{"g1f3", "g8f6", "f3g1", "f6g8"} {
		m, err := base.MoveFromUCI(mv)
		if err != nil {
			t.Fatal(err)
		}
		route = append(route, [2]base.Square{m.From, m.To})
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 300; i++ {
			for _, r := range route {
				b.BeginDrag(r[0], g.SquareCenter(r[0]))
				b.EndDrag(g.SquareCenter(r[1]))
			}
		}
	}()
	loadErrs := make(chan error, 300)
	go func() {
		defer wg.Done()
		for i := 0; i < 300; i++ {
			loadErrs <- tr.Load(base.FEN_START_GAME)
		}
	}()
	wg.Wait()
	close(loadErrs)
	for err := range loadErrs {
		if err != nil {
			t.Fatalf("load: %v", err)
		}
	}

	if err := tr.Journal().Sync(context.Background()); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if !tr.Journal().IsHealthy() {
		t.Fatal("journal degraded")
	}

	sessions, err := tr.Journal().Sessions()
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 301 {
		t.Errorf("sessions = %d, want 301", len(sessions))
	}
	for _, s := range sessions {
		if _, err := SessionPosition(tr.Journal(), s.SessionID); err != nil {
			t.Errorf("session %s does not replay: %v", s.SessionID, err)
		}
	}
}
