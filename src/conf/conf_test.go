package conf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"trainboard/src/base"
)

func write(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trainboard.json")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMissingFileGivesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.json")
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Oracle != "notnil" || c.PromotionPolicy != "discard" || c.StartFEN != base.FEN_START_GAME {
		t.Errorf("defaults = %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
	if c.File() != path {
		t.Errorf("file = %q", c.File())
	}
}

func TestCorrections(t *testing.T) {
	c, err := Load(write(t, `{"oracle":" DragonTooth ","theme":"neon","window_w":10,"start_fen":""}`))
	if err != nil {
		t.Fatal(err)
	}
	if c.Oracle != "dragontooth" || c.Theme != "light" || c.WindowW != 1000 || c.StartFEN != base.FEN_START_GAME {
		t.Errorf("not corrected: %+v", c)
	}
	if c.JournalPath != "trainboard.db" {
		t.Errorf("unset keys must keep defaults, journal_path = %q", c.JournalPath)
	}
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"oracle":"stockfish"}`, "oracle must be one of"},
		{`{"promotion_policy":"ask"}`, "promotion_policy must be one of"},
		{`{"board_size":100}`, "board_size must be at least 160"},
		{`{"start_fen":"8/8/8 w"}`, "start_fen is not a valid FEN"},
		{`{"log_level":"loud"}`, "log_level must be one of"},
	}
	for _, tc := range tests {
		_, err := Load(write(t, tc.body))
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: got %v, want %q", tc.body, err, tc.want)
		}
	}

	if _, err := Load(write(t, `{not json`)); err == nil {
		t.Error("broken json accepted")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	c.Oracle = "dragontooth"
	c.Flipped = true
	if err := c.Save(); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Oracle != "dragontooth" || !got.Flipped {
		t.Errorf("saved config = %+v", got)
	}
}
