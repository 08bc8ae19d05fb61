package logx

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestLevelByString(t *testing.T) {
	if GetLoggerLevelByString("warn") != zapcore.WarnLevel {
		t.Error("warn")
	}
	if GetLoggerLevelByString("bogus") != zapcore.DebugLevel {
		t.Error("unknown level must fall back to debug")
	}
}

func TestJSONOutputWithFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogx(zapcore.InfoLevel, false, false)
	l.InitLogger(&buf)

	child := l.With("session", "abc")
	child.Debug("hidden")
	child.Infof("commit %s", "e2e4")
	_ = child.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line leaked at info level: %s", out)
	}
	if !strings.Contains(out, `"MESSAGE":"commit e2e4"`) || !strings.Contains(out, `"session":"abc"`) {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestNop(t *testing.T) {
	l := NewNopLogx()
	l.Error("nothing happens")
	l.With("k", "v").Warnf("%d", 1)
}
