// log/log_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package log

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for _, c := range []struct {
		s   string
		lvl slog.Level
		ok  bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"", slog.LevelInfo, true},
		{"loud", slog.LevelInfo, false},
	} {
		lvl, err := ParseLevel(c.s)
		if (err == nil) != c.ok {
			t.Errorf("%q: expected ok=%v, got err %v", c.s, c.ok, err)
		}
		if lvl != c.lvl {
			t.Errorf("%q: expected level %v, got %v", c.s, c.lvl, lvl)
		}
	}
}

func TestLoggerLevelsAndCallstack(t *testing.T) {
	var buf bytes.Buffer
	lg := NewWriter(&buf, slog.LevelInfo)

	lg.Debug("hidden")
	lg.Info("shown", slog.Int("n", 3))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message logged at info level: %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "n=3") {
		t.Errorf("expected info message with attribute, got %s", out)
	}
	if !strings.Contains(out, "callstack=") {
		t.Errorf("expected callstack attribute, got %s", out)
	}
}

func TestNilLogger(t *testing.T) {
	var lg *Logger
	// None of these should panic.
	lg.Debug("x")
	lg.Debugf("%d", 1)
	lg.Info("x")
	lg.Infof("%d", 1)
	if lg.With("a", 1) != nil {
		t.Errorf("expected nil logger from With on nil logger")
	}
}

func TestCallstack(t *testing.T) {
	fr := func() []StackFrame { return Callstack(nil) }()
	if len(fr) == 0 {
		t.Fatalf("expected at least one frame")
	}
	for _, f := range fr {
		if f.File == "" || f.Line == 0 {
			t.Errorf("incomplete frame %+v", f)
		}
	}
}

func TestNewWritesLogFile(t *testing.T) {
	dir := t.TempDir()
	lg := New(Config{Level: "debug", Dir: dir})

	if lg.LogFile != filepath.Join(dir, "groundsim.slog") {
		t.Errorf("unexpected log file %s", lg.LogFile)
	}
	lg.Debug("boarding step", slog.Int("pax", 1))

	b, err := os.ReadFile(lg.LogFile)
	if err != nil {
		t.Fatalf("%s: %v", lg.LogFile, err)
	}
	if !strings.Contains(string(b), "GroundSim logging started") || !strings.Contains(string(b), `"pax":1`) {
		t.Errorf("unexpected log contents %s", b)
	}
}
