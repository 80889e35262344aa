// log/log.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger struct {
	*slog.Logger
	LogFile string
	LogDir  string
	Start   time.Time
}

// Config selects where and how much the logger writes.
type Config struct {
	Level string
	// Dir holds the rotated log and any crash reports; it defaults to
	// GroundSim/ under the user config directory.
	Dir string
	// Echo also writes records to stderr, for headless runs.
	Echo bool
}

// ParseLevel maps the command-line level names to slog levels.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%s: invalid log level", level)
	}
}

// New returns a Logger writing JSON records to a rotated groundsim.slog
// in c.Dir. An invalid level is reported on stderr and info is used.
func New(c Config) *Logger {
	dir := c.Dir
	if dir == "" {
		var err error
		if dir, err = os.UserConfigDir(); err != nil {
			fmt.Fprintf(os.Stderr, "Unable to find user config dir: %v\n", err)
			dir = "."
		}
		dir = filepath.Join(dir, "GroundSim")
	}

	lvl, err := ParseLevel(c.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	lj := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "groundsim.slog"),
		MaxSize:    32, // MB
		MaxBackups: 1,
	}
	if lvl == slog.LevelDebug {
		// Boarding steps are dumped in full at debug.
		lj.MaxSize = 512
	}

	var w io.Writer = lj
	if c.Echo {
		w = io.MultiWriter(lj, os.Stderr)
	}

	l := &Logger{
		Logger:  slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})),
		LogFile: lj.Filename,
		LogDir:  dir,
		Start:   time.Now(),
	}

	attrs := []any{
		slog.Time("start", l.Start),
		slog.String("level", lvl.String()),
		slog.String("os", runtime.GOOS+"/"+runtime.GOARCH),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		attrs = append(attrs, slog.String("go", bi.GoVersion), slog.String("version", bi.Main.Version))
	}
	l.Info("GroundSim logging started", attrs...)

	return l
}

// NewWriter returns a Logger that writes text records to w; it is mostly
// useful for tests, where log output should go to a buffer or be
// discarded.
func NewWriter(w io.Writer, level slog.Level) *Logger {
	if w == nil {
		w = io.Discard
	}
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})),
		Start:  time.Now(),
	}
}

// emit adds the caller's stack to the record. A nil *Logger discards
// debug and info messages and passes warnings and errors to the default
// slog logger.
func (l *Logger) emit(level slog.Level, msg string, args []any) {
	ctx := context.Background()
	sl := slog.Default()
	if l != nil {
		sl = l.Logger
	} else if level < slog.LevelWarn {
		return
	}
	if !sl.Enabled(ctx, level) {
		return
	}

	args = append([]any{slog.Any("callstack", stackFrames(4, nil))}, args...)
	sl.Log(ctx, level, msg, args...)
}

func (l *Logger) enabled(level slog.Level) bool {
	return level >= slog.LevelWarn || (l != nil && l.Logger.Enabled(context.Background(), level))
}

func (l *Logger) Debug(msg string, args ...any) { l.emit(slog.LevelDebug, msg, args) }
func (l *Logger) Info(msg string, args ...any)  { l.emit(slog.LevelInfo, msg, args) }
func (l *Logger) Warn(msg string, args ...any)  { l.emit(slog.LevelWarn, msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.emit(slog.LevelError, msg, args) }

// Debugf and the other printf-style variants log just a formatted
// message.
func (l *Logger) Debugf(msg string, args ...any) {
	if l.enabled(slog.LevelDebug) {
		l.emit(slog.LevelDebug, fmt.Sprintf(msg, args...), nil)
	}
}

func (l *Logger) Infof(msg string, args ...any) {
	if l.enabled(slog.LevelInfo) {
		l.emit(slog.LevelInfo, fmt.Sprintf(msg, args...), nil)
	}
}

func (l *Logger) Warnf(msg string, args ...any) {
	l.emit(slog.LevelWarn, fmt.Sprintf(msg, args...), nil)
}

func (l *Logger) Errorf(msg string, args ...any) {
	l.emit(slog.LevelError, fmt.Sprintf(msg, args...), nil)
}

func (l *Logger) With(args ...any) *Logger {
	if l == nil {
		return nil
	}
	nl := *l
	nl.Logger = l.Logger.With(args...)
	return &nl
}

// CatchAndReportCrash should be deferred at the top of main and of
// long-running goroutines. It logs a panic, prints a report and saves it
// next to the log file, then returns the recovered value.
func (l *Logger) CatchAndReportCrash() any {
	err := recover()
	if err == nil {
		return nil
	}

	l.Errorf("Crashed: %v", err)

	var report strings.Builder
	fmt.Fprintf(&report, "GroundSim crashed: %v\n", err)
	fmt.Fprintf(&report, "Sys: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if l != nil {
		fmt.Fprintf(&report, "Uptime: %s\nLog: %s\n", time.Since(l.Start).Round(time.Second), l.LogFile)
	}
	report.Write(debug.Stack())

	fmt.Fprintln(os.Stderr, report.String())

	if l != nil && l.LogDir != "" {
		fn := filepath.Join(l.LogDir, "crash-"+time.Now().Format("20060102-150405")+".txt")
		_ = os.WriteFile(fn, []byte(report.String()), 0o600)
	}
	return err
}
