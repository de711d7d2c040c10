package cli

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "cache hit at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("layout cache hit", "key", "abc") },
			wantLog: true,
		},
		{
			name:    "config trace hidden at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("loaded config", "file", "config.toml") },
			wantLog: false,
		},
		{
			name:    "config trace shown with debug",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("loaded config", "file", "config.toml") },
			wantLog: true,
		},
		{
			name:    "warning at warn level",
			level:   log.WarnLevel,
			logFunc: func(l *log.Logger) { l.Warn("redis unavailable, caching disabled") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))

			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestNewLoggerTimestamp(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("computed layout")

	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(buf.String()) {
		t.Errorf("output %q does not start with a short timestamp", buf.String())
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("Computed layout for 3 items")

	out := buf.String()
	if !strings.Contains(out, "Computed layout for 3 items (") {
		t.Errorf("output %q missing message", out)
	}
	if !regexp.MustCompile(`\(\d+(\.\d+)?[µnm]?s\)`).MatchString(out) {
		t.Errorf("output %q missing elapsed time", out)
	}
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)

	tests := []struct {
		name string
		ctx  context.Context
		want *log.Logger
	}{
		{name: "attached", ctx: withLogger(context.Background(), custom), want: custom},
		{name: "missing falls back", ctx: context.Background(), want: log.Default()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := loggerFromContext(tt.ctx); got != tt.want {
				t.Errorf("loggerFromContext() = %p, want %p", got, tt.want)
			}
		})
	}

	loggerFromContext(withLogger(context.Background(), custom)).Info("batch done", "albums", 2)
	if !strings.Contains(buf.String(), "albums=2") {
		t.Errorf("attached logger output = %q, want albums=2", buf.String())
	}
}
