// Package logging builds the slog loggers used across the service.
//
// Components default to Nop() and receive a real logger from main. Output
// always goes to the writer given to New (stderr for the MCP server, since
// stdout carries the protocol).
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// nopHandler discards every record. Enabled returns false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// Nop returns a logger that silently discards all output.
func Nop() *slog.Logger { return slog.New(nopHandler{}) }

// ParseLevel maps "debug", "info", "warn"/"warning" and "error" to slog levels.
// The empty string means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// New creates a text logger writing to w at the given level.
func New(level string, w io.Writer) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
