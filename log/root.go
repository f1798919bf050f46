// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"sync/atomic"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// Logger writes key/value pairs to the installed handler.
type Logger = ethlog.Logger

// Verbosity levels accepted on the command line.
const (
	LegacyLevelCrit = iota
	LegacyLevelError
	LegacyLevelWarn
	LegacyLevelInfo
	LegacyLevelDebug
	LegacyLevelTrace
)

type handlerBox struct{ slog.Handler }

var root atomic.Value

func init() {
	root.Store(handlerBox{DiscardHandler()})
}

// SetDefault installs h as the handler of every logger, including the ones created before the call.
func SetDefault(h slog.Handler) {
	root.Store(handlerBox{h})
	ethlog.SetDefault(ethlog.NewLogger(h))
}

func current() slog.Handler {
	return root.Load().(handlerBox).Handler
}

// Root returns the root logger.
func Root() Logger {
	return ethlog.NewLogger(&lazyHandler{})
}

// New returns a logger with the given context.
func New(ctx ...any) Logger {
	return Root().With(ctx...)
}

// FromLegacyLevel converts a command line verbosity to a level.
func FromLegacyLevel(lvl int) slog.Level {
	return ethlog.FromLegacyLevel(lvl)
}

func Trace(msg string, ctx ...any) { Root().Write(ethlog.LevelTrace, msg, ctx...) }
func Debug(msg string, ctx ...any) { Root().Write(slog.LevelDebug, msg, ctx...) }
func Info(msg string, ctx ...any)  { Root().Write(slog.LevelInfo, msg, ctx...) }
func Warn(msg string, ctx ...any)  { Root().Write(slog.LevelWarn, msg, ctx...) }
func Error(msg string, ctx ...any) { Root().Write(slog.LevelError, msg, ctx...) }

func Crit(msg string, ctx ...any) {
	Root().Write(ethlog.LevelCrit, msg, ctx...)
	os.Exit(1)
}

// lazyHandler resolves the installed handler on every record.
type lazyHandler struct {
	attrs []slog.Attr
}

func (h *lazyHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return current().Enabled(ctx, level)
}

func (h *lazyHandler) Handle(ctx context.Context, r slog.Record) error {
	inner := current()
	if len(h.attrs) > 0 {
		inner = inner.WithAttrs(h.attrs)
	}
	return inner.Handle(ctx, r)
}

func (h *lazyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &lazyHandler{attrs: append(slices.Clip(h.attrs), attrs...)}
}

func (h *lazyHandler) WithGroup(_ string) slog.Handler {
	panic("not implemented")
}
