package detection

import (
	"log/slog"
	"sync/atomic"

	"github.com/ironsheep/docrectify-mcp/internal/logging"
)

// loggerPtr holds the package logger. Accessed atomically so SetLogger may
// race with detection calls running in other goroutines.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(logging.Nop())
}

// SetLogger routes detection diagnostics (debug level) to l.
// By default the package is silent; pass nil to restore that.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = logging.Nop()
	}
	loggerPtr.Store(l)
}

func logger() *slog.Logger {
	return loggerPtr.Load()
}
