package loggingfx

import (
	"github.com/0x5457/signclip/internal/config/configfx"
	"github.com/0x5457/signclip/internal/logging"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewLogger creates the application logger from the configured level
func NewLogger(config *configfx.Config) (*zap.Logger, error) {
	return logging.New(config.LogLevel)
}

// Module provides the logger and routes fx events through it at debug level
var Module = fx.Options(
	fx.Module("logging", fx.Provide(NewLogger)),
	fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
		l := &fxevent.ZapLogger{Logger: log}
		l.UseLogLevel(zap.DebugLevel)
		return l
	}),
)
