package depot

import "go.uber.org/zap"

// Config holds the package defaults applied to every new World.
var Config config = config{logger: zap.NewNop()}

type config struct {
	logger *zap.Logger
}

// SetLogger sets the logger new worlds start with.
func (c *config) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c.logger = logger
}

// WorldOption configures a World at construction.
type WorldOption func(*World)

// WithLogger overrides the package logger for one world.
func WithLogger(logger *zap.Logger) WorldOption {
	return func(w *World) {
		if logger != nil {
			w.logger = logger
		}
	}
}
