package logger

import (
	"fmt"

	"transfer-relay/core/middleware/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. Debug level selects zap's development
// preset; every other level uses the production preset at that level.
func New(cfg *Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		parsed, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	config := zap.NewProductionConfig()
	if level == zapcore.DebugLevel {
		config = zap.NewDevelopmentConfig()
	}
	config.Level = zap.NewAtomicLevelAt(level)

	switch cfg.Format {
	case "console":
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.DisableStacktrace = true
	default:
		config.Encoding = "json"
	}

	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.MessageKey = "message"
	if cfg.Service != "" {
		config.InitialFields = map[string]any{"service": cfg.Service}
	}

	return config.Build()
}

// WithRayID returns a logger carrying the request's ray_id and, when the auth
// middleware recorded one, the acting user.
func WithRayID(l *zap.Logger, c *fiber.Ctx) *zap.Logger {
	var fields []zap.Field
	if rid, ok := c.Locals("ray_id").(string); ok && rid != "" {
		fields = append(fields, zap.String("ray_id", rid))
	}
	if user := auth.User(c); user != "" {
		fields = append(fields, zap.String("user", user))
	}
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}
