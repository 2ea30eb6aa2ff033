// Package observability owns logging and metrics wiring.
package observability

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger configures the process logger. Dev mode writes a human
// console format; production writes JSON lines for log shippers. The
// result is also installed as zerolog's package default.
func InitLogger(app string, dev bool) zerolog.Logger {
	out := zerolog.New(os.Stdout)
	if dev {
		out = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}
	logger := out.With().Timestamp().Str("app", app).Logger()
	log.Logger = logger
	return logger
}
