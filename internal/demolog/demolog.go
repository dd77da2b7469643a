// Package demolog wires a console zerolog.Logger for cmd/parceldemo. The
// parcel packages and their test helpers do not use it; this is
// operational narration only, for processes that own a terminal.
package demolog

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger for role (e.g. "parent",
// "worker") and returns it for callers that want a local reference.
func Init(role string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	logger := zerolog.New(output).With().Timestamp().Str("role", role).Logger()
	log.Logger = logger
	return logger
}
