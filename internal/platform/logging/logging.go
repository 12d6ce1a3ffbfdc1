package logging

import (
	"io"

	"github.com/rs/zerolog"
)

// New builds the process logger. Development gets the console writer, every
// other environment gets JSON lines. An unparseable level falls back to info.
func New(env, level string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	out := w
	if env == "development" {
		out = zerolog.ConsoleWriter{Out: w}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
