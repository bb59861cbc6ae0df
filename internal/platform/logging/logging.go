package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger. Format "human" switches to the
// console writer; anything else emits JSON lines.
func Setup(level, format string) zerolog.Logger {
	return SetupWriter(os.Stdout, level, format)
}

func SetupWriter(out io.Writer, level, format string) zerolog.Logger {
	if strings.EqualFold(format, "human") {
		out = zerolog.ConsoleWriter{Out: out}
	}

	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)

	log.Logger = log.Output(out).With().Timestamp().Logger()
	return log.Logger
}
