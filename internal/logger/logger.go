package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New monta o logger da aplicação. format "console" gera saída legível
// para dev; qualquer outro valor gera JSON.
func New(level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	var out io.Writer = os.Stdout
	if format == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Str("service", "gestao-agenda").
		Logger()
}
