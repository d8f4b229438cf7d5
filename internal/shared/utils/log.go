// Package utils carries the structured logging helpers shared by the ledger,
// webhook, and auth services.
package utils

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger configures the global zerolog logger for console output.
func InitLogger() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

// LogInfo logs at info level with structured fields.
func LogInfo(msg string, fields map[string]interface{}) {
	emit(log.Info(), msg, fields)
}

// LogError logs an error with structured fields.
func LogError(msg string, err error, fields map[string]interface{}) {
	emit(log.Error().Err(err), msg, fields)
}

// LogWarn logs at warn level with structured fields.
func LogWarn(msg string, fields map[string]interface{}) {
	emit(log.Warn(), msg, fields)
}

func emit(event *zerolog.Event, msg string, fields map[string]interface{}) {
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}
