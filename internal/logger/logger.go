// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package logger wraps zerolog.Logger for the task sync server and client.
//
// The Logger type embeds zerolog.Logger so the whole zerolog API is available
// on *Logger. Request- and job-scoped loggers travel in context.Context and
// are recovered with FromContext or FromRequest.
package logger

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/MKhiriev/go-task-sync/models"
)

// DefaultClientLogFile is the client log file name used when no path is
// configured. It is created next to the executable.
const DefaultClientLogFile = "tasksync.log"

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

func setup() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name()
	}
	zerolog.CallerFieldName = "func"
}

// NewLogger constructs the server logger for the given role label.
//
// Entries are JSON on os.Stdout and carry "role", a timestamp and a "func"
// caller field holding the fully-qualified function name.
func NewLogger(role string) *Logger {
	setup()
	return newLogger(os.Stdout, role)
}

// NewClientLogger constructs the CLI logger. The CLI owns stdout for its own
// output, so entries go to logPath (DefaultClientLogFile next to the
// executable when empty) and fall back to stderr when the file cannot be
// opened.
func NewClientLogger(role, logPath string) *Logger {
	setup()

	if logPath == "" {
		execPath, _ := os.Executable()
		logPath = filepath.Join(filepath.Dir(execPath), DefaultClientLogFile)
	}

	var out io.Writer = os.Stderr
	if f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644); err == nil {
		out = f
	}
	return newLogger(out, role)
}

func newLogger(w io.Writer, role string) *Logger {
	l := zerolog.New(w).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()
	return &Logger{l}
}

// SetLevel changes the minimum level of the receiver. Unknown level names
// leave it unchanged and are reported as an error.
func (l *Logger) SetLevel(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	l.Logger = l.Level(lvl)
	return nil
}

// Nop returns a *Logger that discards all output.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// GetChildLogger returns a new *Logger inheriting the receiver's fields.
func (l *Logger) GetChildLogger() *Logger {
	return &Logger{l.With().Logger()}
}

// ForDocument returns a child logger tagged with the document it works on.
func (l *Logger) ForDocument(unitID string, kind models.DocumentKind) *Logger {
	return &Logger{l.With().Str("unit_id", unitID).Str("kind", string(kind)).Logger()}
}

// FromRequest returns the logger attached to the request's context.
func FromRequest(r *http.Request) *Logger {
	return &Logger{*log.Ctx(r.Context())}
}

// FromContext returns the logger attached to ctx. When none is attached,
// zerolog's disabled default logger is returned, never nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
