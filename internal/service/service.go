package service

import (
	"errors"
	"io"
	"os"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// SetLogOutput redirects service logs, e.g. away from stdout in cmd/invoke.
func SetLogOutput(w io.Writer) {
	logger = logger.Output(w)
}

var (
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrDuplicateIdempotentKey = errors.New("idempotent key already exists")
)
