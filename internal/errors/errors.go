// Package errors defines application errors and exit code mapping.
package errors

import (
	sterrors "errors"

	"sha2-go/internal/hexcodec"
	"sha2-go/internal/sha2"
)

var (
	// ErrUsage indicates a command usage failure.
	ErrUsage = sterrors.New("usage error")
)

// ExitCode maps an error to a process exit code.
// Malformed user input (bad hex, wrong digest length) counts as usage.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	switch {
	case sterrors.Is(err, ErrUsage),
		sterrors.Is(err, hexcodec.ErrInvalidCharacter),
		sterrors.Is(err, hexcodec.ErrOddLength),
		sterrors.Is(err, sha2.ErrDigestLength):
		return 2
	}

	return 1
}
