// internal/round/errors.go
//
// Typed failures for the round service. Transport maps these onto the
// JSON error codes; nothing here carries HTTP semantics.

package round

import (
	"errors"
	"strings"
)

var (
	// ErrThemeRequired rejects an empty or whitespace-only theme.
	ErrThemeRequired = errors.New("theme is required")

	// ErrRoundNotFound covers unknown, expired, and already-revealed rounds.
	// The three causes are deliberately indistinguishable to the caller.
	ErrRoundNotFound = errors.New("unknown or expired round")

	// ErrGuessOutOfRange rejects a guess outside [0, TargetMax].
	ErrGuessOutOfRange = errors.New("guess out of range")
)

// GenerationError reports a failed call to the content backend
// (network, auth, non-2xx status). The upstream cause is wrapped.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string { return "generation failed: " + e.Err.Error() }

func (e *GenerationError) Unwrap() error { return e.Err }

// InvalidContentError reports generator output that failed structural
// validation (undecodable payload or out-of-bounds fields).
type InvalidContentError struct {
	Details []string
}

func (e *InvalidContentError) Error() string {
	return "invalid model output: " + strings.Join(e.Details, "; ")
}
