package game

import (
	"errors"
	"fmt"
)

// ErrUnknownSession marks a stale or never-issued session id; the caller
// must start a new game.
var ErrUnknownSession = errors.New("unknown session")

// RunFailedError reports a run that settled in a non-success terminal
// status, as opposed to a poll that never saw one.
type RunFailedError struct {
	Status string
	Detail string
}

func (e *RunFailedError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("assistant run ended %s: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("assistant run ended %s", e.Status)
}
