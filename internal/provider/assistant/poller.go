package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ErrPollTimeout reports a run that never reached a terminal status within
// the attempt budget. Callers rely on it being distinct from a run that
// finished unsuccessfully.
var ErrPollTimeout = errors.New("run did not reach a terminal status in time")

// PollConfig bounds the run status loop. The interval is fixed: expected
// completion times are a few seconds and call volume is one human-paced
// conversation, so backoff buys nothing.
type PollConfig struct {
	Interval    time.Duration
	MaxAttempts int
}

// RunRetriever fetches the current state of a run.
type RunRetriever interface {
	RetrieveRun(ctx context.Context, threadID, runID string) (openai.Run, error)
}

// IsTerminal reports whether a run status can no longer progress without a
// new run being started.
func IsTerminal(status openai.RunStatus) bool {
	switch status {
	case openai.RunStatusQueued, openai.RunStatusInProgress, openai.RunStatusCancelling:
		return false
	}
	return true
}

// WaitForRun polls the run at a fixed interval until it reaches a terminal
// status, spending at most the configured number of status fetches.
func (c *Client) WaitForRun(ctx context.Context, threadID, runID string) (openai.Run, error) {
	return pollRun(ctx, c.api, threadID, runID, c.poll)
}

func pollRun(ctx context.Context, api RunRetriever, threadID, runID string, cfg PollConfig) (openai.Run, error) {
	start := time.Now()
	for attempt := 1; ; attempt++ {
		run, err := api.RetrieveRun(ctx, threadID, runID)
		if err != nil {
			return openai.Run{}, fmt.Errorf("retrieve run %s: %w", runID, err)
		}
		if IsTerminal(run.Status) {
			observeRun(string(run.Status), attempt, time.Since(start))
			return run, nil
		}
		if attempt >= cfg.MaxAttempts {
			observeRun("poll_timeout", attempt, time.Since(start))
			return openai.Run{}, fmt.Errorf("run %s still %s after %d attempts: %w", runID, run.Status, attempt, ErrPollTimeout)
		}

		select {
		case <-ctx.Done():
			return openai.Run{}, ctx.Err()
		case <-time.After(cfg.Interval):
		}
	}
}
