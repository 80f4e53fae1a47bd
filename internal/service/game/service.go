// Package game orchestrates game sessions over the assistant provider:
// starting a session and playing a turn each compose several provider calls
// around one run poll.
package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/maelik/dungeonmaster/internal/model/game"
	"github.com/maelik/dungeonmaster/internal/service/session"
)

// PlaceholderReply stands in when a run completes without producing an
// assistant message. The turn still succeeded, so this is returned as a
// normal reply rather than an error.
const PlaceholderReply = "The game master stays silent and stares into the distance... Try another message."

// Provider is the slice of the assistant client the gateway composes.
type Provider interface {
	CreateThread(ctx context.Context) (string, error)
	AddUserMessage(ctx context.Context, threadID, content string) error
	StartRun(ctx context.Context, threadID string) (openai.Run, error)
	WaitForRun(ctx context.Context, threadID, runID string) (openai.Run, error)
	FirstAssistantMessage(ctx context.Context, threadID string) (string, bool, error)
	LastAssistantMessage(ctx context.Context, threadID string) (string, bool, error)
}

// Service is the conversation gateway between the HTTP surface and the
// provider. It does not serialize turns per session; the UI keeps input
// disabled while a turn is outstanding.
type Service struct {
	provider   Provider
	sessions   session.Store
	transcript *session.TranscriptLog
	log        zerolog.Logger
}

// NewService wires the gateway.
func NewService(provider Provider, sessions session.Store, transcript *session.TranscriptLog, log zerolog.Logger) *Service {
	return &Service{
		provider:   provider,
		sessions:   sessions,
		transcript: transcript,
		log:        log,
	}
}

// StartSession opens a fresh thread, runs the assistant once for the opening
// narration and registers the session. The thread id doubles as session id.
func (s *Service) StartSession(ctx context.Context) (game.Session, string, error) {
	threadID, err := s.provider.CreateThread(ctx)
	if err != nil {
		return game.Session{}, "", err
	}

	if err := s.runToCompletion(ctx, threadID); err != nil {
		return game.Session{}, "", err
	}

	// Opening narration is the first assistant message on the thread.
	initial, ok, err := s.provider.FirstAssistantMessage(ctx, threadID)
	if err != nil {
		return game.Session{}, "", err
	}
	if !ok || strings.TrimSpace(initial) == "" {
		s.log.Warn().Str("thread", threadID).Msg("run completed without an assistant message")
		initial = PlaceholderReply
	}

	sess := game.Session{
		ID:        threadID,
		ThreadID:  threadID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessions.Put(sess); err != nil {
		return game.Session{}, "", err
	}
	s.transcript.Append(sess.ID, game.SenderMaster, initial)

	s.log.Info().Str("session", sess.ID).Msg("session started")
	return sess, initial, nil
}

// SubmitTurn appends the player's message, runs the assistant and returns
// its reply. Whitespace-only input is a no-op with an empty reply; the
// provider is never contacted for it.
func (s *Service) SubmitTurn(ctx context.Context, sessionID, text string) (string, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return "", fmt.Errorf("%w: %q", ErrUnknownSession, sessionID)
		}
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	if err := s.provider.AddUserMessage(ctx, sess.ThreadID, text); err != nil {
		return "", err
	}
	if err := s.runToCompletion(ctx, sess.ThreadID); err != nil {
		return "", err
	}

	// The message list accumulates, so the newest assistant message is the
	// reply to this turn.
	reply, ok, err := s.provider.LastAssistantMessage(ctx, sess.ThreadID)
	if err != nil {
		return "", err
	}
	if !ok || strings.TrimSpace(reply) == "" {
		s.log.Warn().Str("session", sessionID).Msg("run completed without an assistant message")
		reply = PlaceholderReply
	}

	s.transcript.Append(sess.ID, game.SenderPlayer, text)
	s.transcript.Append(sess.ID, game.SenderMaster, reply)
	return reply, nil
}

// History returns the locally recorded transcript for a session.
func (s *Service) History(sessionID string) ([]game.Message, error) {
	if _, err := s.sessions.Get(sessionID); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSession, sessionID)
		}
		return nil, err
	}
	return s.transcript.History(sessionID), nil
}

// runToCompletion starts a run and polls it to a terminal status, requiring
// that status to be completed.
func (s *Service) runToCompletion(ctx context.Context, threadID string) error {
	run, err := s.provider.StartRun(ctx, threadID)
	if err != nil {
		return err
	}

	final, err := s.provider.WaitForRun(ctx, threadID, run.ID)
	if err != nil {
		return err
	}
	if final.Status != openai.RunStatusCompleted {
		detail := ""
		if final.LastError != nil {
			detail = fmt.Sprintf("%s: %s", final.LastError.Code, final.LastError.Message)
		}
		return &RunFailedError{Status: string(final.Status), Detail: detail}
	}
	return nil
}
