package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/maelik/dungeonmaster/internal/model/game"
)

// TranscriptLog keeps an in-process copy of each session's turns for
// audit/debug. The provider remains the source of truth for conversation
// history; this log only backs the read-only history endpoint.
type TranscriptLog struct {
	mu       sync.RWMutex
	messages map[string][]game.Message
}

// NewTranscriptLog bootstraps an empty transcript log.
func NewTranscriptLog() *TranscriptLog {
	return &TranscriptLog{messages: make(map[string][]game.Message)}
}

// Append records a turn entry for the session.
func (t *TranscriptLog) Append(sessionID, sender, content string) {
	entry := game.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Sender:    sender,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	t.mu.Lock()
	t.messages[sessionID] = append(t.messages[sessionID], entry)
	t.mu.Unlock()
}

// History returns the recorded messages for a session in append order.
func (t *TranscriptLog) History(sessionID string) []game.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()

	messages := t.messages[sessionID]
	copied := make([]game.Message, len(messages))
	copy(copied, messages)
	return copied
}
