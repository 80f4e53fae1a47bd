package game

import "time"

// Session binds a game session to its provider-side conversation thread.
// Records are never mutated after creation; the provider holds the actual
// conversation history.
type Session struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"threadId"`
	CreatedAt time.Time `json:"createdAt"`
}
