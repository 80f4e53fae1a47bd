package game

import "time"

// Transcript senders.
const (
	SenderPlayer = "player"
	SenderMaster = "mj"
)

// Message records an individual turn for audit/debug.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
