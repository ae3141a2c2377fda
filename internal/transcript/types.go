// Package transcript records the raw turn log of each chat session for
// later inspection. It is bookkeeping only: the dialogue core never reads
// it back into a prompt, and user memory stays session-scoped regardless of
// which store backs the transcript.
package transcript

import (
	"context"
	"time"
)

// TurnRecord stores a single user or assistant conversational turn.
type TurnRecord struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists and retrieves turn transcripts.
type Store interface {
	SaveTurn(ctx context.Context, record TurnRecord) error
	Recent(ctx context.Context, sessionID string, limit int) ([]TurnRecord, error)
	Close() error
}
