package model

import (
	"context"
	"time"
)

// MaxMessageLength caps chat message text in runes.
const MaxMessageLength = 500

// ChatMessage is a single immutable conversation entry.
type ChatMessage struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatCache is the device-local chat history keyed by family id. Each value is
// the whole ordered sequence for that family.
type ChatCache interface {
	Get(ctx context.Context, familyID string) ([]ChatMessage, error)
	Put(ctx context.Context, familyID string, messages []ChatMessage) error
}
