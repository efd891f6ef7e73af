package local

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/mbeier/famsync/internal/model"
)

var _ model.ChatCache = (*ChatCache)(nil)

// ChatCache is the device's cached chat history, keyed by family id and
// mirrored to the local store under the "chats" snapshot. Each entry is the
// whole ordered message sequence for one family.
type ChatCache struct {
	store *Store

	mu    sync.Mutex
	chats map[string][]model.ChatMessage
}

// NewChatCache hydrates chat history from the local store.
func NewChatCache(store *Store) (*ChatCache, error) {
	c := &ChatCache{
		store: store,
		chats: make(map[string][]model.ChatMessage),
	}
	if err := store.hydrate(keyChats, &c.chats); err != nil {
		return nil, fmt.Errorf("failed to hydrate chats: %w", err)
	}
	return c, nil
}

func (c *ChatCache) Get(_ context.Context, familyID string) ([]model.ChatMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	messages, ok := c.chats[familyID]
	if !ok {
		return nil, model.ErrNotFound
	}
	return slices.Clone(messages), nil
}

func (c *ChatCache) Put(_ context.Context, familyID string, messages []model.ChatMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.chats[familyID] = slices.Clone(messages)
	if err := c.store.flush(keyChats, c.chats); err != nil {
		return fmt.Errorf("failed to flush chats: %w", err)
	}
	return nil
}
