package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/mbeier/famsync/internal/logger"
	"github.com/mbeier/famsync/internal/model"
)

// Chat appends messages to a family's conversation and produces time-ordered
// views, writing through to both stores.
type Chat struct {
	chats    model.ChatCache
	families model.FamilyCache
	remote   remoteGateway
	logger   *logger.Logger
}

// NewChat creates the chat log service. registry may be nil.
func NewChat(
	chats model.ChatCache,
	families model.FamilyCache,
	registry model.RemoteRegistry,
	remoteTimeout time.Duration,
	logger *logger.Logger,
) *Chat {
	return &Chat{
		chats:    chats,
		families: families,
		remote:   newRemoteGateway(registry, remoteTimeout, logger),
		logger:   logger,
	}
}

// Append adds a message to the family's conversation. Text that is empty
// after trimming is silently dropped: the returned message is the zero value
// and nothing is stored. The local sequence is always updated; the remote
// write is best effort and requires the family to be resolvable locally for
// its join code.
func (s *Chat) Append(ctx context.Context, familyID, sender, text string) (model.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.ChatMessage{}, nil
	}
	if utf8.RuneCountInString(text) > model.MaxMessageLength {
		return model.ChatMessage{}, model.ErrMessageTooLong
	}

	message := model.ChatMessage{
		ID:        uuid.NewString(),
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now(),
	}

	messages, err := s.chats.Get(ctx, familyID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return model.ChatMessage{}, fmt.Errorf("failed to read chat log: %w", err)
	}

	messages = append(messages, message)
	if err := s.chats.Put(ctx, familyID, messages); err != nil {
		return model.ChatMessage{}, fmt.Errorf("failed to persist chat log: %w", err)
	}

	if family, err := s.families.GetByID(ctx, familyID); err == nil {
		s.remote.writeMessage(ctx, family.Code, message)
	}

	return message, nil
}

// List returns the family's messages in local insertion order. A family with
// no chat log yet yields an empty sequence, not an error.
func (s *Chat) List(ctx context.Context, familyID string) ([]model.ChatMessage, error) {
	messages, err := s.chats.Get(ctx, familyID)
	if errors.Is(err, model.ErrNotFound) {
		return []model.ChatMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read chat log: %w", err)
	}
	return messages, nil
}

// LoadRemote performs the initial conversation load from the remote registry.
// The remote is an unordered bag keyed by message id, so the result is sorted
// by timestamp ascending before it replaces the local sequence. When the
// remote is unreachable the local sequence is returned unchanged.
func (s *Chat) LoadRemote(ctx context.Context, familyID string) ([]model.ChatMessage, error) {
	family, err := s.families.GetByID(ctx, familyID)
	if err != nil {
		return nil, model.ErrNotFound
	}

	messages, ok := s.remote.readMessages(ctx, family.Code)
	if !ok {
		return s.List(ctx, familyID)
	}

	sort.Slice(messages, func(i, j int) bool {
		if messages[i].Timestamp.Equal(messages[j].Timestamp) {
			return messages[i].ID < messages[j].ID
		}
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})

	if messages == nil {
		messages = []model.ChatMessage{}
	}
	if err := s.chats.Put(ctx, familyID, messages); err != nil {
		return nil, fmt.Errorf("failed to persist chat log: %w", err)
	}

	return messages, nil
}
