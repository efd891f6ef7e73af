package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/mbeier/famsync/internal/model"
)

var _ model.RemoteRegistry = (*Registry)(nil)

// Registry is a RemoteRegistry backed by a shared redis instance. Families
// live under plain keys families/{code}; a family's chat log is a hash at
// chats/{code} with one field per message id.
type Registry struct {
	client *redis.Client
}

// New wraps an existing redis client.
func New(client *redis.Client) *Registry {
	return &Registry{client: client}
}

func (r *Registry) Close() error {
	return r.client.Close()
}

func (r *Registry) ReadFamily(ctx context.Context, code string) (model.FamilyProfile, error) {
	raw, err := r.client.Get(ctx, "families/"+strings.ToUpper(code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.FamilyProfile{}, model.ErrNotFound
	}
	if err != nil {
		return model.FamilyProfile{}, fmt.Errorf("failed to read family: %w", err)
	}

	var family model.FamilyProfile
	if err := json.Unmarshal(raw, &family); err != nil {
		// A record that cannot be decoded is treated as missing.
		return model.FamilyProfile{}, model.ErrNotFound
	}
	return family, nil
}

func (r *Registry) WriteFamily(ctx context.Context, family model.FamilyProfile) error {
	raw, err := json.Marshal(family)
	if err != nil {
		return fmt.Errorf("failed to marshal family: %w", err)
	}

	if err := r.client.Set(ctx, "families/"+strings.ToUpper(family.Code), raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to write family: %w", err)
	}
	return nil
}

func (r *Registry) WriteMessage(ctx context.Context, code string, message model.ChatMessage) error {
	raw, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := r.client.HSet(ctx, "chats/"+strings.ToUpper(code), message.ID, raw).Err(); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return nil
}

func (r *Registry) ReadMessages(ctx context.Context, code string) ([]model.ChatMessage, error) {
	fields, err := r.client.HGetAll(ctx, "chats/"+strings.ToUpper(code)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}

	var messages []model.ChatMessage
	for _, raw := range fields {
		var message model.ChatMessage
		if err := json.Unmarshal([]byte(raw), &message); err != nil {
			continue
		}
		messages = append(messages, message)
	}
	return messages, nil
}

func (r *Registry) Available(ctx context.Context) bool {
	return r.client.Ping(ctx).Err() == nil
}
