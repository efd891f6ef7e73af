package redis

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbeier/famsync/internal/model"
)

// newTestRegistry connects to a local redis server, skipping the test when
// none is running.
func newTestRegistry(t *testing.T) *Registry {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not available at %s: %v", addr, err)
	}

	registry := New(client)
	t.Cleanup(func() { _ = registry.Close() })
	return registry
}

func testCode() string {
	return fmt.Sprintf("T%d", time.Now().UnixNano()%100000)
}

func TestRegistry_FamilyRoundTrip(t *testing.T) {
	registry := newTestRegistry(t)
	ctx := context.Background()
	code := testCode()

	family := model.FamilyProfile{
		ID:        "fam-1",
		Name:      "Smiths",
		Code:      code,
		Admin:     "user-1",
		Members:   []model.Member{{ID: "user-1", Username: "alice"}},
		CreatedAt: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, registry.WriteFamily(ctx, family))

	got, err := registry.ReadFamily(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, family.ID, got.ID)
	assert.Equal(t, "user-1", got.Admin)
}

func TestRegistry_ReadFamily_NotFound(t *testing.T) {
	registry := newTestRegistry(t)

	_, err := registry.ReadFamily(context.Background(), "NOPE42")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRegistry_WriteFamilyReplacesWholeRecord(t *testing.T) {
	registry := newTestRegistry(t)
	ctx := context.Background()
	code := testCode()

	first := model.FamilyProfile{ID: "fam-1", Code: code, Admin: "user-1", Members: []model.Member{{ID: "user-1"}}}
	require.NoError(t, registry.WriteFamily(ctx, first))

	second := first
	second.Admin = "user-2"
	second.Members = []model.Member{{ID: "user-2"}}
	require.NoError(t, registry.WriteFamily(ctx, second))

	got, err := registry.ReadFamily(ctx, code)
	require.NoError(t, err)
	require.Len(t, got.Members, 1)
	assert.Equal(t, "user-2", got.Members[0].ID)
}

func TestRegistry_Messages(t *testing.T) {
	registry := newTestRegistry(t)
	ctx := context.Background()
	code := testCode()

	require.NoError(t, registry.WriteMessage(ctx, code, model.ChatMessage{ID: "m1", Sender: "alice", Text: "hello"}))
	require.NoError(t, registry.WriteMessage(ctx, code, model.ChatMessage{ID: "m2", Sender: "bob", Text: "hi"}))

	messages, err := registry.ReadMessages(ctx, code)
	require.NoError(t, err)
	assert.Len(t, messages, 2)

	empty, err := registry.ReadMessages(ctx, "NOPE42")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRegistry_Available(t *testing.T) {
	registry := newTestRegistry(t)

	assert.True(t, registry.Available(context.Background()))
}
