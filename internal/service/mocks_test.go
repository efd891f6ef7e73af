package service

import (
	"context"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/mbeier/famsync/internal/model"
)

// MockRemoteRegistry mocks the RemoteRegistry interface.
type MockRemoteRegistry struct {
	mock.Mock
}

func (m *MockRemoteRegistry) ReadFamily(ctx context.Context, code string) (model.FamilyProfile, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(model.FamilyProfile), args.Error(1)
}

func (m *MockRemoteRegistry) WriteFamily(ctx context.Context, family model.FamilyProfile) error {
	args := m.Called(ctx, family)
	return args.Error(0)
}

func (m *MockRemoteRegistry) WriteMessage(ctx context.Context, code string, message model.ChatMessage) error {
	args := m.Called(ctx, code, message)
	return args.Error(0)
}

func (m *MockRemoteRegistry) ReadMessages(ctx context.Context, code string) ([]model.ChatMessage, error) {
	args := m.Called(ctx, code)
	return args.Get(0).([]model.ChatMessage), args.Error(1)
}

func (m *MockRemoteRegistry) Available(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

// memFamilyCache is an in-memory FamilyCache for exercising service logic
// without a database.
type memFamilyCache struct {
	mu       sync.Mutex
	families map[string]model.FamilyProfile
}

func newMemFamilyCache() *memFamilyCache {
	return &memFamilyCache{families: make(map[string]model.FamilyProfile)}
}

func (c *memFamilyCache) Get(_ context.Context, code string) (model.FamilyProfile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	family, ok := c.families[strings.ToUpper(code)]
	if !ok {
		return model.FamilyProfile{}, model.ErrNotFound
	}
	return family, nil
}

func (c *memFamilyCache) GetByID(_ context.Context, id string) (model.FamilyProfile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, family := range c.families {
		if family.ID == id {
			return family, nil
		}
	}
	return model.FamilyProfile{}, model.ErrNotFound
}

func (c *memFamilyCache) Put(_ context.Context, family model.FamilyProfile) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.families[strings.ToUpper(family.Code)] = family
	return nil
}

// memChatCache is an in-memory ChatCache.
type memChatCache struct {
	mu    sync.Mutex
	chats map[string][]model.ChatMessage
}

func newMemChatCache() *memChatCache {
	return &memChatCache{chats: make(map[string][]model.ChatMessage)}
}

func (c *memChatCache) Get(_ context.Context, familyID string) ([]model.ChatMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	messages, ok := c.chats[familyID]
	if !ok {
		return nil, model.ErrNotFound
	}
	return append([]model.ChatMessage(nil), messages...), nil
}

func (c *memChatCache) Put(_ context.Context, familyID string, messages []model.ChatMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chats[familyID] = append([]model.ChatMessage(nil), messages...)
	return nil
}

// memSessionStore is an in-memory SessionStore.
type memSessionStore struct {
	mu     sync.Mutex
	user   *model.User
	family *model.FamilyProfile
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{}
}

func (s *memSessionStore) CurrentUser(_ context.Context) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return model.User{}, model.ErrNotFound
	}
	return *s.user, nil
}

func (s *memSessionStore) SetCurrentUser(_ context.Context, user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
	return nil
}

func (s *memSessionStore) SelectedFamily(_ context.Context) (model.FamilyProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.family == nil {
		return model.FamilyProfile{}, model.ErrNotFound
	}
	return *s.family, nil
}

func (s *memSessionStore) SetSelectedFamily(_ context.Context, family model.FamilyProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.family = &family
	return nil
}

func (s *memSessionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.family = nil
	return nil
}

// memAccountStore is an in-memory AccountStore.
type memAccountStore struct {
	mu       sync.Mutex
	accounts map[string]model.Account
}

func newMemAccountStore() *memAccountStore {
	return &memAccountStore{accounts: make(map[string]model.Account)}
}

func (s *memAccountStore) Get(_ context.Context, username string) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[username]
	if !ok {
		return model.Account{}, model.ErrNotFound
	}
	return account, nil
}

func (s *memAccountStore) Create(_ context.Context, account model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.Username] = account
	return nil
}

// memRegistry is an in-memory RemoteRegistry used to simulate a reachable
// shared backend, including its whole-record overwrite behavior.
type memRegistry struct {
	mu       sync.Mutex
	families map[string]model.FamilyProfile
	messages map[string]map[string]model.ChatMessage
	down     bool
}

func newMemRegistry() *memRegistry {
	return &memRegistry{
		families: make(map[string]model.FamilyProfile),
		messages: make(map[string]map[string]model.ChatMessage),
	}
}

func (r *memRegistry) setDown(down bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.down = down
}

func (r *memRegistry) ReadFamily(_ context.Context, code string) (model.FamilyProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.down {
		return model.FamilyProfile{}, model.ErrUnavailable
	}
	family, ok := r.families[strings.ToUpper(code)]
	if !ok {
		return model.FamilyProfile{}, model.ErrNotFound
	}
	return family, nil
}

func (r *memRegistry) WriteFamily(_ context.Context, family model.FamilyProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.down {
		return model.ErrUnavailable
	}
	r.families[strings.ToUpper(family.Code)] = family
	return nil
}

func (r *memRegistry) WriteMessage(_ context.Context, code string, message model.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.down {
		return model.ErrUnavailable
	}
	code = strings.ToUpper(code)
	if r.messages[code] == nil {
		r.messages[code] = make(map[string]model.ChatMessage)
	}
	r.messages[code][message.ID] = message
	return nil
}

func (r *memRegistry) ReadMessages(_ context.Context, code string) ([]model.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.down {
		return nil, model.ErrUnavailable
	}
	var messages []model.ChatMessage
	for _, message := range r.messages[strings.ToUpper(code)] {
		messages = append(messages, message)
	}
	return messages, nil
}

func (r *memRegistry) Available(_ context.Context) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.down
}
