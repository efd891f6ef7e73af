package local

import (
	"context"
	"fmt"
	"sync"

	"github.com/mbeier/famsync/internal/model"
)

var _ model.SessionStore = (*SessionStore)(nil)

// SessionStore persists the logged-in user and selected family under the
// "currentUser" and "selectedFamily" snapshots so a relaunch restores them.
type SessionStore struct {
	store *Store

	mu     sync.Mutex
	user   *model.User
	family *model.FamilyProfile
}

// NewSessionStore hydrates the session from the local store.
func NewSessionStore(store *Store) (*SessionStore, error) {
	s := &SessionStore{store: store}

	var user model.User
	if err := store.hydrate(keyCurrentUser, &user); err != nil {
		return nil, fmt.Errorf("failed to hydrate current user: %w", err)
	}
	if user.Username != "" {
		s.user = &user
	}

	var family model.FamilyProfile
	if err := store.hydrate(keySelectedFamily, &family); err != nil {
		return nil, fmt.Errorf("failed to hydrate selected family: %w", err)
	}
	if family.ID != "" {
		s.family = &family
	}

	return s, nil
}

func (s *SessionStore) CurrentUser(_ context.Context) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return model.User{}, model.ErrNotFound
	}
	return *s.user, nil
}

func (s *SessionStore) SetCurrentUser(_ context.Context, user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = &user
	return s.store.flush(keyCurrentUser, user)
}

func (s *SessionStore) SelectedFamily(_ context.Context) (model.FamilyProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.family == nil {
		return model.FamilyProfile{}, model.ErrNotFound
	}
	return *s.family, nil
}

func (s *SessionStore) SetSelectedFamily(_ context.Context, family model.FamilyProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.family = &family
	return s.store.flush(keySelectedFamily, family)
}

// Clear drops both session keys. Used on logout.
func (s *SessionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.family = nil
	if err := s.store.Set(keyCurrentUser, []byte("null")); err != nil {
		return err
	}
	return s.store.Set(keySelectedFamily, []byte("null"))
}
