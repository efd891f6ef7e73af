package local

import (
	"context"
	"fmt"
	"sync"

	"github.com/mbeier/famsync/internal/model"
)

var _ model.AccountStore = (*AccountStore)(nil)

// AccountStore keeps registered accounts in memory, mirrored to the local
// store under the "accounts" snapshot. Accounts never leave the device.
type AccountStore struct {
	store *Store

	mu       sync.Mutex
	accounts map[string]model.Account
}

// NewAccountStore hydrates the account map from the local store.
func NewAccountStore(store *Store) (*AccountStore, error) {
	s := &AccountStore{
		store:    store,
		accounts: make(map[string]model.Account),
	}
	if err := store.hydrate(keyAccounts, &s.accounts); err != nil {
		return nil, fmt.Errorf("failed to hydrate accounts: %w", err)
	}
	return s, nil
}

func (s *AccountStore) Get(_ context.Context, username string) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[username]
	if !ok {
		return model.Account{}, model.ErrNotFound
	}
	return account, nil
}

func (s *AccountStore) Create(_ context.Context, account model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts[account.Username] = account
	if err := s.store.flush(keyAccounts, s.accounts); err != nil {
		return fmt.Errorf("failed to flush accounts: %w", err)
	}
	return nil
}
