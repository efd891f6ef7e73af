package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mbeier/famsync/internal/logger"
	"github.com/mbeier/famsync/internal/model"
)

const (
	minUsernameLength = 3
	minPasswordLength = 4
)

// Account registers and validates device-local login credentials. Accounts
// are never synced to the remote registry: an account created on one device
// is not visible on another.
type Account struct {
	accounts model.AccountStore
	session  model.SessionStore
	tokens   model.TokenManager
	logger   *logger.Logger
}

// NewAccount creates the account registry service.
func NewAccount(
	accounts model.AccountStore,
	session model.SessionStore,
	tokens model.TokenManager,
	logger *logger.Logger,
) *Account {
	return &Account{
		accounts: accounts,
		session:  session,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register validates and stores a new credential. The password is hashed with
// bcrypt before it touches the local store.
func (s *Account) Register(ctx context.Context, username, password, passwordConfirm string) error {
	username = strings.TrimSpace(username)
	if len(username) < minUsernameLength {
		return model.ErrUsernameTooShort
	}
	if len(password) < minPasswordLength {
		return model.ErrPasswordTooShort
	}
	if password != passwordConfirm {
		return model.ErrPasswordMismatch
	}

	_, err := s.accounts.Get(ctx, username)
	if err == nil {
		return model.ErrUsernameTaken
	}
	if !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	account := model.Account{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	s.logger.Info("Account service: account registered", "username", username)

	return nil
}

// Authenticate checks a credential and starts a session. A missing username
// and a wrong password both produce ErrInvalidCredentials so the response
// carries no enumeration signal.
func (s *Account) Authenticate(ctx context.Context, username, password string) (model.User, string, error) {
	account, err := s.accounts.Get(ctx, strings.TrimSpace(username))
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, "", model.ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, "", fmt.Errorf("failed to get account: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return model.User{}, "", model.ErrInvalidCredentials
	}

	user := model.User{
		ID:       uuid.NewString(),
		Username: account.Username,
	}
	if err := s.session.SetCurrentUser(ctx, user); err != nil {
		return model.User{}, "", fmt.Errorf("failed to persist session: %w", err)
	}

	tok, err := s.tokens.Generate(user.Username)
	if err != nil {
		return model.User{}, "", fmt.Errorf("failed to issue session token: %w", err)
	}

	s.logger.Info("Account service: user logged in", "username", user.Username)

	return user, tok, nil
}

// Logout drops the persisted session.
func (s *Account) Logout(ctx context.Context) error {
	if err := s.session.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Session returns the persisted user and, when one is selected, the family.
// ErrNotFound means nobody is logged in on this device.
func (s *Account) Session(ctx context.Context) (model.User, *model.FamilyProfile, error) {
	user, err := s.session.CurrentUser(ctx)
	if err != nil {
		return model.User{}, nil, model.ErrNotFound
	}

	family, err := s.session.SelectedFamily(ctx)
	if errors.Is(err, model.ErrNotFound) {
		return user, nil, nil
	}
	if err != nil {
		return model.User{}, nil, fmt.Errorf("failed to read selected family: %w", err)
	}

	return user, &family, nil
}
