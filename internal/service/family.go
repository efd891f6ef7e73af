package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"

	"github.com/mbeier/famsync/internal/logger"
	"github.com/mbeier/famsync/internal/model"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6
)

// newCode generates a 6-character uppercase alphanumeric join code. Codes are
// not checked for collisions against existing families; the space is large
// enough for a household app.
var newCode = mustCodeGenerator()

func mustCodeGenerator() func() string {
	gen, err := nanoid.CustomASCII(codeAlphabet, codeLength)
	if err != nil {
		panic(err)
	}
	return gen
}

// Family creates family records, resolves join codes and reconciles the
// local directory with the remote registry.
type Family struct {
	cache   model.FamilyCache
	session model.SessionStore
	remote  remoteGateway
	origin  string
	logger  *logger.Logger
}

// NewFamily creates the family registry service. registry may be nil for a
// fully offline device.
func NewFamily(
	cache model.FamilyCache,
	session model.SessionStore,
	registry model.RemoteRegistry,
	origin string,
	remoteTimeout time.Duration,
	logger *logger.Logger,
) *Family {
	return &Family{
		cache:   cache,
		session: session,
		remote:  newRemoteGateway(registry, remoteTimeout, logger),
		origin:  origin,
		logger:  logger,
	}
}

// Create builds a new family record with a fresh join code, publishes it to
// the remote registry if reachable and caches it locally regardless. Creation
// never fails because the remote is down.
func (s *Family) Create(ctx context.Context, name string) (model.FamilyProfile, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.FamilyProfile{}, "", model.ErrEmptyName
	}

	family := model.FamilyProfile{
		ID:        uuid.NewString(),
		Name:      name,
		Code:      newCode(),
		Members:   []model.Member{},
		CreatedAt: time.Now(),
	}

	s.remote.writeFamily(ctx, family)

	if err := s.cache.Put(ctx, family); err != nil {
		return model.FamilyProfile{}, "", fmt.Errorf("failed to cache family: %w", err)
	}

	s.logger.Info("Family service: family created", "code", family.Code)

	return family, s.ShareLink(family.Code), nil
}

// Lookup resolves a join code to a family record, remote first with a
// read-through cache update, local directory as fallback. Returns ErrNotFound
// only when both tiers miss.
func (s *Family) Lookup(ctx context.Context, code string) (model.FamilyProfile, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	if family, ok := s.remote.readFamily(ctx, code); ok {
		if err := s.cache.Put(ctx, family); err != nil {
			return model.FamilyProfile{}, fmt.Errorf("failed to cache family: %w", err)
		}
		return family, nil
	}

	family, err := s.cache.Get(ctx, code)
	if err != nil {
		return model.FamilyProfile{}, model.ErrNotFound
	}
	return family, nil
}

// Join resolves the code, pins the record into the local directory so later
// launches can show it without network, and selects it for the session. It
// does not attach a member; that is the membership service.
func (s *Family) Join(ctx context.Context, code string) (model.FamilyProfile, error) {
	family, err := s.Lookup(ctx, code)
	if err != nil {
		return model.FamilyProfile{}, err
	}

	if err := s.cache.Put(ctx, family); err != nil {
		return model.FamilyProfile{}, fmt.Errorf("failed to cache family: %w", err)
	}
	if err := s.session.SetSelectedFamily(ctx, family); err != nil {
		return model.FamilyProfile{}, fmt.Errorf("failed to select family: %w", err)
	}

	s.logger.Info("Family service: family joined", "code", family.Code)

	return family, nil
}

// ShareLink derives the shareable deep link embedding the join code.
func (s *Family) ShareLink(code string) string {
	return fmt.Sprintf("%s?join=%s", s.origin, strings.ToUpper(code))
}

// ParseJoinLink extracts the join code from a deep link. Returns false when
// the URL carries no join parameter.
func ParseJoinLink(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	code := u.Query().Get("join")
	if code == "" {
		return "", false
	}
	return strings.ToUpper(strings.TrimSpace(code)), true
}
