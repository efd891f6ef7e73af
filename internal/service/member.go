package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mbeier/famsync/internal/logger"
	"github.com/mbeier/famsync/internal/model"
)

// Membership attaches a joining user's profile to a family record and
// promotes the first joiner to admin.
type Membership struct {
	cache   model.FamilyCache
	chats   model.ChatCache
	session model.SessionStore
	remote  remoteGateway
	logger  *logger.Logger
}

// NewMembership creates the membership aggregator. registry may be nil.
func NewMembership(
	cache model.FamilyCache,
	chats model.ChatCache,
	session model.SessionStore,
	registry model.RemoteRegistry,
	remoteTimeout time.Duration,
	logger *logger.Logger,
) *Membership {
	return &Membership{
		cache:   cache,
		chats:   chats,
		session: session,
		remote:  newRemoteGateway(registry, remoteTimeout, logger),
		logger:  logger,
	}
}

// Attach appends a new member built from params to the family stored under
// code. The first member becomes admin and stays admin. The updated whole
// record is written to both stores without a transaction; a concurrent attach
// from another device can overwrite this one (last-writer-wins on the whole
// record).
//
// Attach is not idempotent: attaching the same user twice appends two members.
func (s *Membership) Attach(ctx context.Context, code string, params model.AttachParams) (model.FamilyProfile, error) {
	if err := validateAvailability(params.Availability); err != nil {
		return model.FamilyProfile{}, err
	}
	if err := validateStrengths(params.Strengths); err != nil {
		return model.FamilyProfile{}, err
	}

	family, err := s.cache.Get(ctx, strings.ToUpper(code))
	if err != nil {
		return model.FamilyProfile{}, model.ErrNotFound
	}

	memberID := params.User.ID
	if memberID == "" {
		memberID = uuid.NewString()
	}

	member := model.Member{
		ID:           memberID,
		Username:     params.User.Username,
		Age:          params.Age,
		Availability: slices.Clone(params.Availability),
		Strengths:    slices.Clone(params.Strengths),
	}

	family.Members = append(slices.Clone(family.Members), member)
	if len(family.Members) == 1 {
		family.Admin = member.ID
	}

	if err := s.cache.Put(ctx, family); err != nil {
		return model.FamilyProfile{}, fmt.Errorf("failed to cache family: %w", err)
	}
	s.remote.writeFamily(ctx, family)

	if err := s.ensureChatLog(ctx, family.ID); err != nil {
		return model.FamilyProfile{}, err
	}

	if err := s.session.SetCurrentUser(ctx, model.User{ID: member.ID, Username: member.Username}); err != nil {
		return model.FamilyProfile{}, fmt.Errorf("failed to persist current user: %w", err)
	}
	if err := s.session.SetSelectedFamily(ctx, family); err != nil {
		return model.FamilyProfile{}, fmt.Errorf("failed to select family: %w", err)
	}

	s.logger.Info("Membership service: member attached",
		"code", family.Code,
		"member_id", member.ID,
		"admin", family.Admin)

	return family, nil
}

// ensureChatLog creates an empty ordered sequence for the family if none
// exists yet.
func (s *Membership) ensureChatLog(ctx context.Context, familyID string) error {
	_, err := s.chats.Get(ctx, familyID)
	if errors.Is(err, model.ErrNotFound) {
		if err := s.chats.Put(ctx, familyID, []model.ChatMessage{}); err != nil {
			return fmt.Errorf("failed to initialize chat log: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check chat log: %w", err)
	}
	return nil
}

func validateAvailability(availability []model.DayAvailability) error {
	if len(availability) != len(model.Weekdays) {
		return model.ErrBadAvailability
	}
	for i, day := range availability {
		if day.Day != model.Weekdays[i] {
			return model.ErrBadAvailability
		}
		for _, hours := range day.Hours {
			if !model.ValidHourBlock(hours) {
				return model.ErrBadAvailability
			}
		}
	}
	return nil
}

func validateStrengths(strengths []model.Strength) error {
	for _, strength := range strengths {
		if strength.Rating < 0 || strength.Rating > model.MaxStrengthRating {
			return model.ErrBadRating
		}
	}
	return nil
}
