package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mbeier/famsync/internal/model"
)

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Register(ctx context.Context, username, password, passwordConfirm string) error {
	args := m.Called(ctx, username, password, passwordConfirm)
	return args.Error(0)
}

func (m *MockAccountService) Authenticate(ctx context.Context, username, password string) (model.User, string, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(model.User), args.String(1), args.Error(2)
}

func (m *MockAccountService) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockAccountService) Session(ctx context.Context) (model.User, *model.FamilyProfile, error) {
	args := m.Called(ctx)
	var family *model.FamilyProfile
	if args.Get(1) != nil {
		family = args.Get(1).(*model.FamilyProfile)
	}
	return args.Get(0).(model.User), family, args.Error(2)
}

type MockFamilyService struct {
	mock.Mock
}

func (m *MockFamilyService) Create(ctx context.Context, name string) (model.FamilyProfile, string, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(model.FamilyProfile), args.String(1), args.Error(2)
}

func (m *MockFamilyService) Lookup(ctx context.Context, code string) (model.FamilyProfile, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(model.FamilyProfile), args.Error(1)
}

func (m *MockFamilyService) Join(ctx context.Context, code string) (model.FamilyProfile, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(model.FamilyProfile), args.Error(1)
}

type MockMembershipService struct {
	mock.Mock
}

func (m *MockMembershipService) Attach(ctx context.Context, code string, params model.AttachParams) (model.FamilyProfile, error) {
	args := m.Called(ctx, code, params)
	return args.Get(0).(model.FamilyProfile), args.Error(1)
}

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) Append(ctx context.Context, familyID, sender, text string) (model.ChatMessage, error) {
	args := m.Called(ctx, familyID, sender, text)
	return args.Get(0).(model.ChatMessage), args.Error(1)
}

func (m *MockChatService) List(ctx context.Context, familyID string) ([]model.ChatMessage, error) {
	args := m.Called(ctx, familyID)
	var messages []model.ChatMessage
	if args.Get(0) != nil {
		messages = args.Get(0).([]model.ChatMessage)
	}
	return messages, args.Error(1)
}

func (m *MockChatService) LoadRemote(ctx context.Context, familyID string) ([]model.ChatMessage, error) {
	args := m.Called(ctx, familyID)
	var messages []model.ChatMessage
	if args.Get(0) != nil {
		messages = args.Get(0).([]model.ChatMessage)
	}
	return messages, args.Error(1)
}
