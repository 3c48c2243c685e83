package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/hamza-bely/4hybd/internal/clients"
	"github.com/hamza-bely/4hybd/internal/geo"
	"github.com/hamza-bely/4hybd/internal/models"
	"github.com/hamza-bely/4hybd/internal/repositories"
)

type MessageFetcherMock struct {
	mock.Mock
}

func (m *MessageFetcherMock) AllMessagesForUser(ctx context.Context, userID int64) ([]models.Message, error) {
	args := m.Called(ctx, userID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageFetcherMock) Send(ctx context.Context, req clients.SendMessageRequest) (models.Message, error) {
	args := m.Called(ctx, req)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

type StoryFetcherMock struct {
	mock.Mock
}

func (m *StoryFetcherMock) AllStories(ctx context.Context) ([]models.Story, error) {
	args := m.Called(ctx)
	var list []models.Story
	if val := args.Get(0); val != nil {
		list = val.([]models.Story)
	}
	return list, args.Error(1)
}

func (m *StoryFetcherMock) StoryByID(ctx context.Context, id int64) (models.Story, error) {
	args := m.Called(ctx, id)
	var story models.Story
	if val := args.Get(0); val != nil {
		story = val.(models.Story)
	}
	return story, args.Error(1)
}

type UserResolverMock struct {
	mock.Mock
}

func (m *UserResolverMock) UserByID(ctx context.Context, userID int64) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

type AuthenticatorMock struct {
	mock.Mock
}

func (m *AuthenticatorMock) Login(ctx context.Context, email, password string) (clients.AuthResponse, error) {
	args := m.Called(ctx, email, password)
	var resp clients.AuthResponse
	if val := args.Get(0); val != nil {
		resp = val.(clients.AuthResponse)
	}
	return resp, args.Error(1)
}

type SessionRepositoryMock struct {
	mock.Mock
}

func (m *SessionRepositoryMock) PersistSession(ctx context.Context, token string, user models.User) error {
	args := m.Called(ctx, token, user)
	return args.Error(0)
}

func (m *SessionRepositoryMock) SessionByToken(ctx context.Context, token string) (repositories.Session, error) {
	args := m.Called(ctx, token)
	var session repositories.Session
	if val := args.Get(0); val != nil {
		session = val.(repositories.Session)
	}
	return session, args.Error(1)
}

func (m *SessionRepositoryMock) CurrentSession(ctx context.Context) (repositories.Session, error) {
	args := m.Called(ctx)
	var session repositories.Session
	if val := args.Get(0); val != nil {
		session = val.(repositories.Session)
	}
	return session, args.Error(1)
}

func (m *SessionRepositoryMock) ClearSession(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type PreferenceRepositoryMock struct {
	mock.Mock
}

func (m *PreferenceRepositoryMock) SetPreference(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *PreferenceRepositoryMock) Preference(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *PreferenceRepositoryMock) Preferences(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	var prefs map[string]string
	if val := args.Get(0); val != nil {
		prefs = val.(map[string]string)
	}
	return prefs, args.Error(1)
}

func (m *PreferenceRepositoryMock) DeletePreference(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type PositionProviderMock struct {
	mock.Mock
}

func (m *PositionProviderMock) Current(ctx context.Context) (geo.Point, error) {
	args := m.Called(ctx)
	var point geo.Point
	if val := args.Get(0); val != nil {
		point = val.(geo.Point)
	}
	return point, args.Error(1)
}
