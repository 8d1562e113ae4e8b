package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"commune/internal/config"
	"commune/internal/models"
	"commune/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

// MockSocialRepository is a mock of the SocialRepository interface
type MockSocialRepository struct {
	mock.Mock
}

func (m *MockSocialRepository) AreFriends(ctx context.Context, userID, friendID uint) (bool, error) {
	args := m.Called(ctx, userID, friendID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSocialRepository) IsSubscribed(ctx context.Context, subscriberID, targetID uint) (bool, error) {
	args := m.Called(ctx, subscriberID, targetID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSocialRepository) InvitationExists(ctx context.Context, senderID, recipientID uint) (bool, error) {
	args := m.Called(ctx, senderID, recipientID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSocialRepository) CreateInvitation(ctx context.Context, invitation *models.Invitation) error {
	args := m.Called(ctx, invitation)
	return args.Error(0)
}

func (m *MockSocialRepository) GetInvitationByID(ctx context.Context, id uint) (*models.Invitation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invitation), args.Error(1)
}

func (m *MockSocialRepository) GetIncomingInvitations(ctx context.Context, recipientID uint) ([]models.Invitation, error) {
	args := m.Called(ctx, recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Invitation), args.Error(1)
}

func (m *MockSocialRepository) AcceptInvitation(ctx context.Context, invitation *models.Invitation) error {
	args := m.Called(ctx, invitation)
	return args.Error(0)
}

func (m *MockSocialRepository) RemoveFriendship(ctx context.Context, userID, friendID uint) error {
	args := m.Called(ctx, userID, friendID)
	return args.Error(0)
}

func (m *MockSocialRepository) GetFriends(ctx context.Context, userID uint) ([]models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

// asUser fakes the authentication middleware by storing a verified username.
func asUser(username string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("username", username)
		return c.Next()
	}
}

func TestInviteHandler(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockSocial := new(MockSocialRepository)

	mockUsers.On("GetByUsername", mock.Anything, "alice").
		Return(&models.User{ID: 1, Username: "alice"}, nil)
	mockUsers.On("GetByUsername", mock.Anything, "bob").
		Return(&models.User{ID: 2, Username: "bob"}, nil)
	mockSocial.On("AreFriends", mock.Anything, uint(1), uint(2)).Return(false, nil)
	mockSocial.On("InvitationExists", mock.Anything, uint(1), uint(2)).Return(false, nil)
	mockSocial.On("CreateInvitation", mock.Anything, mock.AnythingOfType("*models.Invitation")).
		Return(nil)

	s := &Server{
		config:        &config.Config{JWTSecret: "test-secret"},
		socialService: service.NewSocialService(mockSocial, mockUsers),
	}

	app := fiber.New()
	app.Post("/invitations/:recipient", asUser("alice"), s.Invite)

	req := httptest.NewRequest(http.MethodPost, "/invitations/bob", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	mockSocial.AssertExpectations(t)
}

func TestInviteHandlerUnknownRecipient(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockSocial := new(MockSocialRepository)

	mockUsers.On("GetByUsername", mock.Anything, "alice").
		Return(&models.User{ID: 1, Username: "alice"}, nil)
	mockUsers.On("GetByUsername", mock.Anything, "ghost").
		Return(nil, models.NewNotFoundError("User", "ghost"))

	s := &Server{
		config:        &config.Config{JWTSecret: "test-secret"},
		socialService: service.NewSocialService(mockSocial, mockUsers),
	}

	app := fiber.New()
	app.Post("/invitations/:recipient", asUser("alice"), s.Invite)

	req := httptest.NewRequest(http.MethodPost, "/invitations/ghost", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAcceptInviteHandlerBadID(t *testing.T) {
	s := &Server{config: &config.Config{JWTSecret: "test-secret"}}

	app := fiber.New()
	app.Post("/invitations/:id/accept", asUser("bob"), s.AcceptInvite)

	req := httptest.NewRequest(http.MethodPost, "/invitations/abc/accept", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
