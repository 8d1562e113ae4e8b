package service

import (
	"context"

	"commune/internal/models"
)

type userRepoStub struct {
	createFn           func(context.Context, *models.User) error
	getByIDFn          func(context.Context, uint) (*models.User, error)
	getByUsernameFn    func(context.Context, string) (*models.User, error)
	existsByUsernameFn func(context.Context, string) (bool, error)
	existsByEmailFn    func(context.Context, string) (bool, error)
	listFn             func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return s.existsByUsernameFn(ctx, username)
}
func (s *userRepoStub) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.existsByEmailFn(ctx, email)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:  func(context.Context, *models.User) error { return nil },
		getByIDFn: func(context.Context, uint) (*models.User, error) { return &models.User{}, nil },
		getByUsernameFn: func(_ context.Context, username string) (*models.User, error) {
			return &models.User{Username: username}, nil
		},
		existsByUsernameFn: func(context.Context, string) (bool, error) { return false, nil },
		existsByEmailFn:    func(context.Context, string) (bool, error) { return false, nil },
		listFn:             func(context.Context, int, int) ([]models.User, error) { return nil, nil },
	}
}

type roleRepoStub struct {
	getByNameFn func(context.Context, models.RoleName) (*models.Role, error)
}

func (s *roleRepoStub) GetByName(ctx context.Context, name models.RoleName) (*models.Role, error) {
	return s.getByNameFn(ctx, name)
}

func noopRoleRepo() *roleRepoStub {
	return &roleRepoStub{
		getByNameFn: func(_ context.Context, name models.RoleName) (*models.Role, error) {
			return &models.Role{ID: 1, Name: name}, nil
		},
	}
}

type socialRepoStub struct {
	areFriendsFn             func(context.Context, uint, uint) (bool, error)
	isSubscribedFn           func(context.Context, uint, uint) (bool, error)
	invitationExistsFn       func(context.Context, uint, uint) (bool, error)
	createInvitationFn       func(context.Context, *models.Invitation) error
	getInvitationByIDFn      func(context.Context, uint) (*models.Invitation, error)
	getIncomingInvitationsFn func(context.Context, uint) ([]models.Invitation, error)
	acceptInvitationFn       func(context.Context, *models.Invitation) error
	removeFriendshipFn       func(context.Context, uint, uint) error
	getFriendsFn             func(context.Context, uint) ([]models.User, error)
}

func (s *socialRepoStub) AreFriends(ctx context.Context, userID, friendID uint) (bool, error) {
	return s.areFriendsFn(ctx, userID, friendID)
}
func (s *socialRepoStub) IsSubscribed(ctx context.Context, subscriberID, targetID uint) (bool, error) {
	return s.isSubscribedFn(ctx, subscriberID, targetID)
}
func (s *socialRepoStub) InvitationExists(ctx context.Context, senderID, recipientID uint) (bool, error) {
	return s.invitationExistsFn(ctx, senderID, recipientID)
}
func (s *socialRepoStub) CreateInvitation(ctx context.Context, invitation *models.Invitation) error {
	return s.createInvitationFn(ctx, invitation)
}
func (s *socialRepoStub) GetInvitationByID(ctx context.Context, id uint) (*models.Invitation, error) {
	return s.getInvitationByIDFn(ctx, id)
}
func (s *socialRepoStub) GetIncomingInvitations(ctx context.Context, recipientID uint) ([]models.Invitation, error) {
	return s.getIncomingInvitationsFn(ctx, recipientID)
}
func (s *socialRepoStub) AcceptInvitation(ctx context.Context, invitation *models.Invitation) error {
	return s.acceptInvitationFn(ctx, invitation)
}
func (s *socialRepoStub) RemoveFriendship(ctx context.Context, userID, friendID uint) error {
	return s.removeFriendshipFn(ctx, userID, friendID)
}
func (s *socialRepoStub) GetFriends(ctx context.Context, userID uint) ([]models.User, error) {
	return s.getFriendsFn(ctx, userID)
}

func noopSocialRepo() *socialRepoStub {
	return &socialRepoStub{
		areFriendsFn:             func(context.Context, uint, uint) (bool, error) { return false, nil },
		isSubscribedFn:           func(context.Context, uint, uint) (bool, error) { return false, nil },
		invitationExistsFn:       func(context.Context, uint, uint) (bool, error) { return false, nil },
		createInvitationFn:       func(context.Context, *models.Invitation) error { return nil },
		getInvitationByIDFn:      func(context.Context, uint) (*models.Invitation, error) { return &models.Invitation{}, nil },
		getIncomingInvitationsFn: func(context.Context, uint) ([]models.Invitation, error) { return nil, nil },
		acceptInvitationFn:       func(context.Context, *models.Invitation) error { return nil },
		removeFriendshipFn:       func(context.Context, uint, uint) error { return nil },
		getFriendsFn:             func(context.Context, uint) ([]models.User, error) { return nil, nil },
	}
}

type postRepoStub struct {
	createFn       func(context.Context, *models.Post) error
	getByIDFn      func(context.Context, uint) (*models.Post, error)
	deleteFn       func(context.Context, uint) error
	getByUserIDFn  func(context.Context, uint, int, int) ([]*models.Post, error)
	activityFeedFn func(context.Context, uint, int, int) ([]*models.Post, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.getByUserIDFn(ctx, userID, limit, offset)
}
func (s *postRepoStub) ActivityFeed(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.activityFeedFn(ctx, userID, limit, offset)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:       func(context.Context, *models.Post) error { return nil },
		getByIDFn:      func(context.Context, uint) (*models.Post, error) { return &models.Post{}, nil },
		deleteFn:       func(context.Context, uint) error { return nil },
		getByUserIDFn:  func(context.Context, uint, int, int) ([]*models.Post, error) { return nil, nil },
		activityFeedFn: func(context.Context, uint, int, int) ([]*models.Post, error) { return nil, nil },
	}
}

type messageRepoStub struct {
	createFn      func(context.Context, *models.Message) error
	getSentFn     func(context.Context, uint) ([]models.Message, error)
	getReceivedFn func(context.Context, uint) ([]models.Message, error)
}

func (s *messageRepoStub) Create(ctx context.Context, message *models.Message) error {
	return s.createFn(ctx, message)
}
func (s *messageRepoStub) GetSent(ctx context.Context, senderID uint) ([]models.Message, error) {
	return s.getSentFn(ctx, senderID)
}
func (s *messageRepoStub) GetReceived(ctx context.Context, recipientID uint) ([]models.Message, error) {
	return s.getReceivedFn(ctx, recipientID)
}

func noopMessageRepo() *messageRepoStub {
	return &messageRepoStub{
		createFn:      func(context.Context, *models.Message) error { return nil },
		getSentFn:     func(context.Context, uint) ([]models.Message, error) { return nil, nil },
		getReceivedFn: func(context.Context, uint) ([]models.Message, error) { return nil, nil },
	}
}
