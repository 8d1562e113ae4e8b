package service

import (
	"context"

	"commune/internal/middleware"
	"commune/internal/models"
	"commune/internal/repository"
)

// SocialService provides friend invitation and friendship business logic.
//
// Per sender/recipient pair the state machine is None -> Pending -> Friends,
// and Friends -> None via unfriend. There is no rejected state: an invitation
// only disappears by being accepted.
type SocialService struct {
	socialRepo repository.SocialRepository
	userRepo   repository.UserRepository
}

// NewSocialService returns a new SocialService.
func NewSocialService(socialRepo repository.SocialRepository, userRepo repository.UserRepository) *SocialService {
	return &SocialService{
		socialRepo: socialRepo,
		userRepo:   userRepo,
	}
}

// Invite creates a pending invitation from sender to recipient and subscribes
// the sender to the recipient's posts. The subscription add is idempotent.
func (s *SocialService) Invite(ctx context.Context, senderUsername, recipientUsername string) (*models.Invitation, error) {
	sender, err := s.userRepo.GetByUsername(ctx, senderUsername)
	if err != nil {
		return nil, err
	}
	recipient, err := s.userRepo.GetByUsername(ctx, recipientUsername)
	if err != nil {
		return nil, err
	}

	if sender.ID == recipient.ID {
		return nil, models.NewValidationError("Users cannot invite themselves")
	}

	friends, err := s.socialRepo.AreFriends(ctx, sender.ID, recipient.ID)
	if err != nil {
		return nil, err
	}
	if friends {
		return nil, models.NewConflictError("Users are already friends")
	}

	// Fast-path duplicate check; the unique (sender, recipient) constraint
	// decides races between concurrent invites.
	exists, err := s.socialRepo.InvitationExists(ctx, sender.ID, recipient.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.NewConflictError("The invitation has already been sent before")
	}

	invitation := &models.Invitation{
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
	}
	if err := s.socialRepo.CreateInvitation(ctx, invitation); err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "invitation created",
		"sender", senderUsername, "recipient", recipientUsername)
	return invitation, nil
}

// AcceptInvite resolves the invitation by identifier scoped to the
// recipient's inbox, then atomically converts it into a symmetric friendship
// plus the recipient's follow edge back to the sender.
func (s *SocialService) AcceptInvite(ctx context.Context, recipientUsername string, invitationID uint) (*models.Invitation, error) {
	recipient, err := s.userRepo.GetByUsername(ctx, recipientUsername)
	if err != nil {
		return nil, err
	}

	invitation, err := s.socialRepo.GetInvitationByID(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if invitation.RecipientID != recipient.ID {
		// invitations addressed to someone else are indistinguishable
		// from missing ones
		return nil, models.NewNotFoundError("Invitation", invitationID)
	}

	if err := s.socialRepo.AcceptInvitation(ctx, invitation); err != nil {
		return nil, err
	}

	middleware.InvitationsAccepted.Inc()
	middleware.Logger.InfoContext(ctx, "invitation accepted",
		"recipient", recipientUsername, "sender", invitation.Sender.Username)
	return invitation, nil
}

// RemoveFriend removes the symmetric friendship and both follow edges.
func (s *SocialService) RemoveFriend(ctx context.Context, username, friendUsername string) error {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	friend, err := s.userRepo.GetByUsername(ctx, friendUsername)
	if err != nil {
		return err
	}

	friends, err := s.socialRepo.AreFriends(ctx, user.ID, friend.ID)
	if err != nil {
		return err
	}
	if !friends {
		return models.NewForbiddenError("Users are not friends")
	}

	return s.socialRepo.RemoveFriendship(ctx, user.ID, friend.ID)
}

// ListFriends returns the user's friend set. No ordering is implied.
func (s *SocialService) ListFriends(ctx context.Context, username string) ([]models.UserSummary, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	friends, err := s.socialRepo.GetFriends(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return models.Summaries(friends), nil
}

// ListIncomingInvitations returns the user's pending invitation inbox,
// newest first.
func (s *SocialService) ListIncomingInvitations(ctx context.Context, username string) ([]models.Invitation, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.socialRepo.GetIncomingInvitations(ctx, user.ID)
}
