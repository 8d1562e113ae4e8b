package service

import (
	"context"
	"strings"

	"commune/internal/middleware"
	"commune/internal/models"
	"commune/internal/repository"
)

// MessageService provides direct messaging gated by friendship.
type MessageService struct {
	messageRepo repository.MessageRepository
	socialRepo  repository.SocialRepository
	userRepo    repository.UserRepository
}

// NewMessageService returns a new MessageService.
func NewMessageService(messageRepo repository.MessageRepository, socialRepo repository.SocialRepository, userRepo repository.UserRepository) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		socialRepo:  socialRepo,
		userRepo:    userRepo,
	}
}

// SendMessage stores a message between two friends. Messages are immutable
// once created; there is no deletion path.
func (s *MessageService) SendMessage(ctx context.Context, senderUsername, recipientUsername, text string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, models.NewValidationError("Message text is required")
	}

	sender, err := s.userRepo.GetByUsername(ctx, senderUsername)
	if err != nil {
		return nil, err
	}
	recipient, err := s.userRepo.GetByUsername(ctx, recipientUsername)
	if err != nil {
		return nil, err
	}

	friends, err := s.socialRepo.AreFriends(ctx, sender.ID, recipient.ID)
	if err != nil {
		return nil, err
	}
	if !friends {
		return nil, models.NewForbiddenError("Users are not friends")
	}

	message := &models.Message{
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		Text:        text,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	message.Sender = sender.Username
	message.Recipient = recipient.Username
	middleware.MessagesSent.Inc()
	return message, nil
}

// ListSent returns the user's sent messages, newest first.
func (s *MessageService) ListSent(ctx context.Context, username string) ([]models.Message, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.messageRepo.GetSent(ctx, user.ID)
}

// ListReceived returns the user's received messages, newest first.
func (s *MessageService) ListReceived(ctx context.Context, username string) ([]models.Message, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.messageRepo.GetReceived(ctx, user.ID)
}
