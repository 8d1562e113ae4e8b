package repository

import (
	"context"

	"commune/internal/models"

	"gorm.io/gorm"
)

// MessageRepository defines the interface for direct message data operations
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetSent(ctx context.Context, senderID uint) ([]models.Message, error)
	GetReceived(ctx context.Context, recipientID uint) ([]models.Message, error)
}

// messageRepository implements MessageRepository
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *messageRepository) GetSent(ctx context.Context, senderID uint) ([]models.Message, error) {
	var messages []models.Message
	if err := r.db.WithContext(ctx).
		Preload("SenderUser").
		Preload("RecipientUser").
		Where("sender_id = ?", senderID).
		Order("id DESC").
		Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	fillParticipants(messages)
	return messages, nil
}

func (r *messageRepository) GetReceived(ctx context.Context, recipientID uint) ([]models.Message, error) {
	var messages []models.Message
	if err := r.db.WithContext(ctx).
		Preload("SenderUser").
		Preload("RecipientUser").
		Where("recipient_id = ?", recipientID).
		Order("id DESC").
		Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	fillParticipants(messages)
	return messages, nil
}

func fillParticipants(messages []models.Message) {
	for i := range messages {
		messages[i].Sender = messages[i].SenderUser.Username
		messages[i].Recipient = messages[i].RecipientUser.Username
	}
}
