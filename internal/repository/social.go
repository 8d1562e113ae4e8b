package repository

import (
	"context"
	"errors"

	"commune/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SocialRepository defines the interface for friendship, subscription, and
// invitation data operations. The multi-row mutations (create-invitation,
// accept-invitation, remove-friendship) each run inside one transaction so
// partial edge states are never visible to other transactions.
type SocialRepository interface {
	AreFriends(ctx context.Context, userID, friendID uint) (bool, error)
	IsSubscribed(ctx context.Context, subscriberID, targetID uint) (bool, error)
	InvitationExists(ctx context.Context, senderID, recipientID uint) (bool, error)
	CreateInvitation(ctx context.Context, invitation *models.Invitation) error
	GetInvitationByID(ctx context.Context, id uint) (*models.Invitation, error)
	GetIncomingInvitations(ctx context.Context, recipientID uint) ([]models.Invitation, error)
	AcceptInvitation(ctx context.Context, invitation *models.Invitation) error
	RemoveFriendship(ctx context.Context, userID, friendID uint) error
	GetFriends(ctx context.Context, userID uint) ([]models.User, error)
}

// socialRepository implements SocialRepository
type socialRepository struct {
	db *gorm.DB
}

// NewSocialRepository creates a new social graph repository
func NewSocialRepository(db *gorm.DB) SocialRepository {
	return &socialRepository{db: db}
}

func (r *socialRepository) AreFriends(ctx context.Context, userID, friendID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.FriendEdge{}).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *socialRepository) IsSubscribed(ctx context.Context, subscriberID, targetID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("subscriber_id = ? AND target_id = ?", subscriberID, targetID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *socialRepository) InvitationExists(ctx context.Context, senderID, recipientID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("sender_id = ? AND recipient_id = ?", senderID, recipientID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// CreateInvitation stores the invitation and the sender's follow edge in one
// transaction. The unique (sender, recipient) index is the authoritative
// duplicate guard; the subscription insert is idempotent.
func (r *socialRepository) CreateInvitation(ctx context.Context, invitation *models.Invitation) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(invitation).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Subscription{
			SubscriberID: invitation.SenderID,
			TargetID:     invitation.RecipientID,
		}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("The invitation has already been sent before")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *socialRepository) GetInvitationByID(ctx context.Context, id uint) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Recipient").
		First(&invitation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Invitation", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &invitation, nil
}

func (r *socialRepository) GetIncomingInvitations(ctx context.Context, recipientID uint) ([]models.Invitation, error) {
	var invitations []models.Invitation
	if err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("recipient_id = ?", recipientID).
		Order("id DESC").
		Find(&invitations).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return invitations, nil
}

// AcceptInvitation atomically deletes the invitation, writes both friendship
// edges, and adds the recipient's follow edge back to the sender. The
// sender-to-recipient subscription already exists from the invite step.
func (r *socialRepository) AcceptInvitation(ctx context.Context, invitation *models.Invitation) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Invitation{}, invitation.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// lost a race with a concurrent accept
			return gorm.ErrRecordNotFound
		}

		edges := []models.FriendEdge{
			{UserID: invitation.SenderID, FriendID: invitation.RecipientID},
			{UserID: invitation.RecipientID, FriendID: invitation.SenderID},
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&edges).Error; err != nil {
			return err
		}

		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Subscription{
			SubscriberID: invitation.RecipientID,
			TargetID:     invitation.SenderID,
		}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Invitation", invitation.ID)
		}
		return models.NewInternalError(err)
	}
	return nil
}

// RemoveFriendship deletes both friendship edges and both follow edges:
// unfriending also unsubscribes in both directions.
func (r *socialRepository) RemoveFriendship(ctx context.Context, userID, friendID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
				userID, friendID, friendID, userID).
			Delete(&models.FriendEdge{}).Error; err != nil {
			return err
		}
		return tx.
			Where("(subscriber_id = ? AND target_id = ?) OR (subscriber_id = ? AND target_id = ?)",
				userID, friendID, friendID, userID).
			Delete(&models.Subscription{}).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *socialRepository) GetFriends(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN friend_edges fe ON users.id = fe.friend_id").
		Where("fe.user_id = ?", userID).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
