package models

import (
	"time"
)

// Invitation is a pending friend request from sender to recipient. The unique
// index on (sender_id, recipient_id) is the authoritative guard against
// duplicate invitations; the service-level existence check is only a fast
// path with a friendlier error.
//
// An invitation has no rejected state: it is destroyed on acceptance.
type Invitation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SenderID    uint      `gorm:"not null;uniqueIndex:idx_invitation_pair" json:"sender_id"`
	RecipientID uint      `gorm:"not null;uniqueIndex:idx_invitation_pair;index" json:"recipient_id"`
	CreatedAt   time.Time `json:"created_at"`

	Sender    User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Recipient User `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
}

// TableName specifies the table name for GORM
func (Invitation) TableName() string {
	return "invitations"
}
