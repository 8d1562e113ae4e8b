package models

import (
	"time"
)

// Message is a direct message between two users. Sender and recipient must be
// friends at creation time; a message is immutable once stored.
type Message struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SenderID    uint      `gorm:"not null;index" json:"-"`
	RecipientID uint      `gorm:"not null;index" json:"-"`
	Sender      string    `gorm:"-" json:"sender"`
	Recipient   string    `gorm:"-" json:"recipient"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	CreatedAt   time.Time `json:"created_at"`

	SenderUser    User `gorm:"foreignKey:SenderID" json:"-"`
	RecipientUser User `gorm:"foreignKey:RecipientID" json:"-"`
}

// TableName specifies the table name for GORM
func (Message) TableName() string {
	return "messages"
}
