package models

import (
	"time"
)

// MaxHeaderLen is the column limit for a post header.
const MaxHeaderLen = 50

// Post represents a post owned by a single user. The creation timestamp is
// server-assigned and immutable once set.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	Username  string    `gorm:"-" json:"username"`
	Header    string    `gorm:"size:50;not null" json:"header"`
	Text      string    `gorm:"type:text" json:"text"`
	Image     []byte    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Post) TableName() string {
	return "posts"
}
