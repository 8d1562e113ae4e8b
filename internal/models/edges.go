package models

import (
	"time"
)

// FriendEdge is one direction of a friendship. Friendship is symmetric: both
// (user, friend) and (friend, user) rows exist, written inside the same
// transaction so the symmetry invariant is never observable as broken.
type FriendEdge struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_friend_pair;index" json:"user_id"`
	FriendID  uint      `gorm:"not null;uniqueIndex:idx_friend_pair;index" json:"friend_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (FriendEdge) TableName() string {
	return "friend_edges"
}

// Subscription is a one-directional follow edge feeding the activity feed.
// A user's "following" and "followers" views both read these rows, from
// opposite sides.
type Subscription struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SubscriberID uint      `gorm:"not null;uniqueIndex:idx_subscription_pair;index" json:"subscriber_id"`
	TargetID     uint      `gorm:"not null;uniqueIndex:idx_subscription_pair;index" json:"target_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Subscription) TableName() string {
	return "subscriptions"
}
