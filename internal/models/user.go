// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account.
//
// Friendships and follow edges are not mapped as object-graph collections;
// they live in the friend_edges and subscriptions join tables (see edges.go)
// to keep the graph acyclic at the ORM level.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Roles     []Role         `gorm:"many2many:user_roles" json:"roles,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(name RoleName) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// UserSummary is the public projection of a User returned by list endpoints
// and embedded in auth responses.
type UserSummary struct {
	ID       uint     `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles,omitempty"`
}

// Summary builds the public projection of the user.
func (u *User) Summary() UserSummary {
	s := UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
	for _, r := range u.Roles {
		s.Roles = append(s.Roles, string(r.Name))
	}
	return s
}

// Summaries maps a slice of users to their public projections.
func Summaries(users []User) []UserSummary {
	out := make([]UserSummary, 0, len(users))
	for i := range users {
		out = append(out, users[i].Summary())
	}
	return out
}
