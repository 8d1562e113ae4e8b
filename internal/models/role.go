package models

// RoleName identifies one of the fixed role tags.
type RoleName string

const (
	// RoleUser is the default role assigned at registration.
	RoleUser RoleName = "user"
	// RoleModerator grants content moderation rights.
	RoleModerator RoleName = "moderator"
	// RoleAdmin grants full administrative rights.
	RoleAdmin RoleName = "admin"
)

// Role is an enumerated tag attached many-to-many to users.
type Role struct {
	ID   uint     `gorm:"primaryKey" json:"id"`
	Name RoleName `gorm:"type:varchar(20);uniqueIndex;not null" json:"name"`
}

// TableName specifies the table name for GORM
func (Role) TableName() string {
	return "roles"
}

// AllRoleNames lists every role tag the role table must contain.
func AllRoleNames() []RoleName {
	return []RoleName{RoleUser, RoleModerator, RoleAdmin}
}
