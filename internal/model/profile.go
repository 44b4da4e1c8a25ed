package model

import "time"

// Profile is a staff account. The password hash never leaves the server.
type Profile struct {
	UserID    int64     `gorm:"primaryKey;column:user_id" json:"user_id"`
	FullName  string    `gorm:"size:256;not null" json:"full_name"`
	Email     string    `gorm:"uniqueIndex;size:256;not null" json:"email"`
	Phone     string    `gorm:"size:64" json:"phone"`
	Password  string    `gorm:"size:128;not null" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// Role is an entry of the role catalog.
type Role struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"column:role_name;uniqueIndex;size:64;not null" json:"role_name"`
}

// UserRole assigns at most one role to a profile.
type UserRole struct {
	UserID int64 `gorm:"primaryKey;column:user_id"`
	RoleID int64 `gorm:"not null;index"`

	// Associations
	Profile Profile `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE"`
	Role    Role    `gorm:"constraint:OnDelete:CASCADE"`
}
