package entity

import (
	"time"
)

// DefaultRole is given to staff created without one
const DefaultRole = "Attendant"

// User is a staff member sales are attributed to
type User struct {
	ID        string    `gorm:"size:64;primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Role      string    `gorm:"size:50;not null;default:'Attendant'" json:"role"`
	PINHash   string    `gorm:"size:255" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// HasPIN reports whether opening a session requires a PIN
func (u *User) HasPIN() bool {
	return u.PINHash != ""
}
