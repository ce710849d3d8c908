package users

import (
	"time"

	"github.com/esteticaio/api/auth"
)

// User is a row of the users table.
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;size:255;not null" json:"-"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Role         string    `gorm:"size:50;not null;default:professional" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName implements gorm's tabler.
func (User) TableName() string { return "users" }

// Identity returns the principal view of u.
func (u *User) Identity() *auth.Identity {
	return &auth.Identity{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// Account returns u with its credential hash for login.
func (u *User) Account() *auth.Account {
	return &auth.Account{Identity: *u.Identity(), PasswordHash: u.PasswordHash}
}

// Models lists the tables owned by this package, for migration.
func Models() []interface{} {
	return []interface{}{&User{}}
}
