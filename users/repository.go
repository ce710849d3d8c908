package users

import (
	"context"
	"errors"
	"strings"

	"github.com/esteticaio/api/auth"
	"github.com/esteticaio/api/database"
)

var (
	// ErrNotFound is returned when no user matches.
	ErrNotFound = errors.New("users: not found")
	// ErrEmailTaken is returned when creating a user whose email exists.
	ErrEmailTaken = errors.New("users: email already registered")
)

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Repository reads and writes the users table.
type Repository struct {
	db *database.DB
}

// NewRepository creates a Repository on db.
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// FindByEmail returns the user with the given email, compared case-insensitively.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// FindByID returns the user with the given id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// List returns all users ordered by id.
func (r *Repository) List(ctx context.Context) ([]User, error) {
	var out []User
	if err := r.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts u, normalizing its email and defaulting its role.
func (r *Repository) Create(ctx context.Context, u *User) error {
	u.Email = NormalizeEmail(u.Email)
	if u.Role == "" {
		u.Role = auth.DefaultRole
	}
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

// Delete removes the user with the given id.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// HasRole reports whether at least one user has role.
func (r *Repository) HasRole(ctx context.Context, role string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&User{}).Where("role = ?", role).Count(&n).Error
	return n > 0, err
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case database.IsNotFoundError(err):
		return ErrNotFound
	case database.IsDuplicateError(err):
		return ErrEmailTaken
	default:
		return err
	}
}
