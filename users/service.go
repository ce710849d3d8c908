package users

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/esteticaio/api/auth"
	"github.com/esteticaio/api/auth/password"
	"github.com/esteticaio/api/database"
	apperrors "github.com/esteticaio/api/errors"
	"github.com/esteticaio/api/logger"
	"github.com/esteticaio/api/validation"
)

// MinPasswordLength applies to accounts created through Register.
const MinPasswordLength = 6

// CreateRequest is the input for Register.
type CreateRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email,max=255"`
	Password string `json:"password" form:"password" validate:"required,min=6,max=72"`
	Name     string `json:"name" form:"name" validate:"required,max=255"`
	Role     string `json:"role" form:"role" validate:"omitempty,role"`
}

// Service implements account management on top of Repository.
type Service struct {
	repo   *Repository
	hasher password.Hasher
	log    *logger.Logger
}

// NewService creates a Service.
func NewService(repo *Repository, hasher password.Hasher, log *logger.Logger) *Service {
	return &Service{repo: repo, hasher: hasher, log: log.WithComponent("users")}
}

// Register validates req, hashes its password and stores a new user.
func (s *Service) Register(ctx context.Context, req CreateRequest) (*User, error) {
	req.Email = NormalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	u, err := s.create(ctx, req.Email, req.Name, req.Role, req.Password)
	if err != nil {
		return nil, err
	}
	s.log.WithContext(ctx).Info("user registered", logger.Fields(
		logger.FieldUserID, u.ID, logger.FieldRole, u.Role))
	return u, nil
}

func (s *Service) create(ctx context.Context, email, name, role, secret string) (*User, error) {
	hash, err := s.hasher.Hash(secret)
	if errors.Is(err, password.ErrTooLong) {
		return nil, apperrors.InvalidInput("password", err.Error())
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	u := &User{Email: email, Name: name, Role: role, PasswordHash: hash}
	switch err := s.repo.Create(ctx, u); {
	case errors.Is(err, ErrEmailTaken):
		return nil, apperrors.AlreadyExists("user").WithDetail("email", email)
	case err != nil:
		return nil, database.FromDatabase(err, "user")
	}
	return u, nil
}

// Get returns the user with id.
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, apperrors.NotFound("user", strconv.FormatInt(id, 10))
	}
	if err != nil {
		return nil, database.FromDatabase(err, "user")
	}
	return u, nil
}

// List returns every user.
func (s *Service) List(ctx context.Context) ([]User, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, database.FromDatabase(err, "user")
	}
	return out, nil
}

// Delete removes the user with id. An admin may not delete their own account.
func (s *Service) Delete(ctx context.Context, actor *auth.Identity, id int64) error {
	if actor != nil && actor.ID == id {
		return apperrors.InvalidInput("id", "cannot delete your own account")
	}
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return apperrors.NotFound("user", strconv.FormatInt(id, 10))
	}
	if err != nil {
		return database.FromDatabase(err, "user")
	}
	s.log.WithContext(ctx).Info("user deleted", logger.Fields(logger.FieldUserID, id))
	return nil
}

// AdminConfig describes the seed administrator.
type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Name     string `mapstructure:"name"`
	Password string `mapstructure:"password"`
}

// Default seed administrator values.
const (
	DefaultAdminEmail    = "admin@estetica.io"
	DefaultAdminName     = "Administrador"
	DefaultAdminPassword = "1234"
)

// ApplyDefaults sets defaults for zero-valued fields.
func (c *AdminConfig) ApplyDefaults() {
	if c.Email == "" {
		c.Email = DefaultAdminEmail
	}
	if c.Name == "" {
		c.Name = DefaultAdminName
	}
	if c.Password == "" {
		c.Password = DefaultAdminPassword
	}
}

// Validate checks the seed administrator's email.
func (c *AdminConfig) Validate() error {
	v := validation.New().Required("admin.email", c.Email).Email("admin.email", c.Email)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// UsesDefaultPassword reports whether the seed password is the built-in default.
func (c *AdminConfig) UsesDefaultPassword() bool {
	return c.Password == DefaultAdminPassword
}

// BootstrapAdmin creates the seed administrator unless an admin already
// exists. It reports whether a user was created. The seed password is not
// subject to MinPasswordLength.
func (s *Service) BootstrapAdmin(ctx context.Context, cfg AdminConfig) (bool, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return false, err
	}
	log := s.log.WithContext(ctx)

	exists, err := s.repo.HasRole(ctx, auth.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("users: check admin: %w", err)
	}
	if exists {
		log.Debug("admin already present, skipping seed")
		return false, nil
	}

	u, err := s.create(ctx, NormalizeEmail(cfg.Email), cfg.Name, auth.RoleAdmin, cfg.Password)
	if err != nil {
		return false, err
	}
	log.Info("seed admin created", logger.Fields(logger.FieldUserID, u.ID, logger.FieldEmail, u.Email))
	if cfg.UsesDefaultPassword() {
		log.Warn("seed admin uses the default password; change it")
	}
	return true, nil
}
