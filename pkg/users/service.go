package users

import (
	"context"
	"database/sql"
	"time"
	"unicode/utf8"

	"github.com/lorenamitrea/LocalLibrary/pkg/auth"
	"github.com/lorenamitrea/LocalLibrary/pkg/errcodes"
	"github.com/lorenamitrea/LocalLibrary/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// MinPasswordLength is the shortest password an account can have.
const MinPasswordLength = 8

// Service handles user accounts and their roles.
type Service struct {
	db *bun.DB
}

// NewService creates a new users service.
func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// CreateUserOptions contains options for creating a user.
type CreateUserOptions struct {
	Username string
	Email    *string
	Password string
	RoleName string
}

// Create creates a new active user.
func (s *Service) Create(ctx context.Context, opts CreateUserOptions) (*models.User, error) {
	if opts.Username == "" || utf8.RuneCountInString(opts.Username) > 150 {
		return nil, errcodes.ValidationError("Username must be between 1 and 150 characters")
	}
	if err := checkPassword(opts.Password); err != nil {
		return nil, err
	}

	exists, err := s.db.NewSelect().
		Model((*models.User)(nil)).
		Where("username = ? COLLATE NOCASE", opts.Username).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if exists {
		return nil, errcodes.ValidationError("A user with that username already exists.")
	}

	role, err := s.RetrieveRole(ctx, opts.RoleName)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := auth.HashPassword(opts.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		CreatedAt:    now,
		UpdatedAt:    now,
		Username:     opts.Username,
		Email:        opts.Email,
		PasswordHash: hashedPassword,
		RoleID:       role.ID,
		IsActive:     true,
	}

	_, err = s.db.NewInsert().Model(user).Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return s.RetrieveByUsername(ctx, user.Username)
}

// RetrieveByUsername gets a user, active or not, with role and permissions.
func (s *Service) RetrieveByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	err := s.db.NewSelect().
		Model(user).
		Relation("Role").
		Relation("Role.Permissions").
		Where("u.username = ? COLLATE NOCASE", username).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("User")
		}
		return nil, errors.WithStack(err)
	}
	return user, nil
}

// List returns every user with their role, oldest first.
func (s *Service) List(ctx context.Context) ([]*models.User, error) {
	users := []*models.User{}
	err := s.db.NewSelect().
		Model(&users).
		Relation("Role").
		Order("u.id ASC").
		Scan(ctx)
	return users, errors.WithStack(err)
}

// SetRole moves a user to the named role.
func (s *Service) SetRole(ctx context.Context, user *models.User, roleName string) error {
	role, err := s.RetrieveRole(ctx, roleName)
	if err != nil {
		return err
	}

	user.RoleID = role.ID
	user.Role = role
	user.UpdatedAt = time.Now()
	_, err = s.db.NewUpdate().
		Model(user).
		Column("role_id", "updated_at").
		WherePK().
		Exec(ctx)
	return errors.WithStack(err)
}

// ResetPassword changes a user's password.
func (s *Service) ResetPassword(ctx context.Context, user *models.User, newPassword string) error {
	if err := checkPassword(newPassword); err != nil {
		return err
	}
	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hashedPassword
	user.UpdatedAt = time.Now()
	_, err = s.db.NewUpdate().
		Model(user).
		Column("password_hash", "updated_at").
		WherePK().
		Exec(ctx)
	return errors.WithStack(err)
}

// SetActive activates or deactivates a user. Inactive users can't log in and
// their sessions stop working.
func (s *Service) SetActive(ctx context.Context, user *models.User, active bool) error {
	user.IsActive = active
	user.UpdatedAt = time.Now()
	_, err := s.db.NewUpdate().
		Model(user).
		Column("is_active", "updated_at").
		WherePK().
		Exec(ctx)
	return errors.WithStack(err)
}

// RetrieveRole gets a role, with its permissions, by name.
func (s *Service) RetrieveRole(ctx context.Context, name string) (*models.Role, error) {
	role := &models.Role{}
	err := s.db.NewSelect().
		Model(role).
		Relation("Permissions").
		Where("r.name = ? COLLATE NOCASE", name).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Role")
		}
		return nil, errors.WithStack(err)
	}
	return role, nil
}

// ListRoles returns every role with its permissions.
func (s *Service) ListRoles(ctx context.Context) ([]*models.Role, error) {
	roles := []*models.Role{}
	err := s.db.NewSelect().
		Model(&roles).
		Relation("Permissions").
		Order("r.id ASC").
		Scan(ctx)
	return roles, errors.WithStack(err)
}

func checkPassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return errcodes.ValidationError("This password is too short. It must contain at least 8 characters.")
	}
	return nil
}
