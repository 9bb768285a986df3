package users

import (
	"context"
	"strings"

	"github.com/angelmondragon/lockerbox-backend/internal/repo"
	"github.com/angelmondragon/lockerbox-backend/pkg/config"
	"github.com/angelmondragon/lockerbox-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/lockerbox-backend/pkg/errors"
	"github.com/angelmondragon/lockerbox-backend/pkg/security"
	"gorm.io/gorm"
)

const duplicateEmailMessage = "email already registered"

// Service manages user accounts.
type Service struct {
	*repo.Store[models.User]
	passwordCfg config.PasswordConfig
}

func NewService(conn *gorm.DB, passwordCfg config.PasswordConfig) *Service {
	return &Service{
		Store:       repo.NewStore[models.User](conn, "user"),
		passwordCfg: passwordCfg,
	}
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*models.User, error) {
	email := NormalizeEmail(input.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid password")
	}

	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Username:     strings.TrimSpace(input.Username),
		Firstname:    strings.TrimSpace(input.Firstname),
		Lastname:     strings.TrimSpace(input.Lastname),
		Address:      strings.TrimSpace(input.Address),
		Verified:     input.Verified,
	}
	if err := s.Insert(ctx, &user); err != nil {
		return nil, duplicateEmail(err)
	}
	return &user, nil
}

func (s *Service) Update(ctx context.Context, id uint, input UpdateInput) (*models.User, error) {
	fields := map[string]any{}
	if input.Email != nil {
		email := NormalizeEmail(*input.Email)
		if email == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "email cannot be empty")
		}
		fields["email"] = email
	}
	if input.Password != nil {
		hash, err := security.HashPassword(*input.Password, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid password")
		}
		fields["password_hash"] = hash
	}
	if input.Username != nil {
		fields["username"] = strings.TrimSpace(*input.Username)
	}
	if input.Firstname != nil {
		fields["firstname"] = strings.TrimSpace(*input.Firstname)
	}
	if input.Lastname != nil {
		fields["lastname"] = strings.TrimSpace(*input.Lastname)
	}
	if input.Address != nil {
		fields["address"] = strings.TrimSpace(*input.Address)
	}
	if input.Verified != nil {
		fields["verified"] = *input.Verified
	}

	user, err := s.Patch(ctx, id, fields)
	if err != nil {
		return nil, duplicateEmail(err)
	}
	return user, nil
}

// NormalizeEmail lowercases and trims an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func duplicateEmail(err error) error {
	if pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, duplicateEmailMessage)
	}
	return err
}
