// Package seed creates the default records a fresh database needs.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	appModels "github.com/Kaustubh-Sir/cropsuit/internal/app/models"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/apperrors"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/auth"
)

// AdminName is the display name of the seeded administrator
const AdminName = "Administrator"

// UserStore is the part of the user repository seeding needs
type UserStore interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *appModels.User) error
}

// AdminAccount is the administrator created on an empty database
type AdminAccount struct {
	Email    string
	Password string
}

// CreateDefaultData creates the administrator account if it does not exist.
// Nothing is created when no admin email is configured.
func CreateDefaultData(ctx context.Context, users UserStore, admin AdminAccount, lgr zerolog.Logger) error {
	email := strings.ToLower(strings.TrimSpace(admin.Email))
	if email == "" {
		lgr.Info().Msg("No admin email configured, skipping default data")
		return nil
	}
	if len(admin.Password) < auth.MinPasswordLength {
		return fmt.Errorf("admin account: %w", auth.ErrPasswordTooShort)
	}

	lgr.Info().Msg("Checking/Creating default admin user...")
	exists, err := users.EmailExists(ctx, email)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		return err
	}
	if exists {
		lgr.Info().Msg("Admin user already exists, skipping creation")
		return nil
	}

	hashed, err := auth.HashPassword(admin.Password)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return err
	}

	user := appModels.NewUser(AdminName, email, hashed)
	user.Role = appModels.RoleAdmin
	user.IsActive = true

	if err := users.Create(ctx, user); err != nil {
		// Another instance may have seeded concurrently
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil
		}
		lgr.Error().Err(err).Msg("Error creating admin user")
		return err
	}

	lgr.Info().Int64("adminID", user.ID).Msg("Default admin user created successfully")
	return nil
}
