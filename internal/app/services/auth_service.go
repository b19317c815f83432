package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Kaustubh-Sir/cropsuit/internal/app/models"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/models/dto"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/repositories"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/apperrors"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/auth"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/validation"
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	GetProfile(ctx context.Context, userID int64) (*models.PublicProfile, error)
	UpdateDetails(ctx context.Context, userID int64, req *dto.UpdateDetailsRequest) (*models.PublicProfile, error)
	UpdatePassword(ctx context.Context, userID int64, req *dto.UpdatePasswordRequest) (*dto.TokenResponse, error)
	TokenTTL() time.Duration
}

// authServiceImpl implements the AuthService interface
type authServiceImpl struct {
	userRepo   repositories.IUserRepository
	jwtService *auth.JWTService
	logger     zerolog.Logger
	clock      Clock
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repositories.IUserRepository, jwtService *auth.JWTService, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

var errUserExists = apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "User already exists with this email")

// Register creates a local farmer account and signs a token for it
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking if email exists: %w", err)
	}
	if exists {
		return nil, errUserExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := models.NewUser(strings.TrimSpace(req.Name), req.Email, hash)
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, errUserExists
		}
		return nil, fmt.Errorf("user creation error: %w", err)
	}

	s.logger.Info().Int64("userID", user.ID).Msg("User registered")
	return s.generateTokenResponse(user)
}

// Login authenticates a local account by email and password
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, apperrors.NewBadRequestError("Please provide email and password")
	}

	invalid := apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Invalid credentials")

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, invalid
		}
		return nil, fmt.Errorf("error finding user: %w", err)
	}

	if user.AuthProvider != models.AuthProviderLocal {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf(
			"This account uses %s authentication. Please login with %s.", user.AuthProvider, user.AuthProvider))
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, invalid
	}

	if !user.IsActive {
		return nil, apperrors.NewCustomError(apperrors.ErrAccountDisabled, "Account is deactivated")
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, s.clock.now()); err != nil {
		// A stale lastLogin must not block the login itself
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Could not update last login")
	}

	return s.generateTokenResponse(user)
}

// GetProfile returns the public profile of the user
func (s *authServiceImpl) GetProfile(ctx context.Context, userID int64) (*models.PublicProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user information: %w", err)
	}
	profile := user.Public()
	return &profile, nil
}

// UpdateDetails changes name, email, farm details and preferences
func (s *authServiceImpl) UpdateDetails(ctx context.Context, userID int64, req *dto.UpdateDetailsRequest) (*models.PublicProfile, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user information: %w", err)
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil && !strings.EqualFold(strings.TrimSpace(*req.Email), user.Email) {
		exists, err := s.userRepo.EmailExists(ctx, *req.Email)
		if err != nil {
			return nil, fmt.Errorf("error checking if email exists: %w", err)
		}
		if exists {
			return nil, errUserExists
		}
		user.Email = *req.Email
	}
	if req.FarmDetails != nil {
		user.FarmDetails = *req.FarmDetails
	}
	if req.Preferences != nil {
		user.Preferences = *req.Preferences
	}
	user.ApplyDefaults()

	if err := s.userRepo.UpdateDetails(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, errUserExists
		}
		return nil, fmt.Errorf("error updating user details: %w", err)
	}

	profile := user.Public()
	return &profile, nil
}

// UpdatePassword replaces a local account's password and issues a fresh token
func (s *authServiceImpl) UpdatePassword(ctx context.Context, userID int64, req *dto.UpdatePasswordRequest) (*dto.TokenResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user information: %w", err)
	}

	if user.AuthProvider != models.AuthProviderLocal {
		return nil, apperrors.NewBadRequestError("Cannot update password for OAuth users")
	}
	if !auth.CheckPassword(user.Password, req.CurrentPassword) {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Current password is incorrect")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return nil, fmt.Errorf("error updating password: %w", err)
	}
	user.Password = hash

	return s.generateTokenResponse(user)
}

// TokenTTL is the lifetime of issued tokens, also used for the session cookie
func (s *authServiceImpl) TokenTTL() time.Duration {
	return s.jwtService.TokenTTL()
}

// generateTokenResponse signs a token for the user
func (s *authServiceImpl) generateTokenResponse(user *models.User) (*dto.TokenResponse, error) {
	token, _, err := s.jwtService.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("token generation error: %w", err)
	}

	profile := user.Public()
	return &dto.TokenResponse{
		Success: true,
		Token:   token,
		User:    &profile,
	}, nil
}
