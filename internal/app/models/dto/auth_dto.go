package dto

import "github.com/Kaustubh-Sir/cropsuit/internal/app/models"

// RegisterRequest represents the user registration payload
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=50" example:"Ravi Kumar"`
	Email    string `json:"email" binding:"required,email" example:"ravi@example.com"`
	Password string `json:"password" binding:"required,min=6" example:"secret123"`
}

// LoginRequest represents the login payload; presence is checked by the handler
type LoginRequest struct {
	Email    string `json:"email" example:"ravi@example.com"`
	Password string `json:"password" example:"secret123"`
}

// UpdateDetailsRequest updates the profile; omitted fields are left alone
type UpdateDetailsRequest struct {
	Name        *string             `json:"name" binding:"omitempty,max=50"`
	Email       *string             `json:"email" binding:"omitempty,email"`
	FarmDetails *models.FarmDetails `json:"farmDetails"`
	Preferences *models.Preferences `json:"preferences"`
}

// UpdatePasswordRequest changes a local account's password
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// TokenResponse is returned by register, login and password change
type TokenResponse struct {
	Success bool                  `json:"success" example:"true"`
	Token   string                `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	User    *models.PublicProfile `json:"user"`
}
