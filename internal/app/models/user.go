package models

import (
	"time"
)

// DefaultAvatar is assigned to accounts without a picture
const DefaultAvatar = "https://via.placeholder.com/150"

// User defines the user model based on the 'users' table
type User struct {
	ID           int64        `json:"id" db:"id" example:"1"`
	Name         string       `json:"name" db:"name" example:"Ravi Kumar"`
	Email        string       `json:"email" db:"email" example:"ravi@example.com"`
	Password     string       `json:"-" db:"password"`
	GoogleID     *string      `json:"googleId,omitempty" db:"google_id"`
	Avatar       string       `json:"avatar" db:"avatar"`
	AuthProvider AuthProvider `json:"authProvider" db:"auth_provider" example:"local"`
	Role         RoleType     `json:"role" db:"role" example:"farmer"`
	FarmDetails  FarmDetails  `json:"farmDetails" db:"farm_details"`
	Preferences  Preferences  `json:"preferences" db:"preferences"`
	IsActive     bool         `json:"isActive" db:"is_active" example:"true"`
	LastLogin    *time.Time   `json:"lastLogin,omitempty" db:"last_login"`
	CreatedAt    time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time    `json:"updatedAt" db:"updated_at"`
}

// FarmDetails describes the user's holding
type FarmDetails struct {
	Location FarmLocation `json:"location"`
	FarmSize float64      `json:"farmSize" binding:"gte=0"`
	SoilType string       `json:"soilType,omitempty" binding:"omitempty,oneof=clay sandy loamy silt peaty chalky other"`
}

// FarmLocation is a GeoJSON point plus a postal address
type FarmLocation struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [longitude, latitude]
	Address     string    `json:"address,omitempty"`
	City        string    `json:"city,omitempty"`
	State       string    `json:"state,omitempty"`
	Country     string    `json:"country,omitempty"`
	Pincode     string    `json:"pincode,omitempty"`
}

// Preferences holds UI language and notification switches
type Preferences struct {
	Language      string        `json:"language"`
	Notifications Notifications `json:"notifications"`
}

// Notifications toggles each alert channel
type Notifications struct {
	Email      bool `json:"email"`
	Weather    bool `json:"weather"`
	CropAlerts bool `json:"cropAlerts"`
}

// PublicProfile is the user shape returned by the auth endpoints
type PublicProfile struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Avatar      string      `json:"avatar"`
	Role        RoleType    `json:"role"`
	FarmDetails FarmDetails `json:"farmDetails"`
}

// NewUser returns a local farmer account with the stock defaults
func NewUser(name, email, passwordHash string) *User {
	u := &User{
		Name:     name,
		Email:    email,
		Password: passwordHash,
	}
	u.ApplyDefaults()
	return u
}

// ApplyDefaults fills unset fields with their stored defaults
func (u *User) ApplyDefaults() {
	if u.Avatar == "" {
		u.Avatar = DefaultAvatar
	}
	if u.AuthProvider == "" {
		u.AuthProvider = AuthProviderLocal
	}
	if u.Role == "" {
		u.Role = RoleFarmer
	}
	if u.FarmDetails.Location.Type == "" {
		u.FarmDetails.Location.Type = "Point"
	}
	if u.FarmDetails.Location.Coordinates == nil {
		u.FarmDetails.Location.Coordinates = []float64{0, 0}
	}
	if u.Preferences.Language == "" {
		u.Preferences.Language = "en"
		u.Preferences.Notifications = Notifications{Email: true, Weather: true, CropAlerts: true}
	}
	if u.ID == 0 {
		u.IsActive = true
	}
}

// Public returns the profile exposed to clients
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Avatar:      u.Avatar,
		Role:        u.Role,
		FarmDetails: u.FarmDetails,
	}
}
