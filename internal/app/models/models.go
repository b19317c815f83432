package models

import "math"

// RoleType defines the user role type
type RoleType string

const (
	RoleFarmer RoleType = "farmer"
	RoleAdmin  RoleType = "admin"
)

// AuthProvider records how an account signs in
type AuthProvider string

const (
	AuthProviderLocal  AuthProvider = "local"
	AuthProviderGoogle AuthProvider = "google"
)

// Season values shared by crops and recommendations
const (
	SeasonKharif    = "kharif"
	SeasonRabi      = "rabi"
	SeasonZaid      = "zaid"
	SeasonPerennial = "perennial"
	SeasonAnnual    = "annual"
)

// Recommendation status values
const (
	CropRecommendationActive   = "active"
	CropRecommendationAccepted = "accepted"
	CropRecommendationRejected = "rejected"
	CropRecommendationExpired  = "expired"
)

// NutrientReadings holds optional soil test values
type NutrientReadings struct {
	Nitrogen   *float64 `json:"nitrogen,omitempty"`
	Phosphorus *float64 `json:"phosphorus,omitempty"`
	Potassium  *float64 `json:"potassium,omitempty"`
	PH         *float64 `json:"pH,omitempty" binding:"omitempty,gte=0,lte=14"`
}

// ClimateConditions is a coarse climate summary attached to recommendations
type ClimateConditions struct {
	Temperature *float64 `json:"temperature,omitempty"`
	Rainfall    *float64 `json:"rainfall,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
}

// Float returns a pointer to v
func Float(v float64) *float64 {
	return &v
}

// Value dereferences p, treating nil as zero
func Value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// Round rounds v to the given number of decimals
func Round(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}
