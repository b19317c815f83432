package models

import (
	"sort"
	"time"
)

// CropRecommendationTTL is how long a recommendation stays active
const CropRecommendationTTL = 90 * 24 * time.Hour

// CropRecommendation defines a set of crop suggestions based on the 'crop_recommendations' table
type CropRecommendation struct {
	ID                  int64                    `json:"id" db:"id" example:"1"`
	UserID              int64                    `json:"user" db:"user_id" example:"1"`
	Season              string                   `json:"season" db:"season" binding:"required,oneof=kharif rabi zaid perennial" example:"kharif"`
	Location            RecommendationLocation   `json:"location" db:"location"`
	SoilType            string                   `json:"soilType" db:"soil_type" binding:"required,oneof=clay sandy loamy silt peaty chalky" example:"loamy"`
	SoilNutrients       NutrientReadings         `json:"soilNutrients" db:"soil_nutrients"`
	ClimateData         ClimateData              `json:"climateData" db:"climate_data"`
	AvailableArea       *float64                 `json:"availableArea" db:"available_area" binding:"required,gte=0" example:"5"`
	IrrigationAvailable bool                     `json:"irrigationAvailable" db:"irrigation_available"`
	Budget              *float64                 `json:"budget,omitempty" db:"budget"`
	Recommendations     []CropSuggestion         `json:"recommendations" db:"recommendations" binding:"dive"`
	Preferences         RecommendationPreference `json:"preferences" db:"preferences"`
	GeneratedBy         string                   `json:"generatedBy" db:"generated_by" binding:"omitempty,oneof=ai expert hybrid"`
	Status              string                   `json:"status" db:"status" binding:"omitempty,oneof=active accepted rejected expired" example:"active"`
	UserFeedback        UserFeedback             `json:"userFeedback" db:"user_feedback"`
	ExpiresAt           time.Time                `json:"expiresAt" db:"expires_at"`
	CreatedAt           time.Time                `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time                `json:"updatedAt" db:"updated_at"`
}

// RecommendationLocation is where the recommendation applies
type RecommendationLocation struct {
	City        string    `json:"city,omitempty"`
	State       string    `json:"state,omitempty"`
	Coordinates []float64 `json:"coordinates,omitempty"`
}

// ClimateData summarises local climate for crop selection
type ClimateData struct {
	AverageTemperature *float64 `json:"averageTemperature,omitempty"`
	Rainfall           *float64 `json:"rainfall,omitempty"`
	Humidity           *float64 `json:"humidity,omitempty"`
}

// CropSuggestion is one scored crop
type CropSuggestion struct {
	CropName         string      `json:"cropName" binding:"required"`
	Variety          string      `json:"variety,omitempty"`
	Category         string      `json:"category,omitempty" binding:"omitempty,oneof=cereals pulses vegetables fruits oilseeds cash_crops spices"`
	SuitabilityScore float64     `json:"suitabilityScore" binding:"gte=0,lte=100"`
	Reasoning        string      `json:"reasoning,omitempty"`
	Advantages       []string    `json:"advantages,omitempty"`
	Challenges       []string    `json:"challenges,omitempty"`
	EstimatedYield   Quantity    `json:"estimatedYield"`
	EstimatedIncome  float64     `json:"estimatedIncome"`
	GrowthDuration   Quantity    `json:"growthDuration"`
	WaterRequirement string      `json:"waterRequirement,omitempty" binding:"omitempty,oneof=low moderate high"`
	LaborRequirement string      `json:"laborRequirement,omitempty" binding:"omitempty,oneof=low moderate high"`
	MarketDemand     string      `json:"marketDemand,omitempty" binding:"omitempty,oneof=low moderate high"`
	RiskLevel        string      `json:"riskLevel,omitempty" binding:"omitempty,oneof=low moderate high"`
	Cultivation      Cultivation `json:"cultivation"`
}

// Cultivation carries sowing and harvest guidance
type Cultivation struct {
	SowingTime  string `json:"sowingTime,omitempty"`
	HarvestTime string `json:"harvestTime,omitempty"`
	Spacing     string `json:"spacing,omitempty"`
	SeedRate    string `json:"seedRate,omitempty"`
}

// RecommendationPreference steers crop selection
type RecommendationPreference struct {
	OrganicFarming     bool  `json:"organicFarming"`
	CashCropPreference *bool `json:"cashCropPreference,omitempty"`
	FoodCropPreference *bool `json:"foodCropPreference,omitempty"`
}

// UserFeedback is the farmer's verdict on a recommendation
type UserFeedback struct {
	Rating        *int     `json:"rating,omitempty" binding:"omitempty,gte=1,lte=5"`
	Comment       string   `json:"comment,omitempty"`
	AcceptedCrops []string `json:"acceptedCrops,omitempty"`
}

// ApplyDefaults fills unset fields; ExpiresAt is anchored at now
func (r *CropRecommendation) ApplyDefaults(now time.Time) {
	if r.Status == "" {
		r.Status = CropRecommendationActive
	}
	if r.GeneratedBy == "" {
		r.GeneratedBy = "ai"
	}
	if r.Recommendations == nil {
		r.Recommendations = []CropSuggestion{}
	}
	if r.ExpiresAt.IsZero() {
		r.ExpiresAt = now.Add(CropRecommendationTTL)
	}
}

// Recalculate orders the suggestions by suitability, best first
func (r *CropRecommendation) Recalculate() {
	sort.SliceStable(r.Recommendations, func(i, j int) bool {
		return r.Recommendations[i].SuitabilityScore > r.Recommendations[j].SuitabilityScore
	})
}

// Expired reports whether an active recommendation has outlived ExpiresAt
func (r *CropRecommendation) Expired(now time.Time) bool {
	return r.Status == CropRecommendationActive && now.After(r.ExpiresAt)
}
