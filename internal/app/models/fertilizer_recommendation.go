package models

import (
	"time"
)

// FertilizerRecommendation defines a fertilizer plan based on the 'fertilizer_recommendations' table
type FertilizerRecommendation struct {
	ID                    int64             `json:"id" db:"id" example:"1"`
	UserID                int64             `json:"user" db:"user_id" example:"1"`
	CropID                *int64            `json:"crop,omitempty" db:"crop_id"`
	CropName              string            `json:"cropName" db:"crop_name" binding:"required" example:"Wheat"`
	SoilType              string            `json:"soilType" db:"soil_type" binding:"required,oneof=clay sandy loamy silt peaty chalky" example:"loamy"`
	SoilNutrients         SoilNutrients     `json:"soilNutrients" db:"soil_nutrients"`
	Recommendations       []FertilizerLine  `json:"recommendations" db:"recommendations" binding:"dive"`
	Season                string            `json:"season,omitempty" db:"season" binding:"omitempty,oneof=kharif rabi zaid perennial"`
	ClimateConditions     ClimateConditions `json:"climateConditions" db:"climate_conditions"`
	TotalEstimatedCost    float64           `json:"totalEstimatedCost" db:"total_estimated_cost"`
	ExpectedYieldIncrease string            `json:"expectedYieldIncrease,omitempty" db:"expected_yield_increase" example:"15-20%"`
	Status                string            `json:"status" db:"status" binding:"omitempty,oneof=pending applied completed" example:"pending"`
	AppliedDate           *time.Time        `json:"appliedDate,omitempty" db:"applied_date"`
	Results               FertilizerResults `json:"results" db:"results"`
	GeneratedBy           string            `json:"generatedBy" db:"generated_by" binding:"omitempty,oneof=ai expert manual" example:"ai"`
	CreatedAt             time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt             time.Time         `json:"updatedAt" db:"updated_at"`
}

// SoilNutrients is a soil test; N, P and K are mandatory
type SoilNutrients struct {
	Nitrogen      *float64 `json:"nitrogen" binding:"required"`
	Phosphorus    *float64 `json:"phosphorus" binding:"required"`
	Potassium     *float64 `json:"potassium" binding:"required"`
	PH            *float64 `json:"pH,omitempty" binding:"omitempty,gte=0,lte=14"`
	OrganicCarbon *float64 `json:"organicCarbon,omitempty"`
}

// FertilizerLine is one product to apply
type FertilizerLine struct {
	Fertilizer        FertilizerProduct `json:"fertilizer"`
	Quantity          Quantity          `json:"quantity"`
	ApplicationMethod string            `json:"applicationMethod,omitempty" binding:"omitempty,oneof=broadcasting drilling foliar_spray fertigation side_dressing"`
	ApplicationStage  string            `json:"applicationStage,omitempty"`
	Frequency         string            `json:"frequency,omitempty"`
	EstimatedCost     float64           `json:"estimatedCost"`
	Benefits          []string          `json:"benefits,omitempty"`
	Precautions       []string          `json:"precautions,omitempty"`
}

// FertilizerProduct identifies a fertilizer by name, kind and grade
type FertilizerProduct struct {
	Name     string `json:"name"`
	Type     string `json:"type,omitempty" binding:"omitempty,oneof=organic inorganic bio-fertilizer"`
	NPKRatio string `json:"npkRatio,omitempty" example:"46-0-0"`
}

// Quantity is an amount with its unit
type Quantity struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// FertilizerResults records what happened after application
type FertilizerResults struct {
	YieldAchieved *float64 `json:"yieldAchieved,omitempty"`
	QualityRating string   `json:"qualityRating,omitempty" binding:"omitempty,oneof=excellent good average poor"`
	Feedback      string   `json:"feedback,omitempty"`
}

// ApplyDefaults fills unset fields with their stored defaults
func (f *FertilizerRecommendation) ApplyDefaults() {
	if f.Status == "" {
		f.Status = "pending"
	}
	if f.GeneratedBy == "" {
		f.GeneratedBy = "ai"
	}
	if f.Recommendations == nil {
		f.Recommendations = []FertilizerLine{}
	}
	for i := range f.Recommendations {
		if f.Recommendations[i].Quantity.Unit == "" {
			f.Recommendations[i].Quantity.Unit = "kg/acre"
		}
	}
}

// Recalculate keeps TotalEstimatedCost equal to the sum of the line items
func (f *FertilizerRecommendation) Recalculate() {
	total := 0.0
	for _, line := range f.Recommendations {
		total += line.EstimatedCost
	}
	f.TotalEstimatedCost = total
}
