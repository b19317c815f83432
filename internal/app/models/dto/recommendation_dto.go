package dto

import "github.com/Kaustubh-Sir/cropsuit/internal/app/models"

// FertilizerFilter narrows the fertilizer recommendation list
type FertilizerFilter struct {
	Status string `form:"status" binding:"omitempty,oneof=pending applied completed"`
}

// CalculateFertilizerRequest feeds the deficiency calculator
type CalculateFertilizerRequest struct {
	CropName   string   `json:"cropName" binding:"required" example:"Rice"`
	Nitrogen   *float64 `json:"nitrogen" binding:"required,gte=0" example:"80"`
	Phosphorus *float64 `json:"phosphorus" binding:"required,gte=0" example:"30"`
	Potassium  *float64 `json:"potassium" binding:"required,gte=0" example:"20"`
	PH         *float64 `json:"pH" binding:"omitempty,gte=0,lte=14" example:"6.5"`
}

// CropRecommendationFilter narrows the crop recommendation list
type CropRecommendationFilter struct {
	Status string `form:"status" binding:"omitempty,oneof=active accepted rejected expired"`
	Season string `form:"season" binding:"omitempty,oneof=kharif rabi zaid perennial"`
}

// AnalyzeCropsRequest feeds the crop analysis
type AnalyzeCropsRequest struct {
	SoilType string   `json:"soilType" binding:"required" example:"Loamy"`
	Season   string   `json:"season" example:"Kharif"`
	Rainfall *float64 `json:"rainfall" binding:"omitempty,gte=0" example:"900"`
}

// UpdateCropRecommendationRequest changes a recommendation's status or feedback
type UpdateCropRecommendationRequest struct {
	Status       *string              `json:"status" binding:"omitempty,oneof=active accepted rejected expired" example:"accepted"`
	UserFeedback *models.UserFeedback `json:"userFeedback"`
}
