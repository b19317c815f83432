package dto

import (
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/farmonaut"
)

// FarmonautQuery is shared by the Farmonaut endpoints
type FarmonautQuery struct {
	Latitude   *float64 `form:"latitude"`
	Longitude  *float64 `form:"longitude"`
	SoilType   string   `form:"soilType"`
	Season     string   `form:"season"`
	CropType   string   `form:"cropType"`
	FieldID    string   `form:"fieldId"`
	Nitrogen   float64  `form:"nitrogen"`
	Phosphorus float64  `form:"phosphorus"`
	Potassium  float64  `form:"potassium"`
}

// HasLocation reports whether both coordinates were supplied
func (q FarmonautQuery) HasLocation() bool {
	return q.Latitude != nil && q.Longitude != nil
}

// Location returns the coordinate pair; call HasLocation first
func (q FarmonautQuery) Location() farmonaut.Location {
	return farmonaut.Location{Latitude: *q.Latitude, Longitude: *q.Longitude}
}

// SatelliteResponse wraps the raw imagery payload, which may be null
type SatelliteResponse struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data"`
}

// ComprehensiveData is the fan-out payload
type ComprehensiveData struct {
	Weather                   *farmonaut.WeatherReport       `json:"weather"`
	CropRecommendations       *farmonaut.CropRecommendations `json:"cropRecommendations"`
	FertilizerRecommendations *farmonaut.FertilizerReport    `json:"fertilizerRecommendations"`
	Location                  farmonaut.Location             `json:"location"`
}
