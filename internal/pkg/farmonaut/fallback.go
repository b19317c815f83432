package farmonaut

import (
	"time"
)

// CropOption is one crop in the fallback catalogue
type CropOption struct {
	Name             string `json:"name"`
	Suitability      string `json:"suitability"`
	ExpectedYield    string `json:"expectedYield"`
	WaterRequirement string `json:"waterRequirement"`
	Duration         string `json:"duration"`
}

// FertilizerDose is one product in the fallback fertilizer plan
type FertilizerDose struct {
	Type     string `json:"type"`
	Quantity string `json:"quantity"`
	Timing   string `json:"timing"`
}

// Dosage is kg/hectare of each nutrient
type Dosage struct {
	Nitrogen   float64 `json:"nitrogen"`
	Phosphorus float64 `json:"phosphorus"`
	Potassium  float64 `json:"potassium"`
}

var fallbackCrops = map[string][]CropOption{
	"kharif": {
		{"Rice", "high", "3-4 tons/hectare", "high", "120-150 days"},
		{"Cotton", "high", "2-3 tons/hectare", "medium", "150-180 days"},
		{"Maize", "medium", "2.5-3.5 tons/hectare", "medium", "90-120 days"},
		{"Sugarcane", "high", "70-80 tons/hectare", "high", "12-18 months"},
		{"Soybean", "medium", "1.5-2 tons/hectare", "medium", "90-120 days"},
	},
	"rabi": {
		{"Wheat", "high", "3-4 tons/hectare", "medium", "120-150 days"},
		{"Barley", "medium", "2-3 tons/hectare", "low", "120-140 days"},
		{"Mustard", "high", "1-1.5 tons/hectare", "low", "90-120 days"},
		{"Chickpea", "high", "1.5-2 tons/hectare", "low", "120-150 days"},
		{"Peas", "medium", "2-3 tons/hectare", "medium", "90-110 days"},
	},
	"zaid": {
		{"Watermelon", "high", "25-30 tons/hectare", "high", "80-100 days"},
		{"Muskmelon", "high", "20-25 tons/hectare", "high", "80-100 days"},
		{"Cucumber", "medium", "15-20 tons/hectare", "medium", "50-70 days"},
		{"Tomato", "high", "30-40 tons/hectare", "medium", "90-120 days"},
		{"Green Fodder", "medium", "25-30 tons/hectare", "high", "60-80 days"},
	},
}

// FallbackCropOptions returns the catalogue for a season; unknown seasons get kharif
func FallbackCropOptions(season string) []CropOption {
	if crops, ok := fallbackCrops[season]; ok {
		return crops
	}
	return fallbackCrops["kharif"]
}

// FallbackCropRecommendations is served when the crop endpoint is unavailable
func FallbackCropRecommendations(q CropQuery, now time.Time) *CropRecommendations {
	season, soil := q.Season, q.SoilType
	if season == "" {
		season = "kharif"
	}
	if soil == "" {
		soil = "loamy"
	}
	return &CropRecommendations{
		Success:         true,
		Season:          season,
		SoilType:        soil,
		Recommendations: FallbackCropOptions(season),
		Metadata:        Metadata{Timestamp: now, Source: SourceFallback},
	}
}

// FallbackWeather is served when the weather endpoint is unavailable
func FallbackWeather(now time.Time) *WeatherReport {
	temp, humidity, rain, wind := 28.0, 65.0, 0.0, 12.0
	return &WeatherReport{
		Success: true,
		Current: CurrentWeather{
			Temperature:   &temp,
			Humidity:      &humidity,
			Precipitation: &rain,
			WindSpeed:     &wind,
			Description:   "Partly Cloudy",
		},
		Forecast: []interface{}{},
		AgriculturalAdvice: FarmAdvice{
			Irrigation: "Moderate irrigation recommended based on current conditions",
			Planting:   "Good conditions for planting",
			Harvesting: "Weather suitable for harvesting activities",
		},
		Metadata: Metadata{Timestamp: now, Source: SourceFallback},
	}
}

// FallbackFertilizer is served when the fertilizer endpoint is unavailable
func FallbackFertilizer(q FertilizerQuery, now time.Time) *FertilizerReport {
	ratio := "20:10:10"
	return &FertilizerReport{
		Success: true,
		Recommendations: []FertilizerDose{
			{Type: "Urea", Quantity: "100 kg/hectare", Timing: "Before sowing"},
			{Type: "DAP", Quantity: "75 kg/hectare", Timing: "At sowing"},
			{Type: "Potash", Quantity: "50 kg/hectare", Timing: "Before sowing"},
		},
		NPKRatio:          &ratio,
		ApplicationTiming: []string{"Before sowing", "At sowing", "30 days after sowing"},
		Dosage:            Dosage{Nitrogen: 100, Phosphorus: 50, Potassium: 50},
		Metadata:          Metadata{Timestamp: now, Source: SourceFallback, CropType: q.CropType},
	}
}
