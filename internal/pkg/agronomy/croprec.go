package agronomy

import (
	"fmt"
	"math"

	"github.com/Kaustubh-Sir/cropsuit/internal/app/models"
)

// SeasonalCrop is a candidate in the per-season table
type SeasonalCrop struct {
	CropName         string
	Variety          string
	Category         string
	WaterRequirement string
	SoilTypes        []string
}

var seasonalCrops = map[string][]SeasonalCrop{
	models.SeasonKharif: {
		{"Rice", "Basmati", "cereals", "high", []string{"clay", "loamy"}},
		{"Cotton", "Bt Cotton", "cash_crops", "moderate", []string{"clay", "loamy", "sandy"}},
		{"Maize", "Hybrid", "cereals", "moderate", []string{"loamy", "sandy"}},
		{"Soybean", "JS 335", "oilseeds", "moderate", []string{"loamy", "clay"}},
	},
	models.SeasonRabi: {
		{"Wheat", "HD 2967", "cereals", "moderate", []string{"loamy", "clay"}},
		{"Mustard", "Pusa Bold", "oilseeds", "low", []string{"loamy", "sandy"}},
		{"Chickpea", "Pusa 256", "pulses", "low", []string{"loamy", "clay"}},
		{"Barley", "RD 2715", "cereals", "low", []string{"loamy", "sandy"}},
	},
	models.SeasonZaid: {
		{"Watermelon", "Sugar Baby", "fruits", "high", []string{"sandy", "loamy"}},
		{"Cucumber", "Hybrid", "vegetables", "moderate", []string{"loamy", "sandy"}},
		{"Muskmelon", "Hybrid", "fruits", "moderate", []string{"sandy", "loamy"}},
	},
}

// SeasonalCrops returns the candidates for a season; unknown seasons have none
func SeasonalCrops(season string) []SeasonalCrop {
	return seasonalCrops[season]
}

// SuggestionInput is what the farmer tells us about the field
type SuggestionInput struct {
	Season              string
	SoilType            string
	AvailableArea       float64
	IrrigationAvailable bool
}

// SuitabilityScore rates a candidate that already qualifies for the field
func SuitabilityScore(crop SeasonalCrop, soilType string, irrigated bool) float64 {
	score := 50.0
	if len(crop.SoilTypes) > 0 && crop.SoilTypes[0] == soilType {
		score += 20
	}
	if irrigated && crop.WaterRequirement == "high" {
		score += 15
	}
	if crop.WaterRequirement == "low" {
		score += 10
	}
	return math.Min(score, 100)
}

// qualifies requires a soil match and enough water for the crop
func qualifies(crop SeasonalCrop, soilType string, irrigated bool) bool {
	soilMatch := false
	for _, s := range crop.SoilTypes {
		if s == soilType {
			soilMatch = true
			break
		}
	}
	return soilMatch && (crop.WaterRequirement == "low" || irrigated)
}

// SuggestCrops filters the season's table for the field and scores each match.
// The result is sorted by suitability, best first.
func SuggestCrops(in SuggestionInput) []models.CropSuggestion {
	out := make([]models.CropSuggestion, 0)

	for _, crop := range SeasonalCrops(in.Season) {
		if !qualifies(crop, in.SoilType, in.IrrigationAvailable) {
			continue
		}
		score := SuitabilityScore(crop, in.SoilType, in.IrrigationAvailable)
		econ := EconomicsFor(crop.CropName)

		irrigation := "limited"
		if in.IrrigationAvailable {
			irrigation = "available"
		}

		out = append(out, models.CropSuggestion{
			CropName:         crop.CropName,
			Variety:          crop.Variety,
			Category:         crop.Category,
			SuitabilityScore: score,
			Reasoning: fmt.Sprintf("%s is well-suited for %s season in %s soil with %s irrigation.",
				crop.CropName, in.Season, in.SoilType, irrigation),
			Advantages: []string{
				"High market demand",
				fmt.Sprintf("Suitable for %s soil", in.SoilType),
				fmt.Sprintf("%s water requirement", crop.WaterRequirement),
				"Proven variety for the region",
			},
			Challenges: []string{
				"Requires proper pest management",
				"Market price fluctuations",
				"Weather dependency",
			},
			EstimatedYield:   models.Quantity{Value: econ.YieldPerAcre, Unit: "quintals/acre"},
			EstimatedIncome:  math.Round(econ.Margin() * in.AvailableArea),
			GrowthDuration:   models.Quantity{Value: growthDays(in.Season), Unit: "days"},
			WaterRequirement: crop.WaterRequirement,
			LaborRequirement: "moderate",
			MarketDemand:     marketDemand(score),
			RiskLevel:        riskLevel(crop.WaterRequirement, score),
			Cultivation:      cultivationFor(in.Season),
		})
	}

	r := models.CropRecommendation{Recommendations: out}
	r.Recalculate()
	return r.Recommendations
}

func growthDays(season string) float64 {
	switch season {
	case models.SeasonKharif:
		return 120
	case models.SeasonRabi:
		return 135
	default:
		return 90
	}
}

func marketDemand(score float64) string {
	if score >= 80 {
		return "high"
	}
	return "moderate"
}

func riskLevel(water string, score float64) string {
	if water == "low" || score >= 85 {
		return "low"
	}
	return "moderate"
}

func cultivationFor(season string) models.Cultivation {
	c := models.Cultivation{Spacing: "30cm x 30cm", SeedRate: "10-12 kg/acre"}
	switch season {
	case models.SeasonKharif:
		c.SowingTime, c.HarvestTime = "June-July", "October-November"
	case models.SeasonRabi:
		c.SowingTime, c.HarvestTime = "October-November", "March-April"
	default:
		c.SowingTime, c.HarvestTime = "March-April", "June-July"
	}
	return c
}
