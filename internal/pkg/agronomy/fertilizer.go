// Package agronomy holds the lookup tables and formulas behind the
// recommendation, weather and planning endpoints. Everything here is pure.
package agronomy

import (
	"github.com/Kaustubh-Sir/cropsuit/internal/app/models"
)

// Soil-test thresholds below which a straight fertilizer is recommended
const (
	NitrogenThreshold   = 280.0
	PhosphorusThreshold = 11.0
	PotassiumThreshold  = 110.0
)

// FertilizerLines builds the line items for a soil test. Nutrients at or above
// their threshold are skipped; vermicompost is always included.
func FertilizerLines(soil models.SoilNutrients) []models.FertilizerLine {
	lines := make([]models.FertilizerLine, 0, 4)

	if models.Value(soil.Nitrogen) < NitrogenThreshold {
		lines = append(lines, models.FertilizerLine{
			Fertilizer:        models.FertilizerProduct{Name: "Urea", Type: "inorganic", NPKRatio: "46-0-0"},
			Quantity:          models.Quantity{Value: 130, Unit: "kg/acre"},
			ApplicationMethod: "broadcasting",
			ApplicationStage:  "At sowing and 30 days after sowing",
			Frequency:         "2 times during crop cycle",
			EstimatedCost:     1500,
			Benefits: []string{
				"Promotes vegetative growth",
				"Increases protein content",
				"Enhances leaf development",
			},
			Precautions: []string{
				"Apply in split doses",
				"Do not apply during waterlogged conditions",
				"Incorporate into soil",
			},
		})
	}

	if models.Value(soil.Phosphorus) < PhosphorusThreshold {
		lines = append(lines, models.FertilizerLine{
			Fertilizer:        models.FertilizerProduct{Name: "Single Super Phosphate (SSP)", Type: "inorganic", NPKRatio: "0-16-0"},
			Quantity:          models.Quantity{Value: 200, Unit: "kg/acre"},
			ApplicationMethod: "drilling",
			ApplicationStage:  "At the time of sowing",
			Frequency:         "Once at sowing",
			EstimatedCost:     1200,
			Benefits: []string{
				"Promotes root development",
				"Improves flowering and fruiting",
				"Enhances disease resistance",
			},
			Precautions: []string{
				"Apply near root zone",
				"Mix with organic matter for better efficiency",
			},
		})
	}

	if models.Value(soil.Potassium) < PotassiumThreshold {
		lines = append(lines, models.FertilizerLine{
			Fertilizer:        models.FertilizerProduct{Name: "Muriate of Potash (MOP)", Type: "inorganic", NPKRatio: "0-0-60"},
			Quantity:          models.Quantity{Value: 50, Unit: "kg/acre"},
			ApplicationMethod: "broadcasting",
			ApplicationStage:  "At flowering stage",
			Frequency:         "Once during flowering",
			EstimatedCost:     800,
			Benefits: []string{
				"Improves fruit quality",
				"Enhances stress tolerance",
				"Increases shelf life of produce",
			},
			Precautions: []string{
				"Apply when soil has adequate moisture",
				"Avoid over-application",
			},
		})
	}

	lines = append(lines, models.FertilizerLine{
		Fertilizer:        models.FertilizerProduct{Name: "Vermicompost", Type: "organic", NPKRatio: "1.5-1-1"},
		Quantity:          models.Quantity{Value: 500, Unit: "kg/acre"},
		ApplicationMethod: "broadcasting",
		ApplicationStage:  "Before sowing",
		Frequency:         "Once before crop establishment",
		EstimatedCost:     2500,
		Benefits: []string{
			"Improves soil structure",
			"Enhances beneficial microbial activity",
			"Provides slow-release nutrients",
			"Improves water retention",
		},
		Precautions: []string{
			"Apply well-decomposed compost",
			"Mix thoroughly with soil",
		},
	})

	return lines
}
