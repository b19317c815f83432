package agronomy

import (
	"fmt"
	"math"
	"strings"
)

// NPK is a nitrogen/phosphorus/potassium triple in kg per acre
type NPK struct {
	N float64 `json:"N"`
	P float64 `json:"P"`
	K float64 `json:"K"`
}

// FeedingStage is one scheduled application for a crop
type FeedingStage struct {
	Stage    string
	Days     int
	NPK      string
	Quantity float64
}

type cropNutrition struct {
	optimal NPK
	stages  []FeedingStage
}

var nutritionTable = map[string]cropNutrition{
	"Rice": {NPK{120, 60, 40}, []FeedingStage{
		{"Basal", 0, "20-20-0", 100},
		{"Tillering", 25, "46-0-0", 50},
		{"Panicle Initiation", 45, "46-0-0", 50},
	}},
	"Wheat": {NPK{100, 50, 30}, []FeedingStage{
		{"Basal", 0, "12-32-16", 150},
		{"Crown Root", 21, "46-0-0", 70},
		{"Flowering", 60, "46-0-0", 30},
	}},
	"Cotton": {NPK{120, 60, 60}, []FeedingStage{
		{"Basal", 0, "12-32-16", 125},
		{"Squaring", 30, "46-0-0", 75},
		{"Flowering", 60, "0-0-60", 50},
	}},
	"Maize": {NPK{150, 75, 50}, []FeedingStage{
		{"Basal", 0, "12-32-16", 140},
		{"Knee High", 30, "46-0-0", 100},
		{"Tasseling", 50, "46-0-0", 60},
	}},
	"Sugarcane": {NPK{250, 115, 115}, []FeedingStage{
		{"Planting", 0, "12-32-16", 300},
		{"Tillering", 45, "46-0-0", 150},
		{"Grand Growth", 90, "46-0-0", 150},
	}},
	"Potato": {NPK{180, 80, 100}, []FeedingStage{
		{"Basal", 0, "19-19-19", 200},
		{"Tuber Initiation", 30, "0-0-60", 100},
	}},
	"Tomato": {NPK{150, 100, 100}, []FeedingStage{
		{"Basal", 0, "19-19-19", 180},
		{"Flowering", 25, "13-0-45", 100},
		{"Fruiting", 45, "13-0-45", 100},
	}},
}

// DeficiencyInput is a soil test for the calculator
type DeficiencyInput struct {
	CropName   string
	Nitrogen   float64
	Phosphorus float64
	Potassium  float64
	PH         *float64
}

// DeficiencyItem is one product in a calculated plan
type DeficiencyItem struct {
	FertilizerName    string  `json:"fertilizerName"`
	Type              string  `json:"type"`
	Quantity          float64 `json:"quantity"`
	Unit              string  `json:"unit"`
	NPKRatio          string  `json:"npkRatio"`
	ApplicationMethod string  `json:"applicationMethod"`
	ApplicationTiming string  `json:"applicationTiming"`
	Frequency         string  `json:"frequency"`
	EstimatedCost     float64 `json:"estimatedCost"`
}

// ScheduleEntry is one row of the application calendar
type ScheduleEntry struct {
	Stage       string `json:"stage"`
	Days        int    `json:"days"`
	Fertilizers string `json:"fertilizers"`
	Notes       string `json:"notes"`
}

// DeficiencyPlan is the calculator output
type DeficiencyPlan struct {
	CropName            string           `json:"cropName"`
	OptimalNPK          NPK              `json:"optimalNPK"`
	Deficiency          NPK              `json:"deficiency"`
	Recommendations     []DeficiencyItem `json:"recommendations"`
	CustomAdvice        string           `json:"customAdvice"`
	ApplicationSchedule []ScheduleEntry  `json:"applicationSchedule"`
	TotalEstimatedCost  float64          `json:"totalEstimatedCost"`
}

// OptimalNPK returns the crop's target nutrients; unknown crops use Wheat
func OptimalNPK(cropName string) NPK {
	return nutritionFor(cropName).optimal
}

func nutritionFor(cropName string) cropNutrition {
	if n, ok := nutritionTable[cropName]; ok {
		return n
	}
	return nutritionTable["Wheat"]
}

// CalculateDeficiency compares a soil test with the crop's optimum and
// prescribes products, a pH correction and a feeding schedule.
func CalculateDeficiency(in DeficiencyInput) DeficiencyPlan {
	crop := nutritionFor(in.CropName)
	def := NPK{
		N: math.Max(0, crop.optimal.N-in.Nitrogen),
		P: math.Max(0, crop.optimal.P-in.Phosphorus),
		K: math.Max(0, crop.optimal.K-in.Potassium),
	}

	var items []DeficiencyItem
	if def.N > 0 || def.P > 0 || def.K > 0 {
		items = append(items, DeficiencyItem{
			FertilizerName:    "NPK Complex",
			Type:              "Inorganic",
			Quantity:          complexQuantity(def),
			Unit:              "kg",
			NPKRatio:          "12-32-16",
			ApplicationMethod: "Broadcasting",
			ApplicationTiming: "At the time of sowing/planting",
			Frequency:         "One time",
			EstimatedCost:     1200,
		})
	}

	if def.N > 50 {
		items = append(items, DeficiencyItem{
			FertilizerName:    "Urea",
			Type:              "Inorganic",
			Quantity:          math.Round(def.N),
			Unit:              "kg",
			NPKRatio:          "46-0-0",
			ApplicationMethod: "Side-dressing",
			ApplicationTiming: "25-30 days after sowing",
			Frequency:         "1-2 times",
			EstimatedCost:     600,
		})
	}

	if def.K > 30 {
		items = append(items, DeficiencyItem{
			FertilizerName:    "Muriate of Potash",
			Type:              "Inorganic",
			Quantity:          math.Round(def.K * 1.67),
			Unit:              "kg",
			NPKRatio:          "0-0-60",
			ApplicationMethod: "Broadcasting",
			ApplicationTiming: "Before flowering",
			Frequency:         "One time",
			EstimatedCost:     800,
		})
	}

	items = append(items, DeficiencyItem{
		FertilizerName:    "Farm Yard Manure (FYM)",
		Type:              "Organic",
		Quantity:          5,
		Unit:              "tons",
		NPKRatio:          "Variable",
		ApplicationMethod: "Broadcasting",
		ApplicationTiming: "2-3 weeks before sowing",
		Frequency:         "One time",
		EstimatedCost:     2000,
	})

	var advice strings.Builder
	switch {
	case in.PH != nil && *in.PH < 5.5:
		advice.WriteString("Soil is acidic. Apply 2-3 tons of lime per acre to raise pH. ")
		items = append(items, DeficiencyItem{
			FertilizerName:    "Agricultural Lime",
			Type:              "Organic",
			Quantity:          2.5,
			Unit:              "tons",
			NPKRatio:          "N/A",
			ApplicationMethod: "Broadcasting",
			ApplicationTiming: "1 month before sowing",
			Frequency:         "One time",
			EstimatedCost:     1500,
		})
	case in.PH != nil && *in.PH > 8:
		advice.WriteString("Soil is alkaline. Apply gypsum or sulfur to lower pH. ")
		items = append(items, DeficiencyItem{
			FertilizerName:    "Gypsum",
			Type:              "Organic",
			Quantity:          2,
			Unit:              "tons",
			NPKRatio:          "N/A",
			ApplicationMethod: "Broadcasting",
			ApplicationTiming: "1 month before sowing",
			Frequency:         "One time",
			EstimatedCost:     1200,
		})
	}

	fmt.Fprintf(&advice, "For %s, maintain adequate moisture during fertilizer application. ", in.CropName)
	fmt.Fprintf(&advice, "Current soil nutrients - N: %g kg/ha, P: %g kg/ha, K: %g kg/ha. ", in.Nitrogen, in.Phosphorus, in.Potassium)

	total := 0.0
	for _, it := range items {
		total += it.EstimatedCost
	}

	return DeficiencyPlan{
		CropName:            in.CropName,
		OptimalNPK:          crop.optimal,
		Deficiency:          def,
		Recommendations:     items,
		CustomAdvice:        advice.String(),
		ApplicationSchedule: schedule(crop.stages),
		TotalEstimatedCost:  total,
	}
}

// complexQuantity is the 12-32-16 dose that covers the largest deficiency
func complexQuantity(def NPK) float64 {
	return math.Round(math.Max(def.N/0.12, math.Max(def.P/0.32, def.K/0.16)))
}

func schedule(stages []FeedingStage) []ScheduleEntry {
	out := make([]ScheduleEntry, 0, len(stages))
	for i, s := range stages {
		notes := "Apply as top dressing"
		if i == 0 {
			notes = "Apply with soil preparation"
		}
		out = append(out, ScheduleEntry{
			Stage:       s.Stage,
			Days:        s.Days,
			Fertilizers: fmt.Sprintf("%s @ %g kg/acre", s.NPK, s.Quantity),
			Notes:       notes,
		})
	}
	return out
}
