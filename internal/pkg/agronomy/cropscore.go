package agronomy

import (
	"math"
	"sort"
	"strings"
	"time"
)

// Economics is a per-acre cost and revenue estimate in INR
type Economics struct {
	YieldPerAcre   float64
	CostPerAcre    float64
	RevenuePerAcre float64
}

// Margin is revenue minus cost per acre
func (e Economics) Margin() float64 {
	return e.RevenuePerAcre - e.CostPerAcre
}

var economicsTable = map[string]Economics{
	"Rice":      {25, 25000, 45000},
	"Wheat":     {20, 20000, 35000},
	"Cotton":    {8, 30000, 55000},
	"Maize":     {30, 18000, 35000},
	"Sugarcane": {350, 60000, 120000},
	"Soybean":   {12, 20000, 40000},
	"Chickpea":  {10, 15000, 35000},
	"Groundnut": {15, 22000, 45000},
	"Potato":    {200, 40000, 80000},
	"Tomato":    {250, 50000, 100000},
}

// defaultEconomics keeps a 30000 INR margin for crops without market data
var defaultEconomics = Economics{YieldPerAcre: 25, CostPerAcre: 20000, RevenuePerAcre: 50000}

// EconomicsFor returns the crop's per-acre figures or the default
func EconomicsFor(cropName string) Economics {
	if e, ok := economicsTable[cropName]; ok {
		return e
	}
	return defaultEconomics
}

type cropProfile struct {
	name          string
	soilTypes     []string
	seasons       []string
	minRainfall   float64
	tempMin       float64
	tempMax       float64
	water         string
	profitability string
}

var cropProfiles = []cropProfile{
	{"Rice", []string{"Clay", "Loamy"}, []string{"Kharif"}, 1000, 20, 35, "High", "Medium"},
	{"Wheat", []string{"Loamy", "Clay"}, []string{"Rabi"}, 400, 10, 25, "Medium", "High"},
	{"Cotton", []string{"Clay", "Loamy"}, []string{"Kharif"}, 600, 21, 35, "Medium", "High"},
	{"Maize", []string{"Loamy", "Sandy"}, []string{"Kharif", "Rabi"}, 500, 20, 30, "Medium", "Medium"},
	{"Sugarcane", []string{"Loamy", "Clay"}, []string{"Year-round"}, 1500, 20, 35, "Very High", "High"},
	{"Soybean", []string{"Loamy", "Clay"}, []string{"Kharif"}, 600, 20, 32, "Medium", "Medium"},
	{"Chickpea", []string{"Loamy", "Clay"}, []string{"Rabi"}, 400, 15, 30, "Low", "High"},
	{"Groundnut", []string{"Sandy", "Loamy"}, []string{"Kharif", "Rabi"}, 500, 20, 30, "Medium", "High"},
	{"Potato", []string{"Loamy", "Sandy"}, []string{"Rabi"}, 500, 15, 25, "High", "High"},
	{"Tomato", []string{"Loamy", "Sandy"}, []string{"Year-round"}, 600, 20, 30, "High", "High"},
}

var profitScores = map[string]int{"Low": 5, "Medium": 10, "High": 20}

// AnalysisInput drives the crop analysis
type AnalysisInput struct {
	SoilType string
	Season   string
	Rainfall *float64
}

// TemperatureRange is a crop's comfortable band in °C
type TemperatureRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// CropProfileDetails describes the matched crop
type CropProfileDetails struct {
	SoilTypes        []string         `json:"soilTypes"`
	Seasons          []string         `json:"seasons"`
	MinRainfall      float64          `json:"minRainfall"`
	WaterRequirement string           `json:"waterRequirement"`
	Profitability    string           `json:"profitability"`
	TemperatureRange TemperatureRange `json:"temperatureRange"`
}

// CropEconomics is the per-acre outlook for an analysed crop
type CropEconomics struct {
	YieldPerAcre   float64 `json:"yieldPerAcre"`
	YieldUnit      string  `json:"yieldUnit"`
	CostPerAcre    float64 `json:"costPerAcre"`
	RevenuePerAcre float64 `json:"revenuePerAcre"`
	ProfitPerAcre  float64 `json:"profitPerAcre"`
	ROI            float64 `json:"roi"`
}

// CropAnalysis is one scored crop
type CropAnalysis struct {
	CropName              string             `json:"cropName"`
	Score                 int                `json:"score"`
	SuitabilityPercentage int                `json:"suitabilityPercentage"`
	Reasons               []string           `json:"reasons"`
	Details               CropProfileDetails `json:"details"`
	Economics             CropEconomics      `json:"economics"`
}

// AnalysisResult is the ranked list with the inputs echoed back
type AnalysisResult struct {
	TotalRecommendations int            `json:"totalRecommendations"`
	Recommendations      []CropAnalysis `json:"recommendations"`
	Parameters           AnalysisParams `json:"parameters"`
}

// AnalysisParams echoes the normalised inputs
type AnalysisParams struct {
	SoilType string   `json:"soilType"`
	Season   string   `json:"season"`
	Rainfall *float64 `json:"rainfall,omitempty"`
}

// CurrentSeason maps a month to the Indian cropping season
func CurrentSeason(t time.Time) string {
	switch m := t.Month(); {
	case m >= time.June && m <= time.September:
		return "Kharif"
	case m >= time.October || m <= time.March:
		return "Rabi"
	default:
		return "Zaid"
	}
}

// AnalyzeCrops scores every known crop against soil and season, drops weak
// matches (score <= 40) and returns the top ten with per-acre economics.
func AnalyzeCrops(in AnalysisInput, now time.Time) AnalysisResult {
	soil := titleCase(in.SoilType)
	season := titleCase(in.Season)
	if season == "" {
		season = CurrentSeason(now)
	}

	results := make([]CropAnalysis, 0, len(cropProfiles))
	for _, p := range cropProfiles {
		score := 0
		var reasons []string

		if contains(p.soilTypes, soil) {
			score += 30
			reasons = append(reasons, "Suitable for "+soil+" soil")
		}
		if contains(p.seasons, season) || contains(p.seasons, "Year-round") {
			score += 30
			reasons = append(reasons, "Ideal for "+season+" season")
		}
		score += profitScores[p.profitability]

		switch p.water {
		case "Low":
			score += 10
			reasons = append(reasons, "Low water requirement")
		case "Medium":
			score += 5
		}

		if in.Rainfall != nil && *in.Rainfall < p.minRainfall {
			reasons = append(reasons, "Needs irrigation to cover rainfall shortfall")
		}

		if score <= 40 {
			continue
		}

		econ := EconomicsFor(p.name)
		profit := econ.Margin()
		results = append(results, CropAnalysis{
			CropName:              p.name,
			Score:                 score,
			SuitabilityPercentage: int(math.Min(float64(score), 100)),
			Reasons:               reasons,
			Details: CropProfileDetails{
				SoilTypes:        p.soilTypes,
				Seasons:          p.seasons,
				MinRainfall:      p.minRainfall,
				WaterRequirement: p.water,
				Profitability:    p.profitability,
				TemperatureRange: TemperatureRange{Min: p.tempMin, Max: p.tempMax},
			},
			Economics: CropEconomics{
				YieldPerAcre:   econ.YieldPerAcre,
				YieldUnit:      "quintals/acre",
				CostPerAcre:    econ.CostPerAcre,
				RevenuePerAcre: econ.RevenuePerAcre,
				ProfitPerAcre:  profit,
				ROI:            math.Round(profit / econ.CostPerAcre * 100),
			},
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > 10 {
		results = results[:10]
	}

	return AnalysisResult{
		TotalRecommendations: len(results),
		Recommendations:      results,
		Parameters:           AnalysisParams{SoilType: soil, Season: season, Rainfall: in.Rainfall},
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// titleCase turns "loamy" or "LOAMY" into "Loamy"
func titleCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
