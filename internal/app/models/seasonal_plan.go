package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// SeasonalPlan defines a season's cropping plan based on the 'seasonal_plans' table
type SeasonalPlan struct {
	ID                    int64                 `json:"id" db:"id" example:"1"`
	UserID                int64                 `json:"user" db:"user_id" example:"1"`
	Year                  int                   `json:"year" db:"year" binding:"required" example:"2025"`
	Season                string                `json:"season" db:"season" binding:"required,oneof=kharif rabi zaid annual" example:"kharif"`
	PlanName              string                `json:"planName" db:"plan_name" binding:"required" example:"Kharif 2025"`
	Description           string                `json:"description,omitempty" db:"description"`
	StartDate             time.Time             `json:"startDate" db:"start_date" binding:"required"`
	EndDate               time.Time             `json:"endDate" db:"end_date" binding:"required"`
	TotalArea             *float64              `json:"totalArea" db:"total_area" binding:"required,gte=0" example:"10"`
	Crops                 []PlannedCrop         `json:"crops" db:"crops" binding:"dive"`
	RotationStrategy      string                `json:"rotationStrategy,omitempty" db:"rotation_strategy" binding:"omitempty,oneof=monocropping crop_rotation intercropping mixed_cropping"`
	Financials            PlanFinancials        `json:"financials" db:"financials"`
	Resources             PlanResources         `json:"resources" db:"resources"`
	Milestones            []Milestone           `json:"milestones" db:"milestones" binding:"dive"`
	Risks                 []PlanRisk            `json:"risks" db:"risks" binding:"dive"`
	WeatherConsiderations WeatherConsiderations `json:"weatherConsiderations" db:"weather_considerations"`
	Status                string                `json:"status" db:"status" binding:"omitempty,oneof=draft active completed cancelled" example:"draft"`
	Progress              int                   `json:"progress" db:"progress" binding:"gte=0,lte=100"`
	Notes                 []Note                `json:"notes" db:"notes"`
	CreatedAt             time.Time             `json:"createdAt" db:"created_at"`
	UpdatedAt             time.Time             `json:"updatedAt" db:"updated_at"`
}

// PlannedCrop allocates part of the plan's area to one crop
type PlannedCrop struct {
	CropID          *int64  `json:"crop,omitempty"`
	CropName        string  `json:"cropName"`
	AllocatedArea   float64 `json:"allocatedArea"`
	ExpectedYield   float64 `json:"expectedYield"`
	EstimatedCost   float64 `json:"estimatedCost"`
	ExpectedRevenue float64 `json:"expectedRevenue"`
	Priority        string  `json:"priority" binding:"omitempty,oneof=high medium low"`
	Status          string  `json:"status" binding:"omitempty,oneof=planned in_progress completed cancelled"`
}

// PlanFinancials holds budget and roll-ups
type PlanFinancials struct {
	TotalBudget          *float64 `json:"totalBudget,omitempty"`
	TotalEstimatedCost   *float64 `json:"totalEstimatedCost,omitempty"`
	TotalExpectedRevenue *float64 `json:"totalExpectedRevenue,omitempty"`
	TotalExpectedProfit  *float64 `json:"totalExpectedProfit,omitempty"`
	ActualCost           *float64 `json:"actualCost,omitempty"`
	ActualRevenue        *float64 `json:"actualRevenue,omitempty"`
	ActualProfit         *float64 `json:"actualProfit,omitempty"`
}

// PlanResources lists labour, water and inputs
type PlanResources struct {
	LaborRequired     *float64         `json:"laborRequired,omitempty"`
	WaterRequired     *float64         `json:"waterRequired,omitempty"`
	MachineryNeeded   []string         `json:"machineryNeeded,omitempty"`
	FertilizersNeeded []FertilizerNeed `json:"fertilizersNeeded,omitempty"`
}

// FertilizerNeed is an input requirement
type FertilizerNeed struct {
	Type     string  `json:"type"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit,omitempty"`
}

// Milestone is a dated checkpoint; ID is assigned on insert
type Milestone struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	TargetDate    *time.Time `json:"targetDate,omitempty"`
	Completed     bool       `json:"completed"`
	CompletedDate *time.Time `json:"completedDate,omitempty"`
}

// PlanRisk is an identified threat with its mitigation
type PlanRisk struct {
	Type               string `json:"type" binding:"omitempty,oneof=weather pest disease market financial other"`
	Description        string `json:"description,omitempty"`
	Severity           string `json:"severity,omitempty" binding:"omitempty,oneof=low medium high"`
	MitigationStrategy string `json:"mitigationStrategy,omitempty"`
}

// WeatherConsiderations records expected conditions for the season
type WeatherConsiderations struct {
	ExpectedRainfall *float64         `json:"expectedRainfall,omitempty"`
	TemperatureRange *TemperatureSpan `json:"temperatureRange,omitempty"`
	CriticalPeriods  []CriticalPeriod `json:"criticalPeriods,omitempty"`
}

// TemperatureSpan is a min/max pair
type TemperatureSpan struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// CriticalPeriod flags a window that needs attention
type CriticalPeriod struct {
	Period  string `json:"period"`
	Concern string `json:"concern"`
}

// ApplyDefaults fills unset fields and assigns ids to new milestones
func (p *SeasonalPlan) ApplyDefaults() {
	if p.Status == "" {
		p.Status = "draft"
	}
	if p.Crops == nil {
		p.Crops = []PlannedCrop{}
	}
	for i := range p.Crops {
		if p.Crops[i].Priority == "" {
			p.Crops[i].Priority = "medium"
		}
		if p.Crops[i].Status == "" {
			p.Crops[i].Status = "planned"
		}
	}
	if p.Milestones == nil {
		p.Milestones = []Milestone{}
	}
	for i := range p.Milestones {
		if p.Milestones[i].ID == "" {
			p.Milestones[i].ID = uuid.NewString()
		}
	}
	if p.Risks == nil {
		p.Risks = []PlanRisk{}
	}
	if p.Notes == nil {
		p.Notes = []Note{}
	}
}

// Recalculate rolls crop figures into the financials and derives progress
func (p *SeasonalPlan) Recalculate() {
	if len(p.Crops) > 0 {
		cost, revenue := 0.0, 0.0
		for _, c := range p.Crops {
			cost += c.EstimatedCost
			revenue += c.ExpectedRevenue
		}
		p.Financials.TotalEstimatedCost = Float(cost)
		p.Financials.TotalExpectedRevenue = Float(revenue)
		p.Financials.TotalExpectedProfit = Float(revenue - cost)
	}

	if p.Financials.ActualCost != nil || p.Financials.ActualRevenue != nil {
		p.Financials.ActualProfit = Float(Value(p.Financials.ActualRevenue) - Value(p.Financials.ActualCost))
	}

	if len(p.Milestones) > 0 {
		completed := 0
		for _, m := range p.Milestones {
			if m.Completed {
				completed++
			}
		}
		p.Progress = int(math.Round(float64(completed) / float64(len(p.Milestones)) * 100))
	}
}

// Milestone returns the milestone with the given id
func (p *SeasonalPlan) Milestone(id string) (*Milestone, bool) {
	for i := range p.Milestones {
		if p.Milestones[i].ID == id {
			return &p.Milestones[i], true
		}
	}
	return nil, false
}
