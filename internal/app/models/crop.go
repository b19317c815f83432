package models

import (
	"time"
)

// Crop defines a cultivated crop based on the 'crops' table
type Crop struct {
	ID                  int64        `json:"id" db:"id" example:"1"`
	UserID              int64        `json:"user" db:"user_id" example:"1"`
	Name                string       `json:"name" db:"name" binding:"required" example:"Wheat"`
	Variety             string       `json:"variety,omitempty" db:"variety" example:"HD 2967"`
	Category            string       `json:"category" db:"category" binding:"required,oneof=cereals pulses vegetables fruits oilseeds cash_crops spices other" example:"cereals"`
	PlantingDate        time.Time    `json:"plantingDate" db:"planting_date" binding:"required"`
	ExpectedHarvestDate time.Time    `json:"expectedHarvestDate" db:"expected_harvest_date" binding:"required"`
	ActualHarvestDate   *time.Time   `json:"actualHarvestDate,omitempty" db:"actual_harvest_date"`
	Area                *float64     `json:"area" db:"area" binding:"required,gte=0" example:"2.5"`
	Location            CropLocation `json:"location" db:"location"`
	Season              string       `json:"season" db:"season" binding:"required,oneof=kharif rabi zaid perennial" example:"rabi"`
	SoilType            string       `json:"soilType,omitempty" db:"soil_type" binding:"omitempty,oneof=clay sandy loamy silt peaty chalky"`
	IrrigationMethod    string       `json:"irrigationMethod,omitempty" db:"irrigation_method" binding:"omitempty,oneof=drip sprinkler flood rainfed other"`
	Status              string       `json:"status" db:"status" binding:"omitempty,oneof=planned planted growing harvested failed" example:"planned"`
	GrowthStage         string       `json:"growthStage,omitempty" db:"growth_stage" binding:"omitempty,oneof=germination seedling vegetative flowering fruiting maturity harvest"`
	Health              CropHealth   `json:"health" db:"health"`
	Yield               CropYield    `json:"yield" db:"yield"`
	CostTracking        CropCosts    `json:"costTracking" db:"cost_tracking"`
	Revenue             CropRevenue  `json:"revenue" db:"revenue"`
	Notes               []Note       `json:"notes" db:"notes"`
	CreatedAt           time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time    `json:"updatedAt" db:"updated_at"`
}

// CropLocation names the field and its coordinates
type CropLocation struct {
	Field       string    `json:"field,omitempty"`
	Coordinates []float64 `json:"coordinates,omitempty"` // [longitude, latitude]
}

// CropHealth is the current health grade plus the issue log
type CropHealth struct {
	Status string        `json:"status" binding:"omitempty,oneof=excellent good fair poor critical"`
	Issues []HealthIssue `json:"issues" binding:"dive"`
}

// HealthIssue is one observed problem on a crop
type HealthIssue struct {
	Type           string    `json:"type" binding:"omitempty,oneof=pest disease nutrient_deficiency weather other"`
	Description    string    `json:"description,omitempty"`
	Severity       string    `json:"severity,omitempty" binding:"omitempty,oneof=low medium high"`
	IdentifiedDate time.Time `json:"identifiedDate"`
	Resolved       bool      `json:"resolved"`
}

// CropYield is measured in Unit (quintals by default)
type CropYield struct {
	Expected *float64 `json:"expected,omitempty"`
	Actual   *float64 `json:"actual,omitempty"`
	Unit     string   `json:"unit"`
}

// CropCosts tracks input spend; Total is derived
type CropCosts struct {
	Seeds       float64 `json:"seeds"`
	Fertilizers float64 `json:"fertilizers"`
	Pesticides  float64 `json:"pesticides"`
	Labor       float64 `json:"labor"`
	Irrigation  float64 `json:"irrigation"`
	Other       float64 `json:"other"`
	Total       float64 `json:"total"`
}

// CropRevenue tracks sales; Profit is derived
type CropRevenue struct {
	SellingPrice *float64 `json:"sellingPrice,omitempty"`
	TotalRevenue *float64 `json:"totalRevenue,omitempty"`
	Profit       *float64 `json:"profit,omitempty"`
}

// Note is a dated free-text entry
type Note struct {
	Content string    `json:"content"`
	Date    time.Time `json:"date"`
	Author  *int64    `json:"author,omitempty"`
}

// ApplyDefaults fills unset fields with their stored defaults
func (c *Crop) ApplyDefaults() {
	if c.Status == "" {
		c.Status = "planned"
	}
	if c.Health.Status == "" {
		c.Health.Status = "good"
	}
	if c.Health.Issues == nil {
		c.Health.Issues = []HealthIssue{}
	}
	if c.Yield.Unit == "" {
		c.Yield.Unit = "quintals"
	}
	if c.Notes == nil {
		c.Notes = []Note{}
	}
}

// Recalculate derives the cost total and, once revenue is recorded, the profit
func (c *Crop) Recalculate() {
	ct := &c.CostTracking
	ct.Total = ct.Seeds + ct.Fertilizers + ct.Pesticides + ct.Labor + ct.Irrigation + ct.Other

	if c.Revenue.TotalRevenue != nil {
		c.Revenue.Profit = Float(*c.Revenue.TotalRevenue - ct.Total)
	}
}
