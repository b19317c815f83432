package dto

import "time"

// PlanFilter narrows the seasonal plan list
type PlanFilter struct {
	Status string `form:"status" binding:"omitempty,oneof=draft active completed cancelled"`
	Season string `form:"season" binding:"omitempty,oneof=kharif rabi zaid annual"`
	Year   int    `form:"year" binding:"omitempty,gte=1900,lte=3000"`
}

// MilestoneRequest adds a milestone to a plan
type MilestoneRequest struct {
	Title       string     `json:"title" binding:"required" example:"Complete sowing"`
	Description string     `json:"description" example:"All fields sown"`
	TargetDate  *time.Time `json:"targetDate"`
	Completed   bool       `json:"completed"`
}

// MilestoneUpdateRequest changes a milestone; omitted fields are left alone
type MilestoneUpdateRequest struct {
	Title         *string    `json:"title" binding:"omitempty,min=1"`
	Description   *string    `json:"description"`
	TargetDate    *time.Time `json:"targetDate"`
	Completed     *bool      `json:"completed"`
	CompletedDate *time.Time `json:"completedDate"`
}

// PlanStatusStat groups plans by status
type PlanStatusStat struct {
	ID          string  `json:"_id" example:"active"`
	Count       int64   `json:"count" example:"2"`
	TotalArea   float64 `json:"totalArea" example:"15"`
	TotalBudget float64 `json:"totalBudget" example:"250000"`
}

// PlanSeasonStat groups plans by season
type PlanSeasonStat struct {
	ID    string `json:"_id" example:"kharif"`
	Count int64  `json:"count" example:"1"`
}

// PlanStats is the GET /api/seasonal-plans/stats payload
type PlanStats struct {
	ByStatus []PlanStatusStat `json:"byStatus"`
	BySeason []PlanSeasonStat `json:"bySeason"`
}
