package dto

import (
	"time"

	"github.com/Kaustubh-Sir/cropsuit/internal/app/models"
)

// CropFilter narrows GET /api/crops
type CropFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=planned planted growing harvested failed"`
	Season   string `form:"season" binding:"omitempty,oneof=kharif rabi zaid perennial"`
	Category string `form:"category"`
}

// NoteRequest adds a note to a crop or a plan
type NoteRequest struct {
	Content string `json:"content" binding:"required" example:"First irrigation done"`
}

// HealthIssueRequest logs a problem on a crop
type HealthIssueRequest struct {
	Type           string     `json:"type" binding:"required,oneof=pest disease nutrient_deficiency weather other" example:"pest"`
	Description    string     `json:"description" example:"Aphids on lower leaves"`
	Severity       string     `json:"severity" binding:"omitempty,oneof=low medium high" example:"medium"`
	IdentifiedDate *time.Time `json:"identifiedDate"`
	Resolved       bool       `json:"resolved"`
}

// ToModel converts the request into a health issue dated now when no date is given
func (r HealthIssueRequest) ToModel(now time.Time) models.HealthIssue {
	issue := models.HealthIssue{
		Type:           r.Type,
		Description:    r.Description,
		Severity:       r.Severity,
		IdentifiedDate: now,
		Resolved:       r.Resolved,
	}
	if r.IdentifiedDate != nil {
		issue.IdentifiedDate = *r.IdentifiedDate
	}
	return issue
}

// CropStatusStat groups crops by status
type CropStatusStat struct {
	ID        string  `json:"_id" example:"growing"`
	Count     int64   `json:"count" example:"3"`
	TotalArea float64 `json:"totalArea" example:"7.5"`
}

// CropCategoryStat groups crops by category
type CropCategoryStat struct {
	ID    string `json:"_id" example:"cereals"`
	Count int64  `json:"count" example:"2"`
}

// CropStats is the GET /api/crops/stats payload
type CropStats struct {
	ByStatus   []CropStatusStat   `json:"byStatus"`
	ByCategory []CropCategoryStat `json:"byCategory"`
}
