// Package services holds the business logic behind the HTTP controllers.
//
// Services defined in this package:
//   - AuthService: registration, login and profile maintenance
//   - CropService: crop records, notes, health issues and the crop register
//   - FertilizerService: fertilizer recommendations and the deficiency calculator
//   - CropRecommendationService: seasonal crop suggestions and crop analysis
//   - WeatherService: provider lookups with local fallback and history
//   - SeasonalPlanService: plans, milestones, notes and workbook export
//   - FarmonautService: RapidAPI Farmonaut lookups with fallback data
//   - MaintenanceService: retention of weather rows and recommendation expiry
package services

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"time"

	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/apperrors"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/validation"
)

// Clock returns the current time; tests replace it
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// overlay applies a partial JSON document to dst and validates the result.
// Each top-level key in patch replaces the stored field as a whole, so a
// replaced array never inherits values from the elements it replaces.
func overlay(dst interface{}, patch json.RawMessage) error {
	if len(bytes.TrimSpace(patch)) == 0 {
		return apperrors.NewBadRequestError("Request body is required")
	}

	var changes map[string]json.RawMessage
	if err := json.Unmarshal(patch, &changes); err != nil || changes == nil {
		return invalidBody(err)
	}

	current, err := json.Marshal(dst)
	if err != nil {
		return err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(current, &merged); err != nil {
		return err
	}
	for key, value := range changes {
		for existing := range merged {
			if existing != key && strings.EqualFold(existing, key) {
				delete(merged, existing)
			}
		}
		merged[key] = value
	}

	body, err := json.Marshal(merged)
	if err != nil {
		return err
	}
	target := reflect.ValueOf(dst).Elem()
	fresh := reflect.New(target.Type())
	if err := json.Unmarshal(body, fresh.Interface()); err != nil {
		return invalidBody(err)
	}
	target.Set(fresh.Elem())

	return validation.Struct(dst)
}

func invalidBody(err error) error {
	detail := "request body must be a JSON object"
	if err != nil {
		detail = err.Error()
	}
	return apperrors.NewCustomError(apperrors.ErrBadRequest, "Invalid request body").
		WithDetails(map[string]interface{}{"error": detail})
}
