package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/apperrors"
)

type nutrients struct {
	Nitrogen *float64 `json:"nitrogen" binding:"required"`
	PH       float64  `json:"pH" binding:"gte=0,lte=14"`
}

type sample struct {
	Name     string    `json:"name" binding:"required,max=5"`
	Email    string    `json:"email" binding:"omitempty,email"`
	Season   string    `json:"season" binding:"omitempty,oneof=kharif rabi"`
	Area     float64   `json:"area" binding:"gte=0"`
	Nutrient nutrients `json:"soilNutrients"`
}

func TestStructFormatsFieldMessages(t *testing.T) {
	err := Struct(sample{
		Name:     "Sugarcane",
		Email:    "not-an-email",
		Season:   "monsoon",
		Area:     -1,
		Nutrient: nutrients{PH: 15},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))

	var custom *apperrors.CustomError
	require.True(t, errors.As(err, &custom))
	assert.Equal(t, "name cannot exceed 5 characters", custom.Details["name"])
	assert.Equal(t, "email must be a valid email address", custom.Details["email"])
	assert.Equal(t, "season must be one of: kharif rabi", custom.Details["season"])
	assert.Equal(t, "area must be at least 0", custom.Details["area"])
	assert.Equal(t, "soilNutrients.nitrogen is required", custom.Details["soilNutrients.nitrogen"])
	assert.Equal(t, "soilNutrients.pH must be at most 14", custom.Details["soilNutrients.pH"])
}

func TestStructAcceptsValidInput(t *testing.T) {
	n := 120.0
	assert.NoError(t, Struct(sample{Name: "Rice", Season: "kharif", Nutrient: nutrients{Nitrogen: &n, PH: 6.5}}))
}

func TestTranslateNonValidationError(t *testing.T) {
	err := Translate(errors.New("unexpected EOF"))
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))
}

func TestGinValidatorHandlesPointersAndSlices(t *testing.T) {
	v := ginValidator{}
	assert.NoError(t, v.ValidateStruct(nil))
	assert.Error(t, v.ValidateStruct(&sample{}))
	assert.Error(t, v.ValidateStruct([]sample{{Name: "ok"}, {}}))
	assert.NotNil(t, v.Engine())
}
