package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Kaustubh-Sir/cropsuit/internal/app/models"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/apperrors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestOverlayRequiresBody(t *testing.T) {
	var crop models.Crop
	err := overlay(&crop, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	msg, _ := apperrors.MessageOf(err)
	assert.Equal(t, "Request body is required", msg)
}

func TestOverlayRejectsMalformedJSON(t *testing.T) {
	var crop models.Crop
	err := overlay(&crop, json.RawMessage(`{"name":`))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestOverlayKeepsUntouchedFields(t *testing.T) {
	crop := validCrop()
	crop.Variety = "HD 2967"

	require.NoError(t, overlay(&crop, json.RawMessage(`{"status":"growing"}`)))
	assert.Equal(t, "growing", crop.Status)
	assert.Equal(t, "HD 2967", crop.Variety)
}

func TestOverlayReplacesNestedValues(t *testing.T) {
	crop := validCrop()
	crop.Notes = []models.Note{{Content: "first", Date: fixedNow}, {Content: "second", Date: fixedNow}}

	require.NoError(t, overlay(&crop, json.RawMessage(`{"notes":[{"content":"only"}]}`)))
	require.Len(t, crop.Notes, 1)
	assert.Equal(t, "only", crop.Notes[0].Content)
	assert.True(t, crop.Notes[0].Date.IsZero())
	assert.Equal(t, "Wheat", crop.Name)
}

func TestOverlayMatchesKeysCaseInsensitively(t *testing.T) {
	crop := validCrop()
	require.NoError(t, overlay(&crop, json.RawMessage(`{"Variety":"PBW 343"}`)))
	assert.Equal(t, "PBW 343", crop.Variety)
}

func TestOverlayRejectsNonObject(t *testing.T) {
	crop := validCrop()
	for _, body := range []string{`[1,2]`, `null`, `"text"`} {
		err := overlay(&crop, json.RawMessage(body))
		assert.ErrorIs(t, err, apperrors.ErrBadRequest, body)
	}
	assert.Equal(t, "Wheat", crop.Name)
}

func TestOverlayValidatesResult(t *testing.T) {
	crop := validCrop()
	err := overlay(&crop, json.RawMessage(`{"category":"weeds"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestNilClockUsesWallTime(t *testing.T) {
	var c Clock
	assert.False(t, c.now().IsZero())
	assert.Equal(t, fixedNow, Clock(fixedClock).now())
}

func validCrop() models.Crop {
	return models.Crop{
		Name:                "Wheat",
		Category:            "cereals",
		PlantingDate:        fixedNow,
		ExpectedHarvestDate: fixedNow.AddDate(0, 4, 0),
		Area:                models.Float(2.5),
		Season:              "rabi",
	}
}
