package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kaustubh-Sir/cropsuit/internal/app/models"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/models/dto"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/apperrors"
)

func soilTest(n, p, k float64) models.SoilNutrients {
	return models.SoilNutrients{Nitrogen: models.Float(n), Phosphorus: models.Float(p), Potassium: models.Float(k)}
}

func TestFertilizerCreateGeneratesLines(t *testing.T) {
	f := newFixture()
	svc := NewFertilizerService(f.ferts, f.authz)

	rec, err := svc.Create(context.Background(), 1, &models.FertilizerRecommendation{
		CropName:      "Wheat",
		SoilType:      "loamy",
		SoilNutrients: soilTest(100, 10, 80),
		GeneratedBy:   "manual",
	})
	require.NoError(t, err)
	require.NotEmpty(t, rec.Recommendations)
	assert.Equal(t, "ai", rec.GeneratedBy)
	assert.Equal(t, "pending", rec.Status)

	sum := 0.0
	for _, line := range rec.Recommendations {
		sum += line.EstimatedCost
	}
	assert.Equal(t, sum, rec.TotalEstimatedCost)
}

func TestFertilizerCreateChecksLinkedCrop(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	crop := validCrop()
	_, err := newTestCropService(f).Create(ctx, 1, &crop)
	require.NoError(t, err)

	svc := NewFertilizerService(f.ferts, f.authz)
	_, err = svc.Create(ctx, 2, &models.FertilizerRecommendation{
		CropID:        &crop.ID,
		CropName:      "Wheat",
		SoilType:      "loamy",
		SoilNutrients: soilTest(10, 10, 10),
	})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestFertilizerUpdateRecomputesTotal(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := NewFertilizerService(f.ferts, f.authz)

	rec, err := svc.Create(ctx, 1, &models.FertilizerRecommendation{
		CropName:      "Rice",
		SoilType:      "clay",
		SoilNutrients: soilTest(10, 10, 10),
	})
	require.NoError(t, err)

	patch := json.RawMessage(`{"status":"applied","recommendations":[
		{"fertilizer":{"name":"Urea"},"quantity":{"value":50},"estimatedCost":300},
		{"fertilizer":{"name":"DAP"},"quantity":{"value":25,"unit":"kg"},"estimatedCost":700}]}`)
	updated, err := svc.Update(ctx, 1, rec.ID, patch)
	require.NoError(t, err)
	assert.Equal(t, "applied", updated.Status)
	assert.Equal(t, 1000.0, updated.TotalEstimatedCost)
	assert.Equal(t, "kg/acre", updated.Recommendations[0].Quantity.Unit)

	replaced := updated.Recommendations[0]
	assert.Equal(t, "Urea", replaced.Fertilizer.Name)
	assert.Empty(t, replaced.Fertilizer.Type)
	assert.Empty(t, replaced.Fertilizer.NPKRatio)
	assert.Empty(t, replaced.Benefits)
	assert.Equal(t, 50.0, replaced.Quantity.Value)

	_, err = svc.Get(ctx, 3, rec.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestFertilizerMarkApplied(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := NewFertilizerService(f.ferts, f.authz).(*fertilizerServiceImpl)
	svc.clock = fixedClock

	rec, err := svc.Create(ctx, 1, &models.FertilizerRecommendation{
		CropName:      "Wheat",
		SoilType:      "loamy",
		SoilNutrients: soilTest(40, 20, 20),
	})
	require.NoError(t, err)
	require.Nil(t, rec.AppliedDate)

	_, err = svc.MarkApplied(ctx, 2, rec.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	msg, _ := apperrors.MessageOf(err)
	assert.Equal(t, "Not authorized to update this recommendation", msg)

	applied, err := svc.MarkApplied(ctx, 1, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "applied", applied.Status)
	require.NotNil(t, applied.AppliedDate)
	assert.Equal(t, fixedNow, *applied.AppliedDate)
	assert.Equal(t, rec.TotalEstimatedCost, applied.TotalEstimatedCost)

	stored, err := svc.Get(ctx, 1, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "applied", stored.Status)

	_, err = svc.MarkApplied(ctx, 1, 999)
	assert.ErrorIs(t, err, apperrors.ErrFertilizerRecommendationNotFound)
}

func TestFertilizerCalculate(t *testing.T) {
	svc := NewFertilizerService(newFakeFertilizerRepo(), nil)

	plan, err := svc.Calculate(&dto.CalculateFertilizerRequest{
		CropName:   "Rice",
		Nitrogen:   models.Float(40),
		Phosphorus: models.Float(60),
		Potassium:  models.Float(40),
	})
	require.NoError(t, err)
	assert.Equal(t, 80.0, plan.Deficiency.N)
	assert.Zero(t, plan.Deficiency.P)

	_, err = svc.Calculate(&dto.CalculateFertilizerRequest{CropName: "Rice"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func newTestCropRecService(f *fixture) *cropRecommendationServiceImpl {
	svc := NewCropRecommendationService(f.recs, f.authz).(*cropRecommendationServiceImpl)
	svc.clock = fixedClock
	return svc
}

func TestCropRecommendationCreateAndLazyExpiry(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := newTestCropRecService(f)

	rec, err := svc.Create(ctx, 1, &models.CropRecommendation{
		Season:              models.SeasonKharif,
		SoilType:            "loamy",
		AvailableArea:       models.Float(2),
		IrrigationAvailable: true,
		Status:              models.CropRecommendationAccepted,
		ExpiresAt:           fixedNow.AddDate(5, 0, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, models.CropRecommendationActive, rec.Status)
	assert.Equal(t, fixedNow.Add(models.CropRecommendationTTL), rec.ExpiresAt)
	require.NotEmpty(t, rec.Recommendations)
	for i := 1; i < len(rec.Recommendations); i++ {
		assert.GreaterOrEqual(t, rec.Recommendations[i-1].SuitabilityScore, rec.Recommendations[i].SuitabilityScore)
	}

	got, err := svc.Get(ctx, 1, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CropRecommendationActive, got.Status)

	svc.clock = func() time.Time { return rec.ExpiresAt.Add(time.Minute) }
	got, err = svc.Get(ctx, 1, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CropRecommendationExpired, got.Status)

	stored, err := f.recs.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CropRecommendationActive, stored.Status)
}

func TestCropRecommendationUpdateAndOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := newTestCropRecService(f)

	rec, err := svc.Create(ctx, 1, &models.CropRecommendation{
		Season:        models.SeasonRabi,
		SoilType:      "loamy",
		AvailableArea: models.Float(1),
	})
	require.NoError(t, err)

	status := models.CropRecommendationAccepted
	rating := 5
	updated, err := svc.Update(ctx, 1, rec.ID, &dto.UpdateCropRecommendationRequest{
		Status:       &status,
		UserFeedback: &models.UserFeedback{Rating: &rating, AcceptedCrops: []string{"Wheat"}},
	})
	require.NoError(t, err)
	assert.Equal(t, status, updated.Status)
	assert.Equal(t, []string{"Wheat"}, updated.UserFeedback.AcceptedCrops)

	bad := "archived"
	_, err = svc.Update(ctx, 1, rec.ID, &dto.UpdateCropRecommendationRequest{Status: &bad})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	err = svc.Delete(ctx, 2, rec.ID)
	require.Error(t, err)
	msg, _ := apperrors.MessageOf(err)
	assert.Equal(t, "Not authorized to delete this recommendation", msg)

	require.NoError(t, svc.Delete(ctx, 1, rec.ID))
	_, err = svc.Get(ctx, 1, rec.ID)
	assert.ErrorIs(t, err, apperrors.ErrCropRecommendationNotFound)
}

func TestCropAnalyzeDefaultsSeasonFromClock(t *testing.T) {
	svc := newTestCropRecService(newFixture())

	res, err := svc.Analyze(&dto.AnalyzeCropsRequest{SoilType: "loamy"})
	require.NoError(t, err)
	assert.Equal(t, "Kharif", res.Parameters.Season)
	assert.Equal(t, "Loamy", res.Parameters.SoilType)
	assert.Equal(t, len(res.Recommendations), res.TotalRecommendations)
}
