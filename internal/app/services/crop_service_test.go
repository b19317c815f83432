package services

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Kaustubh-Sir/cropsuit/internal/app/models/dto"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/apperrors"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/export"
)

func newTestCropService(f *fixture) *cropServiceImpl {
	svc := NewCropService(f.crops, f.authz).(*cropServiceImpl)
	svc.clock = fixedClock
	return svc
}

func TestCropCreateDerivesTotals(t *testing.T) {
	f := newFixture()
	svc := newTestCropService(f)

	crop := validCrop()
	crop.ID = 99
	crop.UserID = 42
	crop.CostTracking.Seeds = 500
	crop.CostTracking.Labor = 1000

	created, err := svc.Create(context.Background(), 1, &crop)
	require.NoError(t, err)
	assert.NotEqual(t, int64(99), created.ID)
	assert.Equal(t, int64(1), created.UserID)
	assert.Equal(t, "planned", created.Status)
	assert.Equal(t, 1500.0, created.CostTracking.Total)
}

func TestCropOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := newTestCropService(f)

	crop := validCrop()
	created, err := svc.Create(ctx, 1, &crop)
	require.NoError(t, err)

	tests := []struct {
		name string
		call func() error
		msg  string
	}{
		{"get", func() error { _, err := svc.Get(ctx, 2, created.ID); return err }, "Not authorized to access this crop"},
		{"update", func() error {
			_, err := svc.Update(ctx, 2, created.ID, json.RawMessage(`{"status":"growing"}`))
			return err
		}, "Not authorized to update this crop"},
		{"delete", func() error { return svc.Delete(ctx, 2, created.ID) }, "Not authorized to delete this crop"},
		{"note", func() error {
			_, err := svc.AddNote(ctx, 2, created.ID, &dto.NoteRequest{Content: "hi"})
			return err
		}, "Not authorized to add note to this crop"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
			msg, _ := apperrors.MessageOf(err)
			assert.Equal(t, tt.msg, msg)
		})
	}
}

func TestCropUpdateKeepsIdentityAndRecalculates(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := newTestCropService(f)

	crop := validCrop()
	created, err := svc.Create(ctx, 1, &crop)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, 1, created.ID, json.RawMessage(`{"id":500,"user":7,"status":"growing","costTracking":{"seeds":200,"other":50}}`))
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, int64(1), updated.UserID)
	assert.Equal(t, "growing", updated.Status)
	assert.Equal(t, 250.0, updated.CostTracking.Total)
}

func TestCropDeleteThenNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := newTestCropService(f)

	crop := validCrop()
	created, err := svc.Create(ctx, 1, &crop)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, 1, created.ID))

	_, err = svc.Get(ctx, 1, created.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrCropNotFound)
	msg, _ := apperrors.MessageOf(err)
	assert.Equal(t, "Crop not found", msg)
}

func TestCropNotesAndHealthIssues(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := newTestCropService(f)

	crop := validCrop()
	created, err := svc.Create(ctx, 1, &crop)
	require.NoError(t, err)

	withNote, err := svc.AddNote(ctx, 1, created.ID, &dto.NoteRequest{Content: "First irrigation done"})
	require.NoError(t, err)
	require.Len(t, withNote.Notes, 1)
	assert.Equal(t, fixedNow, withNote.Notes[0].Date)

	_, err = svc.AddNote(ctx, 1, created.ID, &dto.NoteRequest{})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	withIssue, err := svc.AddHealthIssue(ctx, 1, created.ID, &dto.HealthIssueRequest{Type: "pest", Severity: "high"})
	require.NoError(t, err)
	require.Len(t, withIssue.Health.Issues, 1)
	assert.Equal(t, fixedNow, withIssue.Health.Issues[0].IdentifiedDate)
	assert.Len(t, withIssue.Notes, 1)
}

func TestCropExportRegister(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := newTestCropService(f)

	for _, name := range []string{"Wheat", "Mustard"} {
		crop := validCrop()
		crop.Name = name
		_, err := svc.Create(ctx, 1, &crop)
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	require.NoError(t, svc.ExportRegister(ctx, 1, &buf))

	book, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows(export.SheetRegister)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
