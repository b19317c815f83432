package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Kaustubh-Sir/cropsuit/internal/app/models"
)

func TestWritePlan(t *testing.T) {
	target := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	plan := &models.SeasonalPlan{
		Year:      2025,
		Season:    "kharif",
		PlanName:  "Kharif 2025",
		StartDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC),
		TotalArea: models.Float(10),
		Crops: []models.PlannedCrop{
			{CropName: "Rice", AllocatedArea: 6, EstimatedCost: 60000, ExpectedRevenue: 150000, Priority: "high", Status: "planned"},
			{CropName: "Maize", AllocatedArea: 4, EstimatedCost: 40000, ExpectedRevenue: 90000, Priority: "medium", Status: "planned"},
		},
		Milestones: []models.Milestone{
			{ID: "m1", Title: "Sowing", TargetDate: &target, Completed: true},
		},
	}
	plan.Recalculate()

	var buf bytes.Buffer
	require.NoError(t, WritePlan(&buf, plan))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetOverview, SheetCrops, SheetMilestones}, f.GetSheetList())

	name, err := f.GetCellValue(SheetOverview, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Kharif 2025", name)

	profit, err := f.GetCellValue(SheetOverview, "B13")
	require.NoError(t, err)
	assert.Equal(t, "140000", profit)

	rows, err := f.GetRows(SheetCrops)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Crop", rows[0][0])
	assert.Equal(t, "Maize", rows[2][0])

	ms, err := f.GetRows(SheetMilestones)
	require.NoError(t, err)
	require.Len(t, ms, 2)
	assert.Equal(t, "Sowing", ms[1][0])
	assert.Equal(t, "2025-07-15", ms[1][2])
	assert.Equal(t, "Yes", ms[1][3])
}

func TestWriteCropRegister(t *testing.T) {
	crops := []models.Crop{
		{ID: 7, Name: "Wheat", Category: "cereals", Season: "rabi", Status: "growing", Area: models.Float(2.5),
			PlantingDate: time.Date(2024, 11, 10, 0, 0, 0, 0, time.UTC), Health: models.CropHealth{Status: "good"}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCropRegister(&buf, crops))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetRegister)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Wheat", rows[1][1])
	assert.Equal(t, "2.5", rows[1][6])
	assert.Equal(t, "2024-11-10", rows[1][7])
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "plan-kharif-2025-3.xlsx", Filename("plan", "kharif", 2025, 3))
	assert.Equal(t, "crops.xlsx", Filename("crops"))
}
