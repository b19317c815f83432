// Package export renders plans and crop registers as XLSX workbooks.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Kaustubh-Sir/cropsuit/internal/app/models"
)

// ContentType is the MIME type of the generated workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet names
const (
	SheetOverview   = "Overview"
	SheetCrops      = "Crops"
	SheetMilestones = "Milestones"
	SheetRegister   = "Crop Register"
)

const dateLayout = "2006-01-02"

var (
	planCropHeader  = []interface{}{"Crop", "Allocated Area", "Expected Yield", "Estimated Cost", "Expected Revenue", "Priority", "Status"}
	milestoneHeader = []interface{}{"Title", "Description", "Target Date", "Completed", "Completed Date"}
	registerHeader  = []interface{}{
		"ID", "Name", "Variety", "Category", "Season", "Status", "Area",
		"Planting Date", "Expected Harvest", "Health", "Total Cost", "Revenue", "Profit",
	}
)

// workbook wraps an excelize file with a bold header style
type workbook struct {
	f      *excelize.File
	header int
}

func newWorkbook(firstSheet string) (*workbook, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", firstSheet); err != nil {
		f.Close()
		return nil, err
	}
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBD3"}},
	})
	if err != nil {
		f.Close()
		return nil, err
	}
	return &workbook{f: f, header: style}, nil
}

func (w *workbook) addSheet(name string) error {
	_, err := w.f.NewSheet(name)
	return err
}

// writeTable writes a header row followed by rows starting at A1
func (w *workbook) writeTable(sheet string, header []interface{}, rows [][]interface{}) error {
	if err := w.f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := w.f.SetCellStyle(sheet, "A1", last, w.header); err != nil {
		return err
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := w.f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	return w.f.SetColWidth(sheet, "A", lastCol, 18)
}

func (w *workbook) writeTo(out io.Writer) error {
	defer w.f.Close()
	_, err := w.f.WriteTo(out)
	return err
}

// WritePlan writes an overview, crops and milestones sheet for a seasonal plan
func WritePlan(out io.Writer, plan *models.SeasonalPlan) error {
	w, err := newWorkbook(SheetOverview)
	if err != nil {
		return fmt.Errorf("error creating workbook: %w", err)
	}

	fin := plan.Financials
	overview := [][]interface{}{
		{"Plan", plan.PlanName},
		{"Year", plan.Year},
		{"Season", plan.Season},
		{"Status", plan.Status},
		{"Start Date", plan.StartDate.Format(dateLayout)},
		{"End Date", plan.EndDate.Format(dateLayout)},
		{"Total Area", models.Value(plan.TotalArea)},
		{"Progress (%)", plan.Progress},
		{"Total Budget", optional(fin.TotalBudget)},
		{"Estimated Cost", optional(fin.TotalEstimatedCost)},
		{"Expected Revenue", optional(fin.TotalExpectedRevenue)},
		{"Expected Profit", optional(fin.TotalExpectedProfit)},
		{"Actual Cost", optional(fin.ActualCost)},
		{"Actual Revenue", optional(fin.ActualRevenue)},
		{"Actual Profit", optional(fin.ActualProfit)},
	}
	if err := w.writeTable(SheetOverview, []interface{}{"Field", "Value"}, overview); err != nil {
		return fmt.Errorf("error writing overview: %w", err)
	}

	crops := make([][]interface{}, 0, len(plan.Crops))
	for _, c := range plan.Crops {
		crops = append(crops, []interface{}{
			c.CropName, c.AllocatedArea, c.ExpectedYield, c.EstimatedCost, c.ExpectedRevenue, c.Priority, c.Status,
		})
	}
	if err := w.addSheet(SheetCrops); err != nil {
		return err
	}
	if err := w.writeTable(SheetCrops, planCropHeader, crops); err != nil {
		return fmt.Errorf("error writing crops: %w", err)
	}

	milestones := make([][]interface{}, 0, len(plan.Milestones))
	for _, m := range plan.Milestones {
		milestones = append(milestones, []interface{}{
			m.Title, m.Description, date(m.TargetDate), yesNo(m.Completed), date(m.CompletedDate),
		})
	}
	if err := w.addSheet(SheetMilestones); err != nil {
		return err
	}
	if err := w.writeTable(SheetMilestones, milestoneHeader, milestones); err != nil {
		return fmt.Errorf("error writing milestones: %w", err)
	}

	return w.writeTo(out)
}

// WriteCropRegister writes one row per crop
func WriteCropRegister(out io.Writer, crops []models.Crop) error {
	w, err := newWorkbook(SheetRegister)
	if err != nil {
		return fmt.Errorf("error creating workbook: %w", err)
	}

	rows := make([][]interface{}, 0, len(crops))
	for _, c := range crops {
		rows = append(rows, []interface{}{
			c.ID, c.Name, c.Variety, c.Category, c.Season, c.Status, models.Value(c.Area),
			c.PlantingDate.Format(dateLayout), c.ExpectedHarvestDate.Format(dateLayout), c.Health.Status,
			c.CostTracking.Total, optional(c.Revenue.TotalRevenue), optional(c.Revenue.Profit),
		})
	}
	if err := w.writeTable(SheetRegister, registerHeader, rows); err != nil {
		return fmt.Errorf("error writing crop register: %w", err)
	}

	return w.writeTo(out)
}

// Filename builds a download name such as "plan-kharif-2025-3.xlsx"
func Filename(prefix string, parts ...interface{}) string {
	name := prefix
	for _, p := range parts {
		name += fmt.Sprintf("-%v", p)
	}
	return name + ".xlsx"
}

func optional(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func date(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
