package service

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/gizikita/backend/internal/models"
)

const historySheet = "Nutrition History"

var historyHeader = []any{
	"Date", "Food Items", "Calories", "Protein", "Fat", "Carbs", "Sodium", "Fiber",
	"Kategori Sekolah", "Status Nutrisi",
}

var historyColumnWidths = map[string]float64{
	"A": 18, "B": 25, "C": 12, "D": 12, "E": 12, "F": 12, "G": 12, "H": 12, "I": 18, "J": 30,
}

// SpreadsheetExporter writes scans to an xlsx workbook.
type SpreadsheetExporter struct {
	loc *time.Location
}

// NewSpreadsheetExporter formats dates in loc.
func NewSpreadsheetExporter(loc *time.Location) *SpreadsheetExporter {
	if loc == nil {
		loc = time.UTC
	}
	return &SpreadsheetExporter{loc: loc}
}

// ExportFilename returns the download name for an export made at t (UTC date).
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("nutrition-history-%s.xlsx", t.UTC().Format(dateLayout))
}

// Export renders one row per scan. Empty input returns ErrNothingToExport
// and produces no file.
func (e *SpreadsheetExporter) Export(scans []models.NutritionScan) ([]byte, error) {
	if len(scans) == 0 {
		return nil, ErrNothingToExport
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", historySheet); err != nil {
		return nil, ExportFailure(MsgExportFailed, err)
	}

	if err := f.SetSheetRow(historySheet, "A1", &historyHeader); err != nil {
		return nil, ExportFailure(MsgExportFailed, err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, ExportFailure(MsgExportFailed, err)
	}
	if err := f.SetCellStyle(historySheet, "A1", "J1", bold); err != nil {
		return nil, ExportFailure(MsgExportFailed, err)
	}
	for col, width := range historyColumnWidths {
		if err := f.SetColWidth(historySheet, col, col, width); err != nil {
			return nil, ExportFailure(MsgExportFailed, err)
		}
	}

	for i := range scans {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, ExportFailure(MsgExportFailed, err)
		}
		row := e.row(&scans[i])
		if err := f.SetSheetRow(historySheet, cell, &row); err != nil {
			return nil, ExportFailure(MsgExportFailed, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, ExportFailure(MsgExportFailed, err)
	}
	return buf.Bytes(), nil
}

func (e *SpreadsheetExporter) row(scan *models.NutritionScan) []any {
	facts := scan.Facts()
	s := facts.Summary
	return []any{
		scan.ScanDate.In(e.loc).Format("02/01/2006 15:04"),
		MenuNames(scan.Items()),
		round1(s.CaloriesKcal),
		round1(s.ProteinG),
		round1(s.FatG),
		round1(s.CarbsG),
		round1(s.SodiumMg),
		round1(s.FiberG),
		scan.SchoolCategory.Label(),
		evaluationText(facts.Evaluation),
	}
}

func evaluationText(ev *models.SummaryEvaluation) string {
	if ev == nil {
		return "No evaluation found"
	}
	return fmt.Sprintf("%s - %s", ev.Status.Label(), ev.Reason)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
