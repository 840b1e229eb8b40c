package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"wedhub/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Bookings"

var columns = []string{"ID", "Service", "Category", "Customer", "Status", "Created", "Confirmed", "Completed"}

// Exporter writes booking lists to Excel files for download.
type Exporter struct {
	path string
}

func NewExporter(path string) *Exporter {
	return &Exporter{path: path}
}

// BookingsToExcel writes the list plus a stats summary and returns the file
// path. The list is written as-is; callers filter/sort beforehand.
func (e *Exporter) BookingsToExcel(scope models.Scope, bookings []models.Booking) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	stats := models.ComputeStats(bookings)
	title := fmt.Sprintf("Bookings for %s %s: total %d (pending %d, confirmed %d, completed %d, cancelled %d)",
		scope.Role, scope.ID, stats.Total, stats.Pending, stats.Confirmed, stats.Completed, stats.Cancelled)
	_ = f.SetCellValue(sheetName, "A1", title)

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, col)
	}

	for row, b := range bookings {
		values := []any{
			b.ID,
			b.ServiceName,
			b.ServiceCategory,
			b.CustomerName,
			string(b.Status),
			b.CreatedAt.Format("2006-01-02 15:04"),
			formatOptionalTime(b.ConfirmedAt),
			formatOptionalTime(b.CompletedAt),
		}
		for col, val := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+3)
			_ = f.SetCellValue(sheetName, cell, val)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 28)
	_ = f.SetColWidth(sheetName, "B", "D", 24)
	_ = f.SetColWidth(sheetName, "E", "H", 18)

	lastCol, _ := excelize.CoordinatesToCellName(len(columns), 1)
	_ = f.MergeCell(sheetName, "A1", lastCol)

	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", style)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_%s_%s_%s.xlsx", scope.Role, scope.ID, time.Now().Format("2006-01-02"))
	filePath := filepath.Join(e.path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("save export file: %w", err)
	}

	return filePath, nil
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
