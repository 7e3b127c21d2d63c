package utils

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// ProgressReportRow is one enrollment line in the course progress export.
type ProgressReportRow struct {
	StudentName  string
	StudentEmail string
	Status       string
	Progress     float64
	TimeSpent    int64 // seconds
	EnrolledAt   time.Time
	CompletedAt  *time.Time
}

// BuildProgressReport renders course enrollment progress into an xlsx workbook.
func BuildProgressReport(courseTitle string, rows []ProgressReportRow) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Progress"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Student", "Email", "Status", "Progress (%)", "Time Spent (min)", "Enrolled At", "Completed At"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		completed := ""
		if row.CompletedAt != nil {
			completed = row.CompletedAt.Format("2006-01-02 15:04")
		}
		values := []interface{}{
			row.StudentName,
			row.StudentEmail,
			row.Status,
			row.Progress,
			row.TimeSpent / 60,
			row.EnrolledAt.Format("2006-01-02 15:04"),
			completed,
		}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	title := fmt.Sprintf("Course: %s (generated %s)", courseTitle, time.Now().Format("2006-01-02"))
	if err := f.SetCellValue(sheet, "I1", title); err != nil {
		return nil, err
	}

	return f, nil
}
