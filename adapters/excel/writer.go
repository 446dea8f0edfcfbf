package excel

import (
	"fmt"
	"io"
	"time"

	"worklog/models"

	"github.com/xuri/excelize/v2"
)

var (
	logHeaders    = []string{ColTimestamp, ColTitle, ColContent, ColCategory, ColDuration}
	reportHeaders = []string{"Title", "Start Date", "End Date", "Generated At", "Content"}
)

// WriteWorkbook writes logs and reports as a two-sheet workbook
func WriteWorkbook(w io.Writer, logs []models.LogEntry, reports []models.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	// Rename the default sheet instead of leaving an empty Sheet1 behind
	if err := f.SetSheetName(f.GetSheetName(0), LogsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(ReportsSheet); err != nil {
		return err
	}

	logRows := make([][]interface{}, 0, len(logs))
	for _, l := range logs {
		var duration interface{}
		if l.Duration != nil {
			duration = *l.Duration
		}
		logRows = append(logRows, []interface{}{
			l.Timestamp.UTC().Format(time.RFC3339), l.Title, l.Content, string(l.Category), duration,
		})
	}
	if err := writeSheet(f, LogsSheet, logHeaders, logRows); err != nil {
		return fmt.Errorf("write logs sheet: %w", err)
	}

	reportRows := make([][]interface{}, 0, len(reports))
	for _, r := range reports {
		reportRows = append(reportRows, []interface{}{
			r.Title,
			r.StartDate.UTC().Format("2006-01-02"),
			r.EndDate.UTC().Format("2006-01-02"),
			r.GeneratedAt.UTC().Format(time.RFC3339),
			r.Content,
		})
	}
	if err := writeSheet(f, ReportsSheet, reportHeaders, reportRows); err != nil {
		return fmt.Errorf("write reports sheet: %w", err)
	}

	f.SetActiveSheet(0)
	_, err := f.WriteTo(w)
	return err
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]interface{}) error {
	// Header row
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	// Data rows
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
