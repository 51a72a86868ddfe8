// Package export renders lead snapshots as downloadable CSV and XLSX files.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"evokcrm/internal/models"
)

var leadHeaders = []string{
	"ID", "Business", "Contact", "Location", "District", "Status",
	"Meeting Date", "Reminder Date", "Reminder Note", "Log Entries", "Created At",
}

func leadRow(l *models.Lead) []string {
	return []string{
		l.ID,
		l.Business,
		l.Contact,
		l.Location,
		string(l.District),
		string(l.Status),
		formatDate(l.MeetingDate),
		formatDate(l.ReminderDate),
		l.ReminderNote,
		strconv.Itoa(len(l.Logs)),
		l.CreatedAt.Format(time.RFC3339),
	}
}

// LeadsCSV writes the lead list as CSV.
func LeadsCSV(w io.Writer, leads []*models.Lead) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(leadHeaders); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, l := range leads {
		if err := writer.Write(leadRow(l)); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// LeadsXLSX renders the lead list as an Excel workbook.
func LeadsXLSX(leads []*models.Lead) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Leads"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	for i, header := range leadHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for row, l := range leads {
		for col, val := range leadRow(l) {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(sheetName, cell, val)
		}
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.WriteToBuffer()
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
