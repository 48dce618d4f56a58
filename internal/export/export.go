package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"EconDashboard/internal/model"
)

// IndexHeader names the date column of exported tables.
const IndexHeader = "TIME_PERIOD"

// Formats supported by Write.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ErrEmptyTable is returned when there is nothing to export.
var ErrEmptyTable = errors.New("empty table")

// Filename returns the download name for a stress series, e.g.
// Germany_ciss_ecb_2024-01-02.csv.
func Filename(country, ext string, now time.Time) string {
	return country + "_ciss_ecb_" + now.Format("2006-01-02") + "." + ext
}

// ContentType returns the MIME type of an export format.
func ContentType(format string) string {
	if format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Write encodes t in the given format.
func Write(w io.Writer, t *model.Table, format string) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, t)
	case FormatXLSX:
		return WriteXLSX(w, t)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteCSV writes t as UTF-8 CSV with one row per date. Values use the
// shortest representation that parses back to the same float; missing
// cells are left empty.
func WriteCSV(w io.Writer, t *model.Table) error {
	if t.Empty() {
		return ErrEmptyTable
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{IndexHeader}, t.Columns...)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(t.Columns)+1)
	for r, d := range t.Index {
		row[0] = d.Format("2006-01-02")
		for c := range t.Columns {
			row[c+1] = formatValue(t.Values[c][r])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", r+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// sheetName trims a column name to the 31 characters a sheet name allows.
func sheetName(t *model.Table) string {
	name := "Data"
	if len(t.Columns) == 1 {
		name = t.Columns[0]
	}
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}
	return name
}

// WriteXLSX writes t as a single-sheet workbook named after its column.
func WriteXLSX(w io.Writer, t *model.Table) error {
	if t.Empty() {
		return ErrEmptyTable
	}
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(t)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	headers := append([]string{IndexHeader}, t.Columns...)
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 14); err != nil {
		return fmt.Errorf("set width: %w", err)
	}

	dateFmt := "yyyy-mm-dd"
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return fmt.Errorf("date style: %w", err)
	}
	for r, d := range t.Index {
		row := r + 2
		cell := fmt.Sprintf("A%d", row)
		if err := f.SetCellValue(sheet, cell, d); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, dateStyle); err != nil {
			return fmt.Errorf("style row %d: %w", row, err)
		}
		for c := range t.Columns {
			v := t.Values[c][r]
			if math.IsNaN(v) {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+2, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", row, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
