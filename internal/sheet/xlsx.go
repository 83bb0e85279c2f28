package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.mcconachie.co/slack-reactions/internal/report"
)

const defaultSheet = "Sheet1"

// newWorkbook creates a workbook whose only sheet is titled title and whose
// first row holds the bold headers.
func newWorkbook(title string, headers []string) (*excelize.File, error) {
	f := excelize.NewFile()

	if title != defaultSheet {
		if err := f.SetSheetName(defaultSheet, title); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to name sheet: %w", err)
		}
	}

	row := make([]any, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	if err := f.SetSheetRow(title, "A1", &row); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetCellStyle(title, "A1", last, bold); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	return f, nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}

func writeUserTableXLSX(path string, records []report.UserRecord) error {
	f, err := newWorkbook(UserSheetTitle, []string{report.HeaderUserID, report.HeaderUsername})
	if err != nil {
		return err
	}
	defer f.Close()

	for i, r := range records {
		if err := setRow(f, UserSheetTitle, i+2, []any{r.ID, r.Name}); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeReportXLSX(path string, rows []report.Row) error {
	f, err := newWorkbook(ReportSheetTitle, report.ReportHeaders)
	if err != nil {
		return err
	}
	defer f.Close()

	for i, r := range rows {
		if err := setRow(f, ReportSheetTitle, i+2, r.Cells()); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// firstSheetRows returns every row of the workbook's first sheet
func firstSheetRows(f *excelize.File) (string, [][]string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return sheets[0], rows, nil
}

func readUserRecordsXLSX(path string) ([]report.UserRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	_, rows, err := firstSheetRows(f)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w %q", ErrMissingColumn, report.HeaderUserID)
	}

	idCol, err := columnIndex(rows[0], report.HeaderUserID)
	if err != nil {
		return nil, err
	}
	nameCol, err := columnIndex(rows[0], report.HeaderUsername)
	if err != nil {
		return nil, err
	}

	records := make([]report.UserRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		// GetRows drops trailing empty cells
		if idCol >= len(row) || row[idCol] == "" {
			continue
		}
		var name string
		if nameCol < len(row) {
			name = row[nameCol]
		}
		records = append(records, report.UserRecord{ID: row[idCol], Name: name})
	}
	return records, nil
}

func resolveUsersColumnXLSX(path string, mapping report.UserMapping) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet, rows, err := firstSheetRows(f)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w %q", ErrMissingColumn, report.HeaderUsers)
	}

	col, err := columnIndex(rows[0], report.HeaderUsers)
	if err != nil {
		return err
	}

	for i, row := range rows[1:] {
		if col >= len(row) || row[col] == "" {
			continue
		}
		resolved := mapping.ResolveList(row[col])
		if resolved == row[col] {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col+1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, resolved); err != nil {
			return fmt.Errorf("failed to update %s: %w", cell, err)
		}
	}

	if err := f.Save(); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
