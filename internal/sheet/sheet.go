// Package sheet reads and writes the member table and the reaction report.
// The file format follows the extension: .xlsx workbooks or .csv files.
package sheet

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.mcconachie.co/slack-reactions/internal/report"
)

// UserSheetTitle is the worksheet name of the member table workbook
const UserSheetTitle = "Slack Users"

// ReportSheetTitle is the worksheet name of the reaction report workbook
const ReportSheetTitle = "Sheet1"

// ErrUnsupportedFormat is returned for file extensions other than .xlsx and .csv
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

// ErrMissingColumn is returned when a required header is absent
var ErrMissingColumn = errors.New("missing column")

// FileRef describes a file written by this package
type FileRef struct {
	Path  string `json:"path"`
	Name  string `json:"name"`
	Bytes int64  `json:"bytes"`
	Rows  int    `json:"rows"`
}

type format int

const (
	formatXLSX format = iota
	formatCSV
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return formatXLSX, nil
	case ".csv":
		return formatCSV, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// WriteUserTable writes the ID→name table with a bold header row,
// overwriting any existing file.
func WriteUserTable(path string, records []report.UserRecord) (FileRef, error) {
	f, err := formatOf(path)
	if err != nil {
		return FileRef{}, err
	}

	switch f {
	case formatCSV:
		err = writeCSV(path, &records)
	default:
		err = writeUserTableXLSX(path, records)
	}
	if err != nil {
		return FileRef{}, err
	}
	return newFileRef(path, len(records))
}

// ReadUserMapping loads an ID→name mapping from a table with "User ID" and
// "Username" columns. A missing file is reported as an error wrapping
// fs.ErrNotExist.
func ReadUserMapping(path string) (report.UserMapping, error) {
	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("user mapping file: %w", err)
	}

	var records []report.UserRecord
	switch f {
	case formatCSV:
		records, err = readUserRecordsCSV(path)
	default:
		records, err = readUserRecordsXLSX(path)
	}
	if err != nil {
		return nil, err
	}
	return report.NewUserMapping(records), nil
}

// WriteReport writes the reaction report with a bold header row,
// overwriting any existing file.
func WriteReport(path string, rows []report.Row) (FileRef, error) {
	f, err := formatOf(path)
	if err != nil {
		return FileRef{}, err
	}

	switch f {
	case formatCSV:
		err = writeCSV(path, &rows)
	default:
		err = writeReportXLSX(path, rows)
	}
	if err != nil {
		return FileRef{}, err
	}
	return newFileRef(path, len(rows))
}

// ResolveUsersColumn re-opens a written report, replaces the IDs in its
// "Users" column using the mapping file at mappingPath, and saves it in place.
func ResolveUsersColumn(path, mappingPath string) error {
	f, err := formatOf(path)
	if err != nil {
		return err
	}

	mapping, err := ReadUserMapping(mappingPath)
	if err != nil {
		return err
	}

	switch f {
	case formatCSV:
		return resolveUsersColumnCSV(path, mapping)
	default:
		return resolveUsersColumnXLSX(path, mapping)
	}
}

func newFileRef(path string, rows int) (FileRef, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return FileRef{}, fmt.Errorf("failed to stat file: %w", err)
	}
	return FileRef{
		Path:  path,
		Name:  filepath.Base(path),
		Bytes: fi.Size(),
		Rows:  rows,
	}, nil
}

func columnIndex(header []string, name string) (int, error) {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w %q", ErrMissingColumn, name)
}
