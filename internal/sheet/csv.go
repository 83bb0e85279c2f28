package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"go.mcconachie.co/slack-reactions/internal/report"
)

// writeCSV marshals a pointer to a slice of tagged structs, header first
func writeCSV(path string, in any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(in, file); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// utf8BOM prefixes files saved as "CSV UTF-8" by Excel
var utf8BOM = []byte("\ufeff")

func readUserRecordsCSV(path string) ([]report.UserRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	// gocsv leaves unmatched fields empty, so check the header first
	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for _, name := range []string{report.HeaderUserID, report.HeaderUsername} {
		if _, err := columnIndex(header, name); err != nil {
			return nil, err
		}
	}

	var records []report.UserRecord
	if err := gocsv.UnmarshalBytes(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}

	out := records[:0]
	for _, r := range records {
		if r.ID != "" {
			out = append(out, r)
		}
	}
	return out, nil
}

func resolveUsersColumnCSV(path string, mapping report.UserMapping) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	var rows []report.Row
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return fmt.Errorf("failed to parse csv: %w", err)
	}

	for i := range rows {
		if rows[i].Users != "" {
			rows[i].Users = mapping.ResolveList(rows[i].Users)
		}
	}

	out, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return fmt.Errorf("failed to encode csv: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
