package sheet

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
	"go.mcconachie.co/slack-reactions/internal/report"
)

var testRecords = []report.UserRecord{
	{ID: "U1", Name: "alice"},
	{ID: "U2", Name: "bob"},
	{ID: "U3", Name: "carol"},
}

var testRows = []report.Row{
	{
		User:          "alice",
		URL:           "https://files.slack.com/a.png",
		ReactionNames: "✅,eyes",
		Users:         "U2,U3,U9",
		TotalCount:    3,
		ThreadLink:    "https://x.slack.com/archives/C1/p1",
		MessageLink:   "https://x.slack.com/archives/C1/p2",
	},
	{
		User:        "U9",
		URL:         "https://files.slack.com/b.png",
		ThreadLink:  "https://x.slack.com/archives/C1/p1",
		MessageLink: "https://x.slack.com/archives/C1/p3",
	},
}

func TestUserTable_RoundTrip(t *testing.T) {
	for _, ext := range []string{".xlsx", ".csv"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "slack_users"+ext)

			ref, err := WriteUserTable(path, testRecords)
			if err != nil {
				t.Fatalf("WriteUserTable failed: %v", err)
			}
			if ref.Rows != len(testRecords) {
				t.Errorf("Rows: got %d, want %d", ref.Rows, len(testRecords))
			}
			if ref.Bytes == 0 {
				t.Error("Bytes: expected non-zero")
			}
			if ref.Name != "slack_users"+ext {
				t.Errorf("Name: got %q", ref.Name)
			}

			mapping, err := ReadUserMapping(path)
			if err != nil {
				t.Fatalf("ReadUserMapping failed: %v", err)
			}
			if len(mapping) != len(testRecords) {
				t.Errorf("mapping size: got %d, want %d", len(mapping), len(testRecords))
			}
			for _, r := range testRecords {
				if mapping[r.ID] != r.Name {
					t.Errorf("mapping[%q]: got %q, want %q", r.ID, mapping[r.ID], r.Name)
				}
			}
		})
	}
}

func TestWriteUserTable_XLSXLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.xlsx")
	if _, err := WriteUserTable(path, testRecords); err != nil {
		t.Fatalf("WriteUserTable failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != UserSheetTitle {
		t.Fatalf("sheets: got %v, want [%s]", sheets, UserSheetTitle)
	}

	rows, err := f.GetRows(UserSheetTitle)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if got := strings.Join(rows[0], "|"); got != "User ID|Username" {
		t.Errorf("header: got %q", got)
	}
	if got := strings.Join(rows[2], "|"); got != "U2|bob" {
		t.Errorf("row 3: got %q", got)
	}

	for _, cell := range []string{"A1", "B1"} {
		styleID, err := f.GetCellStyle(UserSheetTitle, cell)
		if err != nil {
			t.Fatalf("GetCellStyle failed: %v", err)
		}
		style, err := f.GetStyle(styleID)
		if err != nil {
			t.Fatalf("GetStyle failed: %v", err)
		}
		if style.Font == nil || !style.Font.Bold {
			t.Errorf("%s: expected bold header", cell)
		}
	}
}

func TestReadUserMapping_MissingFile(t *testing.T) {
	_, err := ReadUserMapping(filepath.Join(t.TempDir(), "nope.xlsx"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error: got %v, want fs.ErrNotExist", err)
	}
}

func TestReadUserMapping_MissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.csv")
	if err := os.WriteFile(path, []byte("id,name\nU1,alice\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := ReadUserMapping(path)
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("error: got %v, want ErrMissingColumn", err)
	}
}

func TestReadUserMapping_CSVWithByteOrderMark(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.csv")
	if err := os.WriteFile(path, []byte("\ufeffUser ID,Username\nU1,alice\nU2,bob\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	mapping, err := ReadUserMapping(path)
	if err != nil {
		t.Fatalf("ReadUserMapping failed: %v", err)
	}
	if mapping["U1"] != "alice" || mapping["U2"] != "bob" {
		t.Errorf("mapping: got %v", mapping)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()

	if _, err := WriteUserTable(filepath.Join(dir, "users.xls"), testRecords); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("WriteUserTable: got %v, want ErrUnsupportedFormat", err)
	}
	if _, err := WriteReport(filepath.Join(dir, "report.json"), testRows); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("WriteReport: got %v, want ErrUnsupportedFormat", err)
	}
	if _, err := ReadUserMapping(filepath.Join(dir, "users")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("ReadUserMapping: got %v, want ErrUnsupportedFormat", err)
	}
}

func TestWriteReport_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	ref, err := WriteReport(path, testRows)
	if err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}
	if ref.Rows != 2 {
		t.Errorf("Rows: got %d, want 2", ref.Rows)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(ReportSheetTitle)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if got := strings.Join(rows[0], "|"); got != strings.Join(report.ReportHeaders, "|") {
		t.Errorf("header: got %q", got)
	}
	if rows[1][4] != "3" {
		t.Errorf("Total Reaction Count: got %q, want %q", rows[1][4], "3")
	}
	if rows[1][3] != "U2,U3,U9" {
		t.Errorf("Users: got %q", rows[1][3])
	}
}

func TestResolveUsersColumn(t *testing.T) {
	for _, ext := range []string{".xlsx", ".csv"} {
		t.Run(ext, func(t *testing.T) {
			dir := t.TempDir()
			usersPath := filepath.Join(dir, "slack_users"+ext)
			reportPath := filepath.Join(dir, "report"+ext)

			if _, err := WriteUserTable(usersPath, testRecords); err != nil {
				t.Fatalf("WriteUserTable failed: %v", err)
			}
			if _, err := WriteReport(reportPath, testRows); err != nil {
				t.Fatalf("WriteReport failed: %v", err)
			}

			if err := ResolveUsersColumn(reportPath, usersPath); err != nil {
				t.Fatalf("ResolveUsersColumn failed: %v", err)
			}

			users, others := readReportColumns(t, reportPath)
			if users[0] != "bob,carol,U9" {
				t.Errorf("Users row 1: got %q, want %q", users[0], "bob,carol,U9")
			}
			if users[1] != "" {
				t.Errorf("Users row 2: got %q, want empty", users[1])
			}
			// only the Users column is touched
			if others[1] != "U9" {
				t.Errorf("User row 2: got %q, want %q", others[1], "U9")
			}

			// a second pass is a no-op on resolved names
			if err := ResolveUsersColumn(reportPath, usersPath); err != nil {
				t.Fatalf("second ResolveUsersColumn failed: %v", err)
			}
			again, _ := readReportColumns(t, reportPath)
			if again[0] != users[0] {
				t.Errorf("second pass: got %q, want %q", again[0], users[0])
			}
		})
	}
}

func TestResolveUsersColumn_MissingMapping(t *testing.T) {
	dir := t.TempDir()
	reportPath := filepath.Join(dir, "report.xlsx")
	if _, err := WriteReport(reportPath, testRows); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}

	err := ResolveUsersColumn(reportPath, filepath.Join(dir, "missing.xlsx"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error: got %v, want fs.ErrNotExist", err)
	}
}

// readReportColumns returns the Users and User columns of a report file
func readReportColumns(t *testing.T, path string) (users, authors []string) {
	t.Helper()

	if filepath.Ext(path) == ".csv" {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}
		var rows []report.Row
		if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
			t.Fatalf("UnmarshalBytes failed: %v", err)
		}
		for _, r := range rows {
			users = append(users, r.Users)
			authors = append(authors, r.User)
		}
		return users, authors
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(ReportSheetTitle)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	for _, row := range rows[1:] {
		cell := func(i int) string {
			if i < len(row) {
				return row[i]
			}
			return ""
		}
		authors = append(authors, cell(0))
		users = append(users, cell(3))
	}
	return users, authors
}
