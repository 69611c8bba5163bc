// Package report persists completed runs and prints the console summary.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"urlcheck/internal/domain"
)

// Column names of the result CSV. The retest pass keys on URL and rewrites
// Status, HTTP Code and Error Message in place.
const (
	ColURL       = "URL"
	ColStatus    = "Status"
	ColHTTPCode  = "HTTP Code"
	ColErrorMsg  = "Error Message"
	ColErrorType = "Error Type"
)

// WriteCSV writes one row per record in completion order. The Error Type
// column is profile-dependent (the kayako-style list omits it).
func WriteCSV(path string, results []domain.Result, includeErrorType bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{ColURL, ColStatus, ColHTTPCode, ColErrorMsg}
	if includeErrorType {
		header = append(header, ColErrorType)
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{r.URL, string(r.Status), r.HTTPCode, r.ErrorMessage}
		if includeErrorType {
			row = append(row, r.ErrorType)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Table is a loaded result CSV, held row-for-row so a merge preserves the
// original order, header and untouched rows.
type Table struct {
	Header []string
	Rows   [][]string

	urlIdx    int
	statusIdx int
	codeIdx   int
	msgIdx    int
}

// LoadTable reads a previously written result CSV.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read report header: %w", err)
	}

	t := &Table{Header: header, urlIdx: -1, statusIdx: -1, codeIdx: -1, msgIdx: -1}
	for i, name := range header {
		switch name {
		case ColURL:
			t.urlIdx = i
		case ColStatus:
			t.statusIdx = i
		case ColHTTPCode:
			t.codeIdx = i
		case ColErrorMsg:
			t.msgIdx = i
		}
	}
	if t.urlIdx < 0 || t.statusIdx < 0 || t.codeIdx < 0 || t.msgIdx < 0 {
		return nil, fmt.Errorf("report %s is missing required columns", path)
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read report row: %w", err)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// TimedOutURLs returns the URL column of every row whose HTTP Code is the
// Timeout sentinel, in file order.
func (t *Table) TimedOutURLs() []string {
	var urls []string
	for _, row := range t.Rows {
		if len(row) > t.codeIdx && row[t.codeIdx] == domain.CodeTimeout {
			urls = append(urls, row[t.urlIdx])
		}
	}
	return urls
}

// ApplyRetest overwrites Status, HTTP Code and Error Message on every row
// whose URL was retested and reports how many rows changed. All other rows
// are left untouched.
func (t *Table) ApplyRetest(updated map[string]domain.Result) int {
	n := 0
	for _, row := range t.Rows {
		if len(row) <= t.msgIdx {
			continue
		}
		rec, ok := updated[row[t.urlIdx]]
		if !ok {
			continue
		}
		row[t.statusIdx] = string(rec.Status)
		row[t.codeIdx] = rec.HTTPCode
		row[t.msgIdx] = rec.ErrorMessage
		n++
	}
	return n
}

// Write persists the table, header first, preserving row order.
func (t *Table) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		return err
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// PrintSummary writes the human-readable end-of-run block. The format is a
// logging sink, not a compatibility contract.
func PrintSummary(w io.Writer, s domain.Summary) {
	fmt.Fprintln(w, "----------------------------------------------------------------------")
	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "  Total URLs checked: %d\n", s.Total)
	fmt.Fprintf(w, "  Working: %d\n", s.Working)
	fmt.Fprintf(w, "  Error Page (Oops message): %d\n", s.ErrorPage)
	fmt.Fprintf(w, "  DNS Errors: %d\n", s.DNSErrors)
	fmt.Fprintf(w, "  Timeout: %d\n", s.Timeouts)
	fmt.Fprintf(w, "  Connection Errors: %d\n", s.ConnectionError)
	fmt.Fprintf(w, "  HTTP Errors: %d\n", s.HTTPErrors)
	fmt.Fprintf(w, "  Skipped: %d\n", s.Skipped)
	fmt.Fprintf(w, "  Other: %d\n", s.Other)
	fmt.Fprintf(w, "  Time taken: %.2f seconds\n", s.Elapsed.Seconds())
	if s.Elapsed > 0 {
		fmt.Fprintf(w, "  Average rate: %.2f URLs/second\n", s.Rate())
	}
	fmt.Fprintln(w, "----------------------------------------------------------------------")
}
