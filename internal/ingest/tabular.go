package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rsambing/smart-tour/internal/model"
)

var dateLayouts = []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339, "02/01/2006"}

// LoadVisitorsFile reads a visitor dataset from a .csv or .xlsx file.
func LoadVisitorsFile(path string) ([]model.VisitorRecord, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	return parseVisitors(t)
}

// LoadSitesFile reads an eco-site dataset from a .csv or .xlsx file.
func LoadSitesFile(path string) ([]model.EcoSiteRecord, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	return parseSites(t)
}

// ReadVisitorsCSV parses a visitor CSV stream.
func ReadVisitorsCSV(r io.Reader) ([]model.VisitorRecord, error) {
	t, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	return parseVisitors(t)
}

// ReadSitesCSV parses an eco-site CSV stream.
func ReadSitesCSV(r io.Reader) ([]model.EcoSiteRecord, error) {
	t, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	return parseSites(t)
}

// table is a header row plus data rows. lines[i] is the source line of
// rows[i]; without lines, rows are numbered from 1.
type table struct {
	rows  [][]string
	lines []int
}

func (t table) line(i int) int {
	return rowNumber(t.lines, i)
}

func readTable(path string) (table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err := readXLSX(path)
		return table{rows: rows}, err
	case ".csv", "":
		f, err := os.Open(path)
		if err != nil {
			return table{}, fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		return readCSV(f)
	default:
		return table{}, fmt.Errorf("unsupported file type %q (use .csv or .xlsx)", filepath.Ext(path))
	}
}

// readCSV keeps the line each record starts on, since encoding/csv skips
// empty lines and records may span several lines.
func readCSV(r io.Reader) (table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	var t table
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			return t, nil
		}
		if err != nil {
			return table{}, fmt.Errorf("reading CSV: %w", err)
		}
		line, _ := reader.FieldPos(0)
		t.rows = append(t.rows, rec)
		t.lines = append(t.lines, line)
	}
}

// headerIndex maps normalized header names to their column position.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		key = strings.ReplaceAll(key, " ", "_")
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	return idx
}

// rowReader pulls typed cells out of one row, collecting parse problems.
type rowReader struct {
	idx      map[string]int
	row      []string
	line     int
	problems []string
}

func (rr *rowReader) str(col string) string {
	i := rr.idx[col]
	if i >= len(rr.row) {
		return ""
	}
	return strings.TrimSpace(rr.row[i])
}

func (rr *rowReader) fail(col, val string, err error) {
	rr.problems = append(rr.problems, fmt.Sprintf("row %d: column %s: cannot parse %q: %v", rr.line, col, val, err))
}

func (rr *rowReader) int64(col string) int64 {
	v := rr.str(col)
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		// Spreadsheets often export integers as "1200.0".
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil || f != float64(int64(f)) {
			rr.fail(col, v, err)
			return 0
		}
		n = int64(f)
	}
	return n
}

func (rr *rowReader) float(col string) float64 {
	v := rr.str(col)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		rr.fail(col, v, err)
		return 0
	}
	return f
}

func (rr *rowReader) date(col string) time.Time {
	v := rr.str(col)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	rr.problems = append(rr.problems, fmt.Sprintf("row %d: column %s: cannot parse date %q", rr.line, col, v))
	return time.Time{}
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ParseVisitorRows converts a header row plus data rows into visitor
// records, then validates column presence and value ranges.
func ParseVisitorRows(rows [][]string) ([]model.VisitorRecord, error) {
	return parseVisitors(table{rows: rows})
}

func parseVisitors(t table) ([]model.VisitorRecord, error) {
	rows := t.rows
	if len(rows) == 0 {
		return nil, &ValidationError{Dataset: "visitor", Problems: []string{"no header row"}}
	}
	idx := headerIndex(rows[0])
	if missing := missingColumns(idx, VisitorColumns); len(missing) > 0 {
		return nil, &ValidationError{Dataset: "visitor", Problems: missing}
	}

	var records []model.VisitorRecord
	var lines []int
	var problems []string
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		rr := &rowReader{idx: idx, row: row, line: t.line(i + 1)}
		rec := model.VisitorRecord{
			Date:          rr.date("date"),
			Year:          int(rr.int64("year")),
			Month:         int(rr.int64("month")),
			Province:      rr.str("province"),
			VisitorsTotal: rr.int64("visitors_total"),
			ForeignShare:  rr.float("foreign_share"),
			AvgStayNights: rr.float("avg_stay_nights"),
			Season:        ParseSeason(rr.str("season")),
		}
		problems = append(problems, rr.problems...)
		records = append(records, rec)
		lines = append(lines, rr.line)
	}

	problems = append(problems, ValidateVisitors(records, lines)...)
	if len(problems) > 0 {
		return nil, &ValidationError{Dataset: "visitor", Problems: problems}
	}
	return records, nil
}

// ParseSiteRows converts a header row plus data rows into eco-site records,
// then validates column presence and value ranges.
func ParseSiteRows(rows [][]string) ([]model.EcoSiteRecord, error) {
	return parseSites(table{rows: rows})
}

func parseSites(t table) ([]model.EcoSiteRecord, error) {
	rows := t.rows
	if len(rows) == 0 {
		return nil, &ValidationError{Dataset: "eco-site", Problems: []string{"no header row"}}
	}
	idx := headerIndex(rows[0])
	if missing := missingColumns(idx, SiteColumns); len(missing) > 0 {
		return nil, &ValidationError{Dataset: "eco-site", Problems: missing}
	}

	var records []model.EcoSiteRecord
	var lines []int
	var problems []string
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		rr := &rowReader{idx: idx, row: row, line: t.line(i + 1)}
		rec := model.EcoSiteRecord{
			SiteName:       rr.str("site_name"),
			Province:       rr.str("province"),
			Lat:            rr.float("lat"),
			Lon:            rr.float("lon"),
			FragilityIndex: int(rr.int64("fragility_index")),
			CapacityDaily:  rr.int64("capacity_daily"),
			FeeAOA:         rr.float("fee_aoa"),
		}
		problems = append(problems, rr.problems...)
		records = append(records, rec)
		lines = append(lines, rr.line)
	}

	problems = append(problems, ValidateSites(records, lines)...)
	if len(problems) > 0 {
		return nil, &ValidationError{Dataset: "eco-site", Problems: problems}
	}
	return records, nil
}
