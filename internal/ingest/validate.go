package ingest

import (
	"fmt"
	"strings"

	"github.com/rsambing/smart-tour/internal/model"
)

// maxProblems caps how many problems a ValidationError lists.
const maxProblems = 20

// VisitorColumns are the columns a visitor dataset must carry.
var VisitorColumns = []string{"date", "year", "month", "province", "visitors_total", "foreign_share", "avg_stay_nights", "season"}

// SiteColumns are the columns an eco-site dataset must carry.
var SiteColumns = []string{"site_name", "province", "lat", "lon", "fragility_index", "capacity_daily", "fee_aoa"}

// ValidationError reports every problem found in a dataset.
type ValidationError struct {
	Dataset  string
	Problems []string
}

func (e *ValidationError) Error() string {
	shown := e.Problems
	suffix := ""
	if len(shown) > maxProblems {
		suffix = fmt.Sprintf("; ... %d more", len(shown)-maxProblems)
		shown = shown[:maxProblems]
	}
	return fmt.Sprintf("invalid %s dataset: %s%s", e.Dataset, strings.Join(shown, "; "), suffix)
}

// ValidateVisitors checks value ranges of already-typed visitor records.
// lines[i] is the source line of records[i]; with nil lines, rows are
// numbered from 1 in record order.
func ValidateVisitors(records []model.VisitorRecord, lines []int) []string {
	var problems []string
	for i, r := range records {
		row := rowNumber(lines, i)
		if r.VisitorsTotal < 0 {
			problems = append(problems, fmt.Sprintf("row %d: negative visitors_total %d", row, r.VisitorsTotal))
		}
		if r.ForeignShare < 0 || r.ForeignShare > 1 {
			problems = append(problems, fmt.Sprintf("row %d: foreign_share %v outside [0,1]", row, r.ForeignShare))
		}
		if r.AvgStayNights < 0 {
			problems = append(problems, fmt.Sprintf("row %d: negative avg_stay_nights %v", row, r.AvgStayNights))
		}
		if r.Month < 1 || r.Month > 12 {
			problems = append(problems, fmt.Sprintf("row %d: month %d outside 1-12", row, r.Month))
		}
		if r.Season != model.SeasonPeak && r.Season != model.SeasonOffpeak {
			problems = append(problems, fmt.Sprintf("row %d: unknown season %q", row, r.Season))
		}
	}
	return problems
}

// ValidateSites checks value ranges of already-typed eco-site records.
// lines is interpreted as in ValidateVisitors.
func ValidateSites(records []model.EcoSiteRecord, lines []int) []string {
	var problems []string
	seen := make(map[string]int)
	for i, r := range records {
		row := rowNumber(lines, i)
		if r.FragilityIndex < 1 || r.FragilityIndex > 5 {
			problems = append(problems, fmt.Sprintf("row %d: fragility_index %d outside 1-5", row, r.FragilityIndex))
		}
		if r.CapacityDaily < 0 {
			problems = append(problems, fmt.Sprintf("row %d: negative capacity_daily %d", row, r.CapacityDaily))
		}
		if r.FeeAOA < 0 {
			problems = append(problems, fmt.Sprintf("row %d: negative fee_aoa %v", row, r.FeeAOA))
		}
		if prev, ok := seen[r.SiteName]; ok {
			problems = append(problems, fmt.Sprintf("row %d: duplicate site_name %q (first at row %d)", row, r.SiteName, prev))
		} else {
			seen[r.SiteName] = row
		}
	}
	return problems
}

func rowNumber(lines []int, i int) int {
	if i < len(lines) {
		return lines[i]
	}
	return i + 1
}

// ParseSeason normalizes a season label; "Peak" and " peak " both map to
// SeasonPeak. Unknown labels are kept lowercased for validation to report.
func ParseSeason(s string) model.Season {
	return model.Season(strings.ToLower(strings.TrimSpace(s)))
}

// missingColumns returns the required columns absent from index.
func missingColumns(index map[string]int, required []string) []string {
	var missing []string
	for _, col := range required {
		if _, ok := index[col]; !ok {
			missing = append(missing, "missing required column: "+col)
		}
	}
	return missing
}
