package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/rsambing/smart-tour/internal/model"
)

// VisitorAnalytics computes per-province and seasonal statistics over a
// fixed set of visitor records.
type VisitorAnalytics struct {
	records []model.VisitorRecord
}

// NewVisitorAnalytics wraps records for analysis. It fails with
// ErrEmptyDataset when there is nothing to analyse.
func NewVisitorAnalytics(records []model.VisitorRecord) (*VisitorAnalytics, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("visitor records: %w", ErrEmptyDataset)
	}
	return &VisitorAnalytics{records: records}, nil
}

// Len returns the number of records under analysis.
func (va *VisitorAnalytics) Len() int {
	return len(va.records)
}

// TotalVisitors sums visitors_total over every record.
func (va *VisitorAnalytics) TotalVisitors() int64 {
	var total int64
	for _, r := range va.records {
		total += r.VisitorsTotal
	}
	return total
}

// AggregateByProvince groups records by exact province name. Groups come
// back in order of first appearance; a blank province is its own group.
func (va *VisitorAnalytics) AggregateByProvince() []model.ProvinceVisitorStats {
	type acc struct {
		stats      model.ProvinceVisitorStats
		foreignSum float64
		staySum    float64
		n          int
	}

	byProvince := make(map[string]*acc)
	var order []string

	for _, r := range va.records {
		a, ok := byProvince[r.Province]
		if !ok {
			a = &acc{stats: model.ProvinceVisitorStats{Province: r.Province}}
			byProvince[r.Province] = a
			order = append(order, r.Province)
		}
		a.stats.TotalVisitors += r.VisitorsTotal
		a.foreignSum += r.ForeignShare
		a.staySum += r.AvgStayNights
		a.n++
		switch r.Season {
		case model.SeasonPeak:
			a.stats.PeakVisitors += r.VisitorsTotal
		case model.SeasonOffpeak:
			a.stats.OffpeakVisitors += r.VisitorsTotal
		}
	}

	out := make([]model.ProvinceVisitorStats, 0, len(order))
	for _, p := range order {
		a := byProvince[p]
		a.stats.AvgForeignShare = a.foreignSum / float64(a.n)
		a.stats.AvgStayNights = a.staySum / float64(a.n)
		a.stats.GrowthRate = va.GrowthRate(p)
		out = append(out, a.stats)
	}
	return out
}

// SeasonalSplit sums visitors and averages foreign share per season.
// A season with no records reports zeros.
func (va *VisitorAnalytics) SeasonalSplit() model.SeasonalSplit {
	var split model.SeasonalSplit
	var peakForeign, offpeakForeign float64

	for _, r := range va.records {
		switch r.Season {
		case model.SeasonPeak:
			split.Peak.Visitors += r.VisitorsTotal
			split.Peak.Records++
			peakForeign += r.ForeignShare
		case model.SeasonOffpeak:
			split.Offpeak.Visitors += r.VisitorsTotal
			split.Offpeak.Records++
			offpeakForeign += r.ForeignShare
		}
	}

	if split.Peak.Records > 0 {
		split.Peak.AvgForeignShare = peakForeign / float64(split.Peak.Records)
	}
	if split.Offpeak.Records > 0 {
		split.Offpeak.AvgForeignShare = offpeakForeign / float64(split.Offpeak.Records)
	}
	return split
}

// GrowthRate returns the compound annual growth rate, in percent rounded to
// two decimals, of a province's yearly visitor totals between its first and
// last observed year. It is 0 with fewer than two years or a zero first year.
func (va *VisitorAnalytics) GrowthRate(province string) float64 {
	yearly := make(map[int]int64)
	for _, r := range va.records {
		if r.Province == province {
			yearly[r.Year] += r.VisitorsTotal
		}
	}
	if len(yearly) < 2 {
		return 0.0
	}

	years := make([]int, 0, len(yearly))
	for y := range yearly {
		years = append(years, y)
	}
	sort.Ints(years)

	first := yearly[years[0]]
	last := yearly[years[len(years)-1]]
	if first == 0 {
		return 0.0
	}

	periods := float64(len(years) - 1)
	rate := (math.Pow(float64(last)/float64(first), 1/periods) - 1) * 100
	return Round(rate, 2)
}

// Provinces lists distinct province names in first-appearance order.
func (va *VisitorAnalytics) Provinces() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range va.records {
		if !seen[r.Province] {
			seen[r.Province] = true
			out = append(out, r.Province)
		}
	}
	return out
}
