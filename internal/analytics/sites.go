package analytics

import (
	"fmt"

	"github.com/rsambing/smart-tour/internal/model"
)

// Capacity band upper bounds (inclusive).
const (
	smallCapacityMax  = 500
	mediumCapacityMax = 1000
	largeCapacityMax  = 1500
)

// SiteAnalytics computes per-province and sustainability statistics over a
// fixed set of eco-site records.
type SiteAnalytics struct {
	records []model.EcoSiteRecord
}

// NewSiteAnalytics wraps records for analysis. It fails with
// ErrEmptyDataset when there is nothing to analyse.
func NewSiteAnalytics(records []model.EcoSiteRecord) (*SiteAnalytics, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("eco-site records: %w", ErrEmptyDataset)
	}
	return &SiteAnalytics{records: records}, nil
}

// Len returns the number of sites under analysis.
func (sa *SiteAnalytics) Len() int {
	return len(sa.records)
}

// AggregateByProvince groups sites by exact province name in order of first
// appearance. Site names keep their input order.
func (sa *SiteAnalytics) AggregateByProvince() []model.ProvinceSiteStats {
	type acc struct {
		stats        model.ProvinceSiteStats
		fragilitySum int
		feeSum       float64
	}

	byProvince := make(map[string]*acc)
	var order []string

	for _, r := range sa.records {
		a, ok := byProvince[r.Province]
		if !ok {
			a = &acc{stats: model.ProvinceSiteStats{Province: r.Province}}
			byProvince[r.Province] = a
			order = append(order, r.Province)
		}
		a.stats.SiteCount++
		a.stats.TotalCapacity += r.CapacityDaily
		a.stats.Sites = append(a.stats.Sites, r.SiteName)
		a.fragilitySum += r.FragilityIndex
		a.feeSum += r.FeeAOA
	}

	out := make([]model.ProvinceSiteStats, 0, len(order))
	for _, p := range order {
		a := byProvince[p]
		n := float64(a.stats.SiteCount)
		a.stats.AvgFragility = float64(a.fragilitySum) / n
		a.stats.AvgFee = a.feeSum / n
		out = append(out, a.stats)
	}
	return out
}

// SustainabilityBreakdown classifies every site into one of four fragility
// bands and records the raw fragility histogram.
func (sa *SiteAnalytics) SustainabilityBreakdown() model.SustainabilityBreakdown {
	b := model.SustainabilityBreakdown{Histogram: make(map[int]int)}
	for _, r := range sa.records {
		b.Histogram[r.FragilityIndex]++
		b.TotalSites++
		switch {
		case r.FragilityIndex <= 2:
			b.HighSustainability++
		case r.FragilityIndex == 3:
			b.ModerateSustainability++
		case r.FragilityIndex == 4:
			b.RequiresCare++
		default:
			b.HighFragility++
		}
	}
	return b
}

// CapacityBands buckets sites by daily capacity. Each band includes its
// upper bound, so 500 is small and 1000 is medium.
func (sa *SiteAnalytics) CapacityBands() model.CapacityBands {
	var b model.CapacityBands
	for _, r := range sa.records {
		switch {
		case r.CapacityDaily <= smallCapacityMax:
			b.Small++
		case r.CapacityDaily <= mediumCapacityMax:
			b.Medium++
		case r.CapacityDaily <= largeCapacityMax:
			b.Large++
		default:
			b.VeryLarge++
		}
	}
	return b
}

// MeanFragility is the fragility index averaged over every site.
func (sa *SiteAnalytics) MeanFragility() float64 {
	var sum int
	for _, r := range sa.records {
		sum += r.FragilityIndex
	}
	return float64(sum) / float64(len(sa.records))
}

// HighestCapacity returns the site with the largest daily capacity. The
// first such site wins a tie.
func (sa *SiteAnalytics) HighestCapacity() model.SiteHighlight {
	best := sa.records[0]
	for _, r := range sa.records[1:] {
		if r.CapacityDaily > best.CapacityDaily {
			best = r
		}
	}
	return model.SiteHighlight{SiteName: best.SiteName, Province: best.Province, Value: float64(best.CapacityDaily)}
}

// MostAffordable returns the site with the lowest fee. The first such site
// wins a tie.
func (sa *SiteAnalytics) MostAffordable() model.SiteHighlight {
	best := sa.records[0]
	for _, r := range sa.records[1:] {
		if r.FeeAOA < best.FeeAOA {
			best = r
		}
	}
	return model.SiteHighlight{SiteName: best.SiteName, Province: best.Province, Value: best.FeeAOA}
}

// Levels tags every site with its sustainability band, in input order.
func (sa *SiteAnalytics) Levels() []model.SiteLevel {
	out := make([]model.SiteLevel, len(sa.records))
	for i, r := range sa.records {
		out[i] = model.SiteLevel{
			SiteName:       r.SiteName,
			Province:       r.Province,
			FragilityIndex: r.FragilityIndex,
			Level:          SustainabilityLevel(r.FragilityIndex),
		}
	}
	return out
}

// SustainabilityLevel labels a fragility index with its band name.
func SustainabilityLevel(fragility int) string {
	switch {
	case fragility <= 2:
		return "high_sustainability"
	case fragility == 3:
		return "moderate_sustainability"
	case fragility == 4:
		return "requires_care"
	default:
		return "high_fragility"
	}
}
