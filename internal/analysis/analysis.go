package analysis

import (
	"errors"

	"github.com/rsambing/smart-tour/internal/aggregator"
	"github.com/rsambing/smart-tour/internal/analytics"
	"github.com/rsambing/smart-tour/internal/model"
	"github.com/rsambing/smart-tour/internal/summary"
)

// Result is everything one analysis run produces. It is built fresh on every
// run and never modified afterwards.
type Result struct {
	Policy            aggregator.Policy             `json:"policy"`
	VisitorsAvailable bool                          `json:"visitors_available"`
	SitesAvailable    bool                          `json:"sites_available"`
	VisitorRecords    int                           `json:"visitor_records"`
	SiteRecords       int                           `json:"site_records"`
	VisitorStats      []model.ProvinceVisitorStats  `json:"visitor_stats"`
	SiteStats         []model.ProvinceSiteStats     `json:"site_stats"`
	Seasonal          model.SeasonalSplit           `json:"seasonal"`
	Sustainability    model.SustainabilityBreakdown `json:"sustainability"`
	CapacityBands     model.CapacityBands           `json:"capacity_bands"`
	SiteLevels        []model.SiteLevel             `json:"site_levels"`
	HighestCapacity   *model.SiteHighlight          `json:"highest_capacity,omitempty"`
	MostAffordable    *model.SiteHighlight          `json:"most_affordable,omitempty"`
	KPIs              *model.KPISet                 `json:"kpis"`
	Summary           *model.SummaryReport          `json:"summary"`
}

// ProvinceDetail joins the visitor and site view of a single province.
type ProvinceDetail struct {
	Province            string                      `json:"province"`
	Visitors            *model.ProvinceVisitorStats `json:"visitors,omitempty"`
	Sites               *model.ProvinceSiteStats    `json:"sites,omitempty"`
	SustainabilityScore float64                     `json:"sustainability_score"`
}

// Run executes visitor and site analytics, the KPI aggregation and the
// summary generation. An empty side degrades to zeroed metrics; both sides
// empty fails with aggregator.ErrInsufficientData.
func Run(visitors []model.VisitorRecord, sites []model.EcoSiteRecord, p aggregator.Policy) (*Result, error) {
	res := &Result{
		Policy:         p,
		VisitorRecords: len(visitors),
		SiteRecords:    len(sites),
		VisitorStats:   []model.ProvinceVisitorStats{},
		SiteStats:      []model.ProvinceSiteStats{},
		SiteLevels:     []model.SiteLevel{},
		Sustainability: model.SustainabilityBreakdown{Histogram: map[int]int{}},
	}

	va, err := analytics.NewVisitorAnalytics(visitors)
	switch {
	case err == nil:
		res.VisitorsAvailable = true
		res.VisitorStats = va.AggregateByProvince()
		res.Seasonal = va.SeasonalSplit()
	case !errors.Is(err, analytics.ErrEmptyDataset):
		return nil, err
	}

	sa, err := analytics.NewSiteAnalytics(sites)
	switch {
	case err == nil:
		res.SitesAvailable = true
		res.SiteStats = sa.AggregateByProvince()
		res.Sustainability = sa.SustainabilityBreakdown()
		res.CapacityBands = sa.CapacityBands()
		res.SiteLevels = sa.Levels()
		hc := sa.HighestCapacity()
		ma := sa.MostAffordable()
		res.HighestCapacity = &hc
		res.MostAffordable = &ma
	case !errors.Is(err, analytics.ErrEmptyDataset):
		return nil, err
	}

	kpis, err := aggregator.Compute(aggregator.Inputs{
		Visitors:       res.VisitorStats,
		Sites:          res.SiteStats,
		Seasonal:       res.Seasonal,
		Sustainability: res.Sustainability,
	}, p)
	if err != nil {
		return nil, err
	}
	res.KPIs = kpis
	res.Summary = summary.Generate(kpis, res.VisitorStats)

	return res, nil
}

// Province looks up the joined statistics for one province. It reports
// false when the province appears on neither side.
func (r *Result) Province(name string) (ProvinceDetail, bool) {
	d := ProvinceDetail{Province: name}
	for i := range r.VisitorStats {
		if r.VisitorStats[i].Province == name {
			v := r.VisitorStats[i]
			d.Visitors = &v
			break
		}
	}
	for i := range r.SiteStats {
		if r.SiteStats[i].Province == name {
			s := r.SiteStats[i]
			d.Sites = &s
			d.SustainabilityScore = aggregator.SustainabilityScore(s.AvgFragility)
			break
		}
	}
	return d, d.Visitors != nil || d.Sites != nil
}

// Provinces lists every province seen on either side, visitor provinces
// first, each once.
func (r *Result) Provinces() []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range r.VisitorStats {
		if !seen[v.Province] {
			seen[v.Province] = true
			out = append(out, v.Province)
		}
	}
	for _, s := range r.SiteStats {
		if !seen[s.Province] {
			seen[s.Province] = true
			out = append(out, s.Province)
		}
	}
	return out
}
