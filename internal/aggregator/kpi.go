package aggregator

import (
	"errors"
	"math"

	"github.com/rsambing/smart-tour/internal/analytics"
	"github.com/rsambing/smart-tour/internal/model"
)

const (
	// DefaultAnnualizationFactor scales the summed monthly sample to a yearly
	// visitor estimate.
	DefaultAnnualizationFactor = 12
	// DefaultOccupancyFactor is the assumed share of daily eco-site capacity
	// that is actually used.
	DefaultOccupancyFactor = 0.7

	daysPerYear = 365
	// maxScore bounds the sustainability and distribution scores.
	maxScore = 10.0
	// distributionPerProvince is how much each province with eco-sites adds
	// to the economic distribution score.
	distributionPerProvince = 1.5
)

// ErrInsufficientData is returned when neither visitor nor site statistics
// are available.
var ErrInsufficientData = errors.New("cannot analyze: no data available")

// Policy holds the business assumptions behind the annual estimates.
type Policy struct {
	AnnualizationFactor int64   `json:"annualization_factor"`
	OccupancyFactor     float64 `json:"occupancy_factor"`
}

// DefaultPolicy returns the standard annualization and occupancy policy.
func DefaultPolicy() Policy {
	return Policy{
		AnnualizationFactor: DefaultAnnualizationFactor,
		OccupancyFactor:     DefaultOccupancyFactor,
	}
}

// Inputs collects the analytics outputs the KPI groups are derived from.
// An empty Visitors or Sites slice marks that side as unavailable.
type Inputs struct {
	Visitors       []model.ProvinceVisitorStats
	Sites          []model.ProvinceSiteStats
	Seasonal       model.SeasonalSplit
	Sustainability model.SustainabilityBreakdown
}

// Compute derives the tourism, sustainability and economic KPI groups.
// A missing side leaves its groups zeroed; only a fully empty input fails.
func Compute(in Inputs, p Policy) (*model.KPISet, error) {
	if len(in.Visitors) == 0 && len(in.Sites) == 0 {
		return nil, ErrInsufficientData
	}

	kpis := &model.KPISet{}
	if len(in.Visitors) > 0 {
		kpis.Tourism = tourismKPIs(in.Visitors, in.Seasonal, p)
	}
	if len(in.Sites) > 0 {
		kpis.Sustainability = sustainabilityKPIs(in.Sites, in.Sustainability)
		kpis.Economic = economicKPIs(in.Sites, p)
	}
	return kpis, nil
}

func tourismKPIs(visitors []model.ProvinceVisitorStats, seasonal model.SeasonalSplit, p Policy) model.TourismKPIs {
	var total int64
	var foreignSum, staySum float64
	for _, v := range visitors {
		total += v.TotalVisitors
		foreignSum += v.AvgForeignShare
		staySum += v.AvgStayNights
	}
	n := float64(len(visitors))

	return model.TourismKPIs{
		TotalAnnualVisitors:      total * p.AnnualizationFactor,
		ProvincesCount:           len(visitors),
		ForeignVisitorPercentage: analytics.Round(foreignSum/n*100, 1),
		AverageStayDuration:      analytics.Round(staySum/n, 1),
		SeasonalVariation:        seasonalVariation(seasonal),
		ProvinceDiversityIndex:   len(visitors),
	}
}

// seasonalVariation is the percent by which peak exceeds offpeak, or 0 when
// there is no offpeak traffic.
func seasonalVariation(s model.SeasonalSplit) float64 {
	if s.Offpeak.Visitors <= 0 {
		return 0
	}
	peak := float64(s.Peak.Visitors)
	offpeak := float64(s.Offpeak.Visitors)
	return analytics.Round((peak-offpeak)/offpeak*100, 1)
}

func sustainabilityKPIs(sites []model.ProvinceSiteStats, b model.SustainabilityBreakdown) model.SustainabilityKPIs {
	var capacity int64
	var siteCount int
	var fragilityWeighted float64
	for _, s := range sites {
		capacity += s.TotalCapacity
		siteCount += s.SiteCount
		fragilityWeighted += s.AvgFragility * float64(s.SiteCount)
	}

	totalSites := b.TotalSites
	if totalSites == 0 {
		totalSites = siteCount
	}

	meanFragility := meanFromHistogram(b.Histogram)
	if meanFragility == 0 && siteCount > 0 {
		meanFragility = fragilityWeighted / float64(siteCount)
	}

	var sustainablePct float64
	if totalSites > 0 {
		sustainable := float64(b.HighSustainability + b.ModerateSustainability)
		sustainablePct = analytics.Round(sustainable/float64(totalSites)*100, 1)
	}

	return model.SustainabilityKPIs{
		TotalSites:                 totalSites,
		TotalEcoCapacity:           capacity,
		ProvincesWithEcoSites:      len(sites),
		SustainableSitesPercentage: sustainablePct,
		AverageSustainabilityScore: SustainabilityScore(meanFragility),
	}
}

// SustainabilityScore maps a mean fragility index onto a 0-10 scale where
// lower fragility scores higher.
func SustainabilityScore(meanFragility float64) float64 {
	score := analytics.Round(maxScore-meanFragility*2, 1)
	return math.Max(0, math.Min(maxScore, score))
}

func meanFromHistogram(h map[int]int) float64 {
	var sum, n int
	for fragility, count := range h {
		sum += fragility * count
		n += count
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func economicKPIs(sites []model.ProvinceSiteStats, p Policy) model.EconomicKPIs {
	var feeSum, dailyRevenue float64
	for _, s := range sites {
		feeSum += s.AvgFee
		dailyRevenue += float64(s.TotalCapacity) * s.AvgFee
	}

	return model.EconomicKPIs{
		AverageSiteFee:            analytics.Round(feeSum/float64(len(sites)), 2),
		EstimatedAnnualRevenue:    int64(math.Round(dailyRevenue * daysPerYear * p.OccupancyFactor)),
		EconomicDistributionScore: math.Min(maxScore, float64(len(sites))*distributionPerProvince),
	}
}
