package summary

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rsambing/smart-tour/internal/analytics"
	"github.com/rsambing/smart-tour/internal/model"
)

const (
	// topProvinceLimit is how many provinces the ranking keeps.
	topProvinceLimit = 5

	minSustainabilityScore   = 5.0
	minForeignVisitorPercent = 25.0
	minTopProvinces          = 3
)

// Recommendation texts, emitted in this order when their rule fires.
const (
	RecommendFragility     = "Prioritize reducing fragility at high-fragility eco-sites"
	RecommendInternational = "Develop international marketing strategies to attract foreign visitors"
	RecommendCoverage      = "Expand the tourism offer to more provinces"
)

var printer = message.NewPrinter(language.English)

// Generate builds the executive summary from a KPI set and the per-province
// visitor statistics it was computed from.
func Generate(kpis *model.KPISet, visitors []model.ProvinceVisitorStats) *model.SummaryReport {
	top := TopProvinces(visitors, topProvinceLimit)

	return &model.SummaryReport{
		KeyFindings:     keyFindings(kpis),
		Recommendations: recommendations(kpis, top),
		TopProvinces:    top,
	}
}

// TopProvinces ranks provinces by total visitors, highest first, breaking
// ties by name, and keeps at most limit entries.
func TopProvinces(visitors []model.ProvinceVisitorStats, limit int) model.TopProvinces {
	ranked := make([]model.ProvinceVisitorStats, len(visitors))
	copy(ranked, visitors)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].TotalVisitors != ranked[j].TotalVisitors {
			return ranked[i].TotalVisitors > ranked[j].TotalVisitors
		}
		return ranked[i].Province < ranked[j].Province
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	top := make(model.TopProvinces, 0, len(ranked))
	for _, v := range ranked {
		top = append(top, model.TopProvince{
			Province:        v.Province,
			Visitors:        v.TotalVisitors,
			ForeignSharePct: analytics.Round(v.AvgForeignShare*100, 1),
			AvgStay:         analytics.Round(v.AvgStayNights, 2),
		})
	}
	return top
}

func keyFindings(kpis *model.KPISet) []string {
	return []string{
		printer.Sprintf("An estimated %d visitors per year", kpis.Tourism.TotalAnnualVisitors),
		printer.Sprintf("%.1f%% of eco-sites follow sustainable practices", kpis.Sustainability.SustainableSitesPercentage),
		printer.Sprintf("Total daily eco-site capacity of %d visitors", kpis.Sustainability.TotalEcoCapacity),
		printer.Sprintf("Estimated annual eco-tourism revenue: %d AOA", kpis.Economic.EstimatedAnnualRevenue),
	}
}

func recommendations(kpis *model.KPISet, top model.TopProvinces) []string {
	recs := []string{}
	if kpis.Sustainability.AverageSustainabilityScore < minSustainabilityScore {
		recs = append(recs, RecommendFragility)
	}
	if kpis.Tourism.ForeignVisitorPercentage < minForeignVisitorPercent {
		recs = append(recs, RecommendInternational)
	}
	if len(top) < minTopProvinces {
		recs = append(recs, RecommendCoverage)
	}
	return recs
}

// TerminalSummary renders the KPI set as a short plain-text digest.
func TerminalSummary(kpis *model.KPISet) string {
	t := kpis.Tourism
	s := kpis.Sustainability
	e := kpis.Economic

	lines := []string{
		printer.Sprintf("TOURISM: %d visitors/year across %d provinces", t.TotalAnnualVisitors, t.ProvincesCount),
		printer.Sprintf("  - %.1f%% foreign visitors", t.ForeignVisitorPercentage),
		printer.Sprintf("  - average stay: %.1f nights", t.AverageStayDuration),
		printer.Sprintf("  - seasonal variation: %.1f%%", t.SeasonalVariation),
		printer.Sprintf("SUSTAINABILITY: %d eco-sites in %d provinces", s.TotalSites, s.ProvincesWithEcoSites),
		printer.Sprintf("  - %.1f%% of sites are sustainable", s.SustainableSitesPercentage),
		printer.Sprintf("  - average score: %.1f/10", s.AverageSustainabilityScore),
		printer.Sprintf("ECONOMY: %d AOA/year estimated", e.EstimatedAnnualRevenue),
		printer.Sprintf("  - average fee: %.2f AOA", e.AverageSiteFee),
	}
	return strings.Join(lines, "\n")
}
