package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rsambing/smart-tour/internal/aggregator"
	"github.com/rsambing/smart-tour/internal/model"
	"github.com/rsambing/smart-tour/internal/summary"
)

func endToEndInput() ([]model.VisitorRecord, []model.EcoSiteRecord) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	visitors := []model.VisitorRecord{
		{Date: date, Year: 2024, Month: 3, Province: "Luanda", VisitorsTotal: 1000, ForeignShare: 0.3, AvgStayNights: 3, Season: model.SeasonPeak},
		{Date: date, Year: 2024, Month: 3, Province: "Benguela", VisitorsTotal: 2000, ForeignShare: 0.1, AvgStayNights: 5, Season: model.SeasonPeak},
	}
	sites := []model.EcoSiteRecord{
		{SiteName: "Kissama", Province: "Bengo", FragilityIndex: 2, CapacityDaily: 500, FeeAOA: 2000},
		{SiteName: "Tunda-Vala", Province: "Huila", FragilityIndex: 3, CapacityDaily: 800, FeeAOA: 1000},
		{SiteName: "Iona", Province: "Namibe", FragilityIndex: 5, CapacityDaily: 1200, FeeAOA: 3000},
	}
	return visitors, sites
}

func TestRunEndToEnd(t *testing.T) {
	visitors, sites := endToEndInput()

	res, err := Run(visitors, sites, aggregator.DefaultPolicy())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sus := res.KPIs.Sustainability
	if sus.SustainableSitesPercentage != 66.7 {
		t.Errorf("expected 66.7%% sustainable, got %v", sus.SustainableSitesPercentage)
	}
	if sus.AverageSustainabilityScore != 3.3 {
		t.Errorf("expected score 3.3, got %v", sus.AverageSustainabilityScore)
	}
	if sus.TotalEcoCapacity != 2500 {
		t.Errorf("expected capacity 2500, got %d", sus.TotalEcoCapacity)
	}

	tour := res.KPIs.Tourism
	if tour.TotalAnnualVisitors != 36000 {
		t.Errorf("expected 36000 annual visitors, got %d", tour.TotalAnnualVisitors)
	}
	if tour.SeasonalVariation != 0 {
		t.Errorf("expected no seasonal variation without offpeak, got %v", tour.SeasonalVariation)
	}
	if tour.ForeignVisitorPercentage != 20.0 {
		t.Errorf("expected 20.0%% foreign, got %v", tour.ForeignVisitorPercentage)
	}

	// (500*2000 + 800*1000 + 1200*3000) * 365 * 0.7
	if res.KPIs.Economic.EstimatedAnnualRevenue != 1379700000 {
		t.Errorf("expected revenue 1379700000, got %d", res.KPIs.Economic.EstimatedAnnualRevenue)
	}

	top := res.Summary.TopProvinces
	if len(top) != 2 || top[0].Province != "Benguela" {
		t.Errorf("expected Benguela ranked first, got %+v", top)
	}

	want := []string{summary.RecommendFragility, summary.RecommendInternational, summary.RecommendCoverage}
	if len(res.Summary.Recommendations) != len(want) {
		t.Fatalf("expected %q, got %q", want, res.Summary.Recommendations)
	}
	for i := range want {
		if res.Summary.Recommendations[i] != want[i] {
			t.Errorf("recommendation %d: expected %q, got %q", i, want[i], res.Summary.Recommendations[i])
		}
	}
	if len(res.Summary.KeyFindings) != 4 {
		t.Errorf("expected 4 findings, got %d", len(res.Summary.KeyFindings))
	}
}

func TestRunDeterministic(t *testing.T) {
	visitors, sites := endToEndInput()

	encode := func() []byte {
		res, err := Run(visitors, sites, aggregator.DefaultPolicy())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		data, err := json.Marshal(struct {
			KPIs    *model.KPISet
			Summary *model.SummaryReport
		}{res.KPIs, res.Summary})
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		return data
	}

	first := encode()
	second := encode()
	if !bytes.Equal(first, second) {
		t.Errorf("expected identical output across runs:\n%s\n%s", first, second)
	}
}

func TestRunOneSideEmpty(t *testing.T) {
	visitors, sites := endToEndInput()

	res, err := Run(nil, sites, aggregator.DefaultPolicy())
	if err != nil {
		t.Fatalf("unexpected error without visitors: %v", err)
	}
	if res.VisitorsAvailable || !res.SitesAvailable {
		t.Errorf("unexpected availability: visitors=%v sites=%v", res.VisitorsAvailable, res.SitesAvailable)
	}
	if res.KPIs.Tourism != (model.TourismKPIs{}) {
		t.Errorf("expected zero tourism KPIs, got %+v", res.KPIs.Tourism)
	}
	if res.KPIs.Sustainability.TotalEcoCapacity != 2500 {
		t.Errorf("expected site KPIs to survive, got %+v", res.KPIs.Sustainability)
	}

	res, err = Run(visitors, nil, aggregator.DefaultPolicy())
	if err != nil {
		t.Fatalf("unexpected error without sites: %v", err)
	}
	if res.KPIs.Economic != (model.EconomicKPIs{}) {
		t.Errorf("expected zero economic KPIs, got %+v", res.KPIs.Economic)
	}
	if res.HighestCapacity != nil {
		t.Errorf("expected no site highlight, got %+v", res.HighestCapacity)
	}
}

func TestRunBothEmpty(t *testing.T) {
	_, err := Run(nil, nil, aggregator.DefaultPolicy())
	if !errors.Is(err, aggregator.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
	if err.Error() != "cannot analyze: no data available" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestResultProvince(t *testing.T) {
	visitors, sites := endToEndInput()
	res, err := Run(visitors, sites, aggregator.DefaultPolicy())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d, ok := res.Province("Namibe")
	if !ok {
		t.Fatal("expected Namibe to be found")
	}
	if d.Visitors != nil {
		t.Errorf("expected no visitor stats for Namibe, got %+v", d.Visitors)
	}
	if d.Sites == nil || d.Sites.SiteCount != 1 {
		t.Errorf("expected one Namibe site, got %+v", d.Sites)
	}
	if d.SustainabilityScore != 0 {
		t.Errorf("expected score 0 for fragility 5, got %v", d.SustainabilityScore)
	}

	if _, ok := res.Province("Moxico"); ok {
		t.Error("expected Moxico to be missing")
	}

	if got := res.Provinces(); len(got) != 5 {
		t.Errorf("expected 5 provinces across both sides, got %q", got)
	}
}
