package analytics

import (
	"errors"
	"testing"

	"github.com/rsambing/smart-tour/internal/model"
)

func sampleSites() []model.EcoSiteRecord {
	return []model.EcoSiteRecord{
		{SiteName: "Kissama", Province: "Bengo", FragilityIndex: 2, CapacityDaily: 500, FeeAOA: 3000},
		{SiteName: "Tunda-Vala", Province: "Huila", FragilityIndex: 3, CapacityDaily: 1000, FeeAOA: 1500},
		{SiteName: "Iona", Province: "Namibe", FragilityIndex: 5, CapacityDaily: 1500, FeeAOA: 5000},
		{SiteName: "Cabo Ledo", Province: "Bengo", FragilityIndex: 4, CapacityDaily: 1501, FeeAOA: 1000},
		{SiteName: "Kalandula", Province: "Malanje", FragilityIndex: 1, CapacityDaily: 0, FeeAOA: 2000},
		{SiteName: "Mussulo", Province: "Bengo", FragilityIndex: 3, CapacityDaily: 501, FeeAOA: 2000},
	}
}

func TestNewSiteAnalyticsEmpty(t *testing.T) {
	_, err := NewSiteAnalytics([]model.EcoSiteRecord{})
	if !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}
}

func TestSiteAggregateByProvince(t *testing.T) {
	sa, err := NewSiteAnalytics(sampleSites())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stats := sa.AggregateByProvince()
	if len(stats) != 4 {
		t.Fatalf("expected 4 provinces, got %d", len(stats))
	}

	bengo := stats[0]
	if bengo.Province != "Bengo" {
		t.Fatalf("expected Bengo first, got %q", bengo.Province)
	}
	if bengo.SiteCount != 3 {
		t.Errorf("expected 3 Bengo sites, got %d", bengo.SiteCount)
	}
	if bengo.TotalCapacity != 2502 {
		t.Errorf("expected Bengo capacity 2502, got %d", bengo.TotalCapacity)
	}
	if bengo.AvgFragility != 3 {
		t.Errorf("expected Bengo fragility 3, got %f", bengo.AvgFragility)
	}
	if bengo.AvgFee != 2000 {
		t.Errorf("expected Bengo fee 2000, got %f", bengo.AvgFee)
	}

	wantSites := []string{"Kissama", "Cabo Ledo", "Mussulo"}
	if len(bengo.Sites) != len(wantSites) {
		t.Fatalf("expected %d site names, got %q", len(wantSites), bengo.Sites)
	}
	for i, name := range wantSites {
		if bengo.Sites[i] != name {
			t.Errorf("site %d: expected %q, got %q", i, name, bengo.Sites[i])
		}
	}
}

func TestSustainabilityBreakdown(t *testing.T) {
	sa, _ := NewSiteAnalytics(sampleSites())
	b := sa.SustainabilityBreakdown()

	if b.HighSustainability != 2 || b.ModerateSustainability != 2 || b.RequiresCare != 1 || b.HighFragility != 1 {
		t.Errorf("unexpected bands: %+v", b)
	}
	sum := b.HighSustainability + b.ModerateSustainability + b.RequiresCare + b.HighFragility
	if sum != b.TotalSites || b.TotalSites != 6 {
		t.Errorf("expected bands to sum to 6 sites, got %d (total %d)", sum, b.TotalSites)
	}
	if b.Histogram[3] != 2 || b.Histogram[1] != 1 {
		t.Errorf("unexpected histogram: %v", b.Histogram)
	}
}

func TestCapacityBandEdges(t *testing.T) {
	tests := []struct {
		capacity int64
		want     string
	}{
		{0, "small"},
		{500, "small"},
		{501, "medium"},
		{1000, "medium"},
		{1001, "large"},
		{1500, "large"},
		{1501, "very_large"},
	}
	for _, tt := range tests {
		sa, _ := NewSiteAnalytics([]model.EcoSiteRecord{{SiteName: "x", CapacityDaily: tt.capacity, FragilityIndex: 1}})
		b := sa.CapacityBands()
		var got string
		switch {
		case b.Small == 1:
			got = "small"
		case b.Medium == 1:
			got = "medium"
		case b.Large == 1:
			got = "large"
		case b.VeryLarge == 1:
			got = "very_large"
		}
		if got != tt.want {
			t.Errorf("capacity %d: expected band %s, got %s", tt.capacity, tt.want, got)
		}
	}
}

func TestCapacityBandsSumToTotal(t *testing.T) {
	sa, _ := NewSiteAnalytics(sampleSites())
	b := sa.CapacityBands()
	if b.Total() != sa.Len() {
		t.Errorf("expected bands to sum to %d, got %d", sa.Len(), b.Total())
	}
	if b.Small != 2 || b.Medium != 2 || b.Large != 1 || b.VeryLarge != 1 {
		t.Errorf("unexpected bands: %+v", b)
	}
}

func TestSiteHighlights(t *testing.T) {
	sa, _ := NewSiteAnalytics(sampleSites())

	hc := sa.HighestCapacity()
	if hc.SiteName != "Cabo Ledo" || hc.Value != 1501 {
		t.Errorf("unexpected highest capacity: %+v", hc)
	}
	ma := sa.MostAffordable()
	if ma.SiteName != "Cabo Ledo" || ma.Value != 1000 {
		t.Errorf("unexpected most affordable: %+v", ma)
	}
	if got := sa.MeanFragility(); got != 3 {
		t.Errorf("expected mean fragility 3, got %f", got)
	}
}

func TestSustainabilityLevel(t *testing.T) {
	tests := []struct {
		fragility int
		want      string
	}{
		{1, "high_sustainability"},
		{2, "high_sustainability"},
		{3, "moderate_sustainability"},
		{4, "requires_care"},
		{5, "high_fragility"},
	}
	for _, tt := range tests {
		if got := SustainabilityLevel(tt.fragility); got != tt.want {
			t.Errorf("SustainabilityLevel(%d) = %q, want %q", tt.fragility, got, tt.want)
		}
	}
}

func TestLevels(t *testing.T) {
	sa, err := NewSiteAnalytics([]model.EcoSiteRecord{
		{SiteName: "Iona", Province: "Namibe", FragilityIndex: 5},
		{SiteName: "Kissama", Province: "Bengo", FragilityIndex: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	levels := sa.Levels()
	if len(levels) != 2 || levels[0].Level != "high_fragility" || levels[1].Level != "high_sustainability" {
		t.Errorf("unexpected levels: %+v", levels)
	}
}
