package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rsambing/smart-tour/internal/model"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	dir := filepath.Join(os.TempDir(), "smart-tour-store-test-"+t.Name())
	os.RemoveAll(dir)
	t.Cleanup(func() { os.RemoveAll(dir) })

	s, err := New(dir)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestVisitorsRoundTrip(t *testing.T) {
	s := testStore(t)

	date := time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)
	records := []model.VisitorRecord{
		{Date: date, Year: 2023, Month: 7, Province: "Namibe", VisitorsTotal: 300, ForeignShare: 0.2, AvgStayNights: 2.5, Season: model.SeasonOffpeak},
		{Date: date, Year: 2023, Month: 7, Province: "Luanda", VisitorsTotal: 1200, ForeignShare: 0.35, AvgStayNights: 3.1, Season: model.SeasonPeak},
	}

	if err := s.WriteVisitors(records, "visitors.csv"); err != nil {
		t.Fatalf("writing visitors: %v", err)
	}

	got, err := s.ReadVisitors()
	if err != nil {
		t.Fatalf("reading visitors: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Province != "Namibe" {
		t.Errorf("expected ingestion order preserved, got %q first", got[0].Province)
	}
	if got[1].VisitorsTotal != 1200 || got[1].Season != model.SeasonPeak {
		t.Errorf("unexpected record: %+v", got[1])
	}
	if !got[0].Date.Equal(date) {
		t.Errorf("expected date %v, got %v", date, got[0].Date)
	}
}

func TestWriteReplacesDataset(t *testing.T) {
	s := testStore(t)

	first := []model.EcoSiteRecord{
		{SiteName: "Kissama", Province: "Bengo", FragilityIndex: 2, CapacityDaily: 500, FeeAOA: 2000},
		{SiteName: "Iona", Province: "Namibe", FragilityIndex: 5, CapacityDaily: 1200, FeeAOA: 3000},
	}
	if err := s.WriteSites(first, "sites.csv"); err != nil {
		t.Fatalf("writing sites: %v", err)
	}
	second := []model.EcoSiteRecord{
		{SiteName: "Tunda-Vala", Province: "Huila", FragilityIndex: 3, CapacityDaily: 800, FeeAOA: 1000},
	}
	if err := s.WriteSites(second, "sites.xlsx"); err != nil {
		t.Fatalf("rewriting sites: %v", err)
	}

	got, err := s.ReadSites()
	if err != nil {
		t.Fatalf("reading sites: %v", err)
	}
	if len(got) != 1 || got[0].SiteName != "Tunda-Vala" {
		t.Errorf("expected only the second dataset, got %+v", got)
	}
	if s.SiteCount() != 1 {
		t.Errorf("expected site count 1, got %d", s.SiteCount())
	}
}

func TestStatus(t *testing.T) {
	s := testStore(t)

	status := s.Status()
	if status[0].LoadedAt != "" || status[0].Records != 0 {
		t.Errorf("expected empty visitor status, got %+v", status[0])
	}

	sites := []model.EcoSiteRecord{
		{SiteName: "A", Province: "Bengo", FragilityIndex: 1},
		{SiteName: "B", Province: "Bengo", FragilityIndex: 2},
		{SiteName: "C", Province: "Huila", FragilityIndex: 3},
	}
	if err := s.WriteSites(sites, "sites.csv"); err != nil {
		t.Fatalf("writing sites: %v", err)
	}

	status = s.Status()
	if status[1].Source != "sites.csv" || status[1].Records != 3 || status[1].LoadedAt == "" {
		t.Errorf("unexpected site status: %+v", status[1])
	}

	byProvince := s.SiteCountByProvince()
	if byProvince["Bengo"] != 2 || byProvince["Huila"] != 1 {
		t.Errorf("unexpected counts: %v", byProvince)
	}
}
