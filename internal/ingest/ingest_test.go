package ingest

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/rsambing/smart-tour/internal/model"
)

const visitorsCSV = `date,year,month,province,visitors_total,foreign_share,avg_stay_nights,season
2023-01-01,2023,1,Luanda,1200,0.35,3.2,peak
2023-07-01,2023,7,Luanda,800,0.20,2.5,Offpeak

2023-01-01,2023,1,Benguela,450.0,0.10,4.0,peak
`

const sitesCSV = `site_name,province,lat,lon,fragility_index,capacity_daily,fee_aoa
Parque Nacional da Kissama,Bengo,-9.75,13.58,2,500,2000
Serra da Leba,Huila,-15.07,13.23,4,1200,1500
`

func TestReadVisitorsCSV(t *testing.T) {
	records, err := ReadVisitorsCSV(strings.NewReader(visitorsCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records (blank line skipped), got %d", len(records))
	}
	if records[1].Season != model.SeasonOffpeak {
		t.Errorf("expected season normalized to offpeak, got %q", records[1].Season)
	}
	if records[2].VisitorsTotal != 450 {
		t.Errorf("expected 450 visitors from float cell, got %d", records[2].VisitorsTotal)
	}
	if records[0].Date.Year() != 2023 || records[0].Date.Month() != 1 {
		t.Errorf("unexpected date %v", records[0].Date)
	}
}

func TestReadSitesCSV(t *testing.T) {
	records, err := ReadSitesCSV(strings.NewReader(sitesCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[1].FragilityIndex != 4 || records[1].CapacityDaily != 1200 || records[1].FeeAOA != 1500 {
		t.Errorf("unexpected record: %+v", records[1])
	}
}

func TestMissingColumns(t *testing.T) {
	_, err := ReadSitesCSV(strings.NewReader("site_name,province,lat\nA,B,1\n"))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Problems) != 4 {
		t.Errorf("expected 4 missing columns, got %q", verr.Problems)
	}
	if !strings.Contains(err.Error(), "missing required column: fee_aoa") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestRangeViolations(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want string
	}{
		{
			"foreign share",
			"date,year,month,province,visitors_total,foreign_share,avg_stay_nights,season\n2023-01-01,2023,1,Luanda,10,1.5,2,peak\n",
			"foreign_share 1.5 outside [0,1]",
		},
		{
			"negative visitors",
			"date,year,month,province,visitors_total,foreign_share,avg_stay_nights,season\n2023-01-01,2023,1,Luanda,-1,0.5,2,peak\n",
			"negative visitors_total",
		},
		{
			"bad season",
			"date,year,month,province,visitors_total,foreign_share,avg_stay_nights,season\n2023-01-01,2023,1,Luanda,1,0.5,2,winter\n",
			`unknown season "winter"`,
		},
		{
			"bad date",
			"date,year,month,province,visitors_total,foreign_share,avg_stay_nights,season\nyesterday,2023,1,Luanda,1,0.5,2,peak\n",
			`cannot parse date "yesterday"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadVisitorsCSV(strings.NewReader(tt.csv))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestSiteFragilityRange(t *testing.T) {
	csv := "site_name,province,lat,lon,fragility_index,capacity_daily,fee_aoa\nA,B,0,0,6,10,10\nA,B,0,0,3,10,10\n"
	_, err := ReadSitesCSV(strings.NewReader(csv))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Problems) != 2 {
		t.Errorf("expected fragility and duplicate problems, got %q", verr.Problems)
	}
}

func TestLoadSitesXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"site_name", "province", "lat", "lon", "fragility_index", "capacity_daily", "fee_aoa"},
		{"Iona", "Namibe", -16.9, 12.6, 5, 300, 3000},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("writing row: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("saving workbook: %v", err)
	}

	records, err := LoadSitesFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].SiteName != "Iona" || records[0].FragilityIndex != 5 {
		t.Errorf("unexpected records: %+v", records)
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	if _, err := LoadVisitorsFile("visitors.json"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestProblemsCiteSourceLine(t *testing.T) {
	csv := "date,year,month,province,visitors_total,foreign_share,avg_stay_nights,season\n" +
		"2023-01-01,2023,1,Luanda,10,0.5,2,peak\n" +
		"\n" +
		"someday,2023,1,Luanda,10,1.5,2,peak\n"
	_, err := ReadVisitorsCSV(strings.NewReader(csv))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Problems) != 2 {
		t.Fatalf("expected date and foreign_share problems, got %q", verr.Problems)
	}
	for _, p := range verr.Problems {
		if !strings.HasPrefix(p, "row 4: ") {
			t.Errorf("expected problem on line 4, got %q", p)
		}
	}
}

func TestValidateWithoutLinesNumbersFromOne(t *testing.T) {
	records := []model.EcoSiteRecord{
		{SiteName: "A", FragilityIndex: 3},
		{SiteName: "A", FragilityIndex: 3},
	}
	problems := ValidateSites(records, nil)
	if len(problems) != 1 || problems[0] != `row 2: duplicate site_name "A" (first at row 1)` {
		t.Errorf("unexpected problems: %q", problems)
	}
}

func TestParseSeason(t *testing.T) {
	tests := []struct {
		in   string
		want model.Season
	}{
		{"peak", model.SeasonPeak},
		{"Peak", model.SeasonPeak},
		{" OFFPEAK ", model.SeasonOffpeak},
		{"Winter", model.Season("winter")},
	}
	for _, tt := range tests {
		if got := ParseSeason(tt.in); got != tt.want {
			t.Errorf("ParseSeason(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
