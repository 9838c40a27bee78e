package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// Season tags a visitor observation as high or low season.
type Season string

const (
	SeasonPeak    Season = "peak"
	SeasonOffpeak Season = "offpeak"
)

// VisitorRecord is one province/month/year visitor observation.
type VisitorRecord struct {
	Date          time.Time `json:"date"`
	Year          int       `json:"year"`
	Month         int       `json:"month"`
	Province      string    `json:"province"`
	VisitorsTotal int64     `json:"visitors_total"`
	ForeignShare  float64   `json:"foreign_share"`
	AvgStayNights float64   `json:"avg_stay_nights"`
	Season        Season    `json:"season"`
}

// EcoSiteRecord is one ecological site.
type EcoSiteRecord struct {
	SiteName       string  `json:"site_name"`
	Province       string  `json:"province"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	FragilityIndex int     `json:"fragility_index"` // 1 (robust) to 5 (fragile)
	CapacityDaily  int64   `json:"capacity_daily"`
	FeeAOA         float64 `json:"fee_aoa"`
}

// ProvinceVisitorStats is the visitor aggregate for one province.
type ProvinceVisitorStats struct {
	Province        string  `json:"province"`
	TotalVisitors   int64   `json:"total_visitors"`
	AvgForeignShare float64 `json:"avg_foreign_share"`
	AvgStayNights   float64 `json:"avg_stay_nights"`
	PeakVisitors    int64   `json:"peak_visitors"`
	OffpeakVisitors int64   `json:"offpeak_visitors"`
	GrowthRate      float64 `json:"growth_rate"`
}

// ProvinceSiteStats is the eco-site aggregate for one province.
type ProvinceSiteStats struct {
	Province      string   `json:"province"`
	SiteCount     int      `json:"site_count"`
	TotalCapacity int64    `json:"total_capacity"`
	AvgFragility  float64  `json:"avg_fragility"`
	AvgFee        float64  `json:"avg_fee"`
	Sites         []string `json:"sites"`
}

// SeasonTotals holds the visitor sum and mean foreign share of one season.
type SeasonTotals struct {
	Visitors        int64   `json:"visitors"`
	AvgForeignShare float64 `json:"avg_foreign_share"`
	Records         int     `json:"records"`
}

// SeasonalSplit partitions all visitor records by season.
type SeasonalSplit struct {
	Peak    SeasonTotals `json:"peak"`
	Offpeak SeasonTotals `json:"offpeak"`
}

// SustainabilityBreakdown counts sites per fragility band.
type SustainabilityBreakdown struct {
	HighSustainability     int         `json:"high_sustainability"`
	ModerateSustainability int         `json:"moderate_sustainability"`
	RequiresCare           int         `json:"requires_care"`
	HighFragility          int         `json:"high_fragility"`
	TotalSites             int         `json:"total_sites"`
	Histogram              map[int]int `json:"fragility_distribution"`
}

// CapacityBands counts sites per daily-capacity range.
type CapacityBands struct {
	Small     int `json:"small"`      // <= 500
	Medium    int `json:"medium"`     // 501-1000
	Large     int `json:"large"`      // 1001-1500
	VeryLarge int `json:"very_large"` // > 1500
}

// Total returns the number of sites counted across all bands.
func (b CapacityBands) Total() int {
	return b.Small + b.Medium + b.Large + b.VeryLarge
}

// SiteHighlight points at a single notable site.
type SiteHighlight struct {
	SiteName string  `json:"site"`
	Province string  `json:"province"`
	Value    float64 `json:"value"`
}

// SiteLevel is one site tagged with its sustainability band.
type SiteLevel struct {
	SiteName       string `json:"site"`
	Province       string `json:"province"`
	FragilityIndex int    `json:"fragility_index"`
	Level          string `json:"level"`
}

// TourismKPIs is the tourism KPI group.
type TourismKPIs struct {
	TotalAnnualVisitors      int64   `json:"total_annual_visitors"`
	ProvincesCount           int     `json:"provinces_count"`
	ForeignVisitorPercentage float64 `json:"foreign_visitor_percentage"`
	AverageStayDuration      float64 `json:"average_stay_duration"`
	SeasonalVariation        float64 `json:"seasonal_variation"`
	ProvinceDiversityIndex   int     `json:"province_diversity_index"`
}

// SustainabilityKPIs is the sustainability KPI group.
type SustainabilityKPIs struct {
	TotalSites                 int     `json:"total_sites"`
	TotalEcoCapacity           int64   `json:"total_eco_capacity"`
	ProvincesWithEcoSites      int     `json:"provinces_with_eco_sites"`
	SustainableSitesPercentage float64 `json:"sustainable_sites_percentage"`
	AverageSustainabilityScore float64 `json:"average_sustainability_score"`
}

// EconomicKPIs is the economic KPI group.
type EconomicKPIs struct {
	AverageSiteFee            float64 `json:"average_site_fee"`
	EstimatedAnnualRevenue    int64   `json:"estimated_annual_revenue"`
	EconomicDistributionScore float64 `json:"economic_distribution_score"`
}

// KPISet is the full KPI output of one analysis run.
type KPISet struct {
	Tourism        TourismKPIs        `json:"tourism"`
	Sustainability SustainabilityKPIs `json:"sustainability"`
	Economic       EconomicKPIs       `json:"economic"`
}

// TopProvince is one ranked entry of a SummaryReport.
type TopProvince struct {
	Province        string  `json:"-"`
	Visitors        int64   `json:"visitors"`
	ForeignSharePct float64 `json:"foreign_share_pct"`
	AvgStay         float64 `json:"avg_stay"`
}

// TopProvinces keeps ranking order and serialises as a JSON object whose
// keys appear in that order.
type TopProvinces []TopProvince

// MarshalJSON writes {"province": {...}, ...} in slice order.
func (tp TopProvinces) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range tp {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.Province)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(p)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the object form back, preserving key order.
func (tp *TopProvinces) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil { // {
		return err
	}
	var out TopProvinces
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)
		var p TopProvince
		if err := dec.Decode(&p); err != nil {
			return err
		}
		p.Province = name
		out = append(out, p)
	}
	*tp = out
	return nil
}

// SummaryReport is the executive summary of one analysis run.
type SummaryReport struct {
	KeyFindings     []string     `json:"key_findings"`
	Recommendations []string     `json:"recommendations"`
	TopProvinces    TopProvinces `json:"top_provinces"`
}
