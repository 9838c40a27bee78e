package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rsambing/smart-tour/internal/analysis"
)

// Sheet names of the exported workbook.
const (
	SheetKPIs      = "KPIs"
	SheetProvinces = "Provinces"
	SheetSites     = "Eco Sites"
	SheetSummary   = "Summary"
)

// WriteWorkbook saves the analysis result as an .xlsx workbook.
func WriteWorkbook(res *analysis.Result, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetKPIs); err != nil {
		return err
	}
	for _, name := range []string{SheetProvinces, SheetSites, SheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %q: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	writeKPISheet(f, res, bold)
	writeProvinceSheet(f, res, bold)
	writeSiteSheet(f, res, bold)
	writeSummarySheet(f, res, bold)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, style int, headers ...string) {
	for i, header := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheet, col+"1", header)
		f.SetColWidth(sheet, col, col, 22)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheet, "A1", last, style)
}

func writeKPISheet(f *excelize.File, res *analysis.Result, bold int) {
	writeHeader(f, SheetKPIs, bold, "Category", "Metric", "Value")

	k := res.KPIs
	rows := [][]interface{}{
		{"tourism", "total_annual_visitors", k.Tourism.TotalAnnualVisitors},
		{"tourism", "provinces_count", k.Tourism.ProvincesCount},
		{"tourism", "foreign_visitor_percentage", k.Tourism.ForeignVisitorPercentage},
		{"tourism", "average_stay_duration", k.Tourism.AverageStayDuration},
		{"tourism", "seasonal_variation", k.Tourism.SeasonalVariation},
		{"tourism", "province_diversity_index", k.Tourism.ProvinceDiversityIndex},
		{"sustainability", "total_sites", k.Sustainability.TotalSites},
		{"sustainability", "total_eco_capacity", k.Sustainability.TotalEcoCapacity},
		{"sustainability", "provinces_with_eco_sites", k.Sustainability.ProvincesWithEcoSites},
		{"sustainability", "sustainable_sites_percentage", k.Sustainability.SustainableSitesPercentage},
		{"sustainability", "average_sustainability_score", k.Sustainability.AverageSustainabilityScore},
		{"economic", "average_site_fee", k.Economic.AverageSiteFee},
		{"economic", "estimated_annual_revenue", k.Economic.EstimatedAnnualRevenue},
		{"economic", "economic_distribution_score", k.Economic.EconomicDistributionScore},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		f.SetSheetRow(SheetKPIs, cell, &row)
	}
}

func writeProvinceSheet(f *excelize.File, res *analysis.Result, bold int) {
	writeHeader(f, SheetProvinces, bold, "Province", "Total Visitors", "Avg Foreign Share",
		"Avg Stay (nights)", "Peak Visitors", "Offpeak Visitors", "Growth Rate (%)")

	for i, v := range res.VisitorStats {
		row := i + 2
		f.SetCellValue(SheetProvinces, fmt.Sprintf("A%d", row), v.Province)
		f.SetCellValue(SheetProvinces, fmt.Sprintf("B%d", row), v.TotalVisitors)
		f.SetCellValue(SheetProvinces, fmt.Sprintf("C%d", row), v.AvgForeignShare)
		f.SetCellValue(SheetProvinces, fmt.Sprintf("D%d", row), v.AvgStayNights)
		f.SetCellValue(SheetProvinces, fmt.Sprintf("E%d", row), v.PeakVisitors)
		f.SetCellValue(SheetProvinces, fmt.Sprintf("F%d", row), v.OffpeakVisitors)
		f.SetCellValue(SheetProvinces, fmt.Sprintf("G%d", row), v.GrowthRate)
	}
}

func writeSiteSheet(f *excelize.File, res *analysis.Result, bold int) {
	writeHeader(f, SheetSites, bold, "Province", "Sites", "Total Capacity", "Avg Fragility", "Avg Fee (AOA)", "Site Names")

	for i, s := range res.SiteStats {
		row := i + 2
		f.SetCellValue(SheetSites, fmt.Sprintf("A%d", row), s.Province)
		f.SetCellValue(SheetSites, fmt.Sprintf("B%d", row), s.SiteCount)
		f.SetCellValue(SheetSites, fmt.Sprintf("C%d", row), s.TotalCapacity)
		f.SetCellValue(SheetSites, fmt.Sprintf("D%d", row), s.AvgFragility)
		f.SetCellValue(SheetSites, fmt.Sprintf("E%d", row), s.AvgFee)
		f.SetCellValue(SheetSites, fmt.Sprintf("F%d", row), strings.Join(s.Sites, ", "))
	}
}

func writeSummarySheet(f *excelize.File, res *analysis.Result, bold int) {
	row := 1
	section := func(title string) {
		f.SetCellValue(SheetSummary, fmt.Sprintf("A%d", row), title)
		f.SetCellStyle(SheetSummary, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), bold)
		row++
	}
	f.SetColWidth(SheetSummary, "A", "A", 70)

	section("Key Findings")
	for _, finding := range res.Summary.KeyFindings {
		f.SetCellValue(SheetSummary, fmt.Sprintf("A%d", row), finding)
		row++
	}
	row++

	section("Recommendations")
	if len(res.Summary.Recommendations) == 0 {
		f.SetCellValue(SheetSummary, fmt.Sprintf("A%d", row), "None")
		row++
	}
	for _, rec := range res.Summary.Recommendations {
		f.SetCellValue(SheetSummary, fmt.Sprintf("A%d", row), rec)
		row++
	}
	row++

	section("Top Provinces")
	for _, tp := range res.Summary.TopProvinces {
		f.SetCellValue(SheetSummary, fmt.Sprintf("A%d", row), tp.Province)
		f.SetCellValue(SheetSummary, fmt.Sprintf("B%d", row), tp.Visitors)
		f.SetCellValue(SheetSummary, fmt.Sprintf("C%d", row), tp.ForeignSharePct)
		f.SetCellValue(SheetSummary, fmt.Sprintf("D%d", row), tp.AvgStay)
		row++
	}
}
