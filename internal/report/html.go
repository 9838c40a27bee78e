package report

import (
	"html/template"
	"io"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rsambing/smart-tour/internal/analysis"
)

var printer = message.NewPrinter(language.English)

var funcs = template.FuncMap{
	"num": func(v any) string { return printer.Sprintf("%d", v) },
	"pct": func(v float64) string { return printer.Sprintf("%.1f%%", v) },
	"f1":  func(v float64) string { return printer.Sprintf("%.1f", v) },
	"f2":  func(v float64) string { return printer.Sprintf("%.2f", v) },
}

var pageTmpl = template.Must(template.New("report").Funcs(funcs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Tourism &amp; Eco-Site Report</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
table { border-collapse: collapse; margin-bottom: 2em; }
th, td { border: 1px solid #ccc; padding: 4px 10px; text-align: right; }
th:first-child, td:first-child { text-align: left; }
</style>
</head>
<body>
<h1>Tourism &amp; Eco-Site Report</h1>
<p class="generated">Generated {{.Generated}}</p>

<h2>Key Performance Indicators</h2>
<table id="kpis">
<tr><th>Metric</th><th>Value</th></tr>
{{with .Result.KPIs}}
<tr data-kpi="total_annual_visitors"><td>Annual visitors (estimate)</td><td>{{num .Tourism.TotalAnnualVisitors}}</td></tr>
<tr data-kpi="foreign_visitor_percentage"><td>Foreign visitors</td><td>{{pct .Tourism.ForeignVisitorPercentage}}</td></tr>
<tr data-kpi="average_stay_duration"><td>Average stay (nights)</td><td>{{f1 .Tourism.AverageStayDuration}}</td></tr>
<tr data-kpi="seasonal_variation"><td>Seasonal variation</td><td>{{pct .Tourism.SeasonalVariation}}</td></tr>
<tr data-kpi="total_sites"><td>Eco-sites</td><td>{{num .Sustainability.TotalSites}}</td></tr>
<tr data-kpi="total_eco_capacity"><td>Daily eco-site capacity</td><td>{{num .Sustainability.TotalEcoCapacity}}</td></tr>
<tr data-kpi="sustainable_sites_percentage"><td>Sustainable sites</td><td>{{pct .Sustainability.SustainableSitesPercentage}}</td></tr>
<tr data-kpi="average_sustainability_score"><td>Sustainability score</td><td>{{f1 .Sustainability.AverageSustainabilityScore}}/10</td></tr>
<tr data-kpi="average_site_fee"><td>Average site fee (AOA)</td><td>{{f2 .Economic.AverageSiteFee}}</td></tr>
<tr data-kpi="estimated_annual_revenue"><td>Annual eco-tourism revenue (AOA)</td><td>{{num .Economic.EstimatedAnnualRevenue}}</td></tr>
<tr data-kpi="economic_distribution_score"><td>Economic distribution score</td><td>{{f1 .Economic.EconomicDistributionScore}}/10</td></tr>
{{end}}
</table>

<h2>Key Findings</h2>
<ul id="findings">
{{range .Result.Summary.KeyFindings}}<li>{{.}}</li>
{{end}}</ul>

<h2>Recommendations</h2>
<ul id="recommendations">
{{range .Result.Summary.Recommendations}}<li>{{.}}</li>
{{else}}<li class="none">No recommendations.</li>
{{end}}</ul>

<h2>Top Provinces</h2>
<table id="top-provinces">
<tr><th>Province</th><th>Visitors</th><th>Foreign share</th><th>Avg stay</th></tr>
{{range .Result.Summary.TopProvinces}}<tr><td>{{.Province}}</td><td>{{num .Visitors}}</td><td>{{pct .ForeignSharePct}}</td><td>{{f2 .AvgStay}}</td></tr>
{{end}}</table>

{{if .Result.SitesAvailable}}
<h2>Eco-Sites by Province</h2>
<table id="site-provinces">
<tr><th>Province</th><th>Sites</th><th>Capacity</th><th>Avg fragility</th><th>Avg fee (AOA)</th></tr>
{{range .Result.SiteStats}}<tr><td>{{.Province}}</td><td>{{.SiteCount}}</td><td>{{num .TotalCapacity}}</td><td>{{f2 .AvgFragility}}</td><td>{{f2 .AvgFee}}</td></tr>
{{end}}</table>
{{end}}

{{range .Charts}}<img src="{{.}}" alt="{{.}}">
{{end}}
</body>
</html>
`))

type page struct {
	Result    *analysis.Result
	Generated string
	Charts    []string
}

// WriteHTML renders a standalone HTML report. charts are image paths,
// relative to the report, to embed below the tables.
func WriteHTML(w io.Writer, res *analysis.Result, charts []string) error {
	return pageTmpl.Execute(w, page{
		Result:    res,
		Generated: time.Now().UTC().Format("2006-01-02 15:04 MST"),
		Charts:    charts,
	})
}
