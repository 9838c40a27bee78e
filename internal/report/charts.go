package report

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/rsambing/smart-tour/internal/analysis"
)

// Chart file names written by WriteCharts.
const (
	ChartVisitors       = "visitors_by_province.png"
	ChartSustainability = "sustainability_bands.png"
)

var (
	barColor   = color.RGBA{R: 46, G: 125, B: 50, A: 255}
	bandColors = []color.Color{
		color.RGBA{R: 56, G: 142, B: 60, A: 255},
		color.RGBA{R: 251, G: 192, B: 45, A: 255},
		color.RGBA{R: 245, G: 124, B: 0, A: 255},
		color.RGBA{R: 198, G: 40, B: 40, A: 255},
	}
)

// WriteCharts renders the PNG charts for whichever sides of the result
// have data and returns the written paths.
func WriteCharts(res *analysis.Result, dir string) ([]string, error) {
	var written []string

	if res.VisitorsAvailable {
		path := filepath.Join(dir, ChartVisitors)
		if err := visitorsChart(res, path); err != nil {
			return written, fmt.Errorf("visitors chart: %w", err)
		}
		written = append(written, path)
	}

	if res.SitesAvailable {
		path := filepath.Join(dir, ChartSustainability)
		if err := sustainabilityChart(res, path); err != nil {
			return written, fmt.Errorf("sustainability chart: %w", err)
		}
		written = append(written, path)
	}

	if len(written) == 0 {
		return nil, errors.New("no data to chart")
	}
	return written, nil
}

func visitorsChart(res *analysis.Result, path string) error {
	p := plot.New()
	p.Title.Text = "Visitors by Province"
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "Province"
	p.Y.Label.Text = "Visitors (sample period)"

	values := make(plotter.Values, len(res.VisitorStats))
	labels := make([]string, len(res.VisitorStats))
	var maxVal float64
	for i, v := range res.VisitorStats {
		values[i] = float64(v.TotalVisitors)
		labels[i] = v.Province
		maxVal = math.Max(maxVal, values[i])
	}

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return err
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.YAlign = draw.YCenter
	p.X.Tick.Label.XAlign = draw.XRight
	p.Y.Min = 0
	p.Y.Max = maxVal * 1.15
	if p.Y.Max == 0 {
		p.Y.Max = 1
	}

	width := vg.Length(len(labels)) * vg.Inch
	if width < 8*vg.Inch {
		width = 8 * vg.Inch
	}
	return p.Save(width, 6*vg.Inch, path)
}

func sustainabilityChart(res *analysis.Result, path string) error {
	p := plot.New()
	p.Title.Text = "Eco-Sites by Sustainability Level"
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Y.Label.Text = "Sites"

	b := res.Sustainability
	counts := []int{b.HighSustainability, b.ModerateSustainability, b.RequiresCare, b.HighFragility}
	labels := []string{"High sustainability", "Moderate", "Requires care", "High fragility"}

	w := vg.Points(40)
	var maxVal float64
	for i, n := range counts {
		bar, err := plotter.NewBarChart(plotter.Values{float64(n)}, w)
		if err != nil {
			return err
		}
		bar.Color = bandColors[i]
		bar.LineStyle.Width = vg.Length(0)
		bar.XMin = float64(i)
		p.Add(bar)

		if n > 0 {
			label, err := plotter.NewLabels(plotter.XYLabels{
				XYs:    []plotter.XY{{X: float64(i), Y: float64(n)}},
				Labels: []string{fmt.Sprintf("%d", n)},
			})
			if err == nil {
				p.Add(label)
			}
		}
		maxVal = math.Max(maxVal, float64(n))
	}

	p.NominalX(labels...)
	p.Y.Min = 0
	p.Y.Max = maxVal*1.2 + 1

	return p.Save(8*vg.Inch, 6*vg.Inch, path)
}
