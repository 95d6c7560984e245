package render

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	gaugeWidthPx  = 320
	gaugeHeightPx = 240
)

// Gauge renders a standalone confidence dial page for the panel. The page is
// embedded in the card through an iframe srcdoc.
func Gauge(p Panel, percent float64) (string, error) {
	g := charts.NewGauge()
	g.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       p.Label,
			Width:           fmt.Sprintf("%dpx", gaugeWidthPx),
			Height:          fmt.Sprintf("%dpx", gaugeHeightPx),
			BackgroundColor: p.Palette.Background,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      p.Label,
			Left:       "center",
			TitleStyle: &opts.TextStyle{Color: p.Palette.Text, FontSize: 14},
		}),
	)
	g.AddSeries(p.Label,
		[]opts.GaugeData{{Name: p.Title, Value: roundPercent(percent).InexactFloat64()}},
		charts.WithItemStyleOpts(opts.ItemStyle{Color: p.Palette.Border}),
	)
	var buf bytes.Buffer
	if err := g.Render(&buf); err != nil {
		return "", fmt.Errorf("render confidence gauge: %w", err)
	}
	return buf.String(), nil
}
