package server

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/tradejournal/internal/services/balance"
	"github.com/bobmcallan/tradejournal/internal/services/journal"
)

// renderBalanceChart renders the running balance as a PNG line chart with
// the initial capital as a dashed baseline. A single point is extended to
// now so there is always a line to draw.
func renderBalanceChart(points []balance.Point, initialCapital float64, currency string, now time.Time) ([]byte, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("no balance history")
	}
	if len(points) == 1 {
		start := points[0]
		if start.Date.IsZero() || !start.Date.Before(now) {
			start.Date = now.AddDate(0, 0, -1)
		}
		points = []balance.Point{start, {Date: now, Balance: start.Balance}}
	}

	xValues := make([]time.Time, len(points))
	balanceY := make([]float64, len(points))
	baseY := make([]float64, len(points))
	for i, p := range points {
		xValues[i] = p.Date
		balanceY[i] = p.Balance
		baseY[i] = initialCapital
	}

	balanceSeries := chart.TimeSeries{
		Name: "Balance",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("16a34a"), // green-600
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: balanceY,
	}

	baseSeries := chart.TimeSeries{
		Name: "Initial Capital",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"), // gray-400
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: baseY,
	}

	graph := chart.Chart{
		Title:  "Account Balance",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 02 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return journal.FormatAmount(f, currency)
				}
				return ""
			},
		},
		Series: []chart.Series{
			balanceSeries,
			baseSeries,
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
