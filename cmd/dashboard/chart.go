package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/loblawbio/cellscope/cellpop"
	"github.com/loblawbio/cellscope/reshape"
)

// cohortChartPNG renders the responder comparison as a grouped bar chart of
// mean relative frequencies, one pair of bars per population, colored by
// response category. Populations whose group mean is undefined are left out.
func cohortChartPNG(tests []reshape.TTestRow) (*bytes.Buffer, error) {
	bars := make([]chart.Value, 0, len(tests)*2)

	for _, row := range tests {
		if !row.MeanResponders.IsNaN() {
			bars = append(bars, chart.Value{
				Label: row.Population + " (R)",
				Value: float64(row.MeanResponders),
				Style: barStyle(cellpop.ResponseYes),
			})
		}
		if !row.MeanNonResponders.IsNaN() {
			bars = append(bars, chart.Value{
				Label: row.Population + " (NR)",
				Value: float64(row.MeanNonResponders),
				Style: barStyle(cellpop.ResponseNo),
			})
		}
	}

	if len(bars) == 0 {
		return nil, pfx.Err(fmt.Errorf("no defined group means to chart"))
	}

	graph := chart.BarChart{
		Title:    "Mean Relative Frequency: Responders (green) vs Non-Responders (red)",
		Width:    1024,
		Height:   512,
		BarWidth: 56,
		YAxis: chart.YAxis{
			Name: "Mean relative frequency (%)",
		},
		Bars: bars,
	}

	buf := &bytes.Buffer{}
	if err := graph.Render(chart.PNG, buf); err != nil {
		return nil, pfx.Err(err)
	}

	return buf, nil
}

func barStyle(response string) chart.Style {
	c := drawing.ColorFromHex(strings.TrimPrefix(cellpop.ResponseColor(response), "#"))

	return chart.Style{
		FillColor:   c,
		StrokeColor: c,
		StrokeWidth: 0,
	}
}
