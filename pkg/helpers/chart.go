package helpers

import (
	"bytes"
	"errors"

	"github.com/wcharczuk/go-chart/v2"
)

// ErrEmptyChart is returned when no bar has a positive value.
var ErrEmptyChart = errors.New("chart has no data")

// Bar is one labelled value of a bar chart.
type Bar struct {
	Label string
	Value float64
}

// BarChartPNG renders bars as a PNG. The y axis always starts at zero.
func BarChartPNG(title string, bars []Bar) ([]byte, error) {
	var (
		values []chart.Value
		max    float64
	)
	for _, b := range bars {
		values = append(values, chart.Value{Label: b.Label, Value: b.Value})
		if b.Value > max {
			max = b.Value
		}
	}
	if max <= 0 {
		return nil, ErrEmptyChart
	}

	graph := chart.BarChart{
		Title: title,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		Width:    640,
		Height:   400,
		BarWidth: 60,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: max + 1},
		},
		Bars: values,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
