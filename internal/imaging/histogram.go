package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
)

// HistogramResult contains a rendered intensity histogram chart.
type HistogramResult struct {
	Threshold   int    `json:"threshold"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// HistogramChart renders the 256-bin grayscale histogram as a PNG line chart
// with a vertical line at the chosen threshold.
func HistogramChart(hist [256]int, threshold, width, height int) (*HistogramResult, error) {
	if width <= 0 {
		width = 1024
	}
	if height <= 0 {
		height = 512
	}

	xvalues := make([]float64, 256)
	yvalues := make([]float64, 256)
	peak := 1.0
	for i, n := range hist {
		xvalues[i] = float64(i)
		yvalues[i] = float64(n)
		if yvalues[i] > peak {
			peak = yvalues[i]
		}
	}

	mainSeries := chart.ContinuousSeries{
		Name: "pixels",
		Style: chart.Style{
			StrokeColor: chart.ColorBlue,
			FillColor:   chart.ColorAlternateBlue,
		},
		XValues: xvalues,
		YValues: yvalues,
	}

	t := float64(threshold)
	thresholdSeries := chart.ContinuousSeries{
		Name: "threshold",
		Style: chart.Style{
			StrokeColor:     chart.ColorRed,
			StrokeWidth:     2,
			StrokeDashArray: []float64{5.0, 5.0},
		},
		XValues: []float64{t, t},
		YValues: []float64{0, peak},
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("Grayscale histogram (threshold %d)", threshold),
		Width:  width,
		Height: height,
		XAxis: chart.XAxis{
			Name: "Intensity",
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: 255,
			},
		},
		YAxis: chart.YAxis{
			Name: "Pixels",
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: peak * 1.05,
			},
		},
		Series: []chart.Series{
			mainSeries,
			thresholdSeries,
			chart.AnnotationSeries{
				Annotations: []chart.Value2{
					{Label: fmt.Sprintf("t=%d", threshold), XValue: t, YValue: peak},
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render histogram: %w", err)
	}

	return &HistogramResult{
		Threshold:   threshold,
		Width:       width,
		Height:      height,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
