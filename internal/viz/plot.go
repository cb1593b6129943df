package viz

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/engine"
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/sim"
)

const plotWidth = 80

// PlotComponent graphs one flat-vector component of the run history against
// sample index, log10-compressed when the dynamic range warrants it.
func PlotComponent(result *sim.Result, layout *engine.Layout, tag engine.Tag, component int) (string, error) {
	off, err := layout.Offset(tag)
	if err != nil {
		return "", err
	}
	size, _ := layout.BlockSize(tag)
	if component < 0 || component >= size {
		return "", fmt.Errorf("viz: %s has no component %d", tag, component)
	}

	series := make([]float64, 0, len(result.States))
	for _, s := range result.States {
		series = append(series, s[off+component])
	}
	series = downsample(series, plotWidth)

	caption := fmt.Sprintf("%s[%d] vs sample", tag, component)
	if logWorthy(series) {
		for i, v := range series {
			series[i] = math.Log10(v)
		}
		caption = "log10 " + caption
	}

	return asciigraph.Plot(series,
		asciigraph.Height(16),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(caption),
	), nil
}

// Sparkline is the compact one-line trend used under the run summary.
func Sparkline(series []float64) string {
	if len(series) == 0 {
		return ""
	}
	return asciigraph.Plot(downsample(series, plotWidth), asciigraph.Height(6))
}

// logWorthy reports whether the series spans enough positive decades that a
// linear axis would flatten it.
func logWorthy(series []float64) bool {
	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range series {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	return min > 0 && max/min > 1e3
}

func downsample(series []float64, width int) []float64 {
	if len(series) <= width {
		return series
	}
	out := make([]float64, width)
	for i := range out {
		out[i] = series[i*len(series)/width]
	}
	return out
}
