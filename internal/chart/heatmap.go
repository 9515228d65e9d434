package chart

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/KaramelBytes/dataset-explorer/internal/stats"
)

// corrGrid lays a correlation matrix out as a heat map grid with the first
// column drawn on the top row.
type corrGrid struct {
	m *stats.Matrix
}

func (g corrGrid) Dims() (c, r int) {
	n := len(g.m.Values)
	return n, n
}

func (g corrGrid) Z(c, r int) float64 { return g.m.Values[len(g.m.Values)-1-r][c] }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }

// CorrelationHeatmap renders the Spearman correlation matrix of fields.
func (r *Renderer) CorrelationHeatmap(fields []string) Result {
	start := time.Now()
	if _, err := r.check(fields, minHeatmapFields); err != nil {
		return r.fail(KindHeatmap, err)
	}
	m, err := r.Correlations(fields)
	if err != nil {
		return r.fail(KindHeatmap, err)
	}

	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)
	cm.SetConvergePoint(0)
	grid := corrGrid{m: m}
	hm := plotter.NewHeatMap(grid, cm.Palette(255))
	hm.Min = -1
	hm.Max = 1

	n := len(fields)
	var cells plotter.XYLabels
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			cells.XYs = append(cells.XYs, plotter.XY{X: float64(col), Y: float64(row)})
			cells.Labels = append(cells.Labels, fmt.Sprintf("%.2f", grid.Z(col, row)))
		}
	}
	labels, err := plotter.NewLabels(cells)
	if err != nil {
		return r.fail(KindHeatmap, err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
		labels.TextStyle[i].YAlign = text.YCenter
		if v := grid.Z(i%n, i/n); math.Abs(v) > 0.6 {
			labels.TextStyle[i].Color = color.White
		}
	}

	p := plot.New()
	p.Title.Text = "Spearman Correlation Heatmap"
	p.Add(hm, labels)
	p.NominalX(fields...)
	reversed := make([]string, n)
	for i, f := range fields {
		reversed[n-1-i] = f
	}
	p.NominalY(reversed...)
	p.X.Padding = 0
	p.Y.Padding = 0
	p.X.Min, p.X.Max = -0.5, float64(n)-0.5
	p.Y.Min, p.Y.Max = -0.5, float64(n)-0.5
	p.X.Tick.Label.Rotation = math.Pi / 6
	p.X.Tick.Label.XAlign = text.XRight
	return r.save(KindHeatmap, p, 8*vg.Inch, 6*vg.Inch, start)
}

// Correlations returns the Spearman matrix of fields without rendering.
// Fields must already be validated.
func (r *Renderer) Correlations(fields []string) (*stats.Matrix, error) {
	cols := make([][]float64, len(fields))
	for i, f := range fields {
		vals, err := r.ds.Floats(f)
		if err != nil {
			return nil, err
		}
		cols[i] = vals
	}
	return stats.SpearmanMatrix(fields, cols), nil
}
