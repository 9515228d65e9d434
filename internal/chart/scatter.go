package chart

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Scatter plots the raw paired values of two continuous fields.
func (r *Renderer) Scatter(x, y string) Result {
	start := time.Now()
	if _, err := r.check([]string{x, y}, minScatterFields); err != nil {
		return r.fail(KindScatter, err)
	}
	xs, err := r.ds.Floats(x)
	if err != nil {
		return r.fail(KindScatter, err)
	}
	ys, err := r.ds.Floats(y)
	if err != nil {
		return r.fail(KindScatter, err)
	}

	pts := make(plotter.XYs, 0, len(xs))
	for i := range xs {
		if i >= len(ys) || math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s vs %s", x, y)
	p.X.Label.Text = x
	p.Y.Label.Text = y
	p.Add(plotter.NewGrid())
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return r.fail(KindScatter, err)
	}
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Radius = vg.Points(2.5)
	s.GlyphStyle.Color = seriesColor
	p.Add(s)
	return r.save(KindScatter, p, 6*vg.Inch, 6*vg.Inch, start)
}
