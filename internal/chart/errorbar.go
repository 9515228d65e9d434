package chart

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/KaramelBytes/dataset-explorer/internal/stats"
)

var seriesColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}

// errPoints pairs group means with their symmetric error extents.
type errPoints struct {
	plotter.XYs
	plotter.YErrors
}

// GroupedErrorBar plots the mean of field per canonical group with ±1
// standard error bars. Groups without values leave a gap in the line.
func (r *Renderer) GroupedErrorBar(field string) Result {
	start := time.Now()
	if _, err := r.check([]string{field}, minErrorBarFields); err != nil {
		return r.fail(KindErrorBar, err)
	}
	groups, err := r.groupStats(field)
	if err != nil {
		return r.fail(KindErrorBar, err)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Mean %s by %s (±1 SEM)", field, r.schema.GroupField)
	p.X.Label.Text = r.schema.GroupField
	p.Y.Label.Text = field
	p.Add(plotter.NewGrid())

	var all errPoints
	var segment plotter.XYs
	flush := func() error {
		if len(segment) == 0 {
			return nil
		}
		line, points, err := plotter.NewLinePoints(segment)
		if err != nil {
			return err
		}
		line.Color = seriesColor
		points.Shape = draw.CircleGlyph{}
		points.Radius = vg.Points(4)
		points.Color = seriesColor
		p.Add(line, points)
		segment = nil
		return nil
	}
	for i, g := range groups {
		if !g.Present() {
			if err := flush(); err != nil {
				return r.fail(KindErrorBar, err)
			}
			continue
		}
		pt := plotter.XY{X: float64(i), Y: g.Mean}
		segment = append(segment, pt)
		all.XYs = append(all.XYs, pt)
		all.YErrors = append(all.YErrors, struct{ Low, High float64 }{g.SEM, g.SEM})
	}
	if err := flush(); err != nil {
		return r.fail(KindErrorBar, err)
	}
	if len(all.XYs) > 0 {
		bars, err := plotter.NewYErrorBars(all)
		if err != nil {
			return r.fail(KindErrorBar, err)
		}
		bars.Color = seriesColor
		bars.CapWidth = vg.Points(8)
		p.Add(bars)
	}

	p.NominalX(r.schema.GroupOrder...)
	p.X.Min = -0.5
	p.X.Max = float64(len(r.schema.GroupOrder)) - 0.5
	p.X.Tick.Label.Rotation = math.Pi / 6
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter
	return r.save(KindErrorBar, p, 8*vg.Inch, 6*vg.Inch, start)
}

// groupStats computes mean and SEM of field for every canonical group.
func (r *Renderer) groupStats(field string) ([]stats.GroupStat, error) {
	labels, err := r.ds.Strings(r.schema.GroupField)
	if err != nil {
		return nil, err
	}
	vals, err := r.ds.Floats(field)
	if err != nil {
		return nil, err
	}
	idx := make([]int, len(labels))
	skipped := 0
	for i, l := range labels {
		idx[i] = r.schema.GroupIndex(l)
		if idx[i] < 0 {
			skipped++
		}
	}
	if skipped > 0 {
		r.log.WithField("rows", skipped).Debug("rows with non-canonical group ignored")
	}
	return stats.GroupMeans(r.schema.GroupOrder, idx, vals), nil
}
