package render

import (
	"errors"
	"fmt"
	"haul-turn-planner/internal/domain"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var log = logrus.WithField("module", "render")

// Image edge length of saved plots.
const imageSize = 8 * vg.Inch

// Margin added around the drawn paths, in meters.
const marginM = 5.0

// RenderTurns draws the polyline of every plan into one plot and saves it
// to outPath. The image format follows the file extension (png, svg, pdf).
// Both axes share one scale so arcs keep their shape.
func RenderTurns(plans []*domain.TurnPlan, title, outPath string) error {
	if len(plans) == 0 {
		return errors.New("render turns: no plans")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"
	p.Add(plotter.NewGrid())

	var bounds extent
	for i, plan := range plans {
		if plan == nil || len(plan.Polyline) == 0 {
			continue
		}

		pts := make(plotter.XYs, len(plan.Polyline))
		for j, pt := range plan.Polyline {
			pts[j] = plotter.XY{X: pt.X, Y: pt.Y}
			bounds.include(pt.X, pt.Y)
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("render turns: line %d: %w", i, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(legendLabel(plan), line)

		ends, err := plotter.NewScatter(plotter.XYs{
			{X: plan.Start.X, Y: plan.Start.Y},
			{X: plan.Goal.X, Y: plan.Goal.Y},
		})
		if err != nil {
			return fmt.Errorf("render turns: endpoints %d: %w", i, err)
		}
		ends.GlyphStyle.Color = plotutil.Color(i)
		ends.GlyphStyle.Shape = draw.CircleGlyph{}
		ends.GlyphStyle.Radius = vg.Points(3)
		p.Add(ends)
	}
	if bounds.empty() {
		return errors.New("render turns: plans have no points")
	}

	bounds.square(marginM)
	p.X.Min, p.X.Max = bounds.minX, bounds.maxX
	p.Y.Min, p.Y.Max = bounds.minY, bounds.maxY
	p.Legend.Top = true

	if err := p.Save(imageSize, imageSize, outPath); err != nil {
		return fmt.Errorf("render turns: save %q: %w", outPath, err)
	}
	log.WithField("path", outPath).Debugf("rendered %d turns", len(plans))
	return nil
}

func legendLabel(plan *domain.TurnPlan) string {
	family := plan.Path.Family()
	if plan.FromRoadID == "" && plan.ToRoadID == "" {
		return fmt.Sprintf("%s %.1f m", family, plan.Path.TotalLengthM())
	}
	return fmt.Sprintf("%s->%s %s %.1f m", plan.FromRoadID, plan.ToRoadID, family, plan.Path.TotalLengthM())
}

type extent struct {
	minX, maxX, minY, maxY float64
	n                      int
}

func (e *extent) include(x, y float64) {
	if e.n == 0 {
		e.minX, e.maxX, e.minY, e.maxY = x, x, y, y
	} else {
		e.minX = math.Min(e.minX, x)
		e.maxX = math.Max(e.maxX, x)
		e.minY = math.Min(e.minY, y)
		e.maxY = math.Max(e.maxY, y)
	}
	e.n++
}

func (e *extent) empty() bool { return e.n == 0 }

// square grows the shorter axis around its centre to match the longer one,
// then pads both by margin.
func (e *extent) square(margin float64) {
	span := math.Max(e.maxX-e.minX, e.maxY-e.minY)/2 + margin
	cx, cy := (e.minX+e.maxX)/2, (e.minY+e.maxY)/2
	e.minX, e.maxX = cx-span, cx+span
	e.minY, e.maxY = cy-span, cy+span
}
