package killplot

import (
	"errors"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var ErrEmptyPlot = errors.New("nothing to plot")

// Target is one y column to plot against ntests and the suffix of the
// image it ends up in.
type Target struct {
	Column string `yaml:"column"`
	Suffix string `yaml:"suffix"`
}

var DefaultTargets = []Target{
	{Column: ColExactly, Suffix: "exact"},
	{Column: ColAtLeast, Suffix: "atleast"},
	{Column: ColAtMost, Suffix: "atmost"},
}

// PlotRequest describes a single scatter plot.
type PlotRequest struct {
	X     string
	Y     string
	Title string
	Path  string
	// XMax clamps the x axis to [0, XMax] when non-zero.
	XMax float64
}

// Renderer draws one PlotRequest from a table and writes the image.
type Renderer interface {
	Render(t *Table, req PlotRequest) error
}

// Requests builds the plot requests for fName, one per target, in order.
func Requests(fName string, title string, xMax float64, targets []Target) []PlotRequest {
	reqs := make([]PlotRequest, 0, len(targets))
	for _, tg := range targets {
		reqs = append(reqs, PlotRequest{
			X:     ColNTests,
			Y:     tg.Column,
			Title: title,
			Path:  fmt.Sprintf("%s-%s.png", fName, tg.Suffix),
			XMax:  xMax,
		})
	}
	return reqs
}

// Points pairs up the X and Y columns of req. Points whose x falls outside
// [0, XMax] are dropped when XMax is set.
func Points(t *Table, req PlotRequest) (plotter.XYs, error) {
	xs, err := t.Column(req.X)
	if err != nil {
		return nil, err
	}
	ys, err := t.Column(req.Y)
	if err != nil {
		return nil, err
	}
	pts := make(plotter.XYs, 0, len(xs))
	for i := range xs {
		if req.XMax > 0 && (xs[i] < 0 || xs[i] > req.XMax) {
			continue
		}
		pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("%s: %w", req.Path, ErrEmptyPlot)
	}
	return pts, nil
}

// GonumRenderer draws with gonum.org/v1/plot. The image format follows the
// extension of the request path.
type GonumRenderer struct {
	Width  vg.Length
	Height vg.Length
}

func (g GonumRenderer) Render(t *Table, req PlotRequest) error {
	pts, err := Points(t, req)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = req.Title
	p.X.Label.Text = req.X
	p.Y.Label.Text = req.Y

	s, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	p.Add(s, plotter.NewGrid())

	// Add widens the axes to the data, so the clamp goes on afterwards.
	if req.XMax > 0 {
		p.X.Min = 0
		p.X.Max = req.XMax
	}

	return p.Save(g.Width, g.Height, req.Path)
}
