package killplot

import (
	"os"

	"github.com/wcharczuk/go-chart/v2"
)

// ChartRenderer draws with go-chart. It always writes PNG.
type ChartRenderer struct {
	Width    int
	Height   int
	DotWidth float64
}

func (c ChartRenderer) Render(t *Table, req PlotRequest) error {
	pts, err := Points(t, req)
	if err != nil {
		return err
	}

	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, pt := range pts {
		xs[i] = pt.X
		ys[i] = pt.Y
	}

	dot := c.DotWidth
	if dot == 0 {
		dot = 3
	}

	graph := chart.Chart{
		Title:  req.Title,
		Width:  c.Width,
		Height: c.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{Name: req.X},
		YAxis: chart.YAxis{Name: req.Y},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name: req.Y,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    dot,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}
	if req.XMax > 0 {
		graph.XAxis.Range = &chart.ContinuousRange{Min: 0, Max: req.XMax}
	}

	f, err := os.Create(req.Path)
	if err != nil {
		return err
	}
	if err := graph.Render(chart.PNG, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
