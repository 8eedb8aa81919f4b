package killplot

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestRequests(t *testing.T) {
	got := Requests("in.csv", "title", 1000, DefaultTargets)
	want := []PlotRequest{
		{X: "ntests", Y: "exactly", Title: "title", Path: "in.csv-exact.png", XMax: 1000},
		{X: "ntests", Y: "atleast", Title: "title", Path: "in.csv-atleast.png", XMax: 1000},
		{X: "ntests", Y: "atmost", Title: "title", Path: "in.csv-atmost.png", XMax: 1000},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}
}

func TestPoints(t *testing.T) {
	tbl := mustRead(t, "ntests,exactly,atleast,atmost\n0,5,5,9\n10,2,2,4\n2000,1,1,1\n")

	pts, err := Points(tbl, PlotRequest{X: ColNTests, Y: ColAtMost})
	if err != nil {
		t.Fatal(err)
	}
	want := plotter.XYs{{X: 0, Y: 9}, {X: 10, Y: 4}, {X: 2000, Y: 1}}
	if diff := cmp.Diff(want, pts); diff != "" {
		t.Errorf("points mismatch (-want +got):\n%s", diff)
	}

	clamped, err := Points(tbl, PlotRequest{X: ColNTests, Y: ColAtMost, XMax: 1000})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want[:2], clamped); diff != "" {
		t.Errorf("clamped points mismatch (-want +got):\n%s", diff)
	}
}

func TestPoints_Empty(t *testing.T) {
	tests := map[string]struct {
		content string
		xMax    float64
	}{
		"no rows":            {"ntests,exactly,atleast,atmost\n", 0},
		"every row clamped":  {"ntests,exactly,atleast,atmost\n2000,1,1,1\n1500,2,2,2\n", 1000},
		"negative x clamped": {"ntests,exactly,atleast,atmost\n-1,1,1,1\n", 1000},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			tbl := mustRead(t, tc.content)
			req := PlotRequest{X: ColNTests, Y: ColExactly, XMax: tc.xMax}
			if _, err := Points(tbl, req); !errors.Is(err, ErrEmptyPlot) {
				t.Errorf("got %v, want ErrEmptyPlot", err)
			}
		})
	}
}

func TestRenderers_AllClamped(t *testing.T) {
	renderers := map[string]Renderer{
		"gonum": GonumRenderer{Width: 4 * vg.Inch, Height: 3 * vg.Inch},
		"chart": ChartRenderer{Width: 400, Height: 300},
	}
	tbl := mustRead(t, "ntests,exactly,atleast,atmost\n2000,1,1,1\n")

	for name, r := range renderers {
		path := filepath.Join(t.TempDir(), "clamped.png")
		err := r.Render(tbl, PlotRequest{X: ColNTests, Y: ColExactly, Path: path, XMax: 1000})
		if !errors.Is(err, ErrEmptyPlot) {
			t.Errorf("%s: got %v, want ErrEmptyPlot", name, err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("%s: image written for an empty plot", name)
		}
	}
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(b, pngMagic) {
		t.Errorf("%s is not a PNG", path)
	}
}

func TestRenderers_WritePNG(t *testing.T) {
	renderers := map[string]Renderer{
		"gonum": GonumRenderer{Width: 4 * vg.Inch, Height: 3 * vg.Inch},
		"chart": ChartRenderer{Width: 400, Height: 300},
	}
	tbl := mustRead(t, scenarioCSV)

	for name, r := range renderers {
		t.Run(name, func(t *testing.T) {
			req := PlotRequest{
				X:     ColNTests,
				Y:     ColExactly,
				Title: "scenario ND=5/7 (Mu: 28.6%)",
				Path:  filepath.Join(t.TempDir(), "scenario.csv-exact.png"),
				XMax:  1000,
			}
			if err := r.Render(tbl, req); err != nil {
				t.Fatal(err)
			}
			assertPNG(t, req.Path)
		})
	}
}

func TestRenderers_UnwritablePath(t *testing.T) {
	renderers := map[string]Renderer{
		"gonum": GonumRenderer{Width: 4 * vg.Inch, Height: 3 * vg.Inch},
		"chart": ChartRenderer{Width: 400, Height: 300},
	}
	tbl := mustRead(t, scenarioCSV)
	path := filepath.Join(t.TempDir(), "missing", "out.png")

	for name, r := range renderers {
		err := r.Render(tbl, PlotRequest{X: ColNTests, Y: ColExactly, Path: path})
		if err == nil {
			t.Errorf("%s: expected an error writing %s", name, path)
		}
	}
}
