package killplot

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

type recordingRenderer struct {
	reqs   []PlotRequest
	points []plotter.XYs
	failOn string
}

func (r *recordingRenderer) Render(t *Table, req PlotRequest) error {
	if req.Y == r.failOn {
		return errors.New("boom")
	}
	pts, err := Points(t, req)
	if err != nil {
		return err
	}
	r.reqs = append(r.reqs, req)
	r.points = append(r.points, pts)
	return nil
}

func TestPipeline_KillSum(t *testing.T) {
	path := writeFile(t, "foo_bar_kills.csv", "ntests, exactly, atleast, atmost\n0, 5, 5, 9\n10, 2, 2, 4\n")
	r := &recordingRenderer{}
	var stdout, stderr bytes.Buffer
	p := &Pipeline{Variant: KillSum, Renderer: r, Stdout: &stdout, Stderr: &stderr}

	res, err := p.Run(path)
	if err != nil {
		t.Fatal(err)
	}
	if res.Score != (Score{NotDetected: 5, Total: 7}) {
		t.Errorf("score: got %+v", res.Score)
	}
	if !strings.HasSuffix(res.Title, "foo bar  ND=5/7 (Mu: 28.6%)") {
		t.Errorf("title: got %q", res.Title)
	}
	wantPaths := []string{path + "-exact.png", path + "-atleast.png", path + "-atmost.png"}
	if diff := cmp.Diff(wantPaths, res.Paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
	for _, req := range r.reqs {
		if req.XMax != 0 {
			t.Errorf("%s: killsum should not clamp, got %v", req.Path, req.XMax)
		}
	}
	if n := strings.Count(stdout.String(), "\n"); n != 6 {
		t.Errorf("stdout: got %d lines, want 6:\n%s", n, stdout.String())
	}
	if stderr.String() != "done\n" {
		t.Errorf("stderr: got %q", stderr.String())
	}
}

func TestPipeline_RowCount(t *testing.T) {
	path := writeFile(t, "foo_bar_kills.csv", scenarioCSV)
	r := &recordingRenderer{}
	var stdout, stderr bytes.Buffer
	p := &Pipeline{Variant: RowCount, Renderer: r, XMax: RowCount.XLimit(), Stdout: &stdout, Stderr: &stderr}

	res, err := p.Run(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(res.Title, "foo bar kills.csv ND=0/2 (Mu: 100.0%)") {
		t.Errorf("title: got %q", res.Title)
	}
	if len(r.reqs) != 3 || r.reqs[0].XMax != 1000 {
		t.Errorf("requests: got %+v", r.reqs)
	}
	if stdout.Len() != 0 {
		t.Errorf("rowcount should be quiet on stdout, got %q", stdout.String())
	}
	if stderr.String() != "done\n" {
		t.Errorf("stderr: got %q", stderr.String())
	}
}

func TestPipeline_Idempotent(t *testing.T) {
	path := writeFile(t, "kills.csv", scenarioCSV)
	first, second := &recordingRenderer{}, &recordingRenderer{}

	res1, err := (&Pipeline{Variant: KillSum, Renderer: first}).Run(path)
	if err != nil {
		t.Fatal(err)
	}
	res2, err := (&Pipeline{Variant: KillSum, Renderer: second}).Run(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(res1, res2); diff != "" {
		t.Errorf("results differ (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.points, second.points); diff != "" {
		t.Errorf("points differ (-first +second):\n%s", diff)
	}
}

func TestPipeline_StopsOnRenderError(t *testing.T) {
	path := writeFile(t, "kills.csv", scenarioCSV)
	r := &recordingRenderer{failOn: ColAtLeast}
	var stderr bytes.Buffer

	res, err := (&Pipeline{Variant: KillSum, Renderer: r, Stderr: &stderr}).Run(path)
	if err == nil {
		t.Fatal("expected an error")
	}
	if len(r.reqs) != 1 || len(res.Paths) != 1 {
		t.Errorf("plots after failure: rendered %d, paths %v", len(r.reqs), res.Paths)
	}
	if stderr.Len() != 0 {
		t.Errorf("done marker written after a failure: %q", stderr.String())
	}
}

func TestPipeline_NoMutantsIsFatal(t *testing.T) {
	path := writeFile(t, "kills.csv", "ntests,exactly,atleast,atmost\n")
	r := &recordingRenderer{}

	_, err := (&Pipeline{Variant: RowCount, Renderer: r}).Run(path)
	if !errors.Is(err, ErrNoMutants) {
		t.Fatalf("got %v, want ErrNoMutants", err)
	}
	if len(r.reqs) != 0 {
		t.Errorf("rendered %d plots for an empty table", len(r.reqs))
	}
}

func TestPipeline_WritesImages(t *testing.T) {
	path := writeFile(t, "scenario_kills.csv", scenarioCSV)
	cfg := DefaultConfig()
	p, err := NewPipeline(cfg)
	if err != nil {
		t.Fatal(err)
	}
	p.Renderer = GonumRenderer{Width: 3 * vg.Inch, Height: 2 * vg.Inch}
	p.Stdout, p.Stderr = nil, nil

	res, err := p.Run(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, out := range res.Paths {
		assertPNG(t, out)
	}
}
