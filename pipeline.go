package killplot

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// Pipeline loads a kill table, scores it and renders every target.
type Pipeline struct {
	Variant  Variant
	Renderer Renderer
	Targets  []Target
	// XMax clamps the x axis when non-zero.
	XMax float64

	// Stdout receives per-plot progress lines, Stderr the final marker.
	Stdout io.Writer
	Stderr io.Writer
}

// Result is what one pipeline run produced.
type Result struct {
	Score Score
	Title string
	Paths []string
}

// NewPipeline wires a Pipeline from cfg, writing to the process streams.
func NewPipeline(cfg *Config) (*Pipeline, error) {
	v, err := ParseVariant(cfg.Variant)
	if err != nil {
		return nil, err
	}
	r, err := cfg.NewRenderer()
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		Variant:  v,
		Renderer: r,
		Targets:  cfg.Targets,
		XMax:     cfg.XMax(v),
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}, nil
}

// Run processes fName. Plots are drawn in order and the first failure
// stops the run.
func (p *Pipeline) Run(fName string) (*Result, error) {
	table, err := LoadTable(fName, p.Variant.StripSpaces())
	if err != nil {
		return nil, err
	}
	log.Debugf("Loaded %d rows from %s", table.Len(), fName)

	score, err := Compute(table, p.Variant)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fName, err)
	}

	res := &Result{
		Score: score,
		Title: Title(fName, p.Variant, score),
	}
	log.Infof("%s: %s", fName, res.Title)

	targets := p.Targets
	if len(targets) == 0 {
		targets = DefaultTargets
	}

	for _, req := range Requests(fName, res.Title, p.XMax, targets) {
		if p.Variant.Verbose() {
			fmt.Fprintf(p.stdout(), "plotting %s vs %s -> %s\n", req.Y, req.X, req.Path)
		}
		if err := p.Renderer.Render(table, req); err != nil {
			return res, fmt.Errorf("render %s: %w", req.Path, err)
		}
		if p.Variant.Verbose() {
			fmt.Fprintf(p.stdout(), "wrote %s\n", req.Path)
		}
		res.Paths = append(res.Paths, req.Path)
	}

	fmt.Fprintln(p.stderr(), "done")
	return res, nil
}

func (p *Pipeline) stdout() io.Writer {
	if p.Stdout == nil {
		return io.Discard
	}
	return p.Stdout
}

func (p *Pipeline) stderr() io.Writer {
	if p.Stderr == nil {
		return io.Discard
	}
	return p.Stderr
}
