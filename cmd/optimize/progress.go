package main

import (
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"
)

// evalLog appends one EvalRecord per evaluation to a CSV stream, writing
// the header with the first row.
type evalLog struct {
	w       io.Writer
	started bool
}

func (l *evalLog) write(rec EvalRecord) error {
	rows := []EvalRecord{rec}
	if l.started {
		return gocsv.MarshalWithoutHeaders(rows, l.w)
	}
	l.started = true
	return gocsv.Marshal(rows, l.w)
}

// progress tracks the best evaluation so far and estimates time left.
type progress struct {
	total int
	start time.Time

	evals       int
	bestFitness float64
	bestParams  []float64
}

func newProgress(total int) *progress {
	return &progress{total: total, start: time.Now(), bestFitness: 1e9}
}

// observe records an evaluation, keeping params if fitness is the best yet.
func (p *progress) observe(fitness float64, params []float64) {
	p.evals++
	if fitness < p.bestFitness {
		p.bestFitness = fitness
		p.bestParams = params
	}
}

func (p *progress) elapsed() time.Duration { return time.Since(p.start) }

func (p *progress) eta() time.Duration {
	if p.evals == 0 {
		return 0
	}
	per := p.elapsed() / time.Duration(p.evals)
	return time.Duration(max(p.total-p.evals, 0)) * per
}

func (p *progress) line(steps, quality float64) string {
	return fmt.Sprintf("eval %d/%d: survived %.0f steps, quality %.2f (best %.0f) | %s elapsed, ~%s left",
		p.evals, p.total, steps, quality, p.bestFitness,
		formatDuration(p.elapsed()), formatDuration(p.eta()))
}

// formatDuration renders d as 1h02m03s, or 2m03s below an hour.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h, m, s := d/time.Hour, d/time.Minute%60, d/time.Second%60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
