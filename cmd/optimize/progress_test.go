package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/foxes/config"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0m00s"},
		{59 * time.Second, "0m59s"},
		{2*time.Minute + 3*time.Second, "2m03s"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1h02m03s"},
		{1500 * time.Millisecond, "0m02s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestProgressKeepsBest(t *testing.T) {
	p := newProgress(10)
	p.observe(-100, []float64{1})
	p.observe(-50, []float64{2})
	p.observe(-300, []float64{3})
	p.observe(-300, []float64{4})

	if p.evals != 4 {
		t.Errorf("evals = %d, want 4", p.evals)
	}
	if p.bestFitness != -300 || p.bestParams[0] != 3 {
		t.Errorf("best = %v %v, want -300 [3]", p.bestFitness, p.bestParams)
	}
	if !strings.HasPrefix(p.line(120, 0.5), "eval 4/10:") {
		t.Errorf("line = %q", p.line(120, 0.5))
	}
}

func TestEvalLogWritesHeaderOnce(t *testing.T) {
	var buf bytes.Buffer
	l := &evalLog{w: &buf}
	cfg := config.Defaults()
	for i := 1; i <= 3; i++ {
		if err := l.write(newEvalRecord(i, -float64(i), float64(i), 0, cfg)); err != nil {
			t.Fatal(err)
		}
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3 rows:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "eval,fitness,mean_steps,quality,") {
		t.Errorf("header = %q", lines[0])
	}
	if strings.Count(buf.String(), "eval,") != 1 {
		t.Error("header written more than once")
	}
}
