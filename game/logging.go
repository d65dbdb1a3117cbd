package game

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pthm-cable/foxes/telemetry"
)

// logWriter is the destination for human-readable output. Nothing is
// written while it is nil.
var logWriter io.Writer

// SetLogWriter sets the log output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted log message.
func Logf(format string, args ...interface{}) {
	if logWriter == nil {
		return
	}
	fmt.Fprintln(logWriter, fmt.Sprintf(format, args...))
}

// logPerfStats logs performance statistics as structured output and, when
// a log writer is set, as a per-phase table.
func (g *Game) logPerfStats(ps telemetry.PerfStats) {
	ps.LogStats()
	if logWriter == nil {
		return
	}

	Logf("=== Perf @ Step %d | %.0f steps/s ===", g.sim.Step(), ps.StepsPerSecond)
	Logf("Avg step time: %s", ps.AvgStepDuration.Round(time.Microsecond))
	categories, phases := g.registry.ByCategory()
	for _, category := range categories {
		Logf("  [%s]", category)
		for _, info := range phases[category] {
			avg, ok := ps.PhaseAvg[info.ID]
			if !ok {
				continue
			}
			Logf("    %-12s %10s  %5.1f%%", info.Name, avg.Round(time.Microsecond), ps.PhasePct[info.ID])
		}
	}
	Logf("")
}

// LogWorldState writes the step, the population summary and a dump of the
// field to the log writer.
func (g *Game) LogWorldState() {
	if logWriter == nil {
		return
	}
	sn := g.sim.Snapshot()
	Logf("=== World @ Step %d | %s===", sn.Step, g.sim.Details())
	Logf("%s", strings.TrimRight(sn.String(), "\n"))
}
