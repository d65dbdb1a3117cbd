package systems

import "github.com/pthm-cable/foxes/telemetry"

// Phase categories.
const (
	CategoryCore      = "core"
	CategoryLifecycle = "lifecycle"
	CategoryTelemetry = "telemetry"
)

// SystemInfo names one phase of a simulation step.
type SystemInfo struct {
	ID       string // perf phase key
	Name     string
	Category string
}

// SystemRegistry lists the step phases in execution order.
type SystemRegistry struct {
	systems []SystemInfo
}

// NewSystemRegistry creates a registry with every phase a step runs.
func NewSystemRegistry() *SystemRegistry {
	return &SystemRegistry{systems: []SystemInfo{
		{ID: telemetry.PhaseAct, Name: "Act", Category: CategoryCore},
		{ID: telemetry.PhaseBirths, Name: "Births", Category: CategoryLifecycle},
		{ID: telemetry.PhaseCleanup, Name: "Cleanup", Category: CategoryLifecycle},
		{ID: telemetry.PhaseStats, Name: "Stats", Category: CategoryTelemetry},
		{ID: telemetry.PhaseTelemetry, Name: "Telemetry", Category: CategoryTelemetry},
	}}
}

// ByCategory groups the phases by category. Categories appear in order of
// their first phase, phases keep execution order.
func (r *SystemRegistry) ByCategory() (categories []string, phases map[string][]SystemInfo) {
	phases = make(map[string][]SystemInfo)
	for _, info := range r.systems {
		if _, seen := phases[info.Category]; !seen {
			categories = append(categories, info.Category)
		}
		phases[info.Category] = append(phases[info.Category], info)
	}
	return categories, phases
}
