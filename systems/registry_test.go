package systems

import (
	"testing"

	"github.com/pthm-cable/foxes/telemetry"
)

func TestRegistryCoversEveryPhase(t *testing.T) {
	reg := NewSystemRegistry()

	want := []string{
		telemetry.PhaseAct,
		telemetry.PhaseBirths,
		telemetry.PhaseCleanup,
		telemetry.PhaseStats,
		telemetry.PhaseTelemetry,
	}
	categories, phases := reg.ByCategory()
	var all []SystemInfo
	for _, c := range categories {
		all = append(all, phases[c]...)
	}
	if len(all) != len(want) {
		t.Fatalf("registry has %d phases, want %d", len(all), len(want))
	}
	for i, info := range all {
		if info.ID != want[i] {
			t.Errorf("phase %d = %q, want %q", i, info.ID, want[i])
		}
		if info.Name == "" || info.Category == "" {
			t.Errorf("phase %q missing name or category", info.ID)
		}
	}
}

func TestRegistryByCategory(t *testing.T) {
	categories, phases := NewSystemRegistry().ByCategory()

	wantCats := []string{CategoryCore, CategoryLifecycle, CategoryTelemetry}
	if len(categories) != len(wantCats) {
		t.Fatalf("categories = %v, want %v", categories, wantCats)
	}
	for i, c := range wantCats {
		if categories[i] != c {
			t.Errorf("category %d = %q, want %q", i, categories[i], c)
		}
	}

	life := phases[CategoryLifecycle]
	if len(life) != 2 || life[0].ID != telemetry.PhaseBirths || life[1].ID != telemetry.PhaseCleanup {
		t.Errorf("lifecycle phases = %+v", life)
	}
}
