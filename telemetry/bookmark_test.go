package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/foxes/config"
)

func init() {
	config.MustInit("")
}

func hasBookmark(bms []Bookmark, typ BookmarkType) bool {
	for _, bm := range bms {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_PreyCrash(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndStep: i * 50, PreyCount: 100, PredCount: 10})
	}

	bookmarks := bd.Check(WindowStats{WindowEndStep: 300, PreyCount: 50, PredCount: 10})
	if !hasBookmark(bookmarks, BookmarkPreyCrash) {
		t.Error("expected prey_crash bookmark")
	}
}

func TestBookmarkDetector_PredatorRecovery(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 3; i++ {
		bd.Check(WindowStats{WindowEndStep: i * 50, PreyCount: 100, PredCount: 2})
	}

	bookmarks := bd.Check(WindowStats{WindowEndStep: 200, PreyCount: 100, PredCount: 10})
	if !hasBookmark(bookmarks, BookmarkPredatorRecovery) {
		t.Error("expected predator_recovery bookmark")
	}
}

func TestBookmarkDetector_StableEcosystem(t *testing.T) {
	bd := NewBookmarkDetector(10)

	fired := 0
	for i := 0; i < 10; i++ {
		bookmarks := bd.Check(WindowStats{WindowEndStep: i * 50, PreyCount: 100, PredCount: 20})
		if hasBookmark(bookmarks, BookmarkStableEcosystem) {
			fired++
			if i != stableWindows-1 {
				t.Errorf("stable ecosystem fired at window %d, want %d", i, stableWindows-1)
			}
		}
	}
	if fired != 1 {
		t.Errorf("stable ecosystem fired %d times, want 1", fired)
	}
}

func TestBookmarkDetector_ExtinctionOncePerSpecies(t *testing.T) {
	bd := NewBookmarkDetector(10)

	bd.Check(WindowStats{WindowEndStep: 50, PreyCount: 100, PredCount: 5})
	first := bd.Check(WindowStats{WindowEndStep: 100, PreyCount: 100, PredCount: 0})
	if !hasBookmark(first, BookmarkExtinction) {
		t.Fatal("expected extinction bookmark")
	}
	if !strings.Contains(first[0].Description, "predator") {
		t.Errorf("description = %q, want predator", first[0].Description)
	}

	again := bd.Check(WindowStats{WindowEndStep: 150, PreyCount: 100, PredCount: 0})
	if hasBookmark(again, BookmarkExtinction) {
		t.Error("extinction fired twice for the same species")
	}
}

func TestOutputManagerWritesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager error: %v", err)
	}

	if err := om.WriteConfig(config.Cfg()); err != nil {
		t.Errorf("WriteConfig error: %v", err)
	}
	for i := 1; i <= 2; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndStep: i * 50, PreyCount: i}); err != nil {
			t.Errorf("WriteTelemetry error: %v", err)
		}
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkPreyCrash, Step: 50, Description: "crash"}); err != nil {
		t.Errorf("WriteBookmark error: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Errorf("telemetry.csv has %d lines, want header + 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,prey,pred") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml missing: %v", err)
	}
}

func TestNilOutputManagerIsNoop(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v", om, err)
	}
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}
