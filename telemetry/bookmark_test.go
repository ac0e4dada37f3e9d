package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/shoal/config"
)

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

// ---------- Bookmarks ----------

func TestBookmarkDetector_FeedingFrenzy(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 600), Catches: 2, PreyCount: 20, PredCount: 2})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, Catches: 6, PreyCount: 20, PredCount: 2})
	if !hasBookmark(bookmarks, BookmarkFeedingFrenzy) {
		t.Error("expected feeding_frenzy bookmark")
	}
}

func TestBookmarkDetector_FrenzyNeedsBaseline(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 600)})
	}

	if bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, Catches: 6}); hasBookmark(bookmarks, BookmarkFeedingFrenzy) {
		t.Error("no frenzy without a baseline rate")
	}
}

func TestBookmarkDetector_BabyBoom(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 4; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 600), Births: 2})
	}

	if hasBookmark(bd.Check(WindowStats{WindowEndTick: 2400, Births: 4}), BookmarkBabyBoom) {
		t.Error("4 births is below the boom floor")
	}
	if !hasBookmark(bd.Check(WindowStats{WindowEndTick: 3000, Births: 9}), BookmarkBabyBoom) {
		t.Error("expected baby_boom bookmark")
	}
}

func TestBookmarkDetector_PreyCrash(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 600), PreyCount: 30, PredCount: 2})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, PreyCount: 15, PredCount: 2})
	if !hasBookmark(bookmarks, BookmarkPreyCrash) {
		t.Error("expected prey_crash bookmark")
	}

	// The peak resets, so the same level does not crash again.
	if hasBookmark(bd.Check(WindowStats{WindowEndTick: 3600, PreyCount: 15, PredCount: 2}), BookmarkPreyCrash) {
		t.Error("crash should fire once per drop")
	}
}

func TestBookmarkDetector_PredatorRecovery(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 3; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 600), PreyCount: 30, PredCount: 1})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 2400, PreyCount: 30, PredCount: 3})
	if !hasBookmark(bookmarks, BookmarkPredatorRecovery) {
		t.Error("expected predator_recovery bookmark")
	}
}

func TestBookmarkDetector_StableEcosystem(t *testing.T) {
	bd := NewBookmarkDetector(10)

	fired := -1
	for i := 0; i < 12; i++ {
		bookmarks := bd.Check(WindowStats{WindowEndTick: int32(i * 600), PreyCount: 20, PredCount: 2})
		if hasBookmark(bookmarks, BookmarkStableEcosystem) {
			if fired >= 0 {
				t.Fatalf("stable ecosystem fired twice (windows %d and %d)", fired, i)
			}
			fired = i
		}
	}
	if fired != 8 {
		t.Errorf("stable ecosystem fired at window %d, want 8", fired)
	}
}

func TestBookmarkDetector_UnstableResets(t *testing.T) {
	bd := NewBookmarkDetector(10)

	counts := []int{20, 20, 20, 20, 20, 20, 40, 20, 20, 20}
	for i, prey := range counts {
		if hasBookmark(bd.Check(WindowStats{WindowEndTick: int32(i * 600), PreyCount: prey, PredCount: 2}), BookmarkStableEcosystem) {
			t.Fatalf("a swing at window 6 should delay the stable bookmark, fired at %d", i)
		}
	}
}

// ---------- Output ----------

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("empty dir should disable output, got %v, %v", om, err)
	}
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Errorf("nil manager write = %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil manager close = %v", err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	for i := 1; i <= 3; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: int32(i * 600), PreyCount: i}); err != nil {
			t.Fatalf("WriteTelemetry: %v", err)
		}
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkBabyBoom, Tick: 600, Description: "boom"}); err != nil {
		t.Fatalf("WriteBookmark: %v", err)
	}
	if err := om.WriteEvents([]Event{{Tick: 1, Type: EventBirth, Name: "Bubbles"}}); err != nil {
		t.Fatalf("WriteEvents: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("telemetry.csv has %d lines, want header + 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,sim_time,population") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if strings.Count(string(data), "window_end") != 1 {
		t.Error("header should be written once")
	}

	for _, name := range []string{"config.yaml", "perf.csv", "bookmarks.csv", "events.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}
	events, _ := os.ReadFile(filepath.Join(dir, "events.csv"))
	if !strings.Contains(string(events), "Bubbles") {
		t.Error("event row missing")
	}
}
