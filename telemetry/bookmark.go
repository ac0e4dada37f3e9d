package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFeedingFrenzy    BookmarkType = "feeding_frenzy"
	BookmarkBabyBoom         BookmarkType = "baby_boom"
	BookmarkPredatorRecovery BookmarkType = "predator_recovery"
	BookmarkPreyCrash        BookmarkType = "prey_crash"
	BookmarkStableEcosystem  BookmarkType = "stable_ecosystem"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

const (
	stableWindows = 5    // consecutive calm windows before a stable bookmark
	stableCV2     = 0.04 // squared coefficient of variation, CV < 0.2
)

// BookmarkDetector detects interesting moments in the tank.
type BookmarkDetector struct {
	history     []WindowStats // oldest first
	historySize int

	recentPredMin      int
	recentPreyPeak     int
	stableWindowsCount int
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < stableWindows {
		historySize = stableWindows
	}
	return &BookmarkDetector{
		history:       make([]WindowStats, 0, historySize),
		historySize:   historySize,
		recentPredMin: -1,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if len(bd.history) > 0 {
		for _, check := range []func(WindowStats) *Bookmark{
			bd.checkFeedingFrenzy,
			bd.checkBabyBoom,
			bd.checkPredatorRecovery,
			bd.checkPreyCrash,
			bd.checkStableEcosystem,
		} {
			if b := check(stats); b != nil {
				bookmarks = append(bookmarks, *b)
			}
		}
	}

	bd.addToHistory(stats)

	if bd.recentPredMin < 0 || stats.PredCount < bd.recentPredMin {
		bd.recentPredMin = stats.PredCount
	}
	if stats.PreyCount > bd.recentPreyPeak {
		bd.recentPreyPeak = stats.PreyCount
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	if len(bd.history) == bd.historySize {
		copy(bd.history, bd.history[1:])
		bd.history = bd.history[:len(bd.history)-1]
	}
	bd.history = append(bd.history, stats)
}

func (bd *BookmarkDetector) historyOf(field func(WindowStats) int) []float64 {
	out := make([]float64, len(bd.history))
	for i, h := range bd.history {
		out[i] = float64(field(h))
	}
	return out
}

// burst fires when the current count is over twice the rolling mean and at least min.
func (bd *BookmarkDetector) burst(current, min int, field func(WindowStats) int) (float64, bool) {
	if len(bd.history) < 3 || current < min {
		return 0, false
	}
	avg := stat.Mean(bd.historyOf(field), nil)
	if avg == 0 {
		return 0, false
	}
	return avg, float64(current) > avg*2
}

func (bd *BookmarkDetector) checkFeedingFrenzy(stats WindowStats) *Bookmark {
	avg, ok := bd.burst(stats.Catches, 3, func(s WindowStats) int { return s.Catches })
	if !ok {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkFeedingFrenzy,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d catches is %.1fx average (%.1f)", stats.Catches, float64(stats.Catches)/avg, avg),
	}
}

func (bd *BookmarkDetector) checkBabyBoom(stats WindowStats) *Bookmark {
	avg, ok := bd.burst(stats.Births, 5, func(s WindowStats) int { return s.Births })
	if !ok {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkBabyBoom,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d births is %.1fx average (%.1f)", stats.Births, float64(stats.Births)/avg, avg),
	}
}

func (bd *BookmarkDetector) checkPredatorRecovery(stats WindowStats) *Bookmark {
	if bd.recentPredMin < 0 || bd.recentPredMin > 1 {
		return nil
	}

	if stats.PredCount >= 3 {
		oldMin := bd.recentPredMin
		bd.recentPredMin = stats.PredCount

		return &Bookmark{
			Type:        BookmarkPredatorRecovery,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Predator population recovered from %d to %d", oldMin, stats.PredCount),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkPreyCrash(stats WindowStats) *Bookmark {
	if bd.recentPreyPeak == 0 {
		return nil
	}

	dropPercent := 1.0 - float64(stats.PreyCount)/float64(bd.recentPreyPeak)
	if dropPercent > 0.40 && stats.PreyCount <= bd.recentPreyPeak-5 {
		oldPeak := bd.recentPreyPeak
		bd.recentPreyPeak = stats.PreyCount

		return &Bookmark{
			Type:        BookmarkPreyCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Prey crashed %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.PreyCount),
		}
	}

	return nil
}

func cv2(values []float64) float64 {
	mean, variance := stat.PopMeanVariance(values, nil)
	if mean == 0 {
		return 0
	}
	return variance / (mean * mean)
}

func (bd *BookmarkDetector) checkStableEcosystem(stats WindowStats) *Bookmark {
	if stats.PreyCount < 8 || stats.PredCount < 1 {
		bd.stableWindowsCount = 0
		return nil
	}

	if len(bd.history) < 4 {
		return nil
	}

	recent := bd.history[len(bd.history)-4:]
	prey := make([]float64, 0, 5)
	pred := make([]float64, 0, 5)
	for _, h := range recent {
		prey = append(prey, float64(h.PreyCount))
		pred = append(pred, float64(h.PredCount))
	}
	prey = append(prey, float64(stats.PreyCount))
	pred = append(pred, float64(stats.PredCount))

	if cv2(prey) < stableCV2 && cv2(pred) < stableCV2 {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == stableWindows {
		return &Bookmark{
			Type:        BookmarkStableEcosystem,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Stable tank with %d prey, %d predators over %d+ windows", stats.PreyCount, stats.PredCount, stableWindows),
		}
	}

	return nil
}
