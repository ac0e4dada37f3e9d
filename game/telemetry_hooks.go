package game

import (
	"log/slog"

	"github.com/pthm-cable/shoal/systems"
	"github.com/pthm-cable/shoal/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	g.flushEvents()

	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.sample())
	perfStats := g.perfCollector.Stats()
	g.lastWindow, g.hasWindow = stats, true

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
}

// sample observes the live population for the window summary.
func (g *Game) sample() telemetry.Sample {
	s := telemetry.Sample{
		Food:       len(g.foods),
		Score:      g.score,
		Drowsiness: g.drowsiness,
	}
	g.EachAgent(func(a *systems.Agent) {
		if !a.Alive() {
			return
		}
		if a.Predator() {
			s.PredEnergies = append(s.PredEnergies, a.Bio.Energy)
		} else {
			s.PreyEnergies = append(s.PreyEnergies, a.Bio.Energy)
		}
		s.Sizes = append(s.Sizes, a.Size())
		if !a.Bio.GrownUp {
			s.Juveniles++
		}
	})
	return s
}

// flushEvents writes the events queued this tick.
func (g *Game) flushEvents() {
	if len(g.events) == 0 {
		return
	}
	if err := g.outputManager.WriteEvents(g.events); err != nil {
		slog.Error("failed to write events", "error", err)
	}
	clear(g.events)
	g.events = g.events[:0]
}

// logEvent queues an event row for the output manager.
func (g *Game) logEvent(typ telemetry.EventType, a *systems.Agent, other, detail string) {
	if g.outputManager == nil {
		return
	}
	ev := telemetry.Event{
		Tick:   g.tick,
		Time:   g.time,
		Type:   typ,
		Other:  other,
		Detail: detail,
	}
	if a != nil {
		ev.Name = a.ID.Name
		ev.Species = a.ID.Species.ID
	}
	g.events = append(g.events, ev)
}
