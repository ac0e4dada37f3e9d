package telemetry

import (
	"testing"
	"time"
)

// fakeClock advances only when told to.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCollector(window int) (*PerfCollector, *fakeClock) {
	clk := &fakeClock{t: time.Unix(1000, 0)}
	pc := NewPerfCollector(window)
	pc.now = clk.now
	return pc, clk
}

// tick records one tick with the given phase durations, in order.
func tick(pc *PerfCollector, clk *fakeClock, agents int, parallel bool, phases map[Phase]time.Duration) {
	pc.StartTick()
	for _, ph := range Phases {
		d, ok := phases[ph]
		if !ok {
			continue
		}
		pc.StartPhase(ph)
		clk.advance(d)
	}
	pc.RecordSteering(agents, parallel)
	pc.EndTick()
}

// ---------- Tick timing ----------

func TestPerfPhaseBreakdown(t *testing.T) {
	pc, clk := newTestCollector(10)
	for i := 0; i < 5; i++ {
		tick(pc, clk, 100, false, map[Phase]time.Duration{
			PhaseIndex:    time.Millisecond,
			PhaseSteering: 3 * time.Millisecond,
		})
	}

	s := pc.Stats()
	if s.AvgTickDuration != 4*time.Millisecond {
		t.Errorf("avg tick = %v, want 4ms", s.AvgTickDuration)
	}
	if s.PhaseAvg[PhaseSteering] != 3*time.Millisecond {
		t.Errorf("steering avg = %v, want 3ms", s.PhaseAvg[PhaseSteering])
	}
	if s.PhasePct[PhaseIndex] != 25 || s.PhasePct[PhaseSteering] != 75 {
		t.Errorf("pct index=%.1f steering=%.1f, want 25 and 75", s.PhasePct[PhaseIndex], s.PhasePct[PhaseSteering])
	}
	if s.PhaseAvg[PhaseFood] != 0 {
		t.Errorf("untimed phase has avg %v", s.PhaseAvg[PhaseFood])
	}
	if s.TicksPerSecond != 250 {
		t.Errorf("ticks/s = %v, want 250", s.TicksPerSecond)
	}
}

func TestPerfRollingWindow(t *testing.T) {
	pc, clk := newTestCollector(3)
	for _, d := range []time.Duration{10, 1, 2, 3} {
		tick(pc, clk, 1, false, map[Phase]time.Duration{PhaseSweep: d * time.Millisecond})
	}

	s := pc.Stats()
	if s.MaxTickDuration != 3*time.Millisecond {
		t.Errorf("max tick = %v, the 10ms tick should have left the window", s.MaxTickDuration)
	}
	if s.MinTickDuration != time.Millisecond {
		t.Errorf("min tick = %v, want 1ms", s.MinTickDuration)
	}
	if s.AvgTickDuration != 2*time.Millisecond {
		t.Errorf("avg tick = %v, want 2ms", s.AvgTickDuration)
	}
}

func TestPerfEmptyStats(t *testing.T) {
	pc, _ := newTestCollector(5)
	s := pc.Stats()
	if s.AvgTickDuration != 0 || s.TicksPerSecond != 0 || s.SteerPerAgent != 0 {
		t.Errorf("empty collector should report zeros, got %+v", s)
	}
}

// ---------- Steering cost ----------

func TestPerfSteeringPerAgent(t *testing.T) {
	pc, clk := newTestCollector(4)
	tick(pc, clk, 100, false, map[Phase]time.Duration{PhaseSteering: time.Millisecond})
	tick(pc, clk, 300, true, map[Phase]time.Duration{PhaseSteering: 3 * time.Millisecond})

	s := pc.Stats()
	if s.SteerPerAgent != 10*time.Microsecond {
		t.Errorf("steer per agent = %v, want 10µs", s.SteerPerAgent)
	}
	if s.AvgAgents != 200 {
		t.Errorf("avg agents = %v, want 200", s.AvgAgents)
	}
	if s.ParallelShare != 0.5 {
		t.Errorf("parallel share = %v, want 0.5", s.ParallelShare)
	}
}

// ---------- Frames and export ----------

func TestPerfFrameTiming(t *testing.T) {
	pc, clk := newTestCollector(5)
	pc.RecordFrame()
	if pc.Stats().FPS != 0 {
		t.Error("a single frame has no duration")
	}
	clk.advance(20 * time.Millisecond)
	pc.RecordFrame()

	s := pc.Stats()
	if s.FrameDuration != 20*time.Millisecond || s.FPS != 50 {
		t.Errorf("frame = %v fps = %v, want 20ms and 50", s.FrameDuration, s.FPS)
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	pc, clk := newTestCollector(2)
	tick(pc, clk, 50, true, map[Phase]time.Duration{
		PhaseFood:     time.Millisecond,
		PhaseSteering: time.Millisecond,
	})

	row := pc.Stats().ToCSV(600)
	if row.WindowEnd != 600 || row.AvgTickUS != 2000 {
		t.Errorf("window=%d avg=%dus, want 600 and 2000", row.WindowEnd, row.AvgTickUS)
	}
	if row.FoodPct != 50 || row.SteeringPct != 50 || row.SweepPct != 0 {
		t.Errorf("food=%.1f steering=%.1f sweep=%.1f", row.FoodPct, row.SteeringPct, row.SweepPct)
	}
	if row.SteerPerAgentNS != 20000 || row.ParallelPct != 100 {
		t.Errorf("steer/agent=%dns parallel=%.0f%%, want 20000 and 100", row.SteerPerAgentNS, row.ParallelPct)
	}
}

func TestPhaseNames(t *testing.T) {
	if len(Phases) != int(numPhases) {
		t.Fatalf("Phases has %d entries, want %d", len(Phases), numPhases)
	}
	seen := map[string]bool{}
	for _, ph := range Phases {
		name := ph.String()
		if name == "" || name == "unknown" || seen[name] {
			t.Errorf("phase %d has bad or duplicate name %q", ph, name)
		}
		seen[name] = true
	}
}
