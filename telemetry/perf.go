package telemetry

import (
	"log/slog"
	"time"
)

// Phase identifies one stage of the simulation step.
type Phase uint8

// Step phases in execution order.
const (
	PhaseFood Phase = iota
	PhaseIndex
	PhaseSteering
	PhaseIntegrate
	PhaseInteractions
	PhaseLifecycle
	PhaseSweep
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{
	"food", "index", "steering", "integrate",
	"interactions", "lifecycle", "sweep", "telemetry",
}

func (p Phase) String() string {
	if p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// Phases lists the step phases in execution order.
var Phases = []Phase{
	PhaseFood, PhaseIndex, PhaseSteering, PhaseIntegrate,
	PhaseInteractions, PhaseLifecycle, PhaseSweep, PhaseTelemetry,
}

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       [numPhases]time.Duration
	Agents       int  // agents steered this tick
	Parallel     bool // steering ran on the worker pool
}

// PerfCollector tracks per-phase tick timing over a rolling window. It is driven
// from the simulation goroutine only.
type PerfCollector struct {
	now func() time.Time

	samples     []PerfSample
	writeIndex  int
	sampleCount int

	cur        PerfSample
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks (60 if < 1).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		now:     time.Now,
		samples: make([]PerfSample, windowSize),
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.cur = PerfSample{}
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := p.now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phase
	p.inPhase = true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase {
		p.cur.Phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// RecordSteering notes how many agents were steered this tick and whether the
// worker pool did it.
func (p *PerfCollector) RecordSteering(agents int, parallel bool) {
	p.cur.Agents = agents
	p.cur.Parallel = parallel
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := p.now()
	p.closePhase(now)
	p.inPhase = false
	p.cur.TickDuration = now.Sub(p.tickStart)

	p.samples[p.writeIndex] = p.cur
	p.writeIndex = (p.writeIndex + 1) % len(p.samples)
	if p.sampleCount < len(p.samples) {
		p.sampleCount++
	}
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := p.now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	TicksPerSecond  float64

	// Indexed by Phase.
	PhaseAvg [numPhases]time.Duration
	PhasePct [numPhases]float64

	AvgAgents     float64
	SteerPerAgent time.Duration // steering phase time per steered agent
	ParallelShare float64       // fraction of ticks steered on the worker pool

	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{FrameDuration: p.frameDuration}
	if p.frameDuration > 0 {
		s.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.sampleCount == 0 {
		return s
	}

	var total time.Duration
	var phaseSum [numPhases]time.Duration
	var agents, parallel int
	for i, smp := range p.samples[:p.sampleCount] {
		total += smp.TickDuration
		if i == 0 || smp.TickDuration < s.MinTickDuration {
			s.MinTickDuration = smp.TickDuration
		}
		s.MaxTickDuration = max(s.MaxTickDuration, smp.TickDuration)
		for ph, d := range smp.Phases {
			phaseSum[ph] += d
		}
		agents += smp.Agents
		if smp.Parallel {
			parallel++
		}
	}

	n := time.Duration(p.sampleCount)
	s.AvgTickDuration = total / n
	for ph := range phaseSum {
		s.PhaseAvg[ph] = phaseSum[ph] / n
		if s.AvgTickDuration > 0 {
			s.PhasePct[ph] = float64(s.PhaseAvg[ph]) / float64(s.AvgTickDuration) * 100
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}

	s.AvgAgents = float64(agents) / float64(p.sampleCount)
	if agents > 0 {
		s.SteerPerAgent = phaseSum[PhaseSteering] / time.Duration(agents)
	}
	s.ParallelShare = float64(parallel) / float64(p.sampleCount)
	return s
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
		"agents", int(s.AvgAgents),
		"steer_per_agent_ns", s.SteerPerAgent.Nanoseconds(),
	}
	if s.ParallelShare > 0 {
		attrs = append(attrs, "parallel_pct", int(s.ParallelShare*100))
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, ph := range Phases {
		if pct := s.PhasePct[ph]; pct > 0.1 {
			attrs = append(attrs, ph.String()+"_pct", int(pct*10)/10.0)
		}
	}

	slog.Info("perf", attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd       int32   `csv:"window_end"`
	AvgTickUS       int64   `csv:"avg_tick_us"`
	MinTickUS       int64   `csv:"min_tick_us"`
	MaxTickUS       int64   `csv:"max_tick_us"`
	TicksPerSec     float64 `csv:"ticks_per_sec"`
	FPS             float64 `csv:"fps"`
	Agents          float64 `csv:"agents"`
	SteerPerAgentNS int64   `csv:"steer_per_agent_ns"`
	ParallelPct     float64 `csv:"parallel_pct"`
	FoodPct         float64 `csv:"food_pct"`
	IndexPct        float64 `csv:"index_pct"`
	SteeringPct     float64 `csv:"steering_pct"`
	IntegratePct    float64 `csv:"integrate_pct"`
	InteractionsPct float64 `csv:"interactions_pct"`
	LifecyclePct    float64 `csv:"lifecycle_pct"`
	SweepPct        float64 `csv:"sweep_pct"`
	TelemetryPct    float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:       windowEnd,
		AvgTickUS:       s.AvgTickDuration.Microseconds(),
		MinTickUS:       s.MinTickDuration.Microseconds(),
		MaxTickUS:       s.MaxTickDuration.Microseconds(),
		TicksPerSec:     s.TicksPerSecond,
		FPS:             s.FPS,
		Agents:          s.AvgAgents,
		SteerPerAgentNS: s.SteerPerAgent.Nanoseconds(),
		ParallelPct:     s.ParallelShare * 100,
		FoodPct:         s.PhasePct[PhaseFood],
		IndexPct:        s.PhasePct[PhaseIndex],
		SteeringPct:     s.PhasePct[PhaseSteering],
		IntegratePct:    s.PhasePct[PhaseIntegrate],
		InteractionsPct: s.PhasePct[PhaseInteractions],
		LifecyclePct:    s.PhasePct[PhaseLifecycle],
		SweepPct:        s.PhasePct[PhaseSweep],
		TelemetryPct:    s.PhasePct[PhaseTelemetry],
	}
}
