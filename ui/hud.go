package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Score      int
	PreyCount  int
	PredCount  int
	FoodCount  int
	Tick       int32
	SimTime    float64
	Speed      int
	FPS        int32
	Paused     bool
	AutoFeed   bool
	Drowsiness float64
	Status     string // transient message, e.g. "saved tank.msgpack"
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD in the top-left corner.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(fmt.Sprintf("Score %d", data.Score), 10, 10, 24, rl.Gold)

	rl.DrawText(
		fmt.Sprintf("Prey: %d | Predators: %d | Pellets: %d", data.PreyCount, data.PredCount, data.FoodCount),
		10, 40, 16, rl.RayWhite,
	)

	clock := time.Duration(data.SimTime * float64(time.Second)).Round(time.Second)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | %s | Speed: %dx | FPS: %d", data.Tick, clock, data.Speed, data.FPS),
		10, 60, 16, rl.LightGray,
	)

	y := int32(80)
	phase := "Day"
	if data.Drowsiness >= 0.5 {
		phase = "Night"
	}
	rl.DrawText(fmt.Sprintf("%s (%.0f%% asleep)", phase, data.Drowsiness*100), 10, y, 16, rl.SkyBlue)
	y += 20

	if data.AutoFeed {
		rl.DrawText("Auto-feed on", 10, y, 16, rl.Color{R: 200, G: 160, B: 100, A: 255})
		y += 20
	}
	if data.Paused {
		rl.DrawText("PAUSED", 10, y, 16, rl.Yellow)
		y += 20
	}
	if data.Status != "" {
		rl.DrawText(data.Status, 10, y, 16, rl.Green)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase timing breakdown.
type PerfPanel struct {
	renderer *Renderer
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel() *PerfPanel {
	return &PerfPanel{renderer: NewRenderer()}
}

// Draw renders the performance panel at (x, y).
func (p *PerfPanel) Draw(x, y int32, stats telemetry.PerfStats) {
	r := p.renderer
	width := int32(260)
	height := int32(len(telemetry.Phases))*14 + 76
	r.DrawPanel(x, y, width, height)

	x += r.Theme.Padding
	y += r.Theme.Padding

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick: %s  TPS: %.0f", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond), x, y, 12, rl.Yellow)
	y += 16
	rl.DrawText(fmt.Sprintf("Steer: %s/fish  pool: %.0f%%", stats.SteerPerAgent.Round(10*time.Nanosecond), stats.ParallelShare*100), x, y, 12, rl.LightGray)
	y += 16

	for _, name := range telemetry.Phases {
		avg := stats.PhaseAvg[name]
		pct := stats.PhasePct[name]

		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-13s %8s %5.1f%%", name, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}

// StatsPanel renders the most recent telemetry window.
type StatsPanel struct {
	renderer *Renderer
}

// NewStatsPanel creates a new stats panel.
func NewStatsPanel() *StatsPanel {
	return &StatsPanel{renderer: NewRenderer()}
}

// Draw renders the stats panel at (x, y). ok is false until the first window closes.
func (s *StatsPanel) Draw(x, y int32, ws telemetry.WindowStats, ok bool) {
	r := s.renderer
	width := int32(240)
	lh := r.Theme.LineHeight
	r.DrawPanel(x, y, width, lh*11+r.Theme.Padding*2)

	x += r.Theme.Padding
	y += r.Theme.Padding
	y = r.DrawSectionHeader(x, y, "Last Window")
	if !ok {
		r.DrawLabelValue(x, y, "Window", "pending")
		return
	}

	y = r.DrawLabelValue(x, y, "Ticks", fmt.Sprintf("%d-%d", ws.WindowStartTick, ws.WindowEndTick))
	y = r.DrawLabelValue(x, y, "Births", fmt.Sprintf("%d", ws.Births))
	y = r.DrawLabelValue(x, y, "Deaths", fmt.Sprintf("%d (%d eaten)", ws.Deaths, ws.DeathsEaten))
	y = r.DrawLabelValue(x, y, "Meals", fmt.Sprintf("%d", ws.Meals))
	y = r.DrawLabelValue(x, y, "Catch rate", fmt.Sprintf("%.0f%%", ws.CatchRate*100))
	y = r.DrawLabelValue(x, y, "Prey E", fmt.Sprintf("%.0f (p10 %.0f)", ws.PreyEnergyMean, ws.PreyEnergyP10))
	y = r.DrawLabelValue(x, y, "Pred E", fmt.Sprintf("%.0f (p10 %.0f)", ws.PredEnergyMean, ws.PredEnergyP10))
	y = r.DrawLabelValue(x, y, "Size", fmt.Sprintf("%.1f +/- %.1f", ws.SizeMean, ws.SizeStd))
	r.DrawLabelValue(x, y, "Score +", fmt.Sprintf("%d", ws.ScoreGained))
}
