package ui

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/game"
)

const (
	tickerLines = 6
	tickerTTL   = 6.0 // seconds a message stays up
)

type tickerMessage struct {
	text  string
	color rl.Color
	ttl   float32
}

// Ticker lists recent tank events in the bottom-left corner. It receives them as
// game hooks and ignores effects.
type Ticker struct {
	game.NopHooks

	messages []tickerMessage
	gained   int
	flash    float32
}

// NewTicker creates an empty ticker.
func NewTicker() *Ticker {
	return &Ticker{}
}

func (t *Ticker) push(color rl.Color, format string, args ...any) {
	t.messages = append(t.messages, tickerMessage{text: fmt.Sprintf(format, args...), color: color, ttl: tickerTTL})
	if len(t.messages) > tickerLines {
		t.messages = t.messages[len(t.messages)-tickerLines:]
	}
}

// OnScoreUpdate accumulates points for the score flash.
func (t *Ticker) OnScoreUpdate(delta int) {
	t.gained += delta
	t.flash = 1
}

// OnBirth announces a litter.
func (t *Ticker) OnBirth(parent1, parent2 string, offspring []string, species string) {
	t.push(rl.Pink, "%s and %s had %d %s: %s", parent1, parent2, len(offspring), species, strings.Join(offspring, ", "))
}

// OnGrewUp announces a fish reaching adult size.
func (t *Ticker) OnGrewUp(name, species string) {
	t.push(rl.SkyBlue, "%s the %s grew up", name, species)
}

// OnDeath announces a death.
func (t *Ticker) OnDeath(name, species string, cause components.DeathCause, age float64) {
	var how string
	switch cause {
	case components.CauseOldAge:
		how = "died of old age"
	case components.CauseStarved:
		how = "starved"
	case components.CauseEaten:
		how = "was eaten"
	case components.CauseIllness:
		how = "fell ill and died"
	default:
		how = "died"
	}
	t.push(rl.LightGray, "%s the %s %s at %.0fs", name, species, how, age)
}

// Update ages messages by dt seconds.
func (t *Ticker) Update(dt float32) {
	alive := t.messages[:0]
	for _, m := range t.messages {
		m.ttl -= dt
		if m.ttl > 0 {
			alive = append(alive, m)
		}
	}
	t.messages = alive

	if t.flash > 0 {
		t.flash -= dt
		if t.flash <= 0 {
			t.gained = 0
		}
	}
}

// Draw renders the messages, newest at the bottom, above y.
func (t *Ticker) Draw(x, y int32) {
	for i := len(t.messages) - 1; i >= 0; i-- {
		m := t.messages[i]
		y -= 18
		a := min(m.ttl, 1)
		rl.DrawText(m.text, x, y, 14, rl.Fade(m.color, a))
	}
}

// DrawScoreFlash renders the points gained in the last second next to the score.
func (t *Ticker) DrawScoreFlash(x, y int32) {
	if t.flash <= 0 || t.gained == 0 {
		return
	}
	rl.DrawText(fmt.Sprintf("+%d", t.gained), x, y, 20, rl.Fade(rl.Gold, t.flash))
}
