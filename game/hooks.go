package game

import (
	"log/slog"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/vmath"
)

// Hooks receives notifications from the simulation. Calls happen synchronously inside
// Step, so implementations must not call back into the game.
type Hooks interface {
	OnScoreUpdate(delta int)
	OnBirth(parent1, parent2 string, offspring []string, species string)
	OnGrewUp(name, species string)
	OnDeath(name, species string, cause components.DeathCause, age float64)
	SpawnEffect(pos vmath.Vec2, kind components.EffectKind)
}

// NopHooks ignores every notification.
type NopHooks struct{}

func (NopHooks) OnScoreUpdate(int) {}
func (NopHooks) OnBirth(string, string, []string, string) {}
func (NopHooks) OnGrewUp(string, string) {}
func (NopHooks) OnDeath(string, string, components.DeathCause, float64) {}
func (NopHooks) SpawnEffect(vmath.Vec2, components.EffectKind) {}

// HookList fans every notification out to each of its members in order.
type HookList []Hooks

func (l HookList) OnScoreUpdate(delta int) {
	for _, h := range l {
		h.OnScoreUpdate(delta)
	}
}

func (l HookList) OnBirth(parent1, parent2 string, offspring []string, species string) {
	for _, h := range l {
		h.OnBirth(parent1, parent2, offspring, species)
	}
}

func (l HookList) OnGrewUp(name, species string) {
	for _, h := range l {
		h.OnGrewUp(name, species)
	}
}

func (l HookList) OnDeath(name, species string, cause components.DeathCause, age float64) {
	for _, h := range l {
		h.OnDeath(name, species, cause, age)
	}
}

func (l HookList) SpawnEffect(pos vmath.Vec2, kind components.EffectKind) {
	for _, h := range l {
		h.SpawnEffect(pos, kind)
	}
}

// LogHooks writes the tank's notable moments to the default logger. Effects and score
// ticks are too chatty and are dropped.
type LogHooks struct {
	NopHooks
}

func (LogHooks) OnGrewUp(name, species string) {
	slog.Info("grew up", "name", name, "species", species)
}

func (LogHooks) OnDeath(name, species string, cause components.DeathCause, age float64) {
	slog.Info("death",
		"name", name,
		"species", species,
		"cause", cause.String(),
		"age", age,
	)
}
