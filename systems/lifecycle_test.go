package systems

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/vmath"
)

// ---------- Energy ----------

func TestEnergyStaysInBounds(t *testing.T) {
	tk := newTank(t)
	e := tk.spawn("guppy", vmath.V(600, 360))
	a := tk.get(e)
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 5000; i++ {
		switch rng.Intn(3) {
		case 0:
			tk.life.Nourish(a, rng.Float64()*80)
		case 1:
			a.Bio.FeedCooldown = 0
			tk.life.Feed(a, rng)
		default:
			tk.env.Dt = rng.Float64() * 30
			tk.life.Update(a, tk.env)
		}
		if a.Bio.Energy < 0 || a.Bio.Energy > a.Bio.MaxEnergy {
			t.Fatalf("step %d: energy %.3f outside [0, %.0f]", i, a.Bio.Energy, a.Bio.MaxEnergy)
		}
		if a.Vit.Dead {
			break
		}
	}
}

func TestEnergyDecaysByDiet(t *testing.T) {
	tk := newTank(t)
	prey := tk.get(tk.spawn("guppy", vmath.V(100, 100)))
	pred := tk.get(tk.spawn("pike", vmath.V(300, 100)))
	prey.Bio.Energy, pred.Bio.Energy = 50, 50
	tk.env.Dt = 10

	tk.life.Update(prey, tk.env)
	tk.life.Update(pred, tk.env)

	if want := 50 - tk.cfg.Lifecycle.PreyEnergyDecay*10; !approx(prey.Bio.Energy, want) {
		t.Errorf("prey energy = %.3f, want %.3f", prey.Bio.Energy, want)
	}
	if want := 50 - tk.cfg.Lifecycle.PredatorEnergyDecay*10; !approx(pred.Bio.Energy, want) {
		t.Errorf("predator energy = %.3f, want %.3f", pred.Bio.Energy, want)
	}
}

// ---------- Growth ----------

func TestGrowthIsMonotonicAndGrowsUpOnce(t *testing.T) {
	tk := newTank(t)
	a := tk.get(tk.spawn("angelfish", vmath.V(600, 360)))
	a.Bio.Growth = tk.cfg.Lifecycle.JuvenileGrowth
	a.Bio.GrownUp = false

	grewUp := 0
	prev := a.Bio.Growth
	for i := 0; i < 200; i++ {
		if tk.life.Nourish(a, 5) {
			grewUp++
		}
		if a.Bio.Growth < prev {
			t.Fatalf("meal %d: growth fell from %.4f to %.4f", i, prev, a.Bio.Growth)
		}
		if a.Bio.Growth > a.ID.Species.MaxGrowth {
			t.Fatalf("meal %d: growth %.4f exceeds cap %.2f", i, a.Bio.Growth, a.ID.Species.MaxGrowth)
		}
		prev = a.Bio.Growth
	}

	if grewUp != 1 {
		t.Errorf("grew-up reported %d times, want 1", grewUp)
	}
	if !a.Bio.GrownUp {
		t.Error("should be grown up after many meals")
	}
	if a.Bio.Growth != a.ID.Species.MaxGrowth {
		t.Errorf("growth should settle at the cap, got %.4f", a.Bio.Growth)
	}
}

func TestJuvenileMaturesWithinMealBudget(t *testing.T) {
	const budget = 12 // with the default growth_per_meal and growth_overshoot

	for _, id := range []string{"guppy", "neon_tetra", "clownfish", "pufferfish", "angelfish", "pike"} {
		t.Run(id, func(t *testing.T) {
			tk := newTank(t)
			a := tk.get(tk.spawn(id, vmath.V(600, 360)))
			a.Bio.Growth = tk.cfg.Lifecycle.JuvenileGrowth
			a.Bio.GrownUp = false

			meals := 0
			for !a.Bio.GrownUp && meals < 100 {
				tk.life.Nourish(a, 5)
				meals++
			}
			if meals > budget {
				t.Errorf("grew up after %d meals, budget %d", meals, budget)
			}
			if a.Bio.Growth < 1 {
				t.Errorf("grown-up fish at growth %.4f, want adult size", a.Bio.Growth)
			}
		})
	}
}

func TestFeedSetsCooldown(t *testing.T) {
	tk := newTank(t)
	a := tk.get(tk.spawn("guppy", vmath.V(600, 360)))
	a.Bio.Energy = 30

	tk.life.Feed(a, tk.rng)

	lc := tk.cfg.Lifecycle
	if !approx(a.Bio.Energy, 30+lc.FeedEnergy) {
		t.Errorf("energy = %.1f, want %.1f", a.Bio.Energy, 30+lc.FeedEnergy)
	}
	if a.Bio.FeedCooldown < lc.FeedCooldownMin || a.Bio.FeedCooldown > lc.FeedCooldownMax {
		t.Errorf("feed cooldown %.1f outside [%.0f, %.0f]", a.Bio.FeedCooldown, lc.FeedCooldownMin, lc.FeedCooldownMax)
	}
	if a.Bio.Meals != 1 {
		t.Errorf("meals = %d, want 1", a.Bio.Meals)
	}
}

// ---------- Death ----------

func TestDeathCauses(t *testing.T) {
	tests := []struct {
		name  string
		setup func(a *Agent)
		want  components.DeathCause
	}{
		{"old age", func(a *Agent) { a.ID.Lifespan = 10; a.ID.BirthTime = -20 }, components.CauseOldAge},
		{"starved", func(a *Agent) { a.Bio.Energy = 0.0001 }, components.CauseStarved},
		{"healthy", func(a *Agent) {}, components.CauseNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := newTank(t)
			tk.cfg.Lifecycle.IllnessRate = 0
			a := tk.get(tk.spawn("guppy", vmath.V(600, 360)))
			tt.setup(a)

			st, died := tk.life.Update(a, tk.env)
			if st != components.StatusAlive {
				t.Errorf("status = %s, want alive on the tick of death", st)
			}
			if died != (tt.want != components.CauseNone) {
				t.Errorf("died = %v", died)
			}
			if a.Vit.Cause != tt.want {
				t.Errorf("cause = %s, want %s", a.Vit.Cause, tt.want)
			}
		})
	}
}

func TestIllnessCanStrike(t *testing.T) {
	tk := newTank(t)
	tk.cfg.Lifecycle.IllnessRate = 1e6
	a := tk.get(tk.spawn("guppy", vmath.V(600, 360)))

	if _, died := tk.life.Update(a, tk.env); !died {
		t.Fatal("a certain illness should kill")
	}
	if a.Vit.Cause != components.CauseIllness {
		t.Errorf("cause = %s, want SuddenIllness", a.Vit.Cause)
	}
}

func TestDeathHappensOnce(t *testing.T) {
	tk := newTank(t)
	a := tk.get(tk.spawn("guppy", vmath.V(600, 360)))

	if !tk.life.Kill(a, components.CauseStarved, 1) {
		t.Fatal("first kill should succeed")
	}
	if tk.life.Kill(a, components.CauseEaten, 2) {
		t.Error("second kill should be rejected")
	}
	if a.Vit.Cause != components.CauseStarved || a.Vit.DiedAt != 1 {
		t.Errorf("first cause should stick, got %s at %.0f", a.Vit.Cause, a.Vit.DiedAt)
	}
	if a.Vit.Eaten {
		t.Error("a starved agent is not eaten")
	}

	// Dead agents do not die again through Update.
	a.Bio.Energy = 0
	if _, died := tk.life.Update(a, tk.env); died {
		t.Error("dead agent reported a second death")
	}
}

func TestKillReleasesTargets(t *testing.T) {
	tk := newTank(t)
	pike := tk.spawn("pike", vmath.V(600, 360))
	guppy := tk.spawn("guppy", vmath.V(620, 360))
	a := tk.get(pike)
	a.Tgt.Hunt = guppy
	a.Tgt.Food = &components.Food{}
	a.Bio.ChaseTime = 4

	tk.life.Kill(a, components.CauseOldAge, 0)

	if !a.Tgt.Hunt.IsZero() || a.Tgt.Food != nil || a.Bio.ChaseTime != 0 {
		t.Error("a dead agent should hold no targets")
	}
}

// ---------- Drift and fade ----------

func TestCorpseDriftsAndFades(t *testing.T) {
	tk := newTank(t)
	a := tk.get(tk.spawn("guppy", vmath.V(600, 360)))
	tk.life.Kill(a, components.CauseOldAge, 0)
	startY := a.Kin.Pos.Y

	ticks := 0
	for {
		st, _ := tk.life.Update(a, tk.env)
		ticks++
		if st == components.StatusGone {
			break
		}
		if ticks > 10000 {
			t.Fatal("corpse never faded")
		}
	}

	if a.Kin.Pos.Y >= startY {
		t.Errorf("corpse should drift up: y %.1f -> %.1f", startY, a.Kin.Pos.Y)
	}
	want := int(tk.cfg.Lifecycle.FadeDuration / tk.cfg.Physics.DT)
	if ticks < want-1 || ticks > want+2 {
		t.Errorf("fade took %d ticks, want about %d", ticks, want)
	}
}

func TestEatenRemovedImmediately(t *testing.T) {
	tk := newTank(t)
	a := tk.get(tk.spawn("guppy", vmath.V(600, 360)))
	tk.life.Kill(a, components.CauseEaten, 0)

	if st, _ := tk.life.Update(a, tk.env); st != components.StatusEaten {
		t.Errorf("status = %s, want eaten", st)
	}
}

func TestLifespanRanges(t *testing.T) {
	tk := newTank(t)
	guppy, _ := tk.catalog.Get("guppy")
	pike, _ := tk.catalog.Get("pike")
	lc := tk.cfg.Lifecycle

	for i := 0; i < 100; i++ {
		if l := tk.life.DrawLifespan(guppy, tk.rng); l < lc.PreyLifespanMin || l > lc.PreyLifespanMax {
			t.Fatalf("prey lifespan %.0f out of range", l)
		}
		if l := tk.life.DrawLifespan(pike, tk.rng); l < lc.PredatorLifespanMin || l > lc.PredatorLifespanMax {
			t.Fatalf("predator lifespan %.0f out of range", l)
		}
	}
}

func approx(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
