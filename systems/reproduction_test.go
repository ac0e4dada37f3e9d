package systems

import (
	"testing"

	"github.com/pthm-cable/shoal/vmath"
)

// ---------- Fertility gates ----------

func TestFertileGates(t *testing.T) {
	tests := []struct {
		name  string
		setup func(a *Agent)
		want  bool
	}{
		{"fertile adult", func(a *Agent) {}, true},
		{"juvenile", func(a *Agent) { a.Bio.GrownUp = false; a.Bio.Growth = 0.5 }, false},
		{"too young", func(a *Agent) { a.ID.BirthTime = -10 }, false},
		{"low energy", func(a *Agent) { a.Bio.Energy = 70 }, false},
		{"on cooldown", func(a *Agent) { a.Bio.ReproCooldown = 5 }, false},
		{"dead", func(a *Agent) { a.Vit.Dead = true }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := newTank(t)
			a := tk.get(tk.spawn("guppy", vmath.V(600, 360)))
			a.Bio.Energy = 90
			tt.setup(a)
			if got := tk.repro.Fertile(a, 0); got != tt.want {
				t.Errorf("Fertile = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPopulationFactorFallsToZero(t *testing.T) {
	tk := newTank(t)
	softCap := tk.cfg.Population.SoftCap

	if f := tk.repro.PopulationFactor(0); f != 1 {
		t.Errorf("empty tank factor = %.3f, want 1", f)
	}
	prev := 1.0
	for pop := 1; pop <= softCap+5; pop++ {
		f := tk.repro.PopulationFactor(pop)
		if f > prev {
			t.Fatalf("factor rose from %.3f to %.3f at %d", prev, f, pop)
		}
		if pop >= softCap && f != 0 {
			t.Fatalf("factor at %d = %.3f, want 0 at or past the cap", pop, f)
		}
		prev = f
	}
}

// ---------- Mating ----------

func fertilePair(t *testing.T) (*tank, *Agent, *Agent) {
	tk := newTank(t)
	ea := tk.spawn("guppy", vmath.V(600, 360))
	eb := tk.spawn("guppy", vmath.V(610, 360))
	a, b := tk.get(ea), tk.get(eb)
	a.Bio.Energy, b.Bio.Energy = 90, 90
	a.Tgt.Mate = eb
	return tk, a, b
}

func TestMateProducesLitter(t *testing.T) {
	tk, a, b := fertilePair(t)
	rc := tk.cfg.Reproduction

	if !tk.repro.InContact(a, b) {
		t.Fatal("pair should be in contact")
	}
	litter, ok := tk.repro.Mate(a, b, 10, 0, tk.rng)
	if !ok {
		t.Fatal("mating should succeed")
	}

	n := len(litter.Positions)
	if n < rc.MinOffspring || n > rc.MaxOffspring {
		t.Errorf("litter size %d outside [%d, %d]", n, rc.MinOffspring, rc.MaxOffspring)
	}
	if litter.Species != a.ID.Species {
		t.Error("litter should share the parents' species")
	}
	mid := vmath.V(605, 360)
	for _, p := range litter.Positions {
		if p.Dist(mid) > rc.SpawnJitter*1.5 {
			t.Errorf("offspring at %v too far from midpoint", p)
		}
	}

	for _, p := range []*Agent{a, b} {
		if !approx(p.Bio.Energy, 90-rc.EnergyCost) {
			t.Errorf("parent energy = %.1f, want %.1f", p.Bio.Energy, 90-rc.EnergyCost)
		}
		if p.Bio.ReproCooldown < rc.CooldownMin || p.Bio.ReproCooldown > rc.CooldownMax {
			t.Errorf("cooldown %.0f outside [%.0f, %.0f]", p.Bio.ReproCooldown, rc.CooldownMin, rc.CooldownMax)
		}
		if p.Bio.Offspring != n {
			t.Errorf("offspring count = %d, want %d", p.Bio.Offspring, n)
		}
		if !p.Tgt.Mate.IsZero() {
			t.Error("mate target should be cleared")
		}
	}

	// Cooldown now blocks a second spawning.
	if _, ok := tk.repro.Mate(a, b, 10, 0, tk.rng); ok {
		t.Error("parents on cooldown should not mate again")
	}
}

func TestMateLitterSizesCoverRange(t *testing.T) {
	seen := map[int]bool{}
	for i := 0; i < 60; i++ {
		tk, a, b := fertilePair(t)
		tk.rng.Seed(int64(i))
		litter, ok := tk.repro.Mate(a, b, 0, 0, tk.rng)
		if !ok {
			t.Fatal("mating should succeed")
		}
		seen[len(litter.Positions)] = true
	}
	for n := 1; n <= 3; n++ {
		if !seen[n] {
			t.Errorf("never produced a litter of %d", n)
		}
	}
}

func TestMateRejections(t *testing.T) {
	tests := []struct {
		name  string
		setup func(tk *tank, a, b *Agent)
		pop   int
	}{
		{"juvenile partner", func(tk *tank, a, b *Agent) { b.Bio.GrownUp = false }, 10},
		{"different species", func(tk *tank, a, b *Agent) {
			sp, _ := tk.catalog.Get("neon_tetra")
			b.ID.Species = sp
		}, 10},
		{"population at cap", func(tk *tank, a, b *Agent) {}, 60},
		{"self", func(tk *tank, a, b *Agent) { *b = *a }, 10},
		{"hungry parent", func(tk *tank, a, b *Agent) { a.Bio.Energy = 40 }, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk, a, b := fertilePair(t)
			tt.setup(tk, a, b)
			energyA := a.Bio.Energy
			if _, ok := tk.repro.Mate(a, b, tt.pop, 0, tk.rng); ok {
				t.Error("mating should be refused")
			}
			if a.Bio.Energy != energyA || a.Bio.ReproCooldown != 0 {
				t.Error("a refused mating must not charge the parents")
			}
		})
	}
}
