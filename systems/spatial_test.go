package systems

import (
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/vmath"
)

// ---------- Neighbor completeness ----------

func TestQueryNearReturnsAllWithinCellSize(t *testing.T) {
	tk := newTank(t)
	rng := rand.New(rand.NewSource(42))
	w, h := tk.cfg.Derived.Width, tk.cfg.Derived.Height

	for i := 0; i < 300; i++ {
		tk.spawn("guppy", vmath.V(rng.Float64()*w, rng.Float64()*h))
	}
	tk.rebuild()

	cell := tk.index.CellSize()
	for q := 0; q < 200; q++ {
		p := vmath.V(rng.Float64()*w, rng.Float64()*h)
		got := make(map[ecs.Entity]bool)
		for _, e := range tk.index.QueryNear(p) {
			got[e.E] = true
		}
		for _, e := range tk.order {
			a := tk.get(e)
			if a.Kin.Pos.Dist(p) <= cell && !got[e] {
				t.Fatalf("query at %v missed agent at %v (dist %.1f <= %.1f)", p, a.Kin.Pos, a.Kin.Pos.Dist(p), cell)
			}
		}
	}
}

func TestQueryNearClampsOutsidePositions(t *testing.T) {
	tk := newTank(t)
	e := tk.spawn("guppy", vmath.V(-50, -50))
	tk.rebuild()

	found := false
	for _, entry := range tk.index.QueryNear(vmath.V(0, 0)) {
		if entry.E == e {
			found = true
		}
	}
	if !found {
		t.Error("agent outside the tank should land in the border cell")
	}
}

// ---------- Insert / Lookup / Clear ----------

func TestInsertSkipsDead(t *testing.T) {
	tk := newTank(t)
	alive := tk.spawn("guppy", vmath.V(100, 100))
	dead := tk.spawn("guppy", vmath.V(110, 100))
	tk.get(dead).Vit.Kill(components.CauseStarved, 0)
	tk.rebuild()

	if tk.index.Len() != 1 {
		t.Errorf("expected 1 indexed agent, got %d", tk.index.Len())
	}
	if _, ok := tk.index.Lookup(dead); ok {
		t.Error("dead agent should not be indexed")
	}
	if _, ok := tk.index.Lookup(alive); !ok {
		t.Error("live agent should be indexed")
	}
}

func TestClearEmptiesIndex(t *testing.T) {
	tk := newTank(t)
	e := tk.spawn("guppy", vmath.V(100, 100))
	tk.rebuild()
	tk.index.Clear()

	if tk.index.Len() != 0 {
		t.Errorf("expected empty index, got %d", tk.index.Len())
	}
	if _, ok := tk.index.Lookup(e); ok {
		t.Error("lookup should fail after clear")
	}
	if n := len(tk.index.QueryNear(vmath.V(100, 100))); n != 0 {
		t.Errorf("expected no neighbors after clear, got %d", n)
	}
}

func TestSnapshotCarriesState(t *testing.T) {
	tk := newTank(t)
	e := tk.spawn("pike", vmath.V(300, 200))
	a := tk.get(e)
	a.Bio.Growth = 0.5
	a.Kin.Vel = vmath.V(3, 4)
	tk.rebuild()

	entry, ok := tk.index.Lookup(e)
	if !ok {
		t.Fatal("expected entry")
	}
	if !entry.Predator() {
		t.Error("pike entry should be a predator")
	}
	if entry.Size != a.ID.Species.AdultSize*0.5 {
		t.Errorf("size = %.2f, want %.2f", entry.Size, a.ID.Species.AdultSize*0.5)
	}
	if entry.Vel != vmath.V(3, 4) {
		t.Errorf("vel = %v", entry.Vel)
	}
}
