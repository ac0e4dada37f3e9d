package systems

import (
	"testing"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/vmath"
)

// ---------- Food physics ----------

func TestFoodSinksTowardTerminalSpeed(t *testing.T) {
	tk := newTank(t)
	fc := &tk.cfg.Food
	f := &components.Food{Pos: vmath.V(300, 0)}
	foods := []*components.Food{f}

	prevY := f.Pos.Y
	for i := 0; i < 600; i++ {
		UpdateFood(foods, fc, tk.env)
		if f.Pos.Y <= prevY {
			t.Fatalf("tick %d: pellet stopped sinking at y=%.2f", i, f.Pos.Y)
		}
		prevY = f.Pos.Y
	}

	// Terminal speed is where gravity balances drag: g*dt*d/(1-d) with d = exp(-drag*dt),
	// which is close to gravity/drag.
	terminal := fc.Gravity / fc.Drag
	if f.VelY > terminal*1.05 || f.VelY < terminal*0.9 {
		t.Errorf("fall speed %.2f, want about %.2f", f.VelY, terminal)
	}
}

func TestFoodRemovedPastBottom(t *testing.T) {
	tk := newTank(t)
	f := &components.Food{Pos: vmath.V(300, tk.env.Height-0.01), VelY: 30}
	eaten := &components.Food{Pos: vmath.V(100, 100), Eaten: true}
	kept := &components.Food{Pos: vmath.V(200, 100)}
	foods := []*components.Food{f, eaten, kept}

	UpdateFood(foods, &tk.cfg.Food, tk.env)
	if !f.Removed {
		t.Fatal("pellet past the bottom should be removed")
	}

	foods = PruneFood(foods)
	if len(foods) != 1 || foods[0] != kept {
		t.Fatalf("prune kept %d pellets, want only the live one", len(foods))
	}
	if !eaten.Removed {
		t.Error("eaten pellets are marked removed when pruned")
	}
}

// ---------- Chasers and eating ----------

func TestCountChasers(t *testing.T) {
	tk := newTank(t)
	f := &components.Food{Pos: vmath.V(300, 300), Chasers: 7}
	gone := &components.Food{Pos: vmath.V(300, 300), Eaten: true}

	a := tk.spawn("guppy", vmath.V(100, 100))
	b := tk.spawn("guppy", vmath.V(120, 100))
	c := tk.spawn("guppy", vmath.V(140, 100))
	tk.get(a).Tgt.Food = f
	tk.get(b).Tgt.Food = f
	tk.get(c).Tgt.Food = gone

	ResetChasers([]*components.Food{f, gone})
	for _, e := range tk.order {
		CountChaser(tk.get(e))
	}

	if f.Chasers != 2 {
		t.Errorf("chasers = %d, want 2", f.Chasers)
	}
	if tk.get(c).Tgt.Food != nil {
		t.Error("a target on an eaten pellet should be dropped")
	}
}

func TestClaimFoodCapsChasers(t *testing.T) {
	tk := newTank(t)
	limit := tk.cfg.Steering.MaxFoodChasers
	f := &components.Food{Pos: vmath.V(300, 300)}

	var agents []Agent
	for i := 0; i < limit+3; i++ {
		tk.spawn("guppy", vmath.V(100+float64(i)*10, 100))
	}
	for _, e := range tk.order {
		a := tk.get(e)
		a.Tgt.Food = f
		agents = append(agents, *a)
	}

	ClaimFood([]*components.Food{f}, agents, limit)

	if f.Chasers != limit {
		t.Errorf("chasers = %d, want %d", f.Chasers, limit)
	}
	for i, a := range agents {
		kept := a.Tgt.Food == f
		if want := i < limit; kept != want {
			t.Errorf("agent %d kept target = %v, want %v", i, kept, want)
		}
	}
}

func TestCanEat(t *testing.T) {
	tk := newTank(t)
	a := tk.get(tk.spawn("guppy", vmath.V(300, 300)))
	reach := a.Size()*0.5 + tk.cfg.Lifecycle.EatDistance // 6 + 6

	tests := []struct {
		name string
		food components.Food
		want bool
	}{
		{"in reach", components.Food{Pos: vmath.V(300+reach-0.5, 300)}, true},
		{"out of reach", components.Food{Pos: vmath.V(300+reach+0.5, 300)}, false},
		{"eaten", components.Food{Pos: vmath.V(300, 300), Eaten: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tk.life.CanEat(a, &tt.food); got != tt.want {
				t.Errorf("CanEat = %v, want %v", got, tt.want)
			}
		})
	}
}
