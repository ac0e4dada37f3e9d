package systems

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/vmath"
)

// stubBehavior records calls and returns a fixed force.
type stubBehavior struct {
	name   string
	mode   Mode
	force  vmath.Vec2
	active bool
	calls  int
}

func (b *stubBehavior) Name() string { return b.name }
func (b *stubBehavior) Mode() Mode   { return b.mode }

func (b *stubBehavior) Steer(*Agent, *Sense, *Env) (vmath.Vec2, bool) {
	b.calls++
	return b.force, b.active
}

// ---------- Precedence ----------

func TestFirstActiveOverrideWins(t *testing.T) {
	tk := newTank(t)
	e := tk.spawn("guppy", vmath.V(600, 360))
	tk.rebuild()

	wall := &stubBehavior{name: "wall", mode: ModeConstraint, force: vmath.V(1, 0), active: true}
	idle := &stubBehavior{name: "idle", mode: ModeOverride, force: vmath.V(0, 9), active: false}
	win := &stubBehavior{name: "win", mode: ModeOverride, force: vmath.V(0, 2), active: true}
	late := &stubBehavior{name: "late", mode: ModeOverride, force: vmath.V(0, 50), active: true}
	amb := &stubBehavior{name: "amb", mode: ModeAmbient, force: vmath.V(5, 5), active: true}

	ctrl := NewControllerWithChain(tk.cfg, []Behavior{wall, idle, win, late, amb})
	res := ctrl.Steer(tk.get(e), tk.env)

	if res.Active != "win" {
		t.Errorf("active = %q, want win", res.Active)
	}
	if res.Accel != vmath.V(1, 2) {
		t.Errorf("accel = %v, want (1, 2)", res.Accel)
	}
	if late.calls != 0 {
		t.Error("overrides after the winner should not run")
	}
	if amb.calls != 0 {
		t.Error("ambient behaviors should be suppressed by an override")
	}
}

func TestAmbientBlendsWhenIdle(t *testing.T) {
	tk := newTank(t)
	e := tk.spawn("guppy", vmath.V(600, 360))
	tk.rebuild()

	wall := &stubBehavior{name: "wall", mode: ModeConstraint, force: vmath.V(1, 0), active: true}
	idle := &stubBehavior{name: "idle", mode: ModeOverride, active: false}
	flock := &stubBehavior{name: "flock", mode: ModeAmbient, force: vmath.V(2, 1), active: true}
	wander := &stubBehavior{name: "wander", mode: ModeAmbient, force: vmath.V(0, 3), active: true}

	ctrl := NewControllerWithChain(tk.cfg, []Behavior{wall, idle, flock, wander})
	res := ctrl.Steer(tk.get(e), tk.env)

	if res.Active != "" {
		t.Errorf("active = %q, want empty", res.Active)
	}
	if res.Accel != vmath.V(3, 4) {
		t.Errorf("accel = %v, want (3, 4)", res.Accel)
	}
}

func TestDefaultChainOrder(t *testing.T) {
	tk := newTank(t)
	want := []string{"wall", "territorial", "flee", "food", "hunt", "mate", "flock", "wander"}
	chain := tk.ctrl.Chain()
	if len(chain) != len(want) {
		t.Fatalf("chain has %d behaviors, want %d", len(chain), len(want))
	}
	for i, b := range chain {
		if b.Name() != want[i] {
			t.Errorf("chain[%d] = %s, want %s", i, b.Name(), want[i])
		}
	}
}

// ---------- Wall avoidance ----------

func TestWallPushesInward(t *testing.T) {
	tk := newTank(t)
	left := tk.spawn("guppy", vmath.V(5, 360))
	bottom := tk.spawn("guppy", vmath.V(640, 715))
	tk.rebuild()

	if res := tk.steer(left); res.Accel.X <= 0 {
		t.Errorf("agent at the left wall should accelerate right, got %v", res.Accel)
	}
	if res := tk.steer(bottom); res.Accel.Y >= 0 {
		t.Errorf("agent at the bottom should accelerate up, got %v", res.Accel)
	}
}

// ---------- Flee ----------

func TestFleeBoostsAwayFromPredator(t *testing.T) {
	tk := newTank(t)
	prey := tk.spawn("guppy", vmath.V(600, 360))
	tk.spawn("pike", vmath.V(640, 360))
	tk.rebuild()

	res := tk.steer(prey)
	if res.Active != "flee" {
		t.Fatalf("active = %q, want flee", res.Active)
	}
	if res.Accel.X >= 0 {
		t.Errorf("should accelerate away from the predator, got %v", res.Accel)
	}
	base := tk.get(prey).ID.Species.BaseSpeed
	if res.SpeedLimit <= base {
		t.Errorf("speed limit %.1f should exceed base %.1f while fleeing", res.SpeedLimit, base)
	}
	if res.SpeedLimit > base*tk.cfg.Steering.FleeMaxBoost {
		t.Errorf("speed limit %.1f exceeds max boost", res.SpeedLimit)
	}
	if !res.Darting {
		t.Error("healthy prey should dart")
	}
}

func TestFleeWeakerOnLowEnergy(t *testing.T) {
	tk := newTank(t)
	strong := tk.spawn("guppy", vmath.V(600, 360))
	weak := tk.spawn("guppy", vmath.V(600, 400))
	tk.spawn("pike", vmath.V(640, 380))
	tk.get(weak).Bio.Energy = 5
	tk.rebuild()

	rs := tk.steer(strong)
	rw := tk.steer(weak)
	if rw.Active != "flee" {
		t.Fatalf("weak prey should still flee, got %q", rw.Active)
	}
	if rw.Darting {
		t.Error("low-energy prey should not dart")
	}
	if rw.SpeedLimit >= rs.SpeedLimit {
		t.Errorf("weak flee speed %.1f should be below strong %.1f", rw.SpeedLimit, rs.SpeedLimit)
	}
}

func TestExhaustedFleeHasNoBurst(t *testing.T) {
	tk := newTank(t)
	strong := tk.spawn("guppy", vmath.V(600, 360))
	weak := tk.spawn("guppy", vmath.V(600, 370))
	tk.spawn("pike", vmath.V(615, 365))
	tk.get(weak).Bio.Energy = 5
	tk.rebuild()

	sc := tk.cfg.Steering
	base := tk.get(weak).ID.Species.BaseSpeed
	ceiling := base * (1 - sc.LowEnergySlowdown) * sc.LowEnergyFleeBoost

	rs := tk.steer(strong)
	rw := tk.steer(weak)
	if rw.Active != "flee" {
		t.Fatalf("weak prey should still flee, got %q", rw.Active)
	}
	if rw.SpeedLimit > ceiling+1e-9 {
		t.Errorf("exhausted flee speed %.1f exceeds %.1f", rw.SpeedLimit, ceiling)
	}
	if rs.SpeedLimit <= base*sc.LowEnergyFleeBoost {
		t.Errorf("healthy flee speed %.1f should burst past %.1f at close range", rs.SpeedLimit, base*sc.LowEnergyFleeBoost)
	}
}

func TestFleeIgnoresDistantPredator(t *testing.T) {
	tk := newTank(t)
	prey := tk.spawn("guppy", vmath.V(600, 360))
	tk.spawn("pike", vmath.V(600+tk.cfg.Steering.FleeRadius+5, 360))
	tk.rebuild()

	if res := tk.steer(prey); res.Active == "flee" {
		t.Error("predator outside flee radius should be ignored")
	}
}

// ---------- Food ----------

func TestFoodTargetIsSticky(t *testing.T) {
	tk := newTank(t)
	e := tk.spawn("guppy", vmath.V(600, 360))
	tk.rebuild()

	cur := &components.Food{ID: 1, Pos: vmath.V(700, 360)}
	slightlyCloser := &components.Food{ID: 2, Pos: vmath.V(510, 360)}
	tk.env.Foods = []*components.Food{cur, slightlyCloser}
	tk.get(e).Tgt.Food = cur

	if res := tk.steer(e); res.Active != "food" {
		t.Fatalf("active = %q, want food", res.Active)
	}
	if tk.get(e).Tgt.Food != cur {
		t.Error("a pellet only 10% closer should not steal the target")
	}

	muchCloser := &components.Food{ID: 3, Pos: vmath.V(530, 360)}
	tk.env.Foods = append(tk.env.Foods, muchCloser)
	tk.steer(e)
	if tk.get(e).Tgt.Food != muchCloser {
		t.Error("a pellet 30% closer should replace the target")
	}
}

func TestFoodRespectsChaserCap(t *testing.T) {
	tk := newTank(t)
	e := tk.spawn("guppy", vmath.V(600, 360))
	tk.rebuild()

	crowded := &components.Food{ID: 1, Pos: vmath.V(620, 360), Chasers: tk.cfg.Steering.MaxFoodChasers}
	free := &components.Food{ID: 2, Pos: vmath.V(700, 360)}
	tk.env.Foods = []*components.Food{crowded, free}

	tk.steer(e)
	if tk.get(e).Tgt.Food != free {
		t.Error("should skip a pellet that already has the maximum number of chasers")
	}
}

func TestStickyFoodTargetDroppedWhenOverCap(t *testing.T) {
	tk := newTank(t)
	e := tk.spawn("guppy", vmath.V(600, 360))
	tk.rebuild()

	// The count includes this agent's own claim.
	over := &components.Food{ID: 1, Pos: vmath.V(620, 360), Chasers: tk.cfg.Steering.MaxFoodChasers + 1}
	free := &components.Food{ID: 2, Pos: vmath.V(700, 360)}
	tk.env.Foods = []*components.Food{over, free}
	tk.get(e).Tgt.Food = over

	tk.steer(e)
	if tk.get(e).Tgt.Food != free {
		t.Error("a held target over the chaser cap should be given up")
	}

	atCap := &components.Food{ID: 3, Pos: vmath.V(620, 360), Chasers: tk.cfg.Steering.MaxFoodChasers}
	tk.env.Foods = []*components.Food{atCap, free}
	tk.get(e).Tgt.Food = atCap
	tk.steer(e)
	if tk.get(e).Tgt.Food != atCap {
		t.Error("a held target at the cap counts this agent and should be kept")
	}
}

func TestFoodWaitsForCooldown(t *testing.T) {
	tk := newTank(t)
	e := tk.spawn("guppy", vmath.V(600, 360))
	tk.get(e).Bio.FeedCooldown = 3
	tk.rebuild()
	tk.env.Foods = []*components.Food{{ID: 1, Pos: vmath.V(620, 360)}}

	if res := tk.steer(e); res.Active == "food" {
		t.Error("should not seek food during the feeding cooldown")
	}
	if tk.get(e).Tgt.Food != nil {
		t.Error("food target should be cleared during cooldown")
	}
}

// ---------- Hunt ----------

func TestPredatorPrefersHuntOverPellets(t *testing.T) {
	tk := newTank(t)
	pike := tk.spawn("pike", vmath.V(600, 360))
	guppy := tk.spawn("guppy", vmath.V(680, 360))
	tk.get(pike).Bio.Energy = 30
	tk.rebuild()
	tk.env.Foods = []*components.Food{{ID: 1, Pos: vmath.V(620, 360)}}

	res := tk.steer(pike)
	if res.Active != "hunt" {
		t.Fatalf("active = %q, want hunt", res.Active)
	}
	if tk.get(pike).Tgt.Hunt != guppy {
		t.Error("hunt target should be the guppy")
	}
	if res.SpeedLimit <= tk.get(pike).ID.Species.BaseSpeed {
		t.Error("hunting should raise the speed limit")
	}
}

func TestPredatorEatsPelletsWithoutPrey(t *testing.T) {
	tk := newTank(t)
	pike := tk.spawn("pike", vmath.V(600, 360))
	tk.get(pike).Bio.Energy = 30
	tk.rebuild()
	tk.env.Foods = []*components.Food{{ID: 1, Pos: vmath.V(620, 360)}}

	if res := tk.steer(pike); res.Active != "food" {
		t.Errorf("active = %q, want food", res.Active)
	}
}

func TestPredatorIgnoresPelletsWhenFed(t *testing.T) {
	tk := newTank(t)
	pike := tk.spawn("pike", vmath.V(600, 360))
	tk.get(pike).Bio.Energy = 90
	tk.rebuild()
	tk.env.Foods = []*components.Food{{ID: 1, Pos: vmath.V(620, 360)}}

	if res := tk.steer(pike); res.Active == "food" {
		t.Error("a well-fed predator should not chase pellets")
	}
}

func TestHuntIgnoresLargePrey(t *testing.T) {
	tk := newTank(t)
	pike := tk.spawn("pike", vmath.V(600, 360))
	tk.spawn("guppy", vmath.V(650, 360))
	p := tk.get(pike)
	p.Bio.Energy = 30
	p.Bio.Growth = 0.3 // 11.4 body, guppy at 12 is too big
	tk.rebuild()

	if res := tk.steer(pike); res.Active == "hunt" {
		t.Error("prey at or above the size ratio should not be hunted")
	}
	if !tk.get(pike).Tgt.Hunt.IsZero() {
		t.Error("hunt target should be empty")
	}
}

func TestHuntWaitsForDigestion(t *testing.T) {
	tk := newTank(t)
	pike := tk.spawn("pike", vmath.V(600, 360))
	tk.spawn("guppy", vmath.V(650, 360))
	p := tk.get(pike)
	p.Bio.Energy = 40
	p.Bio.HuntCooldown = 100
	tk.rebuild()

	if res := tk.steer(pike); res.Active == "hunt" {
		t.Error("should not hunt while digesting")
	}

	tk.get(pike).Bio.Energy = tk.cfg.Lifecycle.CriticalHunger - 1
	tk.rebuild()
	if res := tk.steer(pike); res.Active != "hunt" {
		t.Errorf("critical hunger should override digestion, got %q", res.Active)
	}
}

func TestHuntTargetHysteresis(t *testing.T) {
	tk := newTank(t)
	pike := tk.spawn("pike", vmath.V(600, 360))
	far := tk.spawn("guppy", vmath.V(760, 360)) // beyond hunt radius, inside hysteresis
	tk.get(pike).Bio.Energy = 30
	tk.get(pike).Tgt.Hunt = far
	tk.rebuild()

	tk.steer(pike)
	if tk.get(pike).Tgt.Hunt != far {
		t.Error("current target inside the hysteresis radius should be kept")
	}
}

// ---------- Territorial ----------

func TestTerritorialReplacesHunt(t *testing.T) {
	tk := newTank(t)
	a := tk.spawn("pike", vmath.V(600, 360))
	b := tk.spawn("barracuda", vmath.V(680, 360))
	prey := tk.spawn("guppy", vmath.V(560, 360))
	tk.get(a).Bio.Energy = 30
	tk.get(a).Tgt.Hunt = prey
	tk.rebuild()

	res := tk.steer(a)
	if res.Active != "territorial" {
		t.Fatalf("active = %q, want territorial", res.Active)
	}
	got := tk.get(a)
	if got.Tgt.Rival != b {
		t.Error("rival should be the nearby predator")
	}
	if !got.Tgt.Hunt.IsZero() {
		t.Error("hunt target must be cleared while a rival is engaged")
	}
}

func TestTerritorialDuelTimesOut(t *testing.T) {
	tk := newTank(t)
	a := tk.spawn("pike", vmath.V(600, 360))
	b := tk.spawn("barracuda", vmath.V(680, 360))
	tk.spawn("guppy", vmath.V(560, 360))
	p := tk.get(a)
	p.Bio.Energy = 30
	p.Tgt.Rival = b
	p.Bio.DuelTime = tk.cfg.Steering.TerritorialDuration
	tk.rebuild()

	res := tk.steer(a)
	if res.Active == "territorial" {
		t.Fatal("duel should have ended")
	}
	got := tk.get(a)
	if got.Bio.DuelCooldown != tk.cfg.Steering.TerritorialCooldown {
		t.Errorf("duel cooldown = %.1f, want %.1f", got.Bio.DuelCooldown, tk.cfg.Steering.TerritorialCooldown)
	}
	if !got.Tgt.Rival.IsZero() {
		t.Error("rival should be cleared after the duel")
	}
	if res.Active != "hunt" {
		t.Errorf("after the duel the predator should hunt, got %q", res.Active)
	}
}

func TestTerritorialNeedsHunger(t *testing.T) {
	tk := newTank(t)
	a := tk.spawn("pike", vmath.V(600, 360))
	tk.spawn("barracuda", vmath.V(680, 360))
	tk.get(a).Bio.Energy = 95
	tk.rebuild()

	if res := tk.steer(a); res.Active == "territorial" {
		t.Error("a fed predator should not duel")
	}
}

// ---------- Mate ----------

func TestMateSeekFindsFertilePartner(t *testing.T) {
	tk := newTank(t)
	tk.cfg.Steering.MateChance = 1
	a := tk.spawn("guppy", vmath.V(600, 360))
	b := tk.spawn("guppy", vmath.V(650, 360))
	tk.spawn("neon_tetra", vmath.V(610, 360))
	for _, e := range tk.order {
		tk.get(e).Bio.Energy = 90
	}
	tk.rebuild()

	res := tk.steer(a)
	if res.Active != "mate" {
		t.Fatalf("active = %q, want mate", res.Active)
	}
	if tk.get(a).Tgt.Mate != b {
		t.Error("partner should be the other guppy, not a different species")
	}
}

func TestMateSeekSkipsJuveniles(t *testing.T) {
	tk := newTank(t)
	tk.cfg.Steering.MateChance = 1
	a := tk.spawn("guppy", vmath.V(600, 360))
	b := tk.spawn("guppy", vmath.V(650, 360))
	tk.get(a).Bio.Energy = 90
	juv := tk.get(b)
	juv.Bio.Energy = 90
	juv.Bio.Growth = 0.4
	juv.Bio.GrownUp = false
	tk.rebuild()

	if res := tk.steer(a); res.Active == "mate" {
		t.Error("should not court a juvenile")
	}
}

// ---------- Speed modulation ----------

func TestSpeedCapModifiers(t *testing.T) {
	tk := newTank(t)
	e := tk.spawn("guppy", vmath.V(600, 360))
	tk.rebuild()
	base := tk.steer(e).SpeedLimit

	tk.env.Drowsiness = 1
	night := tk.steer(e).SpeedLimit
	if night >= base {
		t.Errorf("night speed %.1f should be below day %.1f", night, base)
	}
	tk.env.Drowsiness = 0

	tk.env.HasCursor = true
	tk.env.Cursor = vmath.V(600, 360)
	cursor := tk.steer(e).SpeedLimit
	if cursor >= base {
		t.Errorf("speed under the cursor %.1f should be below %.1f", cursor, base)
	}
}

// ---------- Order independence ----------

// buildScene fills a tank with a deterministic mix of prey, predators and pellets.
func buildScene(t *testing.T) *tank {
	tk := newTank(t)
	rng := rand.New(rand.NewSource(99))
	ids := []string{"guppy", "neon_tetra", "clownfish", "angelfish", "pike", "barracuda"}
	for i := 0; i < 80; i++ {
		tk.spawn(ids[rng.Intn(len(ids))], vmath.V(rng.Float64()*1280, rng.Float64()*720))
	}
	for _, e := range tk.order {
		a := tk.get(e)
		a.Bio.Energy = 10 + rng.Float64()*85
		a.Kin.Vel = vmath.V(rng.Float64()*20-10, rng.Float64()*20-10)
	}
	for i := 0; i < 10; i++ {
		tk.env.Foods = append(tk.env.Foods, &components.Food{ID: uint32(i), Pos: vmath.V(rng.Float64()*1280, rng.Float64()*720)})
	}
	tk.cfg.Steering.MateChance = 1
	tk.env.Time = 500
	tk.rebuild()
	return tk
}

func TestSteeringIsOrderIndependent(t *testing.T) {
	fwd := buildScene(t)
	rev := buildScene(t)

	n := len(fwd.order)
	fwdRes := make([]Result, n)
	revRes := make([]Result, n)
	for i := 0; i < n; i++ {
		fwdRes[i] = fwd.steer(fwd.order[i])
	}
	for i := n - 1; i >= 0; i-- {
		revRes[i] = rev.steer(rev.order[i])
	}

	for i := 0; i < n; i++ {
		if fwdRes[i] != revRes[i] {
			t.Fatalf("agent %d: forward %+v != reverse %+v", i, fwdRes[i], revRes[i])
		}
		fa, ra := fwd.get(fwd.order[i]), rev.get(rev.order[i])
		if fa.Tgt.Hunt != ra.Tgt.Hunt || fa.Tgt.Mate != ra.Tgt.Mate || fa.Tgt.Rival != ra.Tgt.Rival {
			t.Fatalf("agent %d: targets differ between update orders", i)
		}
		if (fa.Tgt.Food == nil) != (ra.Tgt.Food == nil) || (fa.Tgt.Food != nil && fa.Tgt.Food.ID != ra.Tgt.Food.ID) {
			t.Fatalf("agent %d: food targets differ between update orders", i)
		}
	}
}

// ---------- Integration ----------

func TestIntegrateRespectsSpeedLimitAndBounds(t *testing.T) {
	tk := newTank(t)
	e := tk.spawn("guppy", vmath.V(2, 2))
	a := tk.get(e)
	a.Kin.Vel = vmath.V(-100, -100)
	a.Kin.Accel = vmath.V(-500, 0)
	a.Kin.SpeedLimit = 40

	Integrate(a, tk.env)

	if s := a.Kin.Vel.Len(); s > 40+1e-9 {
		t.Errorf("speed %.2f exceeds limit", s)
	}
	if a.Kin.Pos.X < 0 || a.Kin.Pos.Y < 0 {
		t.Errorf("position %v left the tank", a.Kin.Pos)
	}
}
