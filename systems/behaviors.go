package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/vmath"
)

// WallAvoid pushes agents back toward the tank interior.
// The push ramps from zero at the soft margin to full strength at the hard margin.
type WallAvoid struct {
	cfg *config.SteeringConfig
}

func (b *WallAvoid) Name() string { return "wall" }
func (b *WallAvoid) Mode() Mode   { return ModeConstraint }

func (b *WallAvoid) Steer(a *Agent, _ *Sense, env *Env) (vmath.Vec2, bool) {
	p := a.Kin.Pos
	var f vmath.Vec2
	f.X += b.push(p.X)
	f.X -= b.push(env.Width - p.X)
	f.Y += b.push(p.Y)
	f.Y -= b.push(env.Height - p.Y)
	if f.IsZero() {
		return f, false
	}
	return f.Scale(b.cfg.WallForce).Limit(b.cfg.WallForce), true
}

// push maps a distance from a wall to a 0..1 urgency.
func (b *WallAvoid) push(d float64) float64 {
	soft, hard := b.cfg.WallSoftMargin, b.cfg.WallHardMargin
	if d >= soft {
		return 0
	}
	return vmath.Clamp01((soft - d) / (soft - hard))
}

// Territorial makes a hunting-ready predator circle the nearest rival predator instead
// of feeding or flocking. A duel lasts at most TerritorialDuration seconds and is followed
// by a cooldown during which rivals are ignored.
type Territorial struct {
	cfg  *config.SteeringConfig
	life *config.LifecycleConfig
}

func (b *Territorial) Name() string { return "territorial" }
func (b *Territorial) Mode() Mode   { return ModeOverride }

func (b *Territorial) Steer(a *Agent, s *Sense, env *Env) (vmath.Vec2, bool) {
	if !a.Predator() {
		return vmath.Vec2{}, false
	}
	bio, tgt := a.Bio, a.Tgt
	if bio.DuelCooldown > 0 || !huntReady(bio, b.life) {
		b.endDuel(a, false)
		return vmath.Vec2{}, false
	}

	rival, ok := b.pickRival(a, s, env)
	if !ok {
		b.endDuel(a, false)
		return vmath.Vec2{}, false
	}

	if rival.E != tgt.Rival {
		bio.DuelTime = 0
	}
	tgt.Rival = rival.E
	tgt.ClearHunt(bio)
	tgt.Food = nil

	bio.DuelTime += env.Dt
	if bio.DuelTime > b.cfg.TerritorialDuration {
		b.endDuel(a, true)
		return vmath.Vec2{}, false
	}

	// Orbit the rival at a keep-away radius.
	d := rival.Pos.Sub(a.Kin.Pos)
	dist := d.Len()
	keep := b.cfg.TerritorialRange * 0.6
	dir := d.PerpCCW().Normalize().Add(d.Normalize().Scale((dist - keep) / b.cfg.TerritorialRange))
	return seek(dir, s.MaxSpeed, a.Kin.Vel, b.cfg.TerritorialForce), true
}

func (b *Territorial) pickRival(a *Agent, s *Sense, env *Env) (Entry, bool) {
	rng := b.cfg.TerritorialRange
	if cur, ok := env.Index.Lookup(a.Tgt.Rival); ok && cur.Predator() {
		if cur.Pos.DistSq(a.Kin.Pos) < rng*rng*1.69 {
			return cur, true
		}
	}

	var best Entry
	bestD := rng * rng
	found := false
	for _, n := range s.Neighbors {
		if !n.Predator() {
			continue
		}
		if d := n.Pos.DistSq(a.Kin.Pos); d < bestD {
			best, bestD, found = n, d, true
		}
	}
	return best, found
}

func (b *Territorial) endDuel(a *Agent, cooldown bool) {
	if a.Tgt.Rival.IsZero() {
		return
	}
	a.Tgt.Rival = ecs.Entity{}
	a.Bio.DuelTime = 0
	if cooldown {
		a.Bio.DuelCooldown = b.cfg.TerritorialCooldown
	}
}

// Flee steers prey away from nearby predators, weighting closer threats more.
// Urgency scales speed and turning force up to FleeMaxBoost; a low-energy fish
// flees more weakly and cannot dart.
type Flee struct {
	cfg  *config.SteeringConfig
	life *config.LifecycleConfig
}

func (b *Flee) Name() string { return "flee" }
func (b *Flee) Mode() Mode   { return ModeOverride }

func (b *Flee) Steer(a *Agent, s *Sense, _ *Env) (vmath.Vec2, bool) {
	if a.Predator() {
		return vmath.Vec2{}, false
	}
	pos := a.Kin.Pos
	r2 := b.cfg.FleeRadius * b.cfg.FleeRadius

	var away vmath.Vec2
	nearest := math.Inf(1)
	for _, n := range s.Neighbors {
		if !n.Predator() {
			continue
		}
		d2 := pos.DistSq(n.Pos)
		if d2 >= r2 {
			continue
		}
		d := math.Sqrt(d2)
		if d < nearest {
			nearest = d
		}
		if d == 0 {
			continue
		}
		away = away.Add(pos.Sub(n.Pos).Scale(1 / (d * d)))
	}
	if math.IsInf(nearest, 1) {
		return vmath.Vec2{}, false
	}
	if away.IsZero() {
		away = vmath.FromAngle(a.Kin.Heading)
	}

	urgency := 1 - nearest/b.cfg.FleeRadius
	boost := 1 + (b.cfg.FleeMaxBoost-1)*urgency
	force := b.cfg.FleeForce
	if a.Bio.Energy < b.life.LowEnergy {
		boost = min(1+(boost-1)*b.cfg.LowEnergyFleeFactor, b.cfg.LowEnergyFleeBoost)
		force *= b.cfg.LowEnergyFleeFactor
	} else {
		s.Darting = true
	}
	s.Boost = boost
	a.Tgt.Food = nil

	return seek(away, s.MaxSpeed*boost, a.Kin.Vel, force*boost), true
}

// FoodSeek chases falling pellets. Targets are sticky: a new pellet only replaces the
// current one if it is clearly closer. Predators only eat pellets when hungry and no
// hunt is on offer.
type FoodSeek struct {
	cfg  *config.SteeringConfig
	life *config.LifecycleConfig
}

func (b *FoodSeek) Name() string { return "food" }
func (b *FoodSeek) Mode() Mode   { return ModeOverride }

func (b *FoodSeek) Steer(a *Agent, s *Sense, env *Env) (vmath.Vec2, bool) {
	bio, tgt := a.Bio, a.Tgt
	if !tgt.Rival.IsZero() || bio.FeedCooldown > 0 {
		tgt.Food = nil
		return vmath.Vec2{}, false
	}
	if a.Predator() {
		if bio.Energy >= b.life.HungerThreshold || huntPreferred(a, s, env) {
			tgt.Food = nil
			return vmath.Vec2{}, false
		}
	}

	food := b.pickFood(a, env)
	tgt.Food = food
	if food == nil {
		return vmath.Vec2{}, false
	}

	return seek(food.Pos.Sub(a.Kin.Pos), s.MaxSpeed, a.Kin.Vel, b.cfg.FoodForce), true
}

func (b *FoodSeek) pickFood(a *Agent, env *Env) *components.Food {
	pos := a.Kin.Pos
	r2 := b.cfg.FoodSearchRadius * b.cfg.FoodSearchRadius

	// cur's own claim is already in its chaser count.
	cur := a.Tgt.Food
	curD := math.Inf(1)
	if cur.Available() && cur.Chasers <= b.cfg.MaxFoodChasers {
		curD = pos.DistSq(cur.Pos)
		if curD > r2 {
			cur, curD = nil, math.Inf(1)
		}
	} else {
		cur = nil
	}

	var cand *components.Food
	candD := r2
	for _, f := range env.Foods {
		if !f.Available() || f == cur {
			continue
		}
		if f.Chasers >= b.cfg.MaxFoodChasers {
			continue
		}
		if d := pos.DistSq(f.Pos); d < candD {
			cand, candD = f, d
		}
	}

	switch {
	case cur == nil:
		return cand
	case cand != nil && closerBy(candD, curD, b.cfg.Stickiness):
		return cand
	default:
		return cur
	}
}

// Hunt pursues a smaller prey fish. Commitment grows as the gap closes: steering force
// and speed rise continuously toward HuntMaxBoost at contact.
type Hunt struct {
	cfg  *config.SteeringConfig
	life *config.LifecycleConfig
}

func (b *Hunt) Name() string { return "hunt" }
func (b *Hunt) Mode() Mode   { return ModeOverride }

func (b *Hunt) Steer(a *Agent, s *Sense, env *Env) (vmath.Vec2, bool) {
	if !a.Predator() {
		return vmath.Vec2{}, false
	}
	bio, tgt := a.Bio, a.Tgt
	if !tgt.Rival.IsZero() || !huntReady(bio, b.life) {
		tgt.ClearHunt(bio)
		return vmath.Vec2{}, false
	}

	prey, ok := selectPrey(a, s, env)
	if !ok {
		tgt.ClearHunt(bio)
		return vmath.Vec2{}, false
	}
	if prey.E != tgt.Hunt {
		tgt.ClearHunt(bio)
		tgt.Hunt = prey.E
	}

	d := prey.Pos.Sub(a.Kin.Pos)
	dist := d.Len()
	commit := 1 - vmath.Clamp01(dist/b.cfg.HuntRadius)
	boost := 1 + (b.cfg.HuntMaxBoost-1)*commit
	s.Boost = boost
	s.Darting = commit > 0.5

	// Lead the prey by the time needed to close the gap, capped at half a second.
	speed := s.MaxSpeed * boost
	lead := 0.0
	if speed > 0 {
		lead = math.Min(dist/speed, 0.5)
	}
	aim := prey.Pos.Add(prey.Vel.Scale(lead)).Sub(a.Kin.Pos)

	return seek(aim, speed, a.Kin.Vel, b.cfg.HuntForce*(1+commit)), true
}

// MateSeek steers a fertile fish toward a fertile partner of the same species.
// Partners are looked for every MateCheckInterval seconds with a probability that
// falls to zero as the tank fills up.
type MateSeek struct {
	cfg   *config.SteeringConfig
	repro *Reproduction
}

func (b *MateSeek) Name() string { return "mate" }
func (b *MateSeek) Mode() Mode   { return ModeOverride }

func (b *MateSeek) Steer(a *Agent, s *Sense, env *Env) (vmath.Vec2, bool) {
	tgt := a.Tgt
	if !b.repro.Fertile(a, env.Time) {
		tgt.Mate = ecs.Entity{}
		return vmath.Vec2{}, false
	}

	partner, ok := env.Index.Lookup(tgt.Mate)
	if !ok || !partner.Fertile || partner.Species != a.ID.Species {
		tgt.Mate = ecs.Entity{}
		partner, ok = b.scan(a, s, env)
		if !ok {
			return vmath.Vec2{}, false
		}
		tgt.Mate = partner.E
	}

	d := partner.Pos.Sub(a.Kin.Pos)
	dist := d.Len()
	contact := (a.Size() + partner.Size) * 3
	speed := s.MaxSpeed * vmath.Clamp(dist/contact, 0.3, 1)
	return seek(d, speed, a.Kin.Vel, b.cfg.MateForce), true
}

// scan looks for the nearest fertile partner once the mate timer has run out.
func (b *MateSeek) scan(a *Agent, s *Sense, env *Env) (Entry, bool) {
	if a.Bio.MateCheck > 0 {
		return Entry{}, false
	}
	a.Bio.MateCheck = b.cfg.MateCheckInterval
	p := b.cfg.MateChance * b.repro.PopulationFactor(env.Population)
	if a.Wan.Rng.Float64() >= p {
		return Entry{}, false
	}

	var best Entry
	bestD := b.cfg.MateScanRadius * b.cfg.MateScanRadius
	found := false
	for _, n := range s.Neighbors {
		if !n.Fertile || n.Species != a.ID.Species {
			continue
		}
		if d := n.Pos.DistSq(a.Kin.Pos); d < bestD {
			best, bestD, found = n, d, true
		}
	}
	return best, found
}

// Flock applies separation, alignment and cohesion with same-species neighbors.
// Separation also keeps a fish clear of any same-size or larger neighbor.
type Flock struct {
	cfg *config.SteeringConfig
}

func (b *Flock) Name() string { return "flock" }
func (b *Flock) Mode() Mode   { return ModeAmbient }

func (b *Flock) Steer(a *Agent, s *Sense, _ *Env) (vmath.Vec2, bool) {
	pos, vel := a.Kin.Pos, a.Kin.Vel
	size := a.Size()
	fr2 := b.cfg.FlockRadius * b.cfg.FlockRadius
	maxF := b.cfg.FlockForce
	cruise := s.Cruise(b.cfg)

	var sep, avgVel, center vmath.Vec2
	mates := 0
	for _, n := range s.Neighbors {
		d2 := pos.DistSq(n.Pos)
		personal := b.cfg.SeparationRadius + (size+n.Size)*0.5
		if n.Size >= size && d2 < personal*personal && d2 > 0 {
			sep = sep.Add(pos.Sub(n.Pos).Scale(1 / d2))
		}
		if n.Species != a.ID.Species || d2 >= fr2 {
			continue
		}
		avgVel = avgVel.Add(n.Vel)
		center = center.Add(n.Pos)
		mates++
	}

	var f vmath.Vec2
	if !sep.IsZero() {
		f = f.Add(seek(sep, cruise, vel, maxF).Scale(b.cfg.SeparationWeight))
	}
	if mates > 0 {
		inv := 1 / float64(mates)
		f = f.Add(seek(avgVel.Scale(inv), cruise, vel, maxF).Scale(b.cfg.AlignmentWeight))
		f = f.Add(seek(center.Scale(inv).Sub(pos), cruise, vel, maxF).Scale(b.cfg.CohesionWeight))
	}
	if f.IsZero() {
		return f, false
	}
	return f.Limit(maxF), true
}

// Wander meanders along a heading drawn from a shared noise field. Each agent samples
// the field at its own offset, so neighbors drift independently. Two decorrelated
// samples give a direction, which keeps headings spread evenly around the circle.
type Wander struct {
	cfg *config.SteeringConfig
}

const wanderDecorrelate = 97.31

func (b *Wander) Name() string { return "wander" }
func (b *Wander) Mode() Mode   { return ModeAmbient }

func (b *Wander) Steer(a *Agent, s *Sense, env *Env) (vmath.Vec2, bool) {
	w := a.Wan
	t := env.Time * b.cfg.WanderFrequency
	target := math.Atan2(env.Noise.Eval2(w.Offset+wanderDecorrelate, t), env.Noise.Eval2(w.Offset, t))
	w.Angle = turnToward(w.Angle, target, b.cfg.WanderSmoothing, env.Dt)
	return seek(vmath.FromAngle(w.Angle), s.Cruise(b.cfg), a.Kin.Vel, b.cfg.WanderForce), true
}

// huntReady reports whether a predator wants to hunt: hungry and either digested or
// critically hungry.
func huntReady(bio *components.Biology, life *config.LifecycleConfig) bool {
	if bio.Energy >= life.HungerThreshold {
		return false
	}
	return bio.HuntCooldown <= 0 || bio.Energy < life.CriticalHunger
}

// huntPreferred reports whether a predator should hunt rather than eat pellets.
func huntPreferred(a *Agent, s *Sense, env *Env) bool {
	if !huntReady(a.Bio, &env.Cfg.Lifecycle) {
		return false
	}
	_, ok := selectPrey(a, s, env)
	return ok
}

// selectPrey picks the predator's quarry for this tick, caching the answer in s.
// The current target is kept while it stays within the hysteresis radius unless a
// candidate is clearly closer.
func selectPrey(a *Agent, s *Sense, env *Env) (Entry, bool) {
	if s.preyDone {
		return s.prey, s.preyOK
	}
	s.preyDone = true

	sc := &env.Cfg.Steering
	pos := a.Kin.Pos
	maxSize := a.Size() * sc.PreySizeRatio

	eligible := func(e Entry) bool {
		return !e.Predator() && !e.Dead && e.Size < maxSize
	}

	cur, curOK := env.Index.Lookup(a.Tgt.Hunt)
	curD := math.Inf(1)
	if curOK && eligible(cur) {
		keep := sc.HuntRadius * sc.HuntHysteresis
		curD = pos.DistSq(cur.Pos)
		if curD > keep*keep {
			curOK = false
		}
	} else {
		curOK = false
	}

	var cand Entry
	candOK := false
	candD := sc.HuntRadius * sc.HuntRadius
	for _, n := range s.Neighbors {
		if !eligible(n) || (curOK && n.E == cur.E) {
			continue
		}
		if d := pos.DistSq(n.Pos); d < candD {
			cand, candD, candOK = n, d, true
		}
	}

	switch {
	case curOK && candOK && closerBy(candD, curD, sc.Stickiness):
		s.prey, s.preyOK = cand, true
	case curOK:
		s.prey, s.preyOK = cur, true
	case candOK:
		s.prey, s.preyOK = cand, true
	}
	return s.prey, s.preyOK
}
