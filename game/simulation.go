package game

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/systems"
	"github.com/pthm-cable/shoal/telemetry"
)

// scoreMilestone is the score step that gets its own event row.
const scoreMilestone = 100

// Step runs a single tick of the simulation.
//
// Each phase runs over the whole population before the next starts. Steering reads the
// snapshot taken in the index phase, so the order agents are steered in does not matter.
// Interactions resolve contention (two fish, one pellet) first come first served in
// storage order.
func (g *Game) Step() {
	g.perfCollector.StartTick()
	g.env.Time = g.time

	g.perfCollector.StartPhase(telemetry.PhaseFood)
	g.drainNames()
	g.updateFood()

	g.perfCollector.StartPhase(telemetry.PhaseIndex)
	g.collectAgents()
	g.rebuildIndex()

	g.perfCollector.StartPhase(telemetry.PhaseSteering)
	g.updateSteering()

	g.perfCollector.StartPhase(telemetry.PhaseIntegrate)
	g.updateMotion()

	g.perfCollector.StartPhase(telemetry.PhaseInteractions)
	g.updateInteractions()

	g.perfCollector.StartPhase(telemetry.PhaseLifecycle)
	g.updateLifecycle()

	g.perfCollector.StartPhase(telemetry.PhaseSweep)
	g.sweep()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.tick++
	g.time += g.cfg.Physics.DT
	g.updateFeeder()
	g.updateDayNight()
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// collectAgents gathers component pointers for every entity. No entity is created or
// removed until the sweep, so the pointers stay valid for the rest of the tick.
func (g *Game) collectAgents() {
	g.agents = g.agents[:0]
	clear(g.slot)

	query := g.filter.Query()
	for query.Next() {
		kin, id, bio, tgt, vit, wan := query.Get()
		e := query.Entity()
		g.slot[e] = len(g.agents)
		g.agents = append(g.agents, systems.Agent{E: e, Kin: kin, ID: id, Bio: bio, Tgt: tgt, Vit: vit, Wan: wan})
	}
}

// agentOf returns this tick's view of e, or nil if e is not in the tank.
func (g *Game) agentOf(e ecs.Entity) *systems.Agent {
	if e.IsZero() {
		return nil
	}
	i, ok := g.slot[e]
	if !ok {
		return nil
	}
	return &g.agents[i]
}

// rebuildIndex snapshots every live agent and recounts the pellet chasers.
func (g *Game) rebuildIndex() {
	g.index.Clear()
	systems.ResetChasers(g.foods)
	g.numPrey, g.numPred = 0, 0

	for i := range g.agents {
		a := &g.agents[i]
		g.index.Insert(systems.Snapshot(a, g.repro.Fertile(a, g.time)))
		systems.CountChaser(a)
		if !a.Alive() {
			continue
		}
		if a.Predator() {
			g.numPred++
		} else {
			g.numPrey++
		}
	}

	g.env.Foods = g.foods
	g.env.Population = g.index.Len()
}

// updateSteering runs the behavior chain for every agent, then settles the pellet
// claims serially. Agents steered in the same tick all saw the same chaser counts, so
// the cap only holds after the claim pass.
func (g *Game) updateSteering() {
	parallel := g.parallel != nil && len(g.agents) >= parallelThreshold
	if parallel {
		g.steerParallel()
	} else {
		g.steerRange(g.steer, 0, len(g.agents))
	}
	g.perfCollector.RecordSteering(len(g.agents), parallel)
	systems.ClaimFood(g.foods, g.agents, g.cfg.Steering.MaxFoodChasers)
}

func (g *Game) updateMotion() {
	for i := range g.agents {
		a := &g.agents[i]
		if !a.Alive() {
			continue
		}
		systems.Integrate(a, g.env)
	}
}

// updateInteractions resolves feeding, predation and mating against the positions
// reached this tick.
func (g *Game) updateInteractions() {
	for i := range g.agents {
		a := &g.agents[i]
		if !a.Alive() {
			continue
		}
		g.tryEat(a)
		if a.Predator() {
			g.resolveHunt(a)
		}
		if a.Alive() {
			g.tryMate(a)
		}
	}
}

func (g *Game) tryEat(a *systems.Agent) {
	f := a.Tgt.Food
	if f == nil {
		return
	}
	if !g.life.CanEat(a, f) {
		return
	}

	f.Eaten = true
	a.Tgt.Food = nil
	grewUp := g.life.Feed(a, a.Wan.Rng)

	g.collector.RecordMeal()
	g.addScore(g.cfg.Lifecycle.FeedScore)
	g.hooks.SpawnEffect(f.Pos, components.EffectMunch)
	if grewUp {
		g.grewUp(a)
	}
}

func (g *Game) resolveHunt(a *systems.Agent) {
	target := a.Tgt.Hunt
	if target.IsZero() {
		return
	}
	prey := g.agentOf(target)

	out, grewUp := g.pred.Resolve(a, prey, g.env, a.Wan.Rng)
	switch out {
	case systems.OutcomeCaught:
		g.collector.RecordCatch()
		g.addScore(g.cfg.Predation.CatchScore)
		g.hooks.SpawnEffect(prey.Kin.Pos, components.EffectChomp)
		g.logEvent(telemetry.EventCatch, a, prey.ID.Name, "")
		g.recordDeath(prey)
		if grewUp {
			g.grewUp(a)
		}
	case systems.OutcomeAbandoned:
		g.collector.RecordAbandonedHunt()
		g.logEvent(telemetry.EventAbandon, a, "", "")
	}
}

func (g *Game) tryMate(a *systems.Agent) {
	target := a.Tgt.Mate
	if target.IsZero() {
		return
	}
	b := g.agentOf(target)
	if b == nil || !b.Alive() {
		a.Tgt.Mate = ecs.Entity{}
		return
	}
	if !g.repro.InContact(a, b) {
		return
	}

	population := g.env.Population + g.pendingBirths()
	litter, ok := g.repro.Mate(a, b, population, g.time, g.rng)
	if !ok {
		return
	}
	g.litters = append(g.litters, pendingLitter{
		Litter:  litter,
		parents: [2]string{a.ID.Name, b.ID.Name},
	})
	g.hooks.SpawnEffect(a.Kin.Pos.Lerp(b.Kin.Pos, 0.5), components.EffectHearts)
}

// updateLifecycle ages every agent and queues the ones that are done for removal.
func (g *Game) updateLifecycle() {
	for i := range g.agents {
		a := &g.agents[i]
		st, died := g.life.Update(a, g.env)
		if died {
			g.recordDeath(a)
		}
		switch st {
		case components.StatusGone:
			g.hooks.SpawnEffect(a.Kin.Pos, components.EffectGhost)
			g.removals = append(g.removals, a.E)
		case components.StatusEaten:
			g.removals = append(g.removals, a.E)
		}
	}
}

func (g *Game) addScore(amount int) {
	if amount == 0 {
		return
	}
	before := g.score
	g.score += amount
	g.collector.RecordScore(amount)
	g.hooks.OnScoreUpdate(amount)

	if m := g.score / scoreMilestone; m > before/scoreMilestone {
		g.logEvent(telemetry.EventMilestone, nil, "", fmt.Sprintf("score %d", m*scoreMilestone))
	}
}

func (g *Game) grewUp(a *systems.Agent) {
	g.collector.RecordGrewUp()
	g.logEvent(telemetry.EventGrewUp, a, "", "")
	g.hooks.OnGrewUp(a.ID.Name, a.ID.Species.Name)
}

func (g *Game) recordDeath(a *systems.Agent) {
	cause := a.Vit.Cause
	age := a.ID.Age(a.Vit.DiedAt)
	g.collector.RecordDeath(cause)
	g.logEvent(telemetry.EventDeath, a, "", cause.String())
	g.hooks.OnDeath(a.ID.Name, a.ID.Species.Name, cause, age)
}
