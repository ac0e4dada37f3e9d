package renderer

import (
	"math"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/game"
	"github.com/pthm-cable/shoal/vmath"
)

// maxParticles caps the pool; new effects are dropped when it is full.
const maxParticles = 2048

// Particle is one short-lived effect sprite in world coordinates.
type Particle struct {
	Pos     rl.Vector2
	Vel     rl.Vector2
	Life    float32
	MaxLife float32
	Size    float32
	Kind    components.EffectKind
}

// ParticleRenderer turns game effect notifications into particles. It only listens to
// SpawnEffect; the other hooks are no-ops.
type ParticleRenderer struct {
	game.NopHooks

	particles []Particle
	rng       *rand.Rand
}

// NewParticleRenderer creates an empty particle pool.
func NewParticleRenderer(seed int64) *ParticleRenderer {
	return &ParticleRenderer{
		particles: make([]Particle, 0, 256),
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// SpawnEffect emits the particles for one effect.
func (r *ParticleRenderer) SpawnEffect(pos vmath.Vec2, kind components.EffectKind) {
	p := rl.Vector2{X: float32(pos.X), Y: float32(pos.Y)}
	switch kind {
	case components.EffectSplash:
		r.burst(p, kind, 10, -math.Pi, 0, 40, 90, 0.6, 2)
	case components.EffectMunch:
		r.burst(p, kind, 5, 0, 2*math.Pi, 10, 30, 0.4, 1.5)
	case components.EffectChomp:
		r.burst(p, kind, 14, 0, 2*math.Pi, 30, 80, 0.7, 2.5)
	case components.EffectHearts:
		r.burst(p, kind, 3, -math.Pi*0.75, -math.Pi*0.25, 15, 25, 1.5, 4)
	case components.EffectGhost:
		r.burst(p, kind, 1, -math.Pi/2, -math.Pi/2, 20, 20, 2, 6)
	}
}

// burst emits n particles with headings in [a0, a1] and speeds in [s0, s1].
func (r *ParticleRenderer) burst(p rl.Vector2, kind components.EffectKind, n int, a0, a1, s0, s1 float64, life, size float32) {
	for i := 0; i < n && len(r.particles) < maxParticles; i++ {
		a := a0 + r.rng.Float64()*(a1-a0)
		s := s0 + r.rng.Float64()*(s1-s0)
		l := life * (0.75 + 0.5*r.rng.Float32())
		r.particles = append(r.particles, Particle{
			Pos:     p,
			Vel:     rl.Vector2{X: float32(math.Cos(a) * s), Y: float32(math.Sin(a) * s)},
			Life:    l,
			MaxLife: l,
			Size:    size,
			Kind:    kind,
		})
	}
}

// Update advances every particle by dt seconds and drops the expired ones.
func (r *ParticleRenderer) Update(dt float32) {
	alive := r.particles[:0]
	for _, p := range r.particles {
		p.Life -= dt
		if p.Life <= 0 {
			continue
		}
		switch p.Kind {
		case components.EffectSplash, components.EffectChomp:
			p.Vel.Y += 120 * dt
		case components.EffectHearts:
			p.Vel.X += float32(math.Sin(float64(p.Life)*6)) * 10 * dt
		}
		p.Vel = rl.Vector2Scale(p.Vel, 1-dt)
		p.Pos = rl.Vector2Add(p.Pos, rl.Vector2Scale(p.Vel, dt))
		alive = append(alive, p)
	}
	r.particles = alive
}

// Count returns the number of live particles.
func (r *ParticleRenderer) Count() int {
	return len(r.particles)
}

// Draw renders all particles. Call between BeginMode2D and EndMode2D.
func (r *ParticleRenderer) Draw() {
	for i := range r.particles {
		p := &r.particles[i]

		lifeRatio := p.Life / p.MaxLife

		var color rl.Color
		switch p.Kind {
		case components.EffectSplash:
			color = rl.Color{R: 210, G: 235, B: 255, A: uint8(lifeRatio * 200)}
		case components.EffectMunch:
			color = rl.Color{R: 190, G: 130, B: 70, A: uint8(lifeRatio * 220)}
		case components.EffectChomp:
			color = rl.Color{R: 200, G: 40, B: 40, A: uint8(lifeRatio * 200)}
		case components.EffectHearts:
			drawHeart(p.Pos, p.Size, rl.Color{R: 255, G: 105, B: 150, A: uint8(lifeRatio * 255)})
			continue
		case components.EffectGhost:
			drawGhost(p.Pos, p.Size, rl.Color{R: 235, G: 240, B: 255, A: uint8(lifeRatio * 160)})
			continue
		}

		size := p.Size * (0.5 + 0.5*lifeRatio)
		if size < 0.5 {
			size = 0.5
		}
		rl.DrawCircleV(p.Pos, size, color)
	}
}

func drawHeart(p rl.Vector2, s float32, c rl.Color) {
	rl.DrawCircleV(rl.Vector2{X: p.X - s*0.5, Y: p.Y}, s*0.55, c)
	rl.DrawCircleV(rl.Vector2{X: p.X + s*0.5, Y: p.Y}, s*0.55, c)
	drawTriangle(
		rl.Vector2{X: p.X - s*1.05, Y: p.Y + s*0.15},
		rl.Vector2{X: p.X + s*1.05, Y: p.Y + s*0.15},
		rl.Vector2{X: p.X, Y: p.Y + s*1.2},
		c)
}

func drawGhost(p rl.Vector2, s float32, c rl.Color) {
	rl.DrawCircleV(p, s, c)
	rl.DrawRectangleV(rl.Vector2{X: p.X - s, Y: p.Y}, rl.Vector2{X: 2 * s, Y: s}, c)
	eye := rl.Color{R: 20, G: 20, B: 30, A: c.A}
	rl.DrawCircleV(rl.Vector2{X: p.X - s*0.35, Y: p.Y - s*0.1}, s*0.15, eye)
	rl.DrawCircleV(rl.Vector2{X: p.X + s*0.35, Y: p.Y - s*0.1}, s*0.15, eye)
}
