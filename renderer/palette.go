package renderer

import (
	"hash/fnv"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/species"
)

// speciesColors holds body colors for the stock species.
var speciesColors = map[string]rl.Color{
	"guppy":      {R: 255, G: 150, B: 70, A: 255},
	"neon_tetra": {R: 70, G: 205, B: 255, A: 255},
	"clownfish":  {R: 255, G: 115, B: 25, A: 255},
	"angelfish":  {R: 235, G: 225, B: 175, A: 255},
	"pufferfish": {R: 215, G: 195, B: 95, A: 255},
	"pike":       {R: 115, G: 145, B: 85, A: 255},
	"barracuda":  {R: 150, G: 160, B: 178, A: 255},
}

var (
	corpseColor = rl.Color{R: 150, G: 150, B: 140, A: 255}
	foodColor   = rl.Color{R: 170, G: 110, B: 55, A: 255}
	eyeColor    = rl.Color{R: 15, G: 15, B: 20, A: 255}
)

// SpeciesColor returns the body color for a species. Species without a stock color get a
// stable hue derived from their identifier.
func SpeciesColor(sp *species.Descriptor) rl.Color {
	if c, ok := speciesColors[sp.ID]; ok {
		return c
	}
	h := fnv.New32a()
	h.Write([]byte(sp.ID))
	hue := float32(h.Sum32()%360)
	sat := float32(0.55)
	if sp.Predator {
		sat = 0.3
	}
	return rl.ColorFromHSV(hue, sat, 0.9)
}

// fade scales a color's alpha by f in [0, 1].
func fade(c rl.Color, f float64) rl.Color {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	c.A = uint8(float64(c.A) * f)
	return c
}

// blend mixes a toward b by t in [0, 1], keeping a's alpha.
func blend(a, b rl.Color, t float32) rl.Color {
	return rl.Color{
		R: uint8(float32(a.R) + (float32(b.R)-float32(a.R))*t),
		G: uint8(float32(a.G) + (float32(b.G)-float32(a.G))*t),
		B: uint8(float32(a.B) + (float32(b.B)-float32(a.B))*t),
		A: a.A,
	}
}
