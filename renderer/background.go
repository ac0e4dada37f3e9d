package renderer

import (
	"image"
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/ojrac/opensimplex-go"
)

// SubstrateRenderer draws the gravel bed along the tank floor. The texture is
// generated once from simplex noise, so the same seed always gives the same floor.
type SubstrateRenderer struct {
	tex     rl.Texture2D
	w, h    float32 // world size of the bed
	texW    int
	texH    int
	seed    int64
	initted bool
}

const (
	substrateDepth   = 28  // world units at the deepest point
	substrateTexel   = 2.0 // world units per texel
	substrateRipples = 0.012
)

// NewSubstrateRenderer creates a gravel bed for a tank of the given world width.
func NewSubstrateRenderer(worldW, worldH float32, seed int64) *SubstrateRenderer {
	return &SubstrateRenderer{
		w:    worldW,
		h:    worldH,
		texW: int(worldW / substrateTexel),
		texH: int(substrateDepth / substrateTexel),
		seed: seed,
	}
}

// Init builds the texture (must be called after raylib window is created).
func (s *SubstrateRenderer) Init() {
	if s.initted {
		return
	}
	img := rl.NewImageFromImage(s.generate())
	s.tex = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureFilter(s.tex, rl.FilterBilinear)
	s.initted = true
}

// generate paints the bed: a wavy top edge, pebble-sized blotches and darker depth.
func (s *SubstrateRenderer) generate() *image.RGBA {
	noise := opensimplex.New(s.seed)
	img := image.NewRGBA(image.Rect(0, 0, s.texW, s.texH))

	sand := [3]float64{176, 152, 108}
	pebble := [3]float64{112, 98, 82}

	for x := 0; x < s.texW; x++ {
		wx := float64(x) * substrateTexel
		// Height of the bed at this column, as a fraction of the texture
		crest := 0.55 + 0.35*noise.Eval2(wx*substrateRipples, 0)
		top := int(float64(s.texH) * (1 - crest))

		for y := 0; y < s.texH; y++ {
			if y < top {
				img.SetRGBA(x, y, color.RGBA{})
				continue
			}
			wy := float64(y) * substrateTexel
			grain := noise.Eval2(wx*0.35, wy*0.35)
			t := math.Max(0, grain)
			shade := 1 - 0.35*float64(y-top)/float64(s.texH)
			var c [3]float64
			for i := range c {
				c[i] = (sand[i]*(1-t) + pebble[i]*t) * shade
			}
			img.SetRGBA(x, y, color.RGBA{R: uint8(c[0]), G: uint8(c[1]), B: uint8(c[2]), A: 255})
		}
	}
	return img
}

// Draw renders the bed in world coordinates, inside the 2D camera. night darkens it.
func (s *SubstrateRenderer) Draw(night float32) {
	if !s.initted {
		s.Init()
	}
	src := rl.Rectangle{Width: float32(s.texW), Height: float32(s.texH)}
	dst := rl.Rectangle{X: 0, Y: s.h - substrateDepth, Width: s.w, Height: substrateDepth}
	tint := blend(rl.White, rl.Color{R: 60, G: 70, B: 110, A: 255}, night*0.7)
	rl.DrawTexturePro(s.tex, src, dst, rl.Vector2{}, 0, tint)
}

// Unload frees resources.
func (s *SubstrateRenderer) Unload() {
	if s.initted {
		rl.UnloadTexture(s.tex)
		s.initted = false
	}
}
