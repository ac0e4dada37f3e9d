package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// waterFS lights the tank: a surface-to-floor gradient, drifting caustics near the top
// and a blue night tint scaled by the drowsiness uniform.
const waterFS = `#version 330
in vec2 fragTexCoord;
in vec4 fragColor;
out vec4 finalColor;

uniform float time;
uniform vec2 resolution;
uniform vec4 tank;
uniform float cameraZoom;
uniform float night;

void main() {
    vec2 screen = vec2(gl_FragCoord.x, resolution.y - gl_FragCoord.y);
    vec2 uv = (screen - tank.xy) / tank.zw;
    vec2 world = uv * tank.zw / cameraZoom;

    vec3 surface = vec3(0.16, 0.52, 0.72);
    vec3 deep = vec3(0.03, 0.14, 0.30);
    vec3 col = mix(surface, deep, smoothstep(0.0, 1.0, uv.y));

    float c = sin(world.x * 0.031 + time * 0.9) * sin(world.y * 0.027 - time * 0.7);
    c += 0.5 * sin((world.x + world.y) * 0.052 + time * 1.3);
    col += vec3(0.05, 0.08, 0.09) * max(c, 0.0) * (1.0 - uv.y);

    vec3 moon = vec3(0.02, 0.04, 0.12);
    col = mix(col, moon, night * 0.7);

    finalColor = vec4(col, 1.0);
}
`

// WaterRenderer draws the tank water behind everything else.
type WaterRenderer struct {
	shader        rl.Shader
	timeLoc       int32
	resolutionLoc int32
	tankLoc       int32
	cameraZoomLoc int32
	nightLoc      int32
	initialized   bool
}

// NewWaterRenderer creates a water renderer. Init runs lazily on the first Draw,
// after the raylib window exists.
func NewWaterRenderer() *WaterRenderer {
	return &WaterRenderer{}
}

// Init compiles the shader.
func (w *WaterRenderer) Init() {
	if w.initialized {
		return
	}

	w.shader = rl.LoadShaderFromMemory("", waterFS)
	w.timeLoc = rl.GetShaderLocation(w.shader, "time")
	w.resolutionLoc = rl.GetShaderLocation(w.shader, "resolution")
	w.tankLoc = rl.GetShaderLocation(w.shader, "tank")
	w.cameraZoomLoc = rl.GetShaderLocation(w.shader, "cameraZoom")
	w.nightLoc = rl.GetShaderLocation(w.shader, "night")

	w.initialized = true
}

// Draw fills the on-screen tank rectangle (x, y, width, height in screen pixels)
// with water. night is the drowsiness factor in [0, 1].
func (w *WaterRenderer) Draw(time float32, tank rl.Rectangle, zoom, night float32) {
	if !w.initialized {
		w.Init()
	}

	screen := []float32{float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())}

	rl.BeginShaderMode(w.shader)
	rl.SetShaderValue(w.shader, w.timeLoc, []float32{time}, rl.ShaderUniformFloat)
	rl.SetShaderValue(w.shader, w.resolutionLoc, screen, rl.ShaderUniformVec2)
	rl.SetShaderValue(w.shader, w.tankLoc, []float32{tank.X, tank.Y, tank.Width, tank.Height}, rl.ShaderUniformVec4)
	rl.SetShaderValue(w.shader, w.cameraZoomLoc, []float32{zoom}, rl.ShaderUniformFloat)
	rl.SetShaderValue(w.shader, w.nightLoc, []float32{night}, rl.ShaderUniformFloat)
	rl.DrawRectangleRec(tank, rl.White)
	rl.EndShaderMode()

	// Glass and waterline
	rl.DrawRectangleLinesEx(tank, 2, rl.Color{R: 170, G: 200, B: 215, A: 140})
	rl.DrawLineEx(
		rl.Vector2{X: tank.X, Y: tank.Y},
		rl.Vector2{X: tank.X + tank.Width, Y: tank.Y},
		3, rl.Color{R: 220, G: 240, B: 255, A: 160},
	)
}

// Unload frees resources.
func (w *WaterRenderer) Unload() {
	if w.initialized {
		rl.UnloadShader(w.shader)
		w.initialized = false
	}
}
