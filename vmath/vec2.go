// Package vmath provides the small 2D vector type used by the steering model.
package vmath

import "math"

// Vec2 is a 2D vector in tank units.
type Vec2 struct {
	X, Y float64
}

// V is shorthand for Vec2{X: x, Y: y}.
func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (a Vec2) Add(b Vec2) Vec2       { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2       { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Scale(s float64) Vec2  { return Vec2{a.X * s, a.Y * s} }
func (a Vec2) Dot(b Vec2) float64    { return a.X*b.X + a.Y*b.Y }
func (a Vec2) LenSq() float64        { return a.X*a.X + a.Y*a.Y }
func (a Vec2) Len() float64          { return math.Sqrt(a.LenSq()) }
func (a Vec2) DistSq(b Vec2) float64 { return a.Sub(b).LenSq() }
func (a Vec2) Dist(b Vec2) float64   { return math.Sqrt(a.DistSq(b)) }
func (a Vec2) IsZero() bool          { return a.X == 0 && a.Y == 0 }
func (a Vec2) Angle() float64        { return math.Atan2(a.Y, a.X) }
func (a Vec2) PerpCCW() Vec2         { return Vec2{-a.Y, a.X} }

// Normalize returns the unit vector in the direction of a, or zero.
func (a Vec2) Normalize() Vec2 {
	l2 := a.LenSq()
	if l2 == 0 {
		return Vec2{}
	}
	inv := 1 / math.Sqrt(l2)
	return Vec2{a.X * inv, a.Y * inv}
}

// Limit caps the magnitude of a at max.
func (a Vec2) Limit(max float64) Vec2 {
	if max <= 0 {
		return Vec2{}
	}
	l2 := a.LenSq()
	if l2 > max*max {
		return a.Scale(max / math.Sqrt(l2))
	}
	return a
}

// WithLen returns a vector with a's direction and the given magnitude.
func (a Vec2) WithLen(l float64) Vec2 {
	return a.Normalize().Scale(l)
}

// Lerp linearly interpolates from a to b.
func (a Vec2) Lerp(b Vec2, t float64) Vec2 {
	return a.Add(b.Sub(a).Scale(t))
}

// FromAngle returns the unit vector for angle theta (radians).
func FromAngle(theta float64) Vec2 {
	return Vec2{math.Cos(theta), math.Sin(theta)}
}

// NormalizeAngle wraps an angle to [-Pi, Pi].
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// LerpAngle moves angle a toward b by fraction t along the shortest arc.
func LerpAngle(a, b, t float64) float64 {
	return NormalizeAngle(a + NormalizeAngle(b-a)*t)
}

// Clamp clamps v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 clamps v to [0, 1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Smoothstep is the cubic Hermite ramp between edge0 and edge1.
func Smoothstep(edge0, edge1, x float64) float64 {
	if edge1 == edge0 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := Clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}
