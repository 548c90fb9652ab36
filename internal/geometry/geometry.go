// Package geometry maps a relationship category onto a 3-D particle cloud.
package geometry

import (
	"math"
	"math/rand/v2"

	"quantumconnections/internal/model"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultCount is the particle count used by the result card.
const DefaultCount = 3000

const (
	jitter     = 0.1
	colorBoost = 2.0 // overexposed on purpose, the bloom pass needs values above 1
)

// Source supplies uniform floats in [0,1).
type Source interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// DefaultSource returns a goroutine-safe source backed by math/rand/v2.
func DefaultSource() Source { return globalSource{} }

// Vec3 is a point or a rotation in 3-D.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// RGB is a linear colour. Channels may exceed 1 after the boost.
type RGB struct {
	R, G, B float64
}

// Sample is the generated cloud: Positions[i] has colour Colors[i].
type Sample struct {
	Category  model.Category
	Positions []Vec3
	Colors    []RGB
}

// Len returns the particle count.
func (s Sample) Len() int { return len(s.Positions) }

// Flat returns interleaved xyz and rgb buffers ready for a vertex upload.
func (s Sample) Flat() (positions, colors []float32) {
	positions = make([]float32, 0, len(s.Positions)*3)
	colors = make([]float32, 0, len(s.Colors)*3)
	for _, p := range s.Positions {
		positions = append(positions, float32(p.X), float32(p.Y), float32(p.Z))
	}
	for _, c := range s.Colors {
		colors = append(colors, float32(c.R), float32(c.G), float32(c.B))
	}
	return positions, colors
}

// placement positions particle i of n before jitter.
type placement func(i, n int, src Source) Vec3

var placements = map[model.Category]placement{
	model.CategoryAffection:  heart,
	model.CategoryFriendship: spiral,
	model.CategoryKinship:    lemniscate,
	model.CategoryRivalry:    core,
}

// Generate builds n particles for the category. Colours are a random blend
// of primary and secondary, both clamped to [0,1] first, then doubled.
func Generate(cat model.Category, n int, primary, secondary colorful.Color, src Source) Sample {
	if n < 0 {
		n = 0
	}
	if src == nil {
		src = DefaultSource()
	}
	place, ok := placements[cat]
	if !ok {
		place = halo
	}
	a, b := primary.Clamped(), secondary.Clamped()

	s := Sample{
		Category:  cat,
		Positions: make([]Vec3, n),
		Colors:    make([]RGB, n),
	}
	for i := 0; i < n; i++ {
		p := place(i, n, src)
		p.X += (src.Float64() - 0.5) * jitter
		p.Y += (src.Float64() - 0.5) * jitter
		p.Z += (src.Float64() - 0.5) * jitter
		s.Positions[i] = p

		c := a.BlendRgb(b, src.Float64())
		s.Colors[i] = RGB{R: c.R * colorBoost, G: c.G * colorBoost, B: c.B * colorBoost}
	}
	return s
}

// Rotation is the orientation the caller applies to the cloud. The flat
// shapes are built in the XZ plane and tilted to face the viewer.
func Rotation(cat model.Category) Vec3 {
	switch cat {
	case model.CategoryFriendship, model.CategoryKinship:
		return Vec3{X: math.Pi / 2}
	}
	return Vec3{}
}

// heart samples a parametric heart surface, scaled by 1.5/10.
func heart(i, n int, _ Source) Vec3 {
	const scale = 1.5 / 10
	phi := math.Acos(-1 + 2*float64(i)/float64(n))
	theta := math.Sqrt(float64(n)*math.Pi) * phi
	st := math.Sin(theta)
	return Vec3{
		X: scale * 16 * st * st * st * math.Sin(phi),
		Y: scale * (13*math.Cos(theta) - 5*math.Cos(2*theta) - 2*math.Cos(3*theta) - math.Cos(4*theta)) * math.Sin(phi),
		Z: scale * 4 * math.Cos(phi),
	}
}

// spiral lays three interleaved arms in the XZ plane.
func spiral(i, _ int, src Source) Vec3 {
	radius := src.Float64() * 2.5
	spin := radius * 3
	branch := float64(i%3) * (2 * math.Pi / 3)
	return Vec3{
		X: math.Cos(spin+branch) * radius,
		Y: (src.Float64() - 0.5) * 0.4,
		Z: math.Sin(spin+branch) * radius,
	}
}

// lemniscate traces a figure eight in the XZ plane.
func lemniscate(i, n int, src Source) Vec3 {
	const scale = 3
	t := float64(i) / float64(n) * 2 * math.Pi
	st := math.Sin(t)
	denom := 1 + st*st
	return Vec3{
		X: scale * math.Cos(t) / denom,
		Y: (src.Float64() - 0.5) * 0.5,
		Z: scale * math.Cos(t) * st / denom,
	}
}

// core fills a small shell with radius in [1.0, 1.5].
func core(_, _ int, src Source) Vec3 {
	return shell(src, 1.0, 0.5)
}

// halo is the fallback for unknown categories, radius in [1.8, 2.6].
func halo(_, _ int, src Source) Vec3 {
	return shell(src, 1.8, 0.8)
}

func shell(src Source, base, spread float64) Vec3 {
	theta := src.Float64() * 2 * math.Pi
	phi := math.Acos(src.Float64()*2 - 1)
	r := base + src.Float64()*spread
	return Vec3{
		X: r * math.Sin(phi) * math.Cos(theta),
		Y: r * math.Sin(phi) * math.Sin(theta),
		Z: r * math.Cos(phi),
	}
}
