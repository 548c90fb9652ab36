// Package render rasterises a particle sample into a share card image.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"quantumconnections/internal/geometry"

	"github.com/lucasb-eyer/go-colorful"
)

// Card sizes match the on-screen card (400x800) at 2x.
const (
	CardWidth  = 800
	CardHeight = 1600
)

// Camera looks down -Z from CameraZ with a vertical field of view of FOV degrees.
const (
	CameraZ = 5.5
	FOV     = 50.0
)

// splat is the additive contribution of one particle; bright clusters
// saturate the way the bloom pass does on screen.
const splat = 0.35

// Options controls Card. The caption is drawn only when both Caption and
// Text are set.
type Options struct {
	Width, Height int
	Background    colorful.Color
	Accent        colorful.Color
	Rotation      geometry.Vec3
	Caption       *Caption
	Text          *Typesetter
}

// Caption is the text layer of a result card.
type Caption struct {
	Name1, Name2 string
	Title        string
	Match        int // percent, omitted when zero
	Insight      string
	Quote        string
}

// Card projects the sample through a perspective camera and accumulates
// particle colours additively over a vertical gradient from the background
// colour to black, then draws the caption on top.
func Card(s geometry.Sample, opt Options) *image.RGBA {
	w, h := opt.Width, opt.Height
	if w <= 0 {
		w = CardWidth
	}
	if h <= 0 {
		h = CardHeight
	}

	acc := make([]float64, w*h*3)
	for y := 0; y < h; y++ {
		fade := 1 - float64(y)/float64(h)
		for x := 0; x < w; x++ {
			i := (y*w + x) * 3
			acc[i] = opt.Background.R * fade
			acc[i+1] = opt.Background.G * fade
			acc[i+2] = opt.Background.B * fade
		}
	}

	aspect := float64(w) / float64(h)
	f := 1 / math.Tan(FOV*math.Pi/360)
	for i, p := range s.Positions {
		p = rotate(p, opt.Rotation)
		depth := CameraZ - p.Z
		if depth <= 0.1 {
			continue
		}
		nx := p.X * f / depth / aspect
		ny := p.Y * f / depth
		px := int((nx + 1) / 2 * float64(w))
		py := int((1 - ny) / 2 * float64(h))
		c := s.Colors[i]
		for dy := 0; dy <= 1; dy++ {
			for dx := 0; dx <= 1; dx++ {
				x, y := px+dx, py+dy
				if x < 0 || y < 0 || x >= w || y >= h {
					continue
				}
				j := (y*w + x) * 3
				acc[j] += c.R * splat
				acc[j+1] += c.G * splat
				acc[j+2] += c.B * splat
			}
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			j := (y*w + x) * 3
			img.SetRGBA(x, y, color.RGBA{R: channel(acc[j]), G: channel(acc[j+1]), B: channel(acc[j+2]), A: 255})
		}
	}

	if opt.Caption != nil && opt.Text != nil {
		drawCaption(img, opt.Text, *opt.Caption, opt.Accent)
	}
	return img
}

var (
	textColor  = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	mutedColor = color.NRGBA{R: 255, G: 255, B: 255, A: 153}
	quoteColor = color.NRGBA{R: 255, G: 255, B: 255, A: 217}
)

// drawCaption lays the names and title out above the particles, the match
// percentage over the lower part of the cloud and the insight and quote in
// the footer. Sizes are for CardWidth and scale with the image.
func drawCaption(img *image.RGBA, ts *Typesetter, c Caption, accent colorful.Color) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	k := float64(w) / CardWidth
	cx := w / 2
	wrap := w - int(80*k)
	px := func(v float64) int { return int(v * k) }

	y := px(80)
	y = ts.DrawCentered(img, "بين", 28*k, cx, y, wrap, mutedColor)
	y = ts.DrawCentered(img, c.Name1, 72*k, cx, y, wrap, textColor)
	y = ts.DrawCentered(img, "∞", 48*k, cx, y, wrap, accent.Clamped())
	y = ts.DrawCentered(img, c.Name2, 72*k, cx, y, wrap, textColor)
	ts.DrawCentered(img, c.Title, 36*k, cx, y+px(16), wrap, textColor)

	if c.Match > 0 {
		ts.DrawCentered(img, fmt.Sprintf("%d%%", c.Match), 96*k, cx, h*68/100, wrap, textColor)
	}

	y = ts.DrawCentered(img, c.Insight, 28*k, cx, h*80/100, wrap, textColor)
	if c.Quote != "" {
		ts.DrawCentered(img, "\""+c.Quote+"\"", 24*k, cx, y+px(40), wrap, quoteColor)
	}
}

// rotate applies rotations about X, then Y, then Z.
func rotate(p, r geometry.Vec3) geometry.Vec3 {
	if r.X != 0 {
		s, c := math.Sincos(r.X)
		p.Y, p.Z = p.Y*c-p.Z*s, p.Y*s+p.Z*c
	}
	if r.Y != 0 {
		s, c := math.Sincos(r.Y)
		p.X, p.Z = p.X*c+p.Z*s, -p.X*s+p.Z*c
	}
	if r.Z != 0 {
		s, c := math.Sincos(r.Z)
		p.X, p.Y = p.X*c-p.Y*s, p.X*s+p.Y*c
	}
	return p
}

func channel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// EncodePNG encodes the image as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
