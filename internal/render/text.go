package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"sort"
	"sync"
	"unicode"

	"github.com/go-fonts/dejavu/dejavusans"
	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Typesetter shapes, wraps and fills text with a single font face. Arabic
// runs are joined and laid out right to left. Safe for concurrent use.
type Typesetter struct {
	mu      sync.Mutex
	face    *font.Face
	shaper  shaping.HarfbuzzShaper
	seg     shaping.Segmenter
	wrapper shaping.LineWrapper
	raster  *vector.Rasterizer
}

// NewTypesetter parses a TrueType or OpenType font.
func NewTypesetter(ttf []byte) (*Typesetter, error) {
	face, err := font.ParseTTF(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Typesetter{face: face}, nil
}

var defaultTypesetter = sync.OnceValues(func() (*Typesetter, error) {
	return NewTypesetter(dejavusans.TTF)
})

// DefaultTypesetter returns the shared typesetter for the embedded
// DejaVu Sans face.
func DefaultTypesetter() (*Typesetter, error) {
	return defaultTypesetter()
}

type singleFace struct{ face *font.Face }

func (f singleFace) ResolveFace(rune) *font.Face { return f.face }

// direction picks the paragraph direction from the first strong letter.
func direction(text []rune) di.Direction {
	for _, r := range text {
		if unicode.In(r, unicode.Arabic, unicode.Hebrew) {
			return di.DirectionRTL
		}
		if unicode.IsLetter(r) {
			return di.DirectionLTR
		}
	}
	return di.DirectionLTR
}

// layout shapes text at size pixels and wraps it to maxWidth. Runs of each
// line are returned in visual order, left to right. Callers hold t.mu.
func (t *Typesetter) layout(text string, size float64, maxWidth int) []shaping.Line {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	dir := direction(runes)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: dir,
		Face:      t.face,
		Size:      fixed.Int26_6(size * 64),
		Script:    language.Arabic,
		Language:  language.NewLanguage("ar"),
	}

	runs := t.seg.Split(input, singleFace{t.face})
	outs := make([]shaping.Output, len(runs))
	for i, run := range runs {
		outs[i] = t.shaper.Shape(run)
	}

	wrapped, _ := t.wrapper.WrapParagraph(shaping.WrapConfig{Direction: dir}, maxWidth, runes, shaping.NewSliceIterator(outs))

	// The wrapper reuses its buffers on the next call.
	lines := make([]shaping.Line, len(wrapped))
	for i, line := range wrapped {
		l := append(shaping.Line(nil), line...)
		sort.SliceStable(l, func(a, b int) bool { return l[a].VisualIndex < l[b].VisualIndex })
		lines[i] = l
	}
	return lines
}

// DrawCentered fills text centred on cx, wrapped to maxWidth, with the top
// of the first line at top. It returns the y just below the last line.
func (t *Typesetter) DrawCentered(dst *image.RGBA, text string, size float64, cx, top, maxWidth int, col color.Color) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	lines := t.layout(text, size, maxWidth)
	if len(lines) == 0 {
		return top
	}

	b := dst.Bounds()
	if t.raster == nil {
		t.raster = vector.NewRasterizer(b.Dx(), b.Dy())
	} else {
		t.raster.Reset(b.Dx(), b.Dy())
	}

	y := float32(top)
	for _, line := range lines {
		var width fixed.Int26_6
		ascent, descent, gap := fixed.Int26_6(0), fixed.Int26_6(0), fixed.Int26_6(0)
		for _, run := range line {
			width += run.Advance
			ascent = max(ascent, run.LineBounds.Ascent)
			descent = min(descent, run.LineBounds.Descent)
			gap = max(gap, run.LineBounds.Gap)
		}

		baseline := y + toFloat(ascent)
		x := float32(cx) - toFloat(width)/2
		for _, run := range line {
			fillRun(t.raster, run, x-float32(b.Min.X), baseline-float32(b.Min.Y))
			x += toFloat(run.Advance)
		}
		y = baseline - toFloat(descent) + toFloat(gap)
	}

	t.raster.Draw(dst, b, image.NewUniform(col), image.Point{})
	return int(y + 0.5)
}

func fillRun(z *vector.Rasterizer, run shaping.Output, x, baseline float32) {
	scale := toFloat(run.Size) / float32(run.Face.Upem())
	dot := x
	for _, g := range run.Glyphs {
		if outline, ok := run.Face.GlyphData(g.GlyphID).(font.GlyphOutline); ok {
			fillOutline(z, outline, dot+toFloat(g.XOffset), baseline-toFloat(g.YOffset), scale)
		}
		dot += toFloat(g.XAdvance)
	}
}

// fillOutline adds a glyph outline to the rasterizer. Font units grow up,
// image rows grow down.
func fillOutline(z *vector.Rasterizer, o font.GlyphOutline, x, y, scale float32) {
	pt := func(p font.SegmentPoint) (float32, float32) {
		return x + p.X*scale, y - p.Y*scale
	}

	open := false
	for _, s := range o.Segments {
		switch s.Op {
		case ot.SegmentOpMoveTo:
			if open {
				z.ClosePath()
			}
			z.MoveTo(pt(s.Args[0]))
			open = true
		case ot.SegmentOpLineTo:
			z.LineTo(pt(s.Args[0]))
		case ot.SegmentOpQuadTo:
			bx, by := pt(s.Args[0])
			cx, cy := pt(s.Args[1])
			z.QuadTo(bx, by, cx, cy)
		case ot.SegmentOpCubeTo:
			bx, by := pt(s.Args[0])
			cx, cy := pt(s.Args[1])
			dx, dy := pt(s.Args[2])
			z.CubeTo(bx, by, cx, cy, dx, dy)
		}
	}
	if open {
		z.ClosePath()
	}
}

func toFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
