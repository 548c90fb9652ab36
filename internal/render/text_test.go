package render

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func glyphIDs(lines [][]font.GID) map[font.GID]bool {
	ids := map[font.GID]bool{}
	for _, l := range lines {
		for _, g := range l {
			ids[g] = true
		}
	}
	return ids
}

func shapeIDs(t *testing.T, ts *Typesetter, text string) [][]font.GID {
	t.Helper()
	ts.mu.Lock()
	defer ts.mu.Unlock()

	var out [][]font.GID
	for _, line := range ts.layout(text, 32, 10000) {
		var ids []font.GID
		for _, run := range line {
			for _, g := range run.Glyphs {
				ids = append(ids, g.GlyphID)
			}
		}
		out = append(out, ids)
	}
	return out
}

func TestDefaultTypesetter(t *testing.T) {
	ts, err := DefaultTypesetter()
	require.NoError(t, err)
	again, err := DefaultTypesetter()
	require.NoError(t, err)
	assert.Same(t, ts, again)
}

func TestNewTypesetter_RejectsGarbage(t *testing.T) {
	_, err := NewTypesetter([]byte("not a font"))
	assert.Error(t, err)
}

func TestDirection(t *testing.T) {
	assert.Equal(t, di.DirectionRTL, direction([]rune("سارة")))
	assert.Equal(t, di.DirectionRTL, direction([]rune("\"نحن نار\"")))
	assert.Equal(t, di.DirectionLTR, direction([]rune("Sara")))
	assert.Equal(t, di.DirectionLTR, direction([]rune("92%")))
}

func TestLayout_JoinsArabicLetters(t *testing.T) {
	ts, err := DefaultTypesetter()
	require.NoError(t, err)

	isolated := shapeIDs(t, ts, "س")
	require.Len(t, isolated, 1)
	require.Len(t, isolated[0], 1)

	// Seen followed by alef takes its initial form.
	joined := glyphIDs(shapeIDs(t, ts, "سارة"))
	assert.NotContains(t, joined, isolated[0][0])
	assert.NotContains(t, joined, font.GID(0), "every letter has a glyph")
}

func TestLayout_WrapsLongText(t *testing.T) {
	ts, err := DefaultTypesetter()
	require.NoError(t, err)

	text := strings.Repeat("في عمق الصمت ", 12)
	ts.mu.Lock()
	narrow := ts.layout(text, 28, 300)
	wide := ts.layout(text, 28, 100000)
	ts.mu.Unlock()

	assert.Len(t, wide, 1)
	assert.Greater(t, len(narrow), 2)
}

func TestDrawCentered(t *testing.T) {
	ts, err := DefaultTypesetter()
	require.NoError(t, err)

	img := image.NewRGBA(image.Rect(0, 0, 400, 200))
	bottom := ts.DrawCentered(img, "تناغم الأرواح", 40, 200, 20, 380, color.White)
	assert.Greater(t, bottom, 50)
	assert.Less(t, bottom, 200)

	lit := 0
	for y := 0; y < 200; y++ {
		for x := 0; x < 400; x++ {
			if img.RGBAAt(x, y).R > 0 {
				lit++
				assert.GreaterOrEqual(t, y, 10, "ink above the block")
				assert.Less(t, y, bottom+10, "ink below the block")
			}
		}
	}
	assert.Greater(t, lit, 200)

	// Centred: the outer columns stay empty.
	for y := 0; y < 200; y++ {
		assert.Zero(t, img.RGBAAt(0, y).R)
		assert.Zero(t, img.RGBAAt(399, y).R)
	}
}

func TestDrawCentered_EmptyText(t *testing.T) {
	ts, err := DefaultTypesetter()
	require.NoError(t, err)

	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	assert.Equal(t, 4, ts.DrawCentered(img, "", 20, 5, 4, 10, color.White))
}
