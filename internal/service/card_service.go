package service

import (
	"fmt"

	"quantumconnections/internal/geometry"
	"quantumconnections/internal/model"
	"quantumconnections/internal/render"
	"quantumconnections/internal/theme"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Card is an exported share image.
type Card struct {
	ID       string
	Filename string
	PNG      []byte
	ShareURL string // copied to the clipboard next to the download
}

// CardService renders result share cards to PNG
type CardService struct {
	particles int
	origin    string
	source    geometry.Source
	logger    *zap.Logger
}

// NewCardService creates a card service
func NewCardService(particles int, publicOrigin string, logger *zap.Logger) *CardService {
	if particles <= 0 {
		particles = geometry.DefaultCount
	}
	return &CardService{
		particles: particles,
		origin:    publicOrigin,
		source:    geometry.DefaultSource(),
		logger:    logger,
	}
}

// Sample generates the particle cloud for a category with its palette
func (s *CardService) Sample(cat model.Category, count int) (geometry.Sample, error) {
	if count <= 0 {
		count = s.particles
	}
	primary, secondary, err := theme.Particles(theme.For(cat))
	if err != nil {
		return geometry.Sample{}, fmt.Errorf("palette for %s: %w", cat, err)
	}
	return geometry.Generate(cat, count, primary, secondary, s.source), nil
}

// Export renders the share card of a session on the result screen: the
// category's particle cloud under the names, reading and match percentage.
func (s *CardService) Export(session *model.Session) (*Card, error) {
	if session.Result == nil {
		return nil, ErrNoResult
	}
	ts, err := render.DefaultTypesetter()
	if err != nil {
		return nil, fmt.Errorf("load card font: %w", err)
	}

	cat := session.Wizard.Record.Relationship
	sample, err := s.Sample(cat, s.particles)
	if err != nil {
		return nil, err
	}
	palette := theme.For(cat)
	accent, err := colorful.Hex(palette.Accent)
	if err != nil {
		return nil, fmt.Errorf("accent for %s: %w", cat, err)
	}

	img := render.Card(sample, render.Options{
		Background: theme.Background(palette),
		Accent:     accent,
		Rotation:   geometry.Rotation(cat),
		Caption:    CaptionFor(session),
		Text:       ts,
	})
	data, err := render.EncodePNG(img)
	if err != nil {
		return nil, fmt.Errorf("encode card: %w", err)
	}

	id := ulid.Make()
	s.logger.Info("card exported",
		zap.String("card", id.String()),
		zap.String("session", session.ID),
		zap.String("category", string(cat)),
		zap.Int("bytes", len(data)))

	return &Card{
		ID:       id.String(),
		Filename: fmt.Sprintf("Quantum-Connection-%s.png", cat),
		PNG:      data,
		ShareURL: s.origin,
	}, nil
}

// CaptionFor returns the card text of a session with a result.
func CaptionFor(session *model.Session) *render.Caption {
	r := session.Wizard.Record
	c := &render.Caption{
		Name1: r.Name1,
		Name2: r.Name2,
		Match: session.MatchPercent,
		Quote: model.DefaultQuote,
	}
	if res := session.Result; res != nil {
		c.Title = res.ArchetypeTitle
		c.Insight = res.Insight
		if res.Quote != "" {
			c.Quote = res.Quote
		}
	}
	return c
}
