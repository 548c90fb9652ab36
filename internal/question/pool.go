// Package question holds the per-category question pools and rolls one
// question per phase.
package question

import (
	_ "embed"
	"fmt"
	"math/rand/v2"

	"quantumconnections/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed pools.yaml
var poolsYAML []byte

// optionsPerQuestion is the number of options every question must offer.
const optionsPerQuestion = 3

// Pools holds the candidate questions of one category per phase.
type Pools struct {
	Q1 []model.Question `yaml:"q1"`
	Q2 []model.Question `yaml:"q2"`
	Q3 []model.Question `yaml:"q3"`
}

// Phase returns the candidates for one phase.
func (p Pools) Phase(ph model.Phase) []model.Question {
	switch ph {
	case model.PhaseOrbit:
		return p.Q1
	case model.PhaseImpact:
		return p.Q2
	case model.PhaseGravity:
		return p.Q3
	}
	return nil
}

var pools = mustLoad(poolsYAML)

func mustLoad(data []byte) map[model.Category]Pools {
	p, err := Load(data)
	if err != nil {
		panic(fmt.Sprintf("question: embedded pools: %v", err))
	}
	return p
}

// Load parses and validates pool data. Every known category needs a
// non-empty pool for every phase and every question exactly three options.
func Load(data []byte) (map[model.Category]Pools, error) {
	var raw map[model.Category]Pools
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode pools: %w", err)
	}
	for _, cat := range model.Categories() {
		p, ok := raw[cat]
		if !ok {
			return nil, fmt.Errorf("category %s: missing", cat)
		}
		for _, phase := range model.Phases() {
			qs := p.Phase(phase)
			if len(qs) == 0 {
				return nil, fmt.Errorf("category %s phase %s: empty pool", cat, phase)
			}
			for _, q := range qs {
				if q.Text == "" {
					return nil, fmt.Errorf("category %s phase %s: question without text", cat, phase)
				}
				if len(q.Options) != optionsPerQuestion {
					return nil, fmt.Errorf("category %s phase %s: %q has %d options", cat, phase, q.Text, len(q.Options))
				}
			}
		}
	}
	return raw, nil
}

// Source picks an index in [0,n).
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// DefaultSource returns a goroutine-safe source backed by math/rand/v2.
func DefaultSource() Source { return globalSource{} }

// Pool returns the pools of the category, falling back to Affection.
func Pool(cat model.Category) Pools {
	if p, ok := pools[cat]; ok {
		return p
	}
	return pools[model.CategoryAffection]
}

// Select rolls one question per phase, uniformly and independently.
func Select(cat model.Category, src Source) model.QuestionSet {
	if src == nil {
		src = DefaultSource()
	}
	p := Pool(cat)
	return model.QuestionSet{
		Q1: pick(p.Q1, src),
		Q2: pick(p.Q2, src),
		Q3: pick(p.Q3, src),
	}
}

func pick(qs []model.Question, src Source) model.Question {
	i := src.IntN(len(qs))
	if i < 0 || i >= len(qs) {
		i = 0
	}
	q := qs[i]
	q.Options = append([]model.Option(nil), q.Options...)
	return q
}
