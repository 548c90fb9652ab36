package service

import (
	"context"
	"encoding/json"
	"sync"

	"quantumconnections/internal/model"
)

// fixedSource always returns the same index, clamped to n.
type fixedSource struct{ v int }

func (s fixedSource) IntN(n int) int { return s.v % n }

// constSource is a geometry source that always returns the same draw.
type constSource float64

func (c constSource) Float64() float64 { return float64(c) }

type stubGenerator struct {
	mu      sync.Mutex
	text    string
	err     error
	block   chan struct{}
	calls   int
	models  []string
	prompts []string
}

func (g *stubGenerator) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	if g.block != nil {
		select {
		case <-g.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.models = append(g.models, model)
	g.prompts = append(g.prompts, prompt)
	return g.text, g.err
}

func (g *stubGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// gatedGenerator holds call n until release(n).
type gatedGenerator struct {
	mu    sync.Mutex
	text  string
	gates []chan struct{}
	calls int
}

func newGatedGenerator(text string, n int) *gatedGenerator {
	g := &gatedGenerator{text: text, gates: make([]chan struct{}, n)}
	for i := range g.gates {
		g.gates[i] = make(chan struct{})
	}
	return g
}

func (g *gatedGenerator) GenerateText(ctx context.Context, _, _ string) (string, error) {
	g.mu.Lock()
	gate := g.gates[g.calls]
	g.calls++
	g.mu.Unlock()

	select {
	case <-gate:
		return g.text, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (g *gatedGenerator) release(n int) { close(g.gates[n]) }

func (g *gatedGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// memCache keeps sessions as JSON, like the redis cache does.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Set(_ context.Context, session *model.Session) error {
	b, err := json.Marshal(session)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[session.ID] = b
	return nil
}

func (c *memCache) Get(_ context.Context, id string) (*model.Session, error) {
	c.mu.Lock()
	b, ok := c.data[id]
	c.mu.Unlock()
	if !ok {
		return nil, nil
	}
	var s model.Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *memCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, id)
	return nil
}

type sentMessage struct {
	session string
	msgType string
	payload interface{}
}

type recordingBroadcaster struct {
	mu           sync.Mutex
	sent         []sentMessage
	disconnected []string
}

func (b *recordingBroadcaster) BroadcastToSession(sessionID string, msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, sentMessage{sessionID, msgType, payload})
}

func (b *recordingBroadcaster) DisconnectSession(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.disconnected = append(b.disconnected, sessionID)
}

func (b *recordingBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.sent))
	for i, m := range b.sent {
		out[i] = m.msgType
	}
	return out
}
