package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quantumconnections/internal/cache"
	"quantumconnections/internal/config"
	"quantumconnections/internal/geometry"
	"quantumconnections/internal/model"
	"quantumconnections/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type staticGenerator struct{ text string }

func (g staticGenerator) GenerateText(_ context.Context, _, _ string) (string, error) {
	return g.text, nil
}

type apiFixture struct {
	t        *testing.T
	server   *httptest.Server
	auth     *service.AuthService
	sessions *service.SessionService
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	logger := zaptest.NewLogger(t)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	auth := service.NewAuthService("secret", time.Hour)
	gen := staticGenerator{text: "```json\n{\"archetypeTitle\":\"الملاذ الأبدي\",\"quote\":\"أنت استقراري.\",\"score\":92,\"insight\":\"وطن.\"}\n```"}
	resonance := service.NewResonanceService(&config.AIConfig{APIKey: "key", Model: "m"}, gen, logger)
	sessions := service.NewSessionService(cache.NewSessionCache(client, time.Hour), auth, resonance, 0, logger)

	srv := httptest.NewServer(NewRouter(&Container{
		AuthService:    auth,
		SessionService: sessions,
		CardService:    service.NewCardService(200, "https://quantum.example", logger),
		CORSOrigins:    "*",
		Logger:         logger,
	}))
	t.Cleanup(func() {
		srv.Close()
		sessions.Wait()
	})
	return &apiFixture{t: t, server: srv, auth: auth, sessions: sessions}
}

func (f *apiFixture) do(method, path, token string, body interface{}) *http.Response {
	f.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(f.t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, f.server.URL+path, rd)
	require.NoError(f.t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(f.t, err)
	f.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealthAndDocs(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do("GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_, err := ulid.Parse(resp.Header.Get("X-Request-ID"))
	assert.NoError(t, err)

	resp = f.do("GET", "/swagger/doc.json", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := decode[map[string]interface{}](t, resp)
	assert.Equal(t, "2.0", doc["swagger"])
	assert.Equal(t, "/v1", doc["basePath"])
	assert.Contains(t, doc["paths"], "/sessions/{id}/answers")
}

func TestCORSPreflight(t *testing.T) {
	f := newAPIFixture(t)
	resp := f.do("OPTIONS", "/v1/sessions/abc/answers", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestCategories(t *testing.T) {
	f := newAPIFixture(t)
	resp := f.do("GET", "/v1/categories", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[struct {
		Categories []model.CategoryInfo `json:"categories"`
	}](t, resp)
	require.Len(t, body.Categories, 4)
	assert.Equal(t, model.CategoryAffection, body.Categories[0].ID)
}

func TestGeometry(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do("GET", "/v1/geometry/family?count=10", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[struct {
		Category  model.Category `json:"category"`
		Count     int            `json:"count"`
		Positions []float32      `json:"positions"`
		Colors    []float32      `json:"colors"`
		Rotation  geometry.Vec3  `json:"rotation"`
	}](t, resp)
	assert.Equal(t, model.CategoryKinship, body.Category)
	assert.Equal(t, 10, body.Count)
	assert.Len(t, body.Positions, 30)
	assert.Len(t, body.Colors, 30)
	assert.InDelta(t, math.Pi/2, body.Rotation.X, 1e-9)

	assert.Equal(t, http.StatusNotFound, f.do("GET", "/v1/geometry/enemies", "", nil).StatusCode)
	assert.Equal(t, http.StatusBadRequest, f.do("GET", "/v1/geometry/rivalry?count=0", "", nil).StatusCode)
	assert.Equal(t, http.StatusBadRequest, f.do("GET", "/v1/geometry/rivalry?count=x", "", nil).StatusCode)
}

func TestSessionFlow(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do("POST", "/v1/sessions", "", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	start := decode[model.StartResponse](t, resp)
	base := "/v1/sessions/" + start.SessionID
	tok := start.Token

	resp = f.do("POST", base+"/advance", tok, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "names are required")

	resp = f.do("POST", base+"/answers", tok, map[string]int{"optionIndex": 0})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "no question on the names step")

	resp = f.do("PUT", base+"/participants", tok, map[string]string{
		"name1": "أحمد", "gender1": "Male", "name2": "مريم", "gender2": "Female",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do("PUT", base+"/category", tok, map[string]string{"category": "love"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view := decode[model.SessionView](t, resp)
	assert.Equal(t, model.CategoryAffection, view.Record.Relationship)

	resp = f.do("PUT", base+"/category", tok, map[string]string{"category": "Enemies"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do("POST", base+"/advance", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view = decode[model.SessionView](t, resp)
	assert.Equal(t, model.StepQ1, view.WizardStep)
	assert.Equal(t, "ORBIT", view.Phase)
	require.NotNil(t, view.Question)
	assert.Len(t, view.Question.Options, 3)

	resp = f.do("PUT", base+"/category", tok, map[string]string{"category": "Rivalry"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "category is locked after names")

	resp = f.do("POST", base+"/answers", tok, map[string]int{"optionIndex": 3})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = f.do("POST", base+"/answers", tok, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	for _, want := range []int{http.StatusOK, http.StatusOK, http.StatusAccepted} {
		resp = f.do("POST", base+"/answers", tok, map[string]int{"optionIndex": 2})
		require.Equal(t, want, resp.StatusCode)
	}
	view = decode[model.SessionView](t, resp)
	assert.Equal(t, model.AppSimulating, view.Step)
	assert.Equal(t, model.StepDone, view.WizardStep)

	resp = f.do("GET", base+"/result?wait=true", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view = decode[model.SessionView](t, resp)
	assert.Equal(t, model.AppResult, view.Step)
	require.NotNil(t, view.Result)
	assert.Equal(t, "الملاذ الأبدي", view.Result.ArchetypeTitle)
	assert.False(t, view.Fallback)
	require.NotNil(t, view.Palette)
	assert.Equal(t, "#E11D48", view.Palette.Colors[0])

	resp = f.do("GET", base+"/card.png?token="+tok, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "Quantum-Connection-Affection.png")
	assert.Equal(t, "https://quantum.example", resp.Header.Get("X-Share-URL"))
	_, err := png.Decode(resp.Body)
	require.NoError(t, err)

	resp = f.do("POST", base+"/reset", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view = decode[model.SessionView](t, resp)
	assert.Equal(t, model.AppInput, view.Step)
	assert.Empty(t, view.Record.Name1)

	resp = f.do("GET", base+"/result", tok, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestSessionAuth(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do("POST", "/v1/sessions", "", nil)
	start := decode[model.StartResponse](t, resp)
	other, err := f.auth.GenerateSessionToken("someone-else")
	require.NoError(t, err)
	ghost, err := f.auth.GenerateSessionToken("ghost")
	require.NoError(t, err)

	path := "/v1/sessions/" + start.SessionID
	assert.Equal(t, http.StatusUnauthorized, f.do("GET", path, "", nil).StatusCode)
	assert.Equal(t, http.StatusUnauthorized, f.do("GET", path, "garbage", nil).StatusCode)
	assert.Equal(t, http.StatusForbidden, f.do("GET", path, other, nil).StatusCode)
	assert.Equal(t, http.StatusNotFound, f.do("GET", "/v1/sessions/ghost", ghost, nil).StatusCode)

	resp = f.do("GET", path+"?token="+start.Token, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view := decode[model.SessionView](t, resp)
	assert.Equal(t, start.SessionID, view.ID)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json"))
}

func TestSessionAuth_MutationsReissueToken(t *testing.T) {
	f := newAPIFixture(t)

	start := decode[model.StartResponse](t, f.do("POST", "/v1/sessions", "", nil))
	base := "/v1/sessions/" + start.SessionID
	issued, err := f.auth.ValidateSessionToken(start.Token)
	require.NoError(t, err)

	resp := f.do("GET", base, start.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("X-Session-Token"))

	resp = f.do("PUT", base+"/participants", start.Token, map[string]string{
		"name1": "سارة", "gender1": "Female", "name2": "علي", "gender2": "Male",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fresh := resp.Header.Get("X-Session-Token")
	require.NotEmpty(t, fresh)

	claims, err := f.auth.ValidateSessionToken(fresh)
	require.NoError(t, err)
	assert.Equal(t, start.SessionID, claims.SessionID)
	assert.False(t, claims.ExpiresAt.Before(issued.ExpiresAt.Time))

	resp = f.do("POST", base+"/advance", fresh, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Session-Token"))
}
