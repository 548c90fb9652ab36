package handler

import (
	"net/http"
	"strconv"

	"quantumconnections/internal/geometry"
	"quantumconnections/internal/model"
	"quantumconnections/internal/service"
	"quantumconnections/internal/theme"

	"github.com/gorilla/mux"
)

// maxParticles caps the count a client may request.
const maxParticles = 20000

// GeometryHandler serves particle clouds and category metadata
type GeometryHandler struct {
	cardSvc *service.CardService
}

// NewGeometryHandler creates a new geometry handler
func NewGeometryHandler(cardSvc *service.CardService) *GeometryHandler {
	return &GeometryHandler{cardSvc: cardSvc}
}

// GeometryResponse carries flat position and colour buffers ready for a
// point-cloud renderer.
type GeometryResponse struct {
	Category  model.Category `json:"category"`
	Count     int            `json:"count"`
	Positions []float32      `json:"positions"`
	Colors    []float32      `json:"colors"`
	Rotation  geometry.Vec3  `json:"rotation"`
	Palette   model.Palette  `json:"palette"`
}

// Sample handles GET /v1/geometry/{category}?count=N
func (h *GeometryHandler) Sample(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["category"]
	cat, ok := model.ParseCategory(raw)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown category: "+raw)
		return
	}

	count := 0
	if s := r.URL.Query().Get("count"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > maxParticles {
			writeError(w, http.StatusBadRequest, "count must be between 1 and 20000")
			return
		}
		count = n
	}

	sample, err := h.cardSvc.Sample(cat, count)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate geometry")
		return
	}
	positions, colors := sample.Flat()

	writeJSON(w, http.StatusOK, GeometryResponse{
		Category:  cat,
		Count:     sample.Len(),
		Positions: positions,
		Colors:    colors,
		Rotation:  geometry.Rotation(cat),
		Palette:   theme.For(cat),
	})
}

// Categories handles GET /v1/categories
func (h *GeometryHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"categories": model.GetCategoryInfo()})
}
