package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"quantumconnections/internal/model"
	"quantumconnections/internal/service"
	"quantumconnections/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// SessionHandler handles wizard session endpoints
type SessionHandler struct {
	sessionSvc *service.SessionService
	cardSvc    *service.CardService
	logger     *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionSvc *service.SessionService, cardSvc *service.CardService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		sessionSvc: sessionSvc,
		cardSvc:    cardSvc,
		logger:     logger,
	}
}

// log tags the handler logger with the request id and, behind the auth
// middleware, the session id.
func (h *SessionHandler) log(r *http.Request) *zap.Logger {
	ctx := r.Context()
	fields := []zap.Field{zap.String("request_id", middleware.GetRequestID(ctx))}
	if id := middleware.GetSessionID(ctx); id != "" {
		fields = append(fields, zap.String("session", id))
	}
	return h.logger.With(fields...)
}

// fail writes err as JSON. Errors that surface as 500 are logged.
func (h *SessionHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if statusFor(err) == http.StatusInternalServerError {
		h.log(r).Error("session request failed", zap.Error(err))
	}
	writeServiceError(w, err)
}

// ParticipantsRequest is the request body for setting names and genders
type ParticipantsRequest struct {
	Name1   string       `json:"name1"`
	Gender1 model.Gender `json:"gender1"`
	Name2   string       `json:"name2"`
	Gender2 model.Gender `json:"gender2"`
}

// CategoryRequest is the request body for choosing a category
type CategoryRequest struct {
	Category string `json:"category"`
}

// AnswerRequest is the request body for committing an option
type AnswerRequest struct {
	OptionIndex *int `json:"optionIndex"`
}

// Start handles POST /v1/sessions
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	resp, err := h.sessionSvc.Start(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Get handles GET /v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionSvc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, service.BuildView(session))
}

// SetParticipants handles PUT /v1/sessions/{id}/participants
func (h *SessionHandler) SetParticipants(w http.ResponseWriter, r *http.Request) {
	var req ParticipantsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.sessionSvc.SetParticipants(r.Context(), mux.Vars(r)["id"], req.Name1, req.Gender1, req.Name2, req.Gender2)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, service.BuildView(session))
}

// SetCategory handles PUT /v1/sessions/{id}/category
func (h *SessionHandler) SetCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cat, ok := model.ParseCategory(req.Category)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown category: "+req.Category)
		return
	}

	session, err := h.sessionSvc.SetCategory(r.Context(), mux.Vars(r)["id"], cat)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, service.BuildView(session))
}

// Advance handles POST /v1/sessions/{id}/advance
func (h *SessionHandler) Advance(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionSvc.Advance(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, service.BuildView(session))
}

// Answer handles POST /v1/sessions/{id}/answers
func (h *SessionHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OptionIndex == nil {
		writeError(w, http.StatusBadRequest, "optionIndex is required")
		return
	}

	session, err := h.sessionSvc.Answer(r.Context(), mux.Vars(r)["id"], *req.OptionIndex)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	status := http.StatusOK
	if session.Step == model.AppSimulating {
		status = http.StatusAccepted
	}
	writeJSON(w, status, service.BuildView(session))
}

// Result handles GET /v1/sessions/{id}/result. With ?wait=true it joins the
// loader first, for clients that do not open the WebSocket.
func (h *SessionHandler) Result(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); wait {
		session, err := h.sessionSvc.Await(r.Context(), id, nil)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		if session.Step != model.AppResult {
			// Joined without a result; the session is back on the wizard.
			writeJSON(w, http.StatusConflict, service.BuildView(session))
			return
		}
	}

	session, err := h.sessionSvc.Result(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, service.BuildView(session))
}

// Reset handles POST /v1/sessions/{id}/reset
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionSvc.Reset(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, service.BuildView(session))
}

// Card handles GET /v1/sessions/{id}/card.png
func (h *SessionHandler) Card(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionSvc.Result(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}

	card, err := h.cardSvc.Export(session)
	if err != nil {
		h.log(r).Error("failed to export card", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to render card")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `attachment; filename="`+card.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(card.PNG)))
	w.Header().Set("X-Share-URL", card.ShareURL)
	w.Header().Set("X-Card-ID", card.ID)
	w.WriteHeader(http.StatusOK)
	w.Write(card.PNG)
}
