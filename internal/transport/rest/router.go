package rest

import (
	"net/http"

	_ "quantumconnections/docs" // registers the swagger spec
	"quantumconnections/internal/service"
	"quantumconnections/internal/transport/rest/handler"
	"quantumconnections/internal/transport/rest/middleware"
	"quantumconnections/internal/transport/ws"

	"github.com/gorilla/mux"
	"github.com/swaggo/swag"
	"go.uber.org/zap"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService    *service.AuthService
	SessionService *service.SessionService
	CardService    *service.CardService
	WSHandler      *ws.Handler
	CORSOrigins    string
	Logger         *zap.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	sessionHandler := handler.NewSessionHandler(c.SessionService, c.CardService, c.Logger)
	geometryHandler := handler.NewGeometryHandler(c.CardService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.CORSOrigins))
	r.Use(middleware.RequestLogger(c.Logger))

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/sessions", sessionHandler.Start).Methods("POST", "OPTIONS")
	v1.HandleFunc("/categories", geometryHandler.Categories).Methods("GET", "OPTIONS")
	v1.HandleFunc("/geometry/{category}", geometryHandler.Sample).Methods("GET", "OPTIONS")

	// WebSocket routes (public with token in query param)
	if c.WSHandler != nil {
		v1.HandleFunc("/ws/sessions/{id}/loader", c.WSHandler.LoaderWS).Methods("GET")
	}

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.HandleFunc("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		doc, err := swag.ReadDoc()
		if err != nil {
			http.Error(w, `{"error":"swagger spec unavailable"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(doc))
	}).Methods("GET")

	// Session routes (require the session's token)
	sessionRoutes := v1.PathPrefix("/sessions/{id}").Subrouter()
	sessionRoutes.Use(authMW.RequireSession)

	sessionRoutes.HandleFunc("", sessionHandler.Get).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/participants", sessionHandler.SetParticipants).Methods("PUT", "OPTIONS")
	sessionRoutes.HandleFunc("/category", sessionHandler.SetCategory).Methods("PUT", "OPTIONS")
	sessionRoutes.HandleFunc("/advance", sessionHandler.Advance).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/answers", sessionHandler.Answer).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/result", sessionHandler.Result).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/reset", sessionHandler.Reset).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/card.png", sessionHandler.Card).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(allowedOrigins string) mux.MiddlewareFunc {
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, X-Session-Token, X-Share-URL, Content-Disposition")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
