package rest

import (
	"careerpilot/internal/service"
	"careerpilot/internal/transport/rest/handler"
	"careerpilot/internal/transport/rest/middleware"
	"careerpilot/internal/transport/ws"
	"net/http"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService         *service.AuthService
	InterviewService    *service.InterviewService
	IntelligenceService *service.IntelligenceService
	AnalyticsService    *service.AnalyticsService
	WSHub               *ws.Hub
	CORSOrigins         string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	interviewHandler := handler.NewInterviewHandler(c.InterviewService)
	intelligenceHandler := handler.NewIntelligenceHandler(c.IntelligenceService, c.AnalyticsService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.CORSOrigins))

	api := r.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// WebSocket route (token in query param)
	api.HandleFunc("/ws/dashboard", wsHandler.DashboardWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Authenticated routes
	authed := api.NewRoute().Subrouter()
	authed.Use(authMW.RequireUser)

	authed.HandleFunc("/interviews", interviewHandler.Create).Methods("POST", "OPTIONS")
	authed.HandleFunc("/interviews", interviewHandler.List).Methods("GET", "OPTIONS")
	authed.HandleFunc("/interviews/{interviewId}", interviewHandler.Get).Methods("GET", "OPTIONS")
	authed.HandleFunc("/interviews/{interviewId}", interviewHandler.Delete).Methods("DELETE", "OPTIONS")
	authed.HandleFunc("/interviews/{interviewId}/answers", interviewHandler.SubmitAnswer).Methods("POST", "OPTIONS")
	authed.HandleFunc("/interviews/{interviewId}/complete", interviewHandler.Complete).Methods("POST", "OPTIONS")
	authed.HandleFunc("/interviews/{interviewId}/resume", interviewHandler.Resume).Methods("GET", "OPTIONS")

	authed.HandleFunc("/career-intelligence", intelligenceHandler.Get).Methods("GET", "OPTIONS")
	authed.HandleFunc("/career-intelligence/rebuild", intelligenceHandler.Rebuild).Methods("POST", "OPTIONS")
	authed.HandleFunc("/analytics", intelligenceHandler.Analytics).Methods("GET", "OPTIONS")

	authed.HandleFunc("/account", authHandler.DeleteAccount).Methods("DELETE", "OPTIONS")

	return r
}

func corsMiddleware(allowedOrigins string) mux.MiddlewareFunc {
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
