package handler

import (
	"careerpilot/internal/service"
	"net/http"
)

// IntelligenceHandler handles career intelligence and analytics endpoints
type IntelligenceHandler struct {
	intelligenceSvc *service.IntelligenceService
	analyticsSvc    *service.AnalyticsService
}

// NewIntelligenceHandler creates a new intelligence handler
func NewIntelligenceHandler(intelligenceSvc *service.IntelligenceService, analyticsSvc *service.AnalyticsService) *IntelligenceHandler {
	return &IntelligenceHandler{
		intelligenceSvc: intelligenceSvc,
		analyticsSvc:    analyticsSvc,
	}
}

// Get handles GET /api/career-intelligence
func (h *IntelligenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	// Summaries go stale the moment an interview finishes; keep
	// intermediaries from caching them
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")

	intelligence, err := h.intelligenceSvc.GetOrCreate(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, intelligence)
}

// Rebuild handles POST /api/career-intelligence/rebuild
func (h *IntelligenceHandler) Rebuild(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	intelligence, err := h.intelligenceSvc.Rebuild(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, intelligence)
}

// Analytics handles GET /api/analytics
func (h *IntelligenceHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	analytics, err := h.analyticsSvc.GetUserAnalytics(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, analytics)
}
