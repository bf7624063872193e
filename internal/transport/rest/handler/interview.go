package handler

import (
	"careerpilot/internal/model"
	"careerpilot/internal/service"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
)

// InterviewHandler handles interview lifecycle endpoints
type InterviewHandler struct {
	interviewSvc *service.InterviewService
}

// NewInterviewHandler creates a new interview handler
func NewInterviewHandler(interviewSvc *service.InterviewService) *InterviewHandler {
	return &InterviewHandler{interviewSvc: interviewSvc}
}

// Create handles POST /api/interviews
func (h *InterviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req model.CreateInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	interview, err := h.interviewSvc.Create(r.Context(), userID, &req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, interview)
}

// List handles GET /api/interviews
func (h *InterviewHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	summaries, err := h.interviewSvc.List(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, summaries)
}

// Get handles GET /api/interviews/{interviewId}
func (h *InterviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["interviewId"]

	interview, err := h.interviewSvc.Get(r.Context(), userID, id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, interview)
}

// SubmitAnswer handles POST /api/interviews/{interviewId}/answers
func (h *InterviewHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["interviewId"]

	var req model.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	evaluation, err := h.interviewSvc.SubmitAnswer(r.Context(), userID, id, &req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, evaluation)
}

// Complete handles POST /api/interviews/{interviewId}/complete
func (h *InterviewHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["interviewId"]

	results, err := h.interviewSvc.Complete(r.Context(), userID, id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, results)
}

// Delete handles DELETE /api/interviews/{interviewId}
func (h *InterviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["interviewId"]

	if err := h.interviewSvc.Delete(r.Context(), userID, id); err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"detail": "interview deleted"})
}

// Resume handles GET /api/interviews/{interviewId}/resume
func (h *InterviewHandler) Resume(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["interviewId"]

	interview, next, err := h.interviewSvc.Resume(r.Context(), userID, id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"interview":    interview,
		"nextQuestion": next,
	})
}

func (h *InterviewHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInterviewNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidQuestion), errors.Is(err, service.ErrNotResumable):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
