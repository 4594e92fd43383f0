package review

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/examtrainer/backend/internal/models"
)

type Handler struct {
	service      *Service
	defaultLimit int
}

func NewHandler(service *Service) *Handler {
	limit := 20
	if v := os.Getenv("REVIEW_QUEUE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	return &Handler{service: service, defaultLimit: limit}
}

// RegisterRoutes registers review endpoints on the protected subrouter.
func (h *Handler) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/reviews/due", h.GetDueQuestions).Methods("GET")
	protected.HandleFunc("/reviews/{questionID}", h.GetSchedulingState).Methods("GET")
}

// getUserID extracts the authenticated user ID from the request context.
func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

func (h *Handler) GetDueQuestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	limit := intQueryParam(r.URL.Query(), "limit", h.defaultLimit)
	if limit > 100 {
		limit = 100
	}

	ids, err := h.service.ListDue(userID, time.Now().UTC(), limit)
	if err != nil {
		log.Printf("[handler] GetDueQuestions error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get due questions"})
		return
	}

	writeJSON(w, http.StatusOK, models.DueQuestionsResponse{
		QuestionIDs: ids,
		Total:       len(ids),
	})
}

func (h *Handler) GetSchedulingState(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	vars := mux.Vars(r)
	questionID, err := strconv.ParseInt(vars["questionID"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid question ID"})
		return
	}

	state, err := h.service.GetOrCreateState(userID, questionID, time.Now().UTC())
	if err != nil {
		log.Printf("[handler] GetSchedulingState error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get scheduling state"})
		return
	}

	writeJSON(w, http.StatusOK, state)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func intQueryParam(query url.Values, key string, defaultVal int) int {
	s := query.Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	return v
}
