package exam

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/examtrainer/backend/internal/models"
)

type Handler struct {
	engine *Engine
	clock  *Clock
}

// NewHandler builds the exam HTTP handler. A nil clock disables
// auto-submit; sessions then expire only through GetRemainingTime.
func NewHandler(engine *Engine, clock *Clock) *Handler {
	return &Handler{engine: engine, clock: clock}
}

// RegisterRoutes registers mock-exam endpoints on the protected subrouter.
func (h *Handler) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/exams", h.CreateExam).Methods("POST")
	protected.HandleFunc("/exams/{sessionID}", h.GetExam).Methods("GET")
	protected.HandleFunc("/exams/{sessionID}/answers", h.SubmitAnswer).Methods("POST")
	protected.HandleFunc("/exams/{sessionID}/finalize", h.FinalizeExam).Methods("POST")
	protected.HandleFunc("/exams/{sessionID}/time", h.GetRemainingTime).Methods("GET")
}

func (h *Handler) CreateExam(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	sess, err := h.engine.Create(userID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, ErrInsufficientQuestions) {
			writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "Not enough questions available for an exam"})
			return
		}
		log.Printf("[handler] CreateExam error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create exam session"})
		return
	}

	if h.clock != nil {
		h.clock.Watch(sess.ID, time.Duration(sess.TimeBudgetSeconds)*time.Second)
	}

	writeJSON(w, http.StatusCreated, models.CreateExamResponse{
		SessionID:         sess.ID,
		QuestionIDs:       sess.QuestionIDs,
		TimeBudgetSeconds: sess.TimeBudgetSeconds,
	})
}

func (h *Handler) GetExam(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	sess, err := h.engine.Get(mux.Vars(r)["sessionID"])
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Exam session not found"})
			return
		}
		log.Printf("[handler] GetExam error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get exam session"})
		return
	}
	if sess.UserID != userID {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Exam session not found"})
		return
	}

	writeJSON(w, http.StatusOK, sess)
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.ExamAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	sessionID := mux.Vars(r)["sessionID"]
	if err := h.engine.RecordAnswer(sessionID, userID, req.QuestionID, req.SelectedIndex); err != nil {
		switch {
		case errors.Is(err, ErrSessionNotFound):
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Exam session not found"})
		case errors.Is(err, ErrSessionCompleted):
			writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "Exam session already completed"})
		case errors.Is(err, ErrQuestionNotInSession):
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Question is not part of this exam"})
		case errors.Is(err, ErrInvalidAnswer):
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid answer"})
		default:
			log.Printf("[handler] SubmitAnswer error: %v", err)
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to save answer"})
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) FinalizeExam(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	// The body is optional: finalize with no body scores whatever answers
	// were recorded during the session.
	var req models.FinalizeExamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	sessionID := mux.Vars(r)["sessionID"]

	sess, err := h.engine.Get(sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Exam session not found"})
			return
		}
		log.Printf("[handler] FinalizeExam error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to finalize exam"})
		return
	}
	if sess.UserID != userID {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Exam session not found"})
		return
	}

	result, err := h.engine.Finalize(sessionID, req.Answers, time.Now().UTC())
	if err != nil {
		log.Printf("[handler] FinalizeExam error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to finalize exam"})
		return
	}

	if h.clock != nil {
		h.clock.Stop(sessionID)
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) GetRemainingTime(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	sessionID := mux.Vars(r)["sessionID"]
	sess, err := h.engine.Get(sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Exam session not found"})
			return
		}
		log.Printf("[handler] GetRemainingTime error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get remaining time"})
		return
	}
	if sess.UserID != userID {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Exam session not found"})
		return
	}

	resp, err := h.engine.Remaining(sessionID, time.Now().UTC())
	if err != nil {
		log.Printf("[handler] GetRemainingTime error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get remaining time"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// getUserID extracts the authenticated user ID from the request context.
func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
