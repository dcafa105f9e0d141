package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Matchmaker/internal/assessment"
	"github.com/MikeSquared-Agency/Matchmaker/internal/scenario"
	"github.com/MikeSquared-Agency/Matchmaker/internal/scoring"
	"github.com/MikeSquared-Agency/Matchmaker/internal/session"
	"github.com/MikeSquared-Agency/Matchmaker/internal/store"
)

type SessionsHandler struct {
	svc *assessment.Service
}

func NewSessionsHandler(svc *assessment.Service) *SessionsHandler {
	return &SessionsHandler{svc: svc}
}

type SessionResponse struct {
	ID          uuid.UUID              `json:"session_id"`
	Phase       session.Phase          `json:"phase"`
	Question    int                    `json:"question"`
	Total       int                    `json:"total"`
	Progress    float64                `json:"progress"`
	Preferences map[string]float64     `json:"preferences,omitempty"`
	Answers     []session.AnswerRecord `json:"answers"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

func (h *SessionsHandler) toResponse(sess *store.Session) SessionResponse {
	total := len(h.svc.Scenarios())
	resp := SessionResponse{
		ID:        sess.ID,
		Phase:     sess.State.CurrentPhase(),
		Question:  sess.State.Question,
		Total:     total,
		Progress:  sess.State.Progress(total),
		Answers:   sess.State.Answers,
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.UpdatedAt,
	}
	if resp.Answers == nil {
		resp.Answers = []session.AnswerRecord{}
	}
	if len(sess.State.Preferences) > 0 {
		names := h.svc.Traits()
		resp.Preferences = make(map[string]float64, len(names))
		for i, v := range sess.State.Preferences {
			if i < len(names) {
				resp.Preferences[names[i]] = v
			}
		}
	}
	return resp
}

func (h *SessionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Create(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.toResponse(sess))
}

func (h *SessionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	sess, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toResponse(sess))
}

func (h *SessionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Begin starts the assessment.
// POST /api/v1/sessions/{id}/begin
func (h *SessionsHandler) Begin(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	sess, err := h.svc.Begin(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toResponse(sess))
}

type ScenarioResponse struct {
	Index    int    `json:"index"`
	Total    int    `json:"total"`
	Question string `json:"question"`
	OptionA  string `json:"option_a"`
	OptionB  string `json:"option_b"`
}

func (h *SessionsHandler) Current(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	sc, idx, err := h.svc.Current(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ScenarioResponse{
		Index:    idx,
		Total:    len(h.svc.Scenarios()),
		Question: sc.Question,
		OptionA:  sc.OptionA,
		OptionB:  sc.OptionB,
	})
}

type AnswerRequest struct {
	Side       scenario.Side `json:"side"`
	Multiplier *float64      `json:"multiplier"`
}

type AnswerResponse struct {
	Record  session.AnswerRecord `json:"record"`
	Session SessionResponse      `json:"session"`
}

// Answer records one choice.
// POST /api/v1/sessions/{id}/answers
func (h *SessionsHandler) Answer(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Multiplier == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multiplier required"})
		return
	}

	sess, rec, err := h.svc.Answer(r.Context(), id, req.Side, *req.Multiplier)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AnswerResponse{Record: rec, Session: h.toResponse(sess)})
}

func (h *SessionsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	sess, err := h.svc.Reset(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toResponse(sess))
}

type MatchesResponse struct {
	SessionID uuid.UUID       `json:"session_id"`
	Total     int             `json:"total"`
	Matches   []scoring.Match `json:"matches"`
}

// Matches returns the ranking of a complete session. The optional limit
// query parameter returns only the top entries.
// GET /api/v1/sessions/{id}/matches?limit=5
func (h *SessionsHandler) Matches(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	ranking, err := h.svc.Matches(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MatchesResponse{
		SessionID: id,
		Total:     ranking.Len(),
		Matches:   ranking.Top(limit),
	})
}

func (h *SessionsHandler) Profile(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	profile, err := h.svc.Profile(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session id"})
		return uuid.Nil, false
	}
	return id, true
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, assessment.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrInvalidSide), errors.Is(err, session.ErrInvalidMultiplier):
		status = http.StatusBadRequest
	case session.IsTransitionError(err), errors.Is(err, session.ErrCorruptState):
		status = http.StatusConflict
	case scoring.IsRankingError(err):
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
