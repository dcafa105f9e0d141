package api

import (
	"net/http"

	"github.com/MikeSquared-Agency/Matchmaker/internal/assessment"
)

type AdminHandler struct {
	svc *assessment.Service
}

func NewAdminHandler(svc *assessment.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
