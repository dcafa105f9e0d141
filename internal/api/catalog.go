package api

import (
	"net/http"

	"github.com/MikeSquared-Agency/Matchmaker/internal/assessment"
)

type CatalogHandler struct {
	svc *assessment.Service
}

func NewCatalogHandler(svc *assessment.Service) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func (h *CatalogHandler) Traits(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"traits": h.svc.Traits()})
}

func (h *CatalogHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"candidates": h.svc.Candidates()})
}

func (h *CatalogHandler) Scenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"scenarios": h.svc.Scenarios()})
}
