package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ohana-pos/pos/internal/model"
)

func (h *Handler) ListDebtors(w http.ResponseWriter, r *http.Request) {
	debtors, err := h.debtors.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if debtors == nil {
		debtors = []model.Debtor{}
	}
	writeJSON(w, http.StatusOK, debtors)
}

func (h *Handler) CreateDebtor(w http.ResponseWriter, r *http.Request) {
	var d model.Debtor
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.debtors.Create(r.Context(), &d); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (h *Handler) UpdateDebtor(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid debtor id")
		return
	}
	var d model.Debtor
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	d.ID = id
	if err := h.debtors.Update(r.Context(), &d); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Handler) DeleteDebtor(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid debtor id")
		return
	}
	if err := h.debtors.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ClientsCount counts the debtor records, the only customer records the
// system keeps.
func (h *Handler) ClientsCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.debtors.Count(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}
