package rest

import "net/http"

// SavedQueryResponse is the resolved query of a saved search.
type SavedQueryResponse struct {
	ID    string `json:"id"`
	Query string `json:"query"`
}

func (h *Handler) handleSavedQuery(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	query, err := h.reports.SavedQuery(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SavedQueryResponse{ID: id, Query: query})
}
