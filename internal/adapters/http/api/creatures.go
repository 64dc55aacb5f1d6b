package api

import (
	"fmt"
	"net/http"
	"strings"
)

// CreaturesHandler handles creature requests.
type CreaturesHandler struct {
	deps CreatureDependencies
}

// NewCreaturesHandler creates a new creatures handler.
func NewCreaturesHandler(deps CreatureDependencies) *CreaturesHandler {
	return &CreaturesHandler{deps: deps}
}

// HandleListCreatures handles GET /creatures?category=&type=&situation=.
func (h *CreaturesHandler) HandleListCreatures(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.GetCreatures(r.Context(), filtersFromQuery(r.URL.Query())))
}

// HandleGetCreature handles GET /creatures/{item_type_id}.
func (h *CreaturesHandler) HandleGetCreature(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/creatures/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	c, ok := h.deps.GetCreature(r.Context(), id)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", fmt.Errorf("creature %q: %w", id, ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, c)
}
