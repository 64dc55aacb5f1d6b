package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/wasuremon/internal/domain/types"
)

// TaxonomyHandler handles taxonomy requests.
type TaxonomyHandler struct {
	deps TaxonomyDependencies
}

// NewTaxonomyHandler creates a new taxonomy handler.
func NewTaxonomyHandler(deps TaxonomyDependencies) *TaxonomyHandler {
	return &TaxonomyHandler{deps: deps}
}

// HandleGetTaxonomy handles GET /taxonomy?kind=K[&all=true]. Without all,
// only entries referenced by events are listed after the "All" sentinel.
func (h *TaxonomyHandler) HandleGetTaxonomy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	kind, err := types.ParseKind(q.Get("kind"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	all := false
	if v := q.Get("all"); v != "" {
		if all, err = strconv.ParseBool(v); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: all=%q", ErrBadRequest, v))
			return
		}
	}
	if all {
		writeJSON(w, http.StatusOK, h.deps.GetTaxonomyCatalog(r.Context(), kind))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.GetMergedTaxonomy(r.Context(), kind))
}
