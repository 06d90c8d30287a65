package handlers

import (
	"log"
	"net/http"

	"solcam/internal/application/usecase"
)

// OrphansHandler mounts GET /admin/orphans, the report of metadata objects
// in the bucket that never reached a confirmed mint.
type OrphansHandler struct {
	Reconciler *usecase.Reconciler
}

func NewOrphansHandler(rec *usecase.Reconciler) *OrphansHandler {
	return &OrphansHandler{Reconciler: rec}
}

func (h *OrphansHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	if h.Reconciler == nil {
		writeError(w, http.StatusServiceUnavailable, "reconciler not configured")
		return
	}

	report, err := h.Reconciler.Report(r.Context())
	if err != nil {
		log.Printf("[http] orphan report failed: %v", err)
		writeError(w, http.StatusBadGateway, "failed to build orphan report")
		return
	}

	writeJSON(w, http.StatusOK, report)
}
