package handlers

import (
	"errors"
	"net/http"
	"strings"

	"solcam/internal/application/holdings"
)

// HoldingsHandler mounts GET /wallets/{address}/tokens on top of the
// TTL holdings cache.
type HoldingsHandler struct {
	Cache *holdings.Cache
}

func NewHoldingsHandler(cache *holdings.Cache) *HoldingsHandler {
	return &HoldingsHandler{Cache: cache}
}

func (h *HoldingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	if h.Cache == nil {
		writeError(w, http.StatusServiceUnavailable, "holdings cache not configured")
		return
	}

	// /wallets/{address}/tokens
	rest := strings.TrimPrefix(r.URL.Path, "/wallets/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) != 2 || parts[1] != "tokens" {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	owner := strings.TrimSpace(parts[0])

	tokens, err := h.Cache.Get(r.Context(), owner)
	if err != nil {
		if errors.Is(err, holdings.ErrOwnerEmpty) {
			writeError(w, http.StatusBadRequest, "owner address is required")
			return
		}
		writeError(w, http.StatusBadGateway, "failed to fetch token accounts")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"owner":  owner,
		"tokens": tokens,
	})
}
