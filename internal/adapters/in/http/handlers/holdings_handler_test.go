package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solcam/internal/application/holdings"
)

type stubFetcher struct {
	holdings []holdings.TokenHolding
	err      error
}

func (s *stubFetcher) TokenAccountsByOwner(ctx context.Context, owner string) ([]holdings.TokenHolding, error) {
	return s.holdings, s.err
}

func newHoldingsHandler(f *stubFetcher) *HoldingsHandler {
	return NewHoldingsHandler(holdings.NewCache(f, "https://api.devnet.solana.com"))
}

func TestHoldingsHandlerSuccess(t *testing.T) {
	h := newHoldingsHandler(&stubFetcher{holdings: []holdings.TokenHolding{
		{AccountPubkey: "Acc111", Mint: "Mint111", Amount: "1", Decimals: 0},
	}})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/wallets/Owner111/tokens", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Owner  string                  `json:"owner"`
		Tokens []holdings.TokenHolding `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Owner111", body.Owner)
	require.Len(t, body.Tokens, 1)
	assert.Equal(t, "Mint111", body.Tokens[0].Mint)
}

func TestHoldingsHandlerBadPath(t *testing.T) {
	h := newHoldingsHandler(&stubFetcher{})

	for _, path := range []string{"/wallets/", "/wallets/Owner111", "/wallets/Owner111/nfts"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, "path=%s", path)
	}
}

func TestHoldingsHandlerMethodNotAllowed(t *testing.T) {
	h := newHoldingsHandler(&stubFetcher{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/wallets/Owner111/tokens", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHoldingsHandlerFetchFailure(t *testing.T) {
	h := newHoldingsHandler(&stubFetcher{err: errors.New("rpc down")})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/wallets/Owner111/tokens", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
