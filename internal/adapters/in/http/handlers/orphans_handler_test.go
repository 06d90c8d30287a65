package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solcam/internal/application/usecase"
	"solcam/internal/domain/mintrecord"
)

type stubLister struct{ paths []string }

func (s *stubLister) List(ctx context.Context, prefix string) ([]string, error) {
	return s.paths, nil
}

type stubRecordReader struct{ minted map[string]bool }

func (s *stubRecordReader) GetByMetadataPath(ctx context.Context, metadataPath string) (mintrecord.MintRecord, error) {
	if s.minted[metadataPath] {
		return mintrecord.MintRecord{MetadataPath: metadataPath}, nil
	}
	return mintrecord.MintRecord{}, mintrecord.ErrNotFound
}

func TestOrphansHandler(t *testing.T) {
	rec := usecase.NewReconciler(
		&stubLister{paths: []string{"nfts/metadata/a.json", "nfts/metadata/b.json"}},
		&stubRecordReader{minted: map[string]bool{"nfts/metadata/a.json": true}},
	)
	h := NewOrphansHandler(rec)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/orphans", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var report usecase.OrphanReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 2, report.Checked)
	assert.Equal(t, 1, report.Minted)
	assert.Equal(t, []string{"nfts/metadata/b.json"}, report.Orphans)
}

func TestOrphansHandlerMethodNotAllowed(t *testing.T) {
	h := NewOrphansHandler(nil)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/orphans", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
