package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"solcam/internal/application/usecase"
	"solcam/internal/domain/asset"
	"solcam/internal/domain/geo"
)

const maxUploadBytes = 32 << 20 // 32 MiB photo cap

// MintHandler mounts POST /nfts/mint. The multipart upload is spooled to a
// temp file so the pipeline reads the photo the same way the CLI does.
type MintHandler struct {
	Pipeline *usecase.MintPipeline
	Creator  usecase.Signer
	Endpoint string

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewMintHandler(pipeline *usecase.MintPipeline, creator usecase.Signer, endpoint string) *MintHandler {
	return &MintHandler{
		Pipeline: pipeline,
		Creator:  creator,
		Endpoint: endpoint,
		inflight: make(map[string]struct{}),
	}
}

func (h *MintHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if h.Pipeline == nil || h.Creator == nil {
		writeError(w, http.StatusServiceUnavailable, "mint pipeline not configured")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "photo file is required")
		return
	}
	defer file.Close()

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		base := filepath.Base(header.Filename)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	description := r.FormValue("description")
	ext := strings.TrimPrefix(filepath.Ext(header.Filename), ".")

	// One mint per display name at a time. A retry of the same photo while
	// the first attempt is still running would race on the object paths.
	if !h.acquire(name) {
		writeError(w, http.StatusConflict, "mint already in progress for this name")
		return
	}
	defer h.release(name)

	localPath, err := spoolToTemp(file, ext)
	if err != nil {
		log.Printf("[http] spool upload failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	defer func() { _ = os.Remove(localPath) }()

	a, err := asset.New(name, description, ext, localPath)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.Pipeline.Run(r.Context(), a, usecase.RunParams{
		Creator:  h.Creator,
		Endpoint: h.Endpoint,
	})
	if err != nil {
		stage, _ := usecase.FailedStage(err)
		writeJSON(w, mintFailureStatus(stage, err), map[string]string{
			"error": err.Error(),
			"stage": string(stage),
		})
		return
	}

	writeJSON(w, http.StatusCreated, res)
}

func (h *MintHandler) acquire(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, busy := h.inflight[name]; busy {
		return false
	}
	h.inflight[name] = struct{}{}
	return true
}

func (h *MintHandler) release(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.inflight, name)
}

func spoolToTemp(src io.Reader, ext string) (string, error) {
	pattern := "solcam-upload-*"
	if ext != "" {
		pattern += "." + ext
	}
	tmp, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, src); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

func mintFailureStatus(stage usecase.Stage, err error) int {
	switch {
	case errors.Is(err, geo.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, geo.ErrUnavailable):
		return http.StatusServiceUnavailable
	case stage == usecase.StageIdle:
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}
