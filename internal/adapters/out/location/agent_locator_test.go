package location

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solcam/internal/domain/geo"
)

func TestCurrentReturnsCoordinates(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"latitude":35.6586,"longitude":139.7454}`))
	}))
	defer srv.Close()

	coords, err := NewAgentLocator(srv.URL).Current(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/location?accuracy=highest", gotPath)
	assert.InDelta(t, 35.6586, coords.Latitude, 1e-9)
	assert.InDelta(t, 139.7454, coords.Longitude, 1e-9)
}

func TestCurrentPermissionDenied(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewAgentLocator(srv.URL).Current(context.Background())
	assert.ErrorIs(t, err, geo.ErrPermissionDenied)
}

func TestCurrentAgentErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewAgentLocator(srv.URL).Current(context.Background())
	assert.ErrorIs(t, err, geo.ErrUnavailable)
}

func TestCurrentConnectionFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // closed on purpose

	_, err := NewAgentLocator(srv.URL).Current(context.Background())
	assert.ErrorIs(t, err, geo.ErrUnavailable)
}

func TestCurrentHonorsContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := NewAgentLocator(srv.URL).Current(ctx)
	require.Error(t, err)
}

func TestCurrentUnconfigured(t *testing.T) {
	_, err := NewAgentLocator("").Current(context.Background())
	assert.Error(t, err)
}
