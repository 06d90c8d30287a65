package gcs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
)

// NFTStorageGCS is the object store behind the mint pipeline. One bucket,
// two logical prefixes (nfts/image/..., nfts/metadata/...). Objects are
// write-once-per-name: the pipeline uploads with overwrite=true, so
// re-minting the same displayName replaces the stored blobs.
type NFTStorageGCS struct {
	Client *storage.Client
	Bucket string
}

// DefaultBucket for NFT blobs in this adapter layer.
const DefaultBucket = "solcam-nfts"

var (
	ErrNilClient    = errors.New("gcs: nil storage client")
	ErrObjectExists = errors.New("gcs: object already exists")
)

func NewNFTStorageGCS(client *storage.Client, bucket string) *NFTStorageGCS {
	b := strings.TrimSpace(bucket)
	if b == "" {
		b = DefaultBucket
	}
	return &NFTStorageGCS{
		Client: client,
		Bucket: b,
	}
}

func (s *NFTStorageGCS) bucket() string {
	b := strings.TrimSpace(s.Bucket)
	if b == "" {
		return DefaultBucket
	}
	return b
}

// Upload writes one payload and returns its stored path. With
// overwrite=false a pre-existing object at the path fails with
// ErrObjectExists; with overwrite=true the write replaces it, which is the
// idempotency the pipeline relies on when a run is re-attempted.
func (s *NFTStorageGCS) Upload(ctx context.Context, path string, data []byte, contentType string, overwrite bool) (string, error) {
	if s == nil || s.Client == nil {
		return "", ErrNilClient
	}

	objectPath := strings.TrimLeft(strings.TrimSpace(path), "/")
	if objectPath == "" {
		return "", fmt.Errorf("gcs: object path is empty")
	}

	obj := s.Client.Bucket(s.bucket()).Object(objectPath)
	if !overwrite {
		obj = obj.If(storage.Conditions{DoesNotExist: true})
	}

	w := obj.NewWriter(ctx)
	w.ContentType = strings.TrimSpace(contentType)
	w.CacheControl = "no-cache"

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("gcs: write %s: %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		if isPreconditionFailed(err) {
			return "", ErrObjectExists
		}
		return "", fmt.Errorf("gcs: close %s: %w", objectPath, err)
	}

	return objectPath, nil
}

// PublicURL derives the public address of a stored object. Pure string
// derivation: the bucket's URL scheme is deterministic, no lookup needed.
func (s *NFTStorageGCS) PublicURL(path string) string {
	return PublicURL(s.bucket(), path)
}

// List returns the object paths under a prefix, used by the orphan
// reconciliation report.
func (s *NFTStorageGCS) List(ctx context.Context, prefix string) ([]string, error) {
	if s == nil || s.Client == nil {
		return nil, ErrNilClient
	}

	it := s.Client.Bucket(s.bucket()).Objects(ctx, &storage.Query{
		Prefix: strings.TrimLeft(strings.TrimSpace(prefix), "/"),
	})

	var out []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("gcs: list %s: %w", prefix, err)
		}
		out = append(out, attrs.Name)
	}
	return out, nil
}

func isPreconditionFailed(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusPreconditionFailed
}
