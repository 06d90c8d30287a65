package gcs

import (
	"fmt"
	"net/url"
	"strings"
)

// PublicURL builds a public GCS URL.
// - empty bucket falls back to DefaultBucket
// - leading "/" on objectPath is removed
func PublicURL(bucket, objectPath string) string {
	b := strings.TrimSpace(bucket)
	if b == "" {
		b = DefaultBucket
	}
	obj := strings.TrimLeft(strings.TrimSpace(objectPath), "/")
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", b, obj)
}

// ParseObjectURL parses a GCS-like URL and returns (bucket, objectPath, ok).
// Accepted forms:
//   - https://storage.googleapis.com/<bucket>/<object>
//   - https://storage.cloud.google.com/<bucket>/<object>
func ParseObjectURL(u string) (string, string, bool) {
	parsed, err := url.Parse(strings.TrimSpace(u))
	if err != nil {
		return "", "", false
	}

	host := strings.ToLower(parsed.Host)
	if host != "storage.googleapis.com" && host != "storage.cloud.google.com" {
		return "", "", false
	}

	p := strings.TrimLeft(parsed.EscapedPath(), "/")
	if p == "" {
		return "", "", false
	}

	parts := strings.SplitN(p, "/", 2)
	if len(parts) < 2 {
		return "", "", false
	}

	bucket := parts[0]
	objectPath, err := url.PathUnescape(parts[1])
	if err != nil {
		return "", "", false
	}

	return bucket, objectPath, true
}
