package asset

import (
	"errors"
	"fmt"
	"strings"
)

// Asset is one locally captured photo queued for minting.
// The capture/selection step lives outside this service; by the time an
// Asset reaches the pipeline its bytes are already materialized at LocalPath.
type Asset struct {
	// DisplayName keys the storage paths (nfts/image/<name>.<ext>,
	// nfts/metadata/<name>.json). Colliding names overwrite on purpose.
	DisplayName string `json:"displayName"`

	// Description is optional free text; when empty the metadata builder
	// substitutes the default description.
	Description string `json:"description,omitempty"`

	// FileExtension without the leading dot, e.g. "jpg".
	FileExtension string `json:"fileExtension"`

	// LocalPath locates the raw image bytes on the local filesystem.
	LocalPath string `json:"localPath"`
}

var (
	ErrInvalidDisplayName = errors.New("asset: invalid displayName")
	ErrInvalidExtension   = errors.New("asset: invalid fileExtension")
	ErrMissingLocalPath   = errors.New("asset: missing local path")
)

// New normalizes and validates the declared fields.
func New(displayName, description, fileExtension, localPath string) (Asset, error) {
	a := Asset{
		DisplayName:   strings.TrimSpace(displayName),
		Description:   strings.TrimSpace(description),
		FileExtension: strings.TrimPrefix(strings.ToLower(strings.TrimSpace(fileExtension)), "."),
		LocalPath:     strings.TrimSpace(localPath),
	}
	if err := a.Validate(); err != nil {
		return Asset{}, err
	}
	return a, nil
}

func (a Asset) Validate() error {
	if strings.TrimSpace(a.DisplayName) == "" {
		return ErrInvalidDisplayName
	}
	if strings.ContainsAny(a.DisplayName, "/\\") {
		return ErrInvalidDisplayName
	}
	if strings.TrimSpace(a.FileExtension) == "" {
		return ErrInvalidExtension
	}
	if strings.TrimSpace(a.LocalPath) == "" {
		return ErrMissingLocalPath
	}
	return nil
}

// ImageObjectPath is the storage key for the raw image.
func (a Asset) ImageObjectPath() string {
	return fmt.Sprintf("nfts/image/%s.%s", a.DisplayName, a.FileExtension)
}

// MetadataObjectPath is the storage key for the metadata document.
func (a Asset) MetadataObjectPath() string {
	return fmt.Sprintf("nfts/metadata/%s.json", a.DisplayName)
}

// ContentType maps the declared extension to the upload MIME type.
// Unknown extensions fall back to image/jpeg, matching the capture app's
// camera output.
func (a Asset) ContentType() string {
	switch strings.ToLower(a.FileExtension) {
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
