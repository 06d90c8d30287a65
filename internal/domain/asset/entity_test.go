package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNormalizes(t *testing.T) {
	a, err := New("  photo1  ", "  shot from the bridge  ", " .JPG ", " /tmp/photo1.jpg ")
	require.NoError(t, err)

	assert.Equal(t, "photo1", a.DisplayName)
	assert.Equal(t, "shot from the bridge", a.Description)
	assert.Equal(t, "jpg", a.FileExtension)
	assert.Equal(t, "/tmp/photo1.jpg", a.LocalPath)
}

func TestNewValidation(t *testing.T) {
	_, err := New("", "", "jpg", "/tmp/x.jpg")
	assert.ErrorIs(t, err, ErrInvalidDisplayName)

	_, err = New("a/b", "", "jpg", "/tmp/x.jpg")
	assert.ErrorIs(t, err, ErrInvalidDisplayName)

	_, err = New(`a\b`, "", "jpg", "/tmp/x.jpg")
	assert.ErrorIs(t, err, ErrInvalidDisplayName)

	_, err = New("photo1", "", "", "/tmp/x.jpg")
	assert.ErrorIs(t, err, ErrInvalidExtension)

	_, err = New("photo1", "", "jpg", "")
	assert.ErrorIs(t, err, ErrMissingLocalPath)
}

func TestObjectPaths(t *testing.T) {
	a, err := New("photo1", "", "jpg", "/tmp/photo1.jpg")
	require.NoError(t, err)

	assert.Equal(t, "nfts/image/photo1.jpg", a.ImageObjectPath())
	assert.Equal(t, "nfts/metadata/photo1.json", a.MetadataObjectPath())
}

func TestContentType(t *testing.T) {
	cases := map[string]string{
		"jpg":  "image/jpeg",
		"jpeg": "image/jpeg",
		"png":  "image/png",
		"gif":  "image/gif",
		"webp": "image/webp",
		"heic": "image/jpeg",
	}
	for ext, want := range cases {
		a := Asset{DisplayName: "x", FileExtension: ext, LocalPath: "/tmp/x"}
		assert.Equal(t, want, a.ContentType(), "ext=%s", ext)
	}
}
