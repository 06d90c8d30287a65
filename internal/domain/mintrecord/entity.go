package mintrecord

import (
	"errors"
	"strings"
	"time"
)

// MintRecord is the audit row written after a confirmed mint. It is what
// the reconciler joins stored metadata objects against: a metadata object
// with no record is an orphan from a run that failed after upload.
type MintRecord struct {
	ID           string    `json:"id"`
	AssetName    string    `json:"assetName"`
	ImagePath    string    `json:"imagePath"`
	MetadataPath string    `json:"metadataPath"`
	MetadataURI  string    `json:"metadataUri"`
	MintAddress  string    `json:"mintAddress"`
	Signature    string    `json:"signature"`
	Creator      string    `json:"creator"`
	MintedAt     time.Time `json:"mintedAt"`
}

var (
	ErrInvalidAssetName   = errors.New("mintrecord: invalid assetName")
	ErrInvalidMintAddress = errors.New("mintrecord: invalid mintAddress")
	ErrInvalidSignature   = errors.New("mintrecord: invalid signature")
	ErrInvalidCreator     = errors.New("mintrecord: invalid creator")
	ErrInvalidMintedAt    = errors.New("mintrecord: invalid mintedAt")
	ErrNotFound           = errors.New("mintrecord: not found")
)

// New validates and normalizes a record. ID may stay empty; repositories
// assign one on create.
func New(assetName, imagePath, metadataPath, metadataURI, mintAddress, signature, creator string, mintedAt time.Time) (MintRecord, error) {
	r := MintRecord{
		AssetName:    strings.TrimSpace(assetName),
		ImagePath:    strings.TrimSpace(imagePath),
		MetadataPath: strings.TrimSpace(metadataPath),
		MetadataURI:  strings.TrimSpace(metadataURI),
		MintAddress:  strings.TrimSpace(mintAddress),
		Signature:    strings.TrimSpace(signature),
		Creator:      strings.TrimSpace(creator),
		MintedAt:     mintedAt.UTC(),
	}
	if err := r.Validate(); err != nil {
		return MintRecord{}, err
	}
	return r, nil
}

func (r MintRecord) Validate() error {
	if r.AssetName == "" {
		return ErrInvalidAssetName
	}
	if r.MintAddress == "" {
		return ErrInvalidMintAddress
	}
	if r.Signature == "" {
		return ErrInvalidSignature
	}
	if r.Creator == "" {
		return ErrInvalidCreator
	}
	if r.MintedAt.IsZero() {
		return ErrInvalidMintedAt
	}
	return nil
}
