package nft

import (
	"encoding/json"
	"fmt"
	"strings"

	"solcam/internal/domain/asset"
	"solcam/internal/domain/geo"
)

// Off-chain metadata defaults. The description is only used when the asset
// carries none; the external URL is a build-time constant (the original app
// hardcodes it, and wallets treat it as informational only).
const (
	DefaultDescription = "NFT minted using solcamNFT"
	ExternalURL        = "https://github.com/4rjunc"
)

// Metadata is the off-chain document wallets and marketplaces parse.
// Field names and order are a wire contract: keep the two-attribute
// Latitude/Longitude convention and the snake_case keys exactly as they are.
type Metadata struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	ExternalURL string      `json:"external_url"`
	Attributes  []Attribute `json:"attributes"`
	Properties  Properties  `json:"properties"`
	Creators    []Creator   `json:"creators"`
}

// Attribute carries one display trait. Latitude/Longitude values stay
// numeric; stringifying them breaks marketplace trait filtering.
type Attribute struct {
	TraitType string  `json:"trait_type"`
	Value     float64 `json:"value"`
}

type Properties struct {
	Files    []FileRef `json:"files"`
	Category string    `json:"category"`
}

type FileRef struct {
	URI  string `json:"uri"`
	Type string `json:"type"`
}

type Creator struct {
	Address string `json:"address"`
	Share   int    `json:"share"`
}

// BuildMetadata assembles the canonical document for one pipeline run.
// Pure and total: malformed names or coordinates pass through untouched,
// and the single creator always holds the full 100 share.
func BuildMetadata(a asset.Asset, imageURL string, coords geo.Coordinates, creatorAddress string) Metadata {
	description := strings.TrimSpace(a.Description)
	if description == "" {
		description = DefaultDescription
	}

	return Metadata{
		Name:        fmt.Sprintf("Photo #%s", a.DisplayName),
		Description: description,
		Image:       imageURL,
		ExternalURL: ExternalURL,
		Attributes: []Attribute{
			{TraitType: "Latitude", Value: coords.Latitude},
			{TraitType: "Longitude", Value: coords.Longitude},
		},
		Properties: Properties{
			Files: []FileRef{
				{URI: imageURL, Type: a.ContentType()},
			},
			Category: "image",
		},
		Creators: []Creator{
			{Address: creatorAddress, Share: 100},
		},
	}
}

// MarshalCanonical serializes the document for upload. encoding/json keeps
// struct field order, so the byte sequence is deterministic per input.
func (m Metadata) MarshalCanonical() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("nft: marshal metadata: %w", err)
	}
	return data, nil
}
