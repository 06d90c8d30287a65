package nft

import (
	"errors"
	"strings"
)

// DefaultSellerFeeBasisPoints is 5.5%, the capture app's royalty setting.
const DefaultSellerFeeBasisPoints uint16 = 550

// MintRequest carries the on-chain creation parameters. The single-use mint
// keypair itself is generated inside the mint service right before
// submission and never leaves it.
type MintRequest struct {
	Name                 string
	MetadataURI          string
	SellerFeeBasisPoints uint16
}

var (
	ErrEmptyMintName    = errors.New("nft: mint name is empty")
	ErrEmptyMetadataURI = errors.New("nft: metadata uri is empty")
)

func (r MintRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyMintName
	}
	if strings.TrimSpace(r.MetadataURI) == "" {
		return ErrEmptyMetadataURI
	}
	return nil
}

// MintResult is produced only on confirmed success.
type MintResult struct {
	// MintAddress is the fresh token account's base58 public key.
	MintAddress string `json:"mintAddress"`

	// Signature is the transaction signature in base58.
	Signature string `json:"signature"`

	// ExplorerURL links the confirmed transaction on the target cluster.
	ExplorerURL string `json:"explorerUrl"`
}
