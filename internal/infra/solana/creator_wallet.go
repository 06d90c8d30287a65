package solana

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretspb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/blocto/solana-go-sdk/types"
)

// CreatorWallet is the service-held wallet that signs mint transactions,
// pays fees and is listed as the NFT's creator. The single-use mint
// keypairs are NOT this wallet; those are generated per mint.
type CreatorWallet struct {
	Account types.Account
}

// Address returns the wallet's base58 public key. Satisfies the pipeline's
// Signer port.
func (w *CreatorWallet) Address() string {
	if w == nil {
		return ""
	}
	return w.Account.PublicKey.ToBase58()
}

// LoadCreatorWalletFromSecret restores the wallet from a Secret Manager
// secret version holding a solana-keygen keypair (JSON array, 64 bytes).
//
// secretName is the full version path, e.g.
//
//	"projects/<PROJECT_ID>/secrets/<SECRET_ID>/versions/latest"
func LoadCreatorWalletFromSecret(ctx context.Context, secretName string) (*CreatorWallet, error) {
	secretName = strings.TrimSpace(secretName)
	if secretName == "" {
		return nil, fmt.Errorf("creator wallet secret name is empty")
	}

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("secretmanager.NewClient: %w", err)
	}
	defer client.Close()

	resp, err := client.AccessSecretVersion(ctx, &secretspb.AccessSecretVersionRequest{
		Name: secretName,
	})
	if err != nil {
		return nil, fmt.Errorf("AccessSecretVersion: %w", err)
	}

	w, err := walletFromKeypairJSON(resp.Payload.Data)
	if err != nil {
		return nil, err
	}

	log.Printf("[solana] loaded creator wallet from Secret Manager: secret=%s pubkey=%s",
		secretName, w.Address())
	return w, nil
}

// LoadCreatorWalletFromFile restores the wallet from a local solana-keygen
// keypair file. Used by the CLI entrypoints.
func LoadCreatorWalletFromFile(path string) (*CreatorWallet, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("creator wallet keypair path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keypair file: %w", err)
	}

	w, err := walletFromKeypairJSON(data)
	if err != nil {
		return nil, err
	}

	log.Printf("[solana] loaded creator wallet from file: path=%s pubkey=%s", path, w.Address())
	return w, nil
}

func walletFromKeypairJSON(data []byte) (*CreatorWallet, error) {
	keyBytes, err := decodeKeypairJSON(data)
	if err != nil {
		return nil, err
	}

	acc, err := types.AccountFromBytes(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("AccountFromBytes: %w", err)
	}

	return &CreatorWallet{Account: acc}, nil
}

// decodeKeypairJSON restores the 64-byte key array from a solana-keygen
// keypair JSON.
// - preferred: [u8;64] decoded as []byte
// - fallback: [int,...] decoded as []int, then converted
func decodeKeypairJSON(data []byte) ([]byte, error) {
	var keyBytes []byte
	if err := json.Unmarshal(data, &keyBytes); err == nil {
		if len(keyBytes) == ed25519.PrivateKeySize {
			return keyBytes, nil
		}
		// unexpected length falls through to the int-array path
	}

	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return nil, fmt.Errorf("unmarshal keypair json: %w", err)
	}

	if len(ints) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("unexpected secret key length: got %d, want %d", len(ints), ed25519.PrivateKeySize)
	}

	keyBytes = make([]byte, len(ints))
	for i, v := range ints {
		keyBytes[i] = byte(v)
	}

	return keyBytes, nil
}
