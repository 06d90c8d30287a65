package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"solcam/internal/domain/nft"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "SOLANA_RPC_ENDPOINT", "SOLANA_CLUSTER", "GCS_BUCKET",
		"MINT_RECORD_BACKEND", "SELLER_FEE_BASIS_POINTS",
		"SENDGRID_API_KEY", "NOTIFY_EMAIL_FROM", "NOTIFY_EMAIL_TO",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "devnet", cfg.Cluster)
	assert.Equal(t, "solcam-nfts", cfg.GCSBucket)
	assert.Equal(t, BackendFirestore, cfg.MintRecordBackend)
	assert.Equal(t, nft.DefaultSellerFeeBasisPoints, cfg.SellerFeeBasisPoints)
	assert.False(t, cfg.NotifyEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SOLANA_CLUSTER", "mainnet-beta")
	t.Setenv("SELLER_FEE_BASIS_POINTS", "100")
	t.Setenv("MINT_RECORD_BACKEND", "postgres")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "mainnet-beta", cfg.Cluster)
	assert.Equal(t, uint16(100), cfg.SellerFeeBasisPoints)
	assert.Equal(t, BackendPostgres, cfg.MintRecordBackend)
}

func TestLoadInvalidSellerFeeFallsBack(t *testing.T) {
	t.Setenv("SELLER_FEE_BASIS_POINTS", "not-a-number")

	cfg := Load()
	assert.Equal(t, nft.DefaultSellerFeeBasisPoints, cfg.SellerFeeBasisPoints)
}

func TestNotifyEnabled(t *testing.T) {
	t.Setenv("SENDGRID_API_KEY", "SG.key")
	t.Setenv("NOTIFY_EMAIL_FROM", "ops@example.com")
	t.Setenv("NOTIFY_EMAIL_TO", "owner@example.com")

	assert.True(t, Load().NotifyEnabled())
}
