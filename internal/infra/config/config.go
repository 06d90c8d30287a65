package config

import (
	"log"
	"os"
	"strconv"

	"solcam/internal/domain/nft"
)

// Mint record backends selectable via MINT_RECORD_BACKEND.
const (
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
	BackendNone      = "none"
)

// Config holds the environment configuration for the whole service.
type Config struct {
	Port string

	// Solana
	RPCEndpoint          string
	Cluster              string
	SellerFeeBasisPoints uint16

	// Creator wallet. Secret Manager wins over the keypair file.
	CreatorKeySecret   string
	CreatorKeypairFile string

	// Storage
	GCSBucket string

	// Location agent
	LocationAgentURL string

	// Mint records
	MintRecordBackend  string
	DatabaseURL        string
	FirestoreProjectID string

	// Firebase auth (optional; empty disables the auth middleware)
	FirebaseProjectID string

	// Notifications (optional; empty disables mail)
	SendGridAPIKey  string
	NotifyEmailFrom string
	NotifyEmailTo   string
}

// Load reads the environment and returns the config.
func Load() *Config {
	cfg := &Config{
		Port: getenvDefault("PORT", "8080"),

		RPCEndpoint:          os.Getenv("SOLANA_RPC_ENDPOINT"),
		Cluster:              getenvDefault("SOLANA_CLUSTER", "devnet"),
		SellerFeeBasisPoints: getenvUint16("SELLER_FEE_BASIS_POINTS", nft.DefaultSellerFeeBasisPoints),

		CreatorKeySecret:   os.Getenv("CREATOR_KEY_SECRET"),
		CreatorKeypairFile: os.Getenv("CREATOR_KEYPAIR_FILE"),

		GCSBucket: getenvDefault("GCS_BUCKET", "solcam-nfts"),

		LocationAgentURL: os.Getenv("LOCATION_AGENT_URL"),

		MintRecordBackend:  getenvDefault("MINT_RECORD_BACKEND", BackendFirestore),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		FirestoreProjectID: os.Getenv("FIRESTORE_PROJECT_ID"),

		FirebaseProjectID: os.Getenv("FIREBASE_PROJECT_ID"),

		SendGridAPIKey:  os.Getenv("SENDGRID_API_KEY"),
		NotifyEmailFrom: os.Getenv("NOTIFY_EMAIL_FROM"),
		NotifyEmailTo:   os.Getenv("NOTIFY_EMAIL_TO"),
	}

	return cfg
}

// NotifyEnabled reports whether the mint notification mail is configured.
func (c *Config) NotifyEnabled() bool {
	return c.SendGridAPIKey != "" && c.NotifyEmailFrom != "" && c.NotifyEmailTo != ""
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvUint16(key string, def uint16) uint16 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseUint(v, 10, 16)
	if err != nil {
		log.Printf("[config] WARN: %s=%q is not a valid uint16, using default %d", key, v, def)
		return def
	}
	return uint16(n)
}
