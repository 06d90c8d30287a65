package di

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"

	firestoreclient "cloud.google.com/go/firestore"
	gcsclient "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"

	httpin "solcam/internal/adapters/in/http"
	"solcam/internal/adapters/in/http/middleware"
	"solcam/internal/adapters/out/db"
	fsrepo "solcam/internal/adapters/out/firestore"
	"solcam/internal/adapters/out/gcs"
	"solcam/internal/adapters/out/location"
	"solcam/internal/adapters/out/mail"
	"solcam/internal/application/holdings"
	"solcam/internal/application/usecase"
	"solcam/internal/domain/mintrecord"
	"solcam/internal/infra/config"
	"solcam/internal/infra/solana"
)

// Container bundles everything main.go needs. The point is to keep
// main.go thin: build, serve, close.
type Container struct {
	Router http.Handler

	sqlDB     *sql.DB
	fsClient  *firestoreclient.Client
	gcsClient *gcsclient.Client
}

// Close releases the underlying clients. Safe to call once at shutdown.
func (c *Container) Close() {
	if c.sqlDB != nil {
		_ = c.sqlDB.Close()
	}
	if c.fsClient != nil {
		_ = c.fsClient.Close()
	}
	if c.gcsClient != nil {
		_ = c.gcsClient.Close()
	}
}

// Build wires adapters, usecases and the router from the config.
// Missing optional configuration degrades the surface (routes stay
// unmounted) rather than failing the boot; only the object store is
// mandatory.
func Build(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{}

	// Object store (mandatory).
	gcsCli, err := gcsclient.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("di: init gcs client: %w", err)
	}
	c.gcsClient = gcsCli
	store := gcs.NewNFTStorageGCS(gcsCli, cfg.GCSBucket)
	log.Printf("[di] object store ready. bucket=%s", cfg.GCSBucket)

	// Solana RPC + minter + holdings cache.
	rpc := solana.NewJSONRPCClient(cfg.RPCEndpoint)
	minter := solana.NewNFTMinter(rpc.Endpoint, cfg.Cluster)
	cache := holdings.NewCache(solana.NewHoldingsSource(rpc), rpc.Endpoint)

	// Mint record repository, selected by MINT_RECORD_BACKEND.
	records, err := c.buildRecords(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// Creator wallet. Secret Manager wins over the keypair file; with
	// neither configured the mint endpoint stays unmounted.
	creator := loadCreator(ctx, cfg)

	// Location agent.
	var locator *location.AgentLocator
	if cfg.LocationAgentURL != "" {
		locator = location.NewAgentLocator(cfg.LocationAgentURL)
	} else {
		log.Printf("[di] WARN: LOCATION_AGENT_URL is empty. mint endpoint will be unmounted.")
	}

	deps := httpin.RouterDeps{
		Endpoint: rpc.Endpoint,
		Holdings: cache,
	}

	if creator != nil && locator != nil {
		pipeline := usecase.NewMintPipeline(locator, store, minter, cache).
			WithSellerFee(cfg.SellerFeeBasisPoints)
		if records != nil {
			pipeline = pipeline.WithRecords(records)
		}
		if cfg.NotifyEnabled() {
			notifier := mail.NewMintNotifier(
				mail.NewSendGridClient(cfg.SendGridAPIKey),
				cfg.NotifyEmailFrom,
				cfg.NotifyEmailTo,
			)
			pipeline = pipeline.WithNotifier(notifier)
			log.Printf("[di] mint notification mail enabled. to=%s", cfg.NotifyEmailTo)
		}
		deps.Pipeline = pipeline
		deps.Creator = creator
	}

	if records != nil {
		deps.Reconciler = usecase.NewReconciler(store, records)
	}

	if cfg.FirebaseProjectID != "" {
		if auth := buildFirebaseAuth(ctx, cfg.FirebaseProjectID); auth != nil {
			deps.Auth = &middleware.UserAuth{FirebaseAuth: auth}
		}
	} else {
		log.Printf("[di] WARN: FIREBASE_PROJECT_ID is empty. mint endpoint is unauthenticated.")
	}

	c.Router = httpin.NewRouter(deps)
	return c, nil
}

func (c *Container) buildRecords(ctx context.Context, cfg *config.Config) (mintrecord.Repository, error) {
	switch cfg.MintRecordBackend {
	case config.BackendFirestore:
		if cfg.FirestoreProjectID == "" {
			log.Printf("[di] WARN: FIRESTORE_PROJECT_ID is empty. mint records disabled.")
			return nil, nil
		}
		cli, err := firestoreclient.NewClient(ctx, cfg.FirestoreProjectID)
		if err != nil {
			return nil, fmt.Errorf("di: init firestore client: %w", err)
		}
		c.fsClient = cli
		log.Printf("[di] mint records: firestore. project=%s", cfg.FirestoreProjectID)
		return fsrepo.NewMintRecordRepositoryFS(cli), nil

	case config.BackendPostgres:
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("di: init postgres: %w", err)
		}
		c.sqlDB = conn
		log.Printf("[di] mint records: postgres")
		return db.NewMintRecordRepositoryPG(conn), nil

	case config.BackendNone:
		log.Printf("[di] mint records disabled (MINT_RECORD_BACKEND=none)")
		return nil, nil

	default:
		return nil, fmt.Errorf("di: unknown MINT_RECORD_BACKEND %q", cfg.MintRecordBackend)
	}
}

func loadCreator(ctx context.Context, cfg *config.Config) *solana.CreatorWallet {
	if cfg.CreatorKeySecret != "" {
		wallet, err := solana.LoadCreatorWalletFromSecret(ctx, cfg.CreatorKeySecret)
		if err != nil {
			log.Printf("[di] WARN: creator wallet from secret failed: %v", err)
			return nil
		}
		log.Printf("[di] creator wallet loaded from Secret Manager. address=%s", wallet.Address())
		return wallet
	}
	if cfg.CreatorKeypairFile != "" {
		wallet, err := solana.LoadCreatorWalletFromFile(cfg.CreatorKeypairFile)
		if err != nil {
			log.Printf("[di] WARN: creator wallet from file failed: %v", err)
			return nil
		}
		log.Printf("[di] creator wallet loaded from file. address=%s", wallet.Address())
		return wallet
	}
	log.Printf("[di] WARN: no creator wallet configured. mint endpoint will be unmounted.")
	return nil
}

func buildFirebaseAuth(ctx context.Context, projectID string) *middleware.FirebaseAuthClient {
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID})
	if err != nil {
		log.Printf("[di] WARN: firebase app init failed: %v", err)
		return nil
	}
	auth, err := app.Auth(ctx)
	if err != nil {
		log.Printf("[di] WARN: firebase auth init failed: %v", err)
		return nil
	}
	log.Printf("[di] Firebase Auth initialized. project=%s", projectID)
	return auth
}
