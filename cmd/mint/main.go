package main

import (
	"context"
	"flag"
	"log"
	"path/filepath"
	"strings"

	gcsclient "cloud.google.com/go/storage"

	"solcam/internal/adapters/out/gcs"
	"solcam/internal/adapters/out/location"
	"solcam/internal/application/holdings"
	"solcam/internal/application/usecase"
	"solcam/internal/domain/asset"
	"solcam/internal/infra/config"
	"solcam/internal/infra/solana"
)

// One-shot devnet mint of a local photo. Intended for smoke testing the
// pipeline without the HTTP service in front of it.
func main() {
	var (
		file        = flag.String("file", "", "path to the photo file (required)")
		name        = flag.String("name", "", "display name (default: file name without extension)")
		description = flag.String("description", "", "NFT description")
		keypair     = flag.String("keypair", "", "creator keypair JSON file (default: CREATOR_KEYPAIR_FILE)")
	)
	flag.Parse()

	if *file == "" {
		log.Fatalf("[mint] -file is required")
	}

	ctx := context.Background()
	cfg := config.Load()

	keypairPath := *keypair
	if keypairPath == "" {
		keypairPath = cfg.CreatorKeypairFile
	}
	if keypairPath == "" {
		log.Fatalf("[mint] no keypair: pass -keypair or set CREATOR_KEYPAIR_FILE")
	}
	wallet, err := solana.LoadCreatorWalletFromFile(keypairPath)
	if err != nil {
		log.Fatalf("[mint] load keypair: %v", err)
	}
	log.Printf("[mint] creator=%s", wallet.Address())

	if cfg.LocationAgentURL == "" {
		log.Fatalf("[mint] LOCATION_AGENT_URL is required")
	}

	displayName := strings.TrimSpace(*name)
	base := filepath.Base(*file)
	ext := strings.TrimPrefix(filepath.Ext(base), ".")
	if displayName == "" {
		displayName = strings.TrimSuffix(base, filepath.Ext(base))
	}

	a, err := asset.New(displayName, *description, ext, *file)
	if err != nil {
		log.Fatalf("[mint] invalid asset: %v", err)
	}

	gcsCli, err := gcsclient.NewClient(ctx)
	if err != nil {
		log.Fatalf("[mint] init gcs client: %v", err)
	}
	defer gcsCli.Close()
	store := gcs.NewNFTStorageGCS(gcsCli, cfg.GCSBucket)

	rpc := solana.NewJSONRPCClient(cfg.RPCEndpoint)
	minter := solana.NewNFTMinter(rpc.Endpoint, cfg.Cluster)
	cache := holdings.NewCache(solana.NewHoldingsSource(rpc), rpc.Endpoint)
	locator := location.NewAgentLocator(cfg.LocationAgentURL)

	pipeline := usecase.NewMintPipeline(locator, store, minter, cache).
		WithSellerFee(cfg.SellerFeeBasisPoints).
		WithObserver(func(s usecase.Stage) {
			log.Printf("[mint] stage=%s", s)
		})

	res, err := pipeline.Run(ctx, a, usecase.RunParams{
		Creator:  wallet,
		Endpoint: rpc.Endpoint,
	})
	if err != nil {
		if stage, ok := usecase.FailedStage(err); ok {
			log.Fatalf("[mint] failed at %s: %v", stage, err)
		}
		log.Fatalf("[mint] failed: %v", err)
	}

	log.Printf("[mint] mint=%s", res.MintAddress)
	log.Printf("[mint] signature=%s", res.Signature)
	log.Printf("[mint] explorer=%s", res.ExplorerURL)
}
