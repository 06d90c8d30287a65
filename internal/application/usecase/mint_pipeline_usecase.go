package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"solcam/internal/domain/asset"
	"solcam/internal/domain/geo"
	"solcam/internal/domain/mintrecord"
	"solcam/internal/domain/nft"
)

// ============================================================
// Pipeline stages
// ============================================================

// Stage is the externally observable pipeline state. A run walks the
// stages in order, never revisits one, and ends in Confirmed or Failed.
type Stage string

const (
	StageIdle              Stage = "Idle"
	StageLocatingGeo       Stage = "LocatingGeo"
	StageUploadingImage    Stage = "UploadingImage"
	StageBuildingMetadata  Stage = "BuildingMetadata"
	StageUploadingMetadata Stage = "UploadingMetadata"
	StageMinting           Stage = "Minting"
	StageConfirmed         Stage = "Confirmed"
	StageFailed            Stage = "Failed"
)

// StageError attributes a run failure to the stage it happened in, so the
// caller can show a specific message instead of a generic one.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("mint pipeline failed at %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// FailedStage extracts the stage attribution from a Run error.
func FailedStage(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}

// ============================================================
// Ports (consumer-side minimal interfaces)
// ============================================================

// pipelineObjectStore uploads opaque payloads into the NFT bucket and
// derives their public URLs. Upload with overwrite=true must be idempotent
// for a given path: re-running a pipeline with the same displayName
// replaces, never duplicates.
type pipelineObjectStore interface {
	Upload(ctx context.Context, path string, data []byte, contentType string, overwrite bool) (string, error)
	PublicURL(path string) string
}

// Signer is the caller-owned wallet identity for one run. Concrete wallet
// types live in infra; the pipeline only needs the creator address.
type Signer interface {
	Address() string
}

// pipelineMinter submits the signed create-token transaction and waits for
// confirmed commitment. Bounded resends are the minter's business; the
// pipeline itself never retries a stage.
type pipelineMinter interface {
	Mint(ctx context.Context, signer Signer, req nft.MintRequest) (nft.MintResult, error)
}

// pipelineCacheInvalidator signals downstream holdings caches that the
// owner's token accounts on the given endpoint changed. Fire-and-forget:
// a failure here never fails the run.
type pipelineCacheInvalidator interface {
	Invalidate(ownerAddress, endpoint string) error
}

// pipelineNotifier delivers the post-mint notification. Optional, best
// effort only.
type pipelineNotifier interface {
	NotifyMinted(ctx context.Context, assetName string, res nft.MintResult) error
}

// StageObserver receives each stage transition as it happens. Nil is fine.
type StageObserver func(Stage)

// ============================================================
// MintPipeline
// ============================================================

// MintPipeline sequences location fetch, image upload, metadata build and
// upload, and the on-chain mint. There is no rollback: objects uploaded
// before a later-stage failure stay in storage (the reconciler reports
// them, see reconcile_usecase.go).
type MintPipeline struct {
	locator     geo.Locator
	store       pipelineObjectStore
	minter      pipelineMinter
	invalidator pipelineCacheInvalidator

	// optional collaborators
	records  mintrecord.Repository
	notifier pipelineNotifier
	observer StageObserver

	sellerFeeBasisPoints uint16
}

// NewMintPipeline wires the four mandatory collaborators.
func NewMintPipeline(
	locator geo.Locator,
	store pipelineObjectStore,
	minter pipelineMinter,
	invalidator pipelineCacheInvalidator,
) *MintPipeline {
	return &MintPipeline{
		locator:              locator,
		store:                store,
		minter:               minter,
		invalidator:          invalidator,
		sellerFeeBasisPoints: nft.DefaultSellerFeeBasisPoints,
	}
}

// WithRecords enables the post-confirmation audit record.
func (p *MintPipeline) WithRecords(repo mintrecord.Repository) *MintPipeline {
	p.records = repo
	return p
}

// WithNotifier enables the post-confirmation notification.
func (p *MintPipeline) WithNotifier(n pipelineNotifier) *MintPipeline {
	p.notifier = n
	return p
}

// WithObserver registers a stage transition callback.
func (p *MintPipeline) WithObserver(fn StageObserver) *MintPipeline {
	p.observer = fn
	return p
}

// WithSellerFee overrides the default 5.5% royalty.
func (p *MintPipeline) WithSellerFee(basisPoints uint16) *MintPipeline {
	p.sellerFeeBasisPoints = basisPoints
	return p
}

// RunParams is the per-invocation identity and network target. Both are
// supplied by the caller, never held as globals, so runs for different
// assets can share a pipeline safely.
type RunParams struct {
	Creator  Signer
	Endpoint string
}

// Run executes one asset-to-token pipeline. Control flow is strictly
// linear: every stage gates the next, and the first failure aborts the run
// with that stage attributed in the returned error.
func (p *MintPipeline) Run(ctx context.Context, a asset.Asset, params RunParams) (nft.MintResult, error) {
	if p == nil {
		return nft.MintResult{}, errors.New("mint pipeline is nil")
	}
	if params.Creator == nil || strings.TrimSpace(params.Creator.Address()) == "" {
		return nft.MintResult{}, p.fail(StageIdle, errors.New("creator identity is missing"))
	}
	if err := a.Validate(); err != nil {
		return nft.MintResult{}, p.fail(StageIdle, err)
	}

	// LocatingGeo: location is mandatory metadata here, not optional.
	p.enter(StageLocatingGeo)
	coords, err := p.locator.Current(ctx)
	if err != nil {
		return nft.MintResult{}, p.fail(StageLocatingGeo, err)
	}

	// UploadingImage: read the local bytes and push them under the image
	// prefix. Same displayName overwrites the prior object by design.
	p.enter(StageUploadingImage)
	imageBytes, err := os.ReadFile(a.LocalPath)
	if err != nil {
		return nft.MintResult{}, p.fail(StageUploadingImage, fmt.Errorf("read asset: %w", err))
	}
	imagePath, err := p.store.Upload(ctx, a.ImageObjectPath(), imageBytes, a.ContentType(), true)
	if err != nil {
		return nft.MintResult{}, p.fail(StageUploadingImage, err)
	}
	imageURL := p.store.PublicURL(imagePath)

	// BuildingMetadata: pure, cannot fail; serialization can.
	p.enter(StageBuildingMetadata)
	meta := nft.BuildMetadata(a, imageURL, coords, params.Creator.Address())
	metaBytes, err := meta.MarshalCanonical()
	if err != nil {
		return nft.MintResult{}, p.fail(StageBuildingMetadata, err)
	}

	// UploadingMetadata: on failure the image stays stored. No
	// compensation; the reconciler picks orphans up later.
	p.enter(StageUploadingMetadata)
	metaPath, err := p.store.Upload(ctx, a.MetadataObjectPath(), metaBytes, "application/json", true)
	if err != nil {
		return nft.MintResult{}, p.fail(StageUploadingMetadata, err)
	}
	metadataURI := p.store.PublicURL(metaPath)

	// Minting: the minter generates the fresh single-use mint keypair,
	// resends the signed transaction at most 3 times, and waits for
	// confirmed commitment.
	p.enter(StageMinting)
	res, err := p.minter.Mint(ctx, params.Creator, nft.MintRequest{
		Name:                 meta.Name,
		MetadataURI:          metadataURI,
		SellerFeeBasisPoints: p.sellerFeeBasisPoints,
	})
	if err != nil {
		return nft.MintResult{}, p.fail(StageMinting, err)
	}

	p.enter(StageConfirmed)
	p.afterConfirmed(ctx, a, imagePath, metaPath, metadataURI, params, res)

	return res, nil
}

// afterConfirmed runs the exactly-once post-confirmation side effects.
// None of them can fail the run: the MintResult is already owed to the
// caller.
func (p *MintPipeline) afterConfirmed(
	ctx context.Context,
	a asset.Asset,
	imagePath, metaPath, metadataURI string,
	params RunParams,
	res nft.MintResult,
) {
	if err := p.invalidator.Invalidate(params.Creator.Address(), params.Endpoint); err != nil {
		log.Printf("[pipeline] WARN: holdings cache invalidation failed owner=%s endpoint=%s err=%v",
			params.Creator.Address(), params.Endpoint, err)
	}

	if p.records != nil {
		rec, err := mintrecord.New(
			a.DisplayName, imagePath, metaPath, metadataURI,
			res.MintAddress, res.Signature, params.Creator.Address(),
			time.Now().UTC(),
		)
		if err == nil {
			_, err = p.records.Create(ctx, rec)
		}
		if err != nil {
			log.Printf("[pipeline] WARN: mint record write failed asset=%s err=%v", a.DisplayName, err)
		}
	}

	if p.notifier != nil {
		if err := p.notifier.NotifyMinted(ctx, a.DisplayName, res); err != nil {
			log.Printf("[pipeline] WARN: mint notification failed asset=%s err=%v", a.DisplayName, err)
		}
	}
}

func (p *MintPipeline) enter(s Stage) {
	if p.observer != nil {
		p.observer(s)
	}
}

func (p *MintPipeline) fail(s Stage, err error) error {
	p.enter(StageFailed)
	log.Printf("[pipeline] failed at %s: %v", s, err)
	return &StageError{Stage: s, Err: err}
}
