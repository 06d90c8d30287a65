package usecase

import (
	"context"
	"errors"
	"strings"

	"solcam/internal/domain/mintrecord"
)

// ============================================================
// Ports
// ============================================================

// reconcileObjectLister lists stored object paths under a prefix.
type reconcileObjectLister interface {
	List(ctx context.Context, prefix string) ([]string, error)
}

// reconcileRecordReader resolves the mint record for a metadata object.
type reconcileRecordReader interface {
	GetByMetadataPath(ctx context.Context, metadataPath string) (mintrecord.MintRecord, error)
}

// ============================================================
// Reconciler
// ============================================================

// MetadataPrefix is where the pipeline stores metadata documents.
const MetadataPrefix = "nfts/metadata/"

// OrphanReport lists stored metadata objects with no confirmed mint behind
// them: leftovers of runs that failed between upload and confirmation.
// The report never deletes anything: a metadata object might be referenced
// by a mint this service did not index.
type OrphanReport struct {
	Checked int      `json:"checked"`
	Minted  int      `json:"minted"`
	Orphans []string `json:"orphans"`
}

// Reconciler joins the metadata prefix listing against mint records.
type Reconciler struct {
	store   reconcileObjectLister
	records reconcileRecordReader
}

func NewReconciler(store reconcileObjectLister, records reconcileRecordReader) *Reconciler {
	return &Reconciler{store: store, records: records}
}

// Report scans every stored metadata object and classifies it.
func (r *Reconciler) Report(ctx context.Context) (OrphanReport, error) {
	if r == nil || r.store == nil || r.records == nil {
		return OrphanReport{}, errors.New("reconciler is not configured")
	}

	paths, err := r.store.List(ctx, MetadataPrefix)
	if err != nil {
		return OrphanReport{}, err
	}

	report := OrphanReport{Orphans: []string{}}
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		report.Checked++

		_, err := r.records.GetByMetadataPath(ctx, path)
		switch {
		case err == nil:
			report.Minted++
		case errors.Is(err, mintrecord.ErrNotFound):
			report.Orphans = append(report.Orphans, path)
		default:
			return OrphanReport{}, err
		}
	}

	return report, nil
}
