package mintrecord

import "context"

// Repository is the output port for mint record persistence.
// Firestore and Postgres adapters implement it; the pipeline only ever
// writes, the reconciler only ever reads.
type Repository interface {
	// Create persists a record. An empty r.ID is assigned by the
	// implementation and reflected in the returned record.
	Create(ctx context.Context, r MintRecord) (MintRecord, error)

	// GetByMetadataPath resolves the record a stored metadata object
	// belongs to, or ErrNotFound.
	GetByMetadataPath(ctx context.Context, metadataPath string) (MintRecord, error)
}
