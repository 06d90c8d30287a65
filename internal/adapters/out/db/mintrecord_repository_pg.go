package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"solcam/internal/domain/mintrecord"
)

// MintRecordRepositoryPG is the Postgres adapter for mint_records.
// Selected over Firestore with MINT_RECORD_BACKEND=postgres.
type MintRecordRepositoryPG struct {
	DB *sql.DB
}

var _ mintrecord.Repository = (*MintRecordRepositoryPG)(nil)

func NewMintRecordRepositoryPG(db *sql.DB) *MintRecordRepositoryPG {
	return &MintRecordRepositoryPG{DB: db}
}

// Open connects via DATABASE_URL-style DSN and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("db: dsn is empty")
	}
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("db: open: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}
	return conn, nil
}

func (r *MintRecordRepositoryPG) Create(ctx context.Context, rec mintrecord.MintRecord) (mintrecord.MintRecord, error) {
	if r.DB == nil {
		return mintrecord.MintRecord{}, errors.New("db: connection is nil")
	}
	if rec.MintedAt.IsZero() {
		rec.MintedAt = time.Now().UTC()
	}
	if err := rec.Validate(); err != nil {
		return mintrecord.MintRecord{}, err
	}

	const q = `
INSERT INTO mint_records (
  id, asset_name, image_path, metadata_path, metadata_uri,
  mint_address, signature, creator, minted_at
) VALUES (
  COALESCE(NULLIF($1, ''), gen_random_uuid()::text),
  $2, $3, $4, $5, $6, $7, $8, $9
)
RETURNING
  id, asset_name, image_path, metadata_path, metadata_uri,
  mint_address, signature, creator, minted_at
`
	row := r.DB.QueryRowContext(ctx, q,
		strings.TrimSpace(rec.ID),
		rec.AssetName,
		rec.ImagePath,
		rec.MetadataPath,
		rec.MetadataURI,
		rec.MintAddress,
		rec.Signature,
		rec.Creator,
		rec.MintedAt.UTC(),
	)
	return scanMintRecord(row)
}

func (r *MintRecordRepositoryPG) GetByMetadataPath(ctx context.Context, metadataPath string) (mintrecord.MintRecord, error) {
	if r.DB == nil {
		return mintrecord.MintRecord{}, errors.New("db: connection is nil")
	}

	const q = `
SELECT
  id, asset_name, image_path, metadata_path, metadata_uri,
  mint_address, signature, creator, minted_at
FROM mint_records
WHERE metadata_path = $1
ORDER BY minted_at DESC
LIMIT 1
`
	row := r.DB.QueryRowContext(ctx, q, strings.TrimSpace(metadataPath))
	rec, err := scanMintRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mintrecord.MintRecord{}, mintrecord.ErrNotFound
		}
		return mintrecord.MintRecord{}, err
	}
	return rec, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMintRecord(s rowScanner) (mintrecord.MintRecord, error) {
	var (
		rec      mintrecord.MintRecord
		mintedAt time.Time
	)
	if err := s.Scan(
		&rec.ID,
		&rec.AssetName,
		&rec.ImagePath,
		&rec.MetadataPath,
		&rec.MetadataURI,
		&rec.MintAddress,
		&rec.Signature,
		&rec.Creator,
		&mintedAt,
	); err != nil {
		return mintrecord.MintRecord{}, err
	}
	rec.MintedAt = mintedAt.UTC()
	return rec, nil
}
