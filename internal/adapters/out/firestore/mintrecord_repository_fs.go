package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"solcam/internal/domain/mintrecord"
)

// MintRecordRepositoryFS implements mintrecord.Repository using Firestore.
type MintRecordRepositoryFS struct {
	Client *firestore.Client
}

var _ mintrecord.Repository = (*MintRecordRepositoryFS)(nil)

const mintRecordsCollection = "mint_records"

func NewMintRecordRepositoryFS(client *firestore.Client) *MintRecordRepositoryFS {
	return &MintRecordRepositoryFS{Client: client}
}

func (r *MintRecordRepositoryFS) Create(ctx context.Context, rec mintrecord.MintRecord) (mintrecord.MintRecord, error) {
	if r.Client == nil {
		return mintrecord.MintRecord{}, errors.New("firestore client is nil")
	}

	col := r.Client.Collection(mintRecordsCollection)

	var docRef *firestore.DocumentRef
	if rec.ID == "" {
		docRef = col.NewDoc()
		rec.ID = docRef.ID
	} else {
		docRef = col.Doc(rec.ID)
	}

	if rec.MintedAt.IsZero() {
		rec.MintedAt = time.Now().UTC()
	}
	if err := rec.Validate(); err != nil {
		return mintrecord.MintRecord{}, err
	}

	// explicit mapping so no domain field gets dropped
	data := map[string]interface{}{
		"assetName":    rec.AssetName,
		"imagePath":    rec.ImagePath,
		"metadataPath": rec.MetadataPath,
		"metadataUri":  rec.MetadataURI,
		"mintAddress":  rec.MintAddress,
		"signature":    rec.Signature,
		"creator":      rec.Creator,
		"mintedAt":     rec.MintedAt,
	}

	if _, err := docRef.Set(ctx, data); err != nil {
		return mintrecord.MintRecord{}, err
	}
	return rec, nil
}

func (r *MintRecordRepositoryFS) GetByMetadataPath(ctx context.Context, metadataPath string) (mintrecord.MintRecord, error) {
	if r.Client == nil {
		return mintrecord.MintRecord{}, errors.New("firestore client is nil")
	}

	metadataPath = strings.TrimSpace(metadataPath)
	if metadataPath == "" {
		return mintrecord.MintRecord{}, mintrecord.ErrNotFound
	}

	iter := r.Client.Collection(mintRecordsCollection).
		Where("metadataPath", "==", metadataPath).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err != nil {
		if errors.Is(err, iterator.Done) || status.Code(err) == codes.NotFound {
			return mintrecord.MintRecord{}, mintrecord.ErrNotFound
		}
		return mintrecord.MintRecord{}, err
	}

	return docToMintRecord(doc)
}

func docToMintRecord(doc *firestore.DocumentSnapshot) (mintrecord.MintRecord, error) {
	var row struct {
		AssetName    string    `firestore:"assetName"`
		ImagePath    string    `firestore:"imagePath"`
		MetadataPath string    `firestore:"metadataPath"`
		MetadataURI  string    `firestore:"metadataUri"`
		MintAddress  string    `firestore:"mintAddress"`
		Signature    string    `firestore:"signature"`
		Creator      string    `firestore:"creator"`
		MintedAt     time.Time `firestore:"mintedAt"`
	}
	if err := doc.DataTo(&row); err != nil {
		return mintrecord.MintRecord{}, err
	}

	return mintrecord.MintRecord{
		ID:           doc.Ref.ID,
		AssetName:    row.AssetName,
		ImagePath:    row.ImagePath,
		MetadataPath: row.MetadataPath,
		MetadataURI:  row.MetadataURI,
		MintAddress:  row.MintAddress,
		Signature:    row.Signature,
		Creator:      row.Creator,
		MintedAt:     row.MintedAt.UTC(),
	}, nil
}
