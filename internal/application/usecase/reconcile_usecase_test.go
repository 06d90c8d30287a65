package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solcam/internal/domain/mintrecord"
)

type fakeLister struct {
	paths []string
	err   error
}

func (f *fakeLister) List(ctx context.Context, prefix string) ([]string, error) {
	return f.paths, f.err
}

type fakeRecordReader struct {
	minted map[string]bool
	err    error
}

func (f *fakeRecordReader) GetByMetadataPath(ctx context.Context, metadataPath string) (mintrecord.MintRecord, error) {
	if f.err != nil {
		return mintrecord.MintRecord{}, f.err
	}
	if f.minted[metadataPath] {
		return mintrecord.MintRecord{MetadataPath: metadataPath}, nil
	}
	return mintrecord.MintRecord{}, mintrecord.ErrNotFound
}

func TestReportClassifiesOrphans(t *testing.T) {
	rec := NewReconciler(
		&fakeLister{paths: []string{
			"nfts/metadata/a.json",
			"nfts/metadata/b.json",
			"nfts/metadata/c.json",
			"  ",
		}},
		&fakeRecordReader{minted: map[string]bool{
			"nfts/metadata/a.json": true,
			"nfts/metadata/c.json": true,
		}},
	)

	report, err := rec.Report(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Checked)
	assert.Equal(t, 2, report.Minted)
	assert.Equal(t, []string{"nfts/metadata/b.json"}, report.Orphans)
}

func TestReportEmptyBucket(t *testing.T) {
	rec := NewReconciler(&fakeLister{}, &fakeRecordReader{})

	report, err := rec.Report(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Checked)
	assert.NotNil(t, report.Orphans)
}

func TestReportListFailure(t *testing.T) {
	rec := NewReconciler(&fakeLister{err: errors.New("bucket gone")}, &fakeRecordReader{})

	_, err := rec.Report(context.Background())
	require.Error(t, err)
}

func TestReportRecordReadFailure(t *testing.T) {
	rec := NewReconciler(
		&fakeLister{paths: []string{"nfts/metadata/a.json"}},
		&fakeRecordReader{err: errors.New("backend down")},
	)

	_, err := rec.Report(context.Background())
	require.Error(t, err)
}
