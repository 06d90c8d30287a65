package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solcam/internal/domain/nft"
)

type capturingClient struct {
	from, to, subject, body string
	err                     error
}

func (c *capturingClient) Send(ctx context.Context, from, to, subject, body string) error {
	c.from, c.to, c.subject, c.body = from, to, subject, body
	return c.err
}

func TestNotifyMinted(t *testing.T) {
	client := &capturingClient{}
	n := NewMintNotifier(client, " ops@example.com ", " owner@example.com ")

	res := nft.MintResult{
		MintAddress: "Mint111",
		Signature:   "Sig111",
		ExplorerURL: "https://explorer.solana.com/tx/Sig111?cluster=devnet",
	}
	require.NoError(t, n.NotifyMinted(context.Background(), "photo1", res))

	assert.Equal(t, "ops@example.com", client.from)
	assert.Equal(t, "owner@example.com", client.to)
	assert.Contains(t, client.subject, "photo1")
	assert.Contains(t, client.body, "Mint111")
	assert.Contains(t, client.body, "Sig111")
	assert.Contains(t, client.body, res.ExplorerURL)
}

func TestNotifyMintedPropagatesSendError(t *testing.T) {
	n := NewMintNotifier(&capturingClient{err: errors.New("rate limited")}, "a@b", "c@d")

	err := n.NotifyMinted(context.Background(), "photo1", nft.MintResult{})
	assert.Error(t, err)
}
