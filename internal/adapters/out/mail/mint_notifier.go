package mail

import (
	"context"
	"fmt"
	"strings"

	"solcam/internal/domain/nft"
)

// EmailClient abstracts the concrete mail transport (SendGrid here).
type EmailClient interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// MintNotifier sends a plain-text email after a successful mint.
// It satisfies the pipeline's notifier port.
type MintNotifier struct {
	client EmailClient
	from   string
	to     string
}

func NewMintNotifier(client EmailClient, from, to string) *MintNotifier {
	return &MintNotifier{
		client: client,
		from:   strings.TrimSpace(from),
		to:     strings.TrimSpace(to),
	}
}

// NotifyMinted reports a confirmed mint to the configured recipient.
func (n *MintNotifier) NotifyMinted(ctx context.Context, assetName string, res nft.MintResult) error {
	subject := fmt.Sprintf("[solcam] NFT minted: %s", assetName)

	body := fmt.Sprintf(
		`A new NFT has been minted and confirmed on-chain.

  Asset     : %s
  Mint      : %s
  Signature : %s
  Explorer  : %s
`,
		strings.TrimSpace(assetName),
		res.MintAddress,
		res.Signature,
		res.ExplorerURL,
	)

	return n.client.Send(ctx, n.from, n.to, subject, body)
}
