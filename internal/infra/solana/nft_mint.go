package solana

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/associated_token_account"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/blocto/solana-go-sdk/types"

	"solcam/internal/application/usecase"
	"solcam/internal/domain/nft"
)

// Commitment levels this service cares about.
const (
	CommitmentConfirmed = "confirmed"
	CommitmentFinalized = "finalized"
)

var (
	ErrMinterNotConfigured = errors.New("nft_mint: minter is not configured")
	ErrInvalidSigner       = errors.New("nft_mint: signer is not a solana creator wallet")
	ErrSendExhausted       = errors.New("nft_mint: transaction send attempts exhausted")
	ErrConfirmTimeout      = errors.New("nft_mint: confirmation timed out")
	ErrTransactionFailed   = errors.New("nft_mint: transaction failed on chain")
)

// maxSendAttempts bounds the verbatim resends of one signed transaction.
// The transaction bytes are identical per attempt, so the cluster
// deduplicates and a resend can never double-mint.
const maxSendAttempts = 3

// assemblyRPC covers the read calls needed to build the transaction.
// *client.Client satisfies it.
type assemblyRPC interface {
	GetMinimumBalanceForRentExemption(ctx context.Context, dataLen uint64) (uint64, error)
	GetLatestBlockhash(ctx context.Context) (rpc.GetLatestBlockhashValue, error)
}

// submitRPC covers submission and commitment polling. *JSONRPCClient
// satisfies it.
type submitRPC interface {
	SendEncodedTransaction(ctx context.Context, encodedTx string, opts SendOptions) (string, error)
	SignatureStatus(ctx context.Context, signature string) (*SignatureStatus, error)
}

// NFTMinter creates one master-edition NFT per Mint call:
// a fresh single-use mint account, Metaplex metadata pointing at the
// uploaded document, and a supply of exactly one minted to the creator.
type NFTMinter struct {
	chain   assemblyRPC
	submit  submitRPC
	cluster string

	confirmTimeout time.Duration
	pollInterval   time.Duration
}

// NewNFTMinter wires a minter against one RPC endpoint. cluster selects
// the explorer link template ("devnet", "testnet", "mainnet-beta").
func NewNFTMinter(endpoint, cluster string) *NFTMinter {
	rpcClient := NewJSONRPCClient(endpoint)
	return &NFTMinter{
		chain:          client.NewClient(rpcClient.Endpoint),
		submit:         rpcClient,
		cluster:        cluster,
		confirmTimeout: 60 * time.Second,
		pollInterval:   2 * time.Second,
	}
}

// newNFTMinterWithClients is the test seam.
func newNFTMinterWithClients(chain assemblyRPC, submit submitRPC, cluster string) *NFTMinter {
	return &NFTMinter{
		chain:          chain,
		submit:         submit,
		cluster:        cluster,
		confirmTimeout: 60 * time.Second,
		pollInterval:   10 * time.Millisecond,
	}
}

// Mint implements the pipeline's minter port.
func (m *NFTMinter) Mint(ctx context.Context, signer usecase.Signer, req nft.MintRequest) (nft.MintResult, error) {
	if m == nil || m.chain == nil || m.submit == nil {
		return nft.MintResult{}, ErrMinterNotConfigured
	}
	if err := req.Validate(); err != nil {
		return nft.MintResult{}, err
	}

	wallet, ok := signer.(*CreatorWallet)
	if !ok || wallet == nil {
		return nft.MintResult{}, ErrInvalidSigner
	}
	feePayer := wallet.Account

	// Fresh single-use mint account: one per call, never pooled. Each one
	// is a distinct on-chain token account.
	mint := types.NewAccount()

	encodedTx, err := m.buildCreateNFTTransaction(ctx, feePayer, mint, req)
	if err != nil {
		return nft.MintResult{}, err
	}

	sig, err := m.sendWithRetry(ctx, encodedTx)
	if err != nil {
		return nft.MintResult{}, err
	}

	if err := m.awaitConfirmed(ctx, sig); err != nil {
		return nft.MintResult{}, err
	}

	res := nft.MintResult{
		MintAddress: mint.PublicKey.ToBase58(),
		Signature:   sig,
		ExplorerURL: ExplorerTxURL(sig, m.cluster),
	}
	log.Printf("[nft_mint] confirmed mint=%s sig=%s", res.MintAddress, res.Signature)
	return res, nil
}

// buildCreateNFTTransaction assembles and signs the create-token
// transaction and returns it base64-encoded, ready for sendTransaction.
func (m *NFTMinter) buildCreateNFTTransaction(
	ctx context.Context,
	feePayer types.Account,
	mint types.Account,
	req nft.MintRequest,
) (string, error) {
	owner := feePayer.PublicKey

	ata, _, err := common.FindAssociatedTokenAddress(owner, mint.PublicKey)
	if err != nil {
		return "", fmt.Errorf("FindAssociatedTokenAddress: %w", err)
	}

	metadataPubkey, err := token_metadata.GetTokenMetaPubkey(mint.PublicKey)
	if err != nil {
		return "", fmt.Errorf("GetTokenMetaPubkey: %w", err)
	}
	masterEditionPubkey, err := token_metadata.GetMasterEdition(mint.PublicKey)
	if err != nil {
		return "", fmt.Errorf("GetMasterEdition: %w", err)
	}

	mintRent, err := m.chain.GetMinimumBalanceForRentExemption(ctx, token.MintAccountSize)
	if err != nil {
		return "", fmt.Errorf("GetMinimumBalanceForRentExemption: %w", err)
	}

	recent, err := m.chain.GetLatestBlockhash(ctx)
	if err != nil {
		return "", fmt.Errorf("GetLatestBlockhash: %w", err)
	}

	// one photo = one token
	maxSupply := uint64(1)

	tx, err := types.NewTransaction(types.NewTransactionParam{
		Signers: []types.Account{mint, feePayer},
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        feePayer.PublicKey,
			RecentBlockhash: recent.Blockhash,
			Instructions: []types.Instruction{
				// 1) mint account
				system.CreateAccount(system.CreateAccountParam{
					From:     feePayer.PublicKey,
					New:      mint.PublicKey,
					Owner:    common.TokenProgramID,
					Lamports: mintRent,
					Space:    token.MintAccountSize,
				}),
				// 2) initialize mint (decimals = 0)
				token.InitializeMint(token.InitializeMintParam{
					Decimals:   0,
					Mint:       mint.PublicKey,
					MintAuth:   feePayer.PublicKey,
					FreezeAuth: &feePayer.PublicKey,
				}),
				// 3) Metaplex metadata account
				token_metadata.CreateMetadataAccountV3(
					token_metadata.CreateMetadataAccountV3Param{
						Metadata:                metadataPubkey,
						Mint:                    mint.PublicKey,
						MintAuthority:           feePayer.PublicKey,
						UpdateAuthority:         feePayer.PublicKey,
						Payer:                   feePayer.PublicKey,
						UpdateAuthorityIsSigner: true,
						IsMutable:               true,
						Data: token_metadata.DataV2{
							Name:                 req.Name,
							Uri:                  req.MetadataURI,
							SellerFeeBasisPoints: req.SellerFeeBasisPoints,
							Creators: &[]token_metadata.Creator{
								{
									Address:  feePayer.PublicKey,
									Verified: true,
									Share:    100,
								},
							},
						},
						CollectionDetails: nil,
					},
				),
				// 4) creator's ATA
				associated_token_account.CreateAssociatedTokenAccount(
					associated_token_account.CreateAssociatedTokenAccountParam{
						Funder:                 feePayer.PublicKey,
						Owner:                  owner,
						Mint:                   mint.PublicKey,
						AssociatedTokenAccount: ata,
					},
				),
				// 5) mint the single copy
				token.MintTo(token.MintToParam{
					Mint:   mint.PublicKey,
					To:     ata,
					Auth:   feePayer.PublicKey,
					Amount: 1,
				}),
				// 6) master edition, MaxSupply=1
				token_metadata.CreateMasterEditionV3(
					token_metadata.CreateMasterEditionParam{
						Edition:         masterEditionPubkey,
						Mint:            mint.PublicKey,
						UpdateAuthority: feePayer.PublicKey,
						MintAuthority:   feePayer.PublicKey,
						Metadata:        metadataPubkey,
						Payer:           feePayer.PublicKey,
						MaxSupply:       &maxSupply,
					},
				),
			},
		}),
	})
	if err != nil {
		return "", fmt.Errorf("NewTransaction: %w", err)
	}

	raw, err := tx.Serialize()
	if err != nil {
		return "", fmt.Errorf("serialize transaction: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// sendWithRetry submits the same encoded bytes up to maxSendAttempts
// times. Attempts are fixed-count, not backed off: the send options
// already carry the node-side resend budget, and the payload is safe to
// repeat.
func (m *NFTMinter) sendWithRetry(ctx context.Context, encodedTx string) (string, error) {
	opts := SendOptions{
		SkipPreflight:       true,
		PreflightCommitment: CommitmentConfirmed,
		MaxRetries:          maxSendAttempts,
	}

	var lastErr error
	for attempt := 1; attempt <= maxSendAttempts; attempt++ {
		sig, err := m.submit.SendEncodedTransaction(ctx, encodedTx, opts)
		if err == nil {
			return sig, nil
		}
		lastErr = err
		log.Printf("[nft_mint] send attempt %d/%d failed: %v", attempt, maxSendAttempts, err)

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", fmt.Errorf("%w after %d attempts: %v", ErrSendExhausted, maxSendAttempts, lastErr)
}

// awaitConfirmed polls the signature status until the cluster reports at
// least "confirmed" commitment.
func (m *NFTMinter) awaitConfirmed(ctx context.Context, sig string) error {
	deadline := time.Now().Add(m.confirmTimeout)

	for {
		status, err := m.submit.SignatureStatus(ctx, sig)
		if err == nil && status != nil {
			if status.Failed() {
				return fmt.Errorf("%w: sig=%s err=%s", ErrTransactionFailed, sig, string(status.Err))
			}
			switch status.ConfirmationStatus {
			case CommitmentConfirmed, CommitmentFinalized:
				return nil
			}
		}
		if err != nil {
			log.Printf("[nft_mint] status poll failed sig=%s err=%v", sig, err)
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("%w: sig=%s", ErrConfirmTimeout, sig)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.pollInterval):
		}
	}
}

// ExplorerTxURL derives the explorer link for a confirmed transaction.
// Mainnet is the explorer default; other clusters need the query param.
func ExplorerTxURL(signature, cluster string) string {
	base := fmt.Sprintf("https://explorer.solana.com/tx/%s", signature)
	switch cluster {
	case "", "mainnet", "mainnet-beta":
		return base
	default:
		return base + "?cluster=" + cluster
	}
}
