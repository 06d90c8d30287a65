package solana

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solcam/internal/domain/nft"
)

// ------------------------------------------------------------
// fakes
// ------------------------------------------------------------

type fakeChain struct {
	rentErr      error
	blockhashErr error
}

func (f *fakeChain) GetMinimumBalanceForRentExemption(ctx context.Context, dataLen uint64) (uint64, error) {
	if f.rentErr != nil {
		return 0, f.rentErr
	}
	return 1461600, nil
}

func (f *fakeChain) GetLatestBlockhash(ctx context.Context) (rpc.GetLatestBlockhashValue, error) {
	if f.blockhashErr != nil {
		return rpc.GetLatestBlockhashValue{}, f.blockhashErr
	}
	// any valid base58 32-byte value works as a blockhash
	return rpc.GetLatestBlockhashValue{
		Blockhash: types.NewAccount().PublicKey.ToBase58(),
	}, nil
}

type fakeSubmit struct {
	sendCalls    int
	sendFailures int
	sendErr      error
	lastOpts     SendOptions
	lastTx       string

	statusCalls  int
	pendingPolls int
	status       *SignatureStatus
	statusErr    error
	returnedSig  string
}

func (f *fakeSubmit) SendEncodedTransaction(ctx context.Context, encodedTx string, opts SendOptions) (string, error) {
	f.sendCalls++
	f.lastOpts = opts
	f.lastTx = encodedTx
	if f.sendCalls <= f.sendFailures {
		err := f.sendErr
		if err == nil {
			err = errors.New("send failed")
		}
		return "", err
	}
	if f.returnedSig == "" {
		f.returnedSig = "Sig111"
	}
	return f.returnedSig, nil
}

func (f *fakeSubmit) SignatureStatus(ctx context.Context, signature string) (*SignatureStatus, error) {
	f.statusCalls++
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	if f.statusCalls <= f.pendingPolls {
		return nil, nil
	}
	if f.status != nil {
		return f.status, nil
	}
	return &SignatureStatus{ConfirmationStatus: CommitmentConfirmed}, nil
}

type notAWallet struct{}

func (notAWallet) Address() string { return "x" }

func testWallet() *CreatorWallet {
	return &CreatorWallet{Account: types.NewAccount()}
}

func testRequest() nft.MintRequest {
	return nft.MintRequest{
		Name:                 "Photo #photo1",
		MetadataURI:          "https://storage.googleapis.com/solcam-nfts/nfts/metadata/photo1.json",
		SellerFeeBasisPoints: nft.DefaultSellerFeeBasisPoints,
	}
}

// ------------------------------------------------------------
// tests
// ------------------------------------------------------------

func TestMintHappyPath(t *testing.T) {
	submit := &fakeSubmit{}
	m := newNFTMinterWithClients(&fakeChain{}, submit, "devnet")

	res, err := m.Mint(context.Background(), testWallet(), testRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, res.MintAddress)
	assert.Equal(t, "Sig111", res.Signature)
	assert.Equal(t, "https://explorer.solana.com/tx/Sig111?cluster=devnet", res.ExplorerURL)

	assert.Equal(t, 1, submit.sendCalls)
	assert.True(t, submit.lastOpts.SkipPreflight)
	assert.Equal(t, uint64(3), submit.lastOpts.MaxRetries)
	assert.Equal(t, CommitmentConfirmed, submit.lastOpts.PreflightCommitment)

	// the payload must be a well-formed base64 transaction
	_, err = base64.StdEncoding.DecodeString(submit.lastTx)
	assert.NoError(t, err)
}

func TestMintFreshMintPerCall(t *testing.T) {
	m := newNFTMinterWithClients(&fakeChain{}, &fakeSubmit{}, "devnet")
	wallet := testWallet()

	first, err := m.Mint(context.Background(), wallet, testRequest())
	require.NoError(t, err)
	second, err := m.Mint(context.Background(), wallet, testRequest())
	require.NoError(t, err)

	assert.NotEqual(t, first.MintAddress, second.MintAddress)
}

func TestMintRejectsForeignSigner(t *testing.T) {
	m := newNFTMinterWithClients(&fakeChain{}, &fakeSubmit{}, "devnet")

	_, err := m.Mint(context.Background(), notAWallet{}, testRequest())
	assert.ErrorIs(t, err, ErrInvalidSigner)
}

func TestMintValidatesRequest(t *testing.T) {
	m := newNFTMinterWithClients(&fakeChain{}, &fakeSubmit{}, "devnet")

	_, err := m.Mint(context.Background(), testWallet(), nft.MintRequest{MetadataURI: "u"})
	assert.ErrorIs(t, err, nft.ErrEmptyMintName)
}

func TestMintSendRetriesThenExhausts(t *testing.T) {
	submit := &fakeSubmit{sendFailures: 10}
	m := newNFTMinterWithClients(&fakeChain{}, submit, "devnet")

	_, err := m.Mint(context.Background(), testWallet(), testRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSendExhausted)
	assert.Equal(t, maxSendAttempts, submit.sendCalls)
}

func TestMintSendRecoversOnRetry(t *testing.T) {
	submit := &fakeSubmit{sendFailures: 2}
	m := newNFTMinterWithClients(&fakeChain{}, submit, "devnet")

	res, err := m.Mint(context.Background(), testWallet(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "Sig111", res.Signature)
	assert.Equal(t, 3, submit.sendCalls)
}

func TestMintWaitsOutPendingPolls(t *testing.T) {
	submit := &fakeSubmit{pendingPolls: 3}
	m := newNFTMinterWithClients(&fakeChain{}, submit, "devnet")

	_, err := m.Mint(context.Background(), testWallet(), testRequest())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, submit.statusCalls, 4)
}

func TestMintOnChainFailure(t *testing.T) {
	submit := &fakeSubmit{status: &SignatureStatus{Err: []byte(`{"InstructionError":[0,"Custom"]}`)}}
	m := newNFTMinterWithClients(&fakeChain{}, submit, "devnet")

	_, err := m.Mint(context.Background(), testWallet(), testRequest())
	assert.ErrorIs(t, err, ErrTransactionFailed)
}

func TestMintConfirmTimeout(t *testing.T) {
	submit := &fakeSubmit{pendingPolls: 1 << 30}
	m := newNFTMinterWithClients(&fakeChain{}, submit, "devnet")
	m.confirmTimeout = 50 * time.Millisecond

	_, err := m.Mint(context.Background(), testWallet(), testRequest())
	assert.ErrorIs(t, err, ErrConfirmTimeout)
}

func TestMintAssemblyFailure(t *testing.T) {
	chain := &fakeChain{blockhashErr: errors.New("rpc down")}
	submit := &fakeSubmit{}
	m := newNFTMinterWithClients(chain, submit, "devnet")

	_, err := m.Mint(context.Background(), testWallet(), testRequest())
	require.Error(t, err)
	assert.Zero(t, submit.sendCalls)
}

func TestExplorerTxURL(t *testing.T) {
	assert.Equal(t,
		"https://explorer.solana.com/tx/Sig111?cluster=devnet",
		ExplorerTxURL("Sig111", "devnet"))
	assert.Equal(t,
		"https://explorer.solana.com/tx/Sig111?cluster=testnet",
		ExplorerTxURL("Sig111", "testnet"))
	assert.Equal(t,
		"https://explorer.solana.com/tx/Sig111",
		ExplorerTxURL("Sig111", "mainnet-beta"))
	assert.Equal(t,
		"https://explorer.solana.com/tx/Sig111",
		ExplorerTxURL("Sig111", ""))
}

func TestSignatureStatusFailed(t *testing.T) {
	assert.False(t, (*SignatureStatus)(nil).Failed())
	assert.False(t, (&SignatureStatus{}).Failed())
	assert.False(t, (&SignatureStatus{Err: []byte("null")}).Failed())
	assert.True(t, (&SignatureStatus{Err: []byte(`{"InstructionError":[]}`)}).Failed())
}
