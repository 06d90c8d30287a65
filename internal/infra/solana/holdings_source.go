package solana

import (
	"context"
	"errors"

	"solcam/internal/application/holdings"
)

// HoldingsSource adapts the JSON-RPC token accounts query to the holdings
// cache's Fetcher port.
type HoldingsSource struct {
	RPC *JSONRPCClient
}

var _ holdings.Fetcher = (*HoldingsSource)(nil)

func NewHoldingsSource(rpc *JSONRPCClient) *HoldingsSource {
	return &HoldingsSource{RPC: rpc}
}

func (s *HoldingsSource) TokenAccountsByOwner(ctx context.Context, owner string) ([]holdings.TokenHolding, error) {
	if s == nil || s.RPC == nil {
		return nil, errors.New("holdings source is not configured")
	}

	res, err := s.RPC.GetTokenAccountsByOwner(ctx, owner, TokenProgramID)
	if err != nil {
		return nil, err
	}

	out := make([]holdings.TokenHolding, 0, len(res.Value))
	for _, v := range res.Value {
		out = append(out, holdings.TokenHolding{
			AccountPubkey: v.Pubkey,
			Mint:          v.Account.Data.Parsed.Info.Mint,
			Amount:        v.Account.Data.Parsed.Info.TokenAmount.Amount,
			Decimals:      v.Account.Data.Parsed.Info.TokenAmount.Decimals,
		})
	}
	return out, nil
}
