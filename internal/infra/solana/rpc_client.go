package solana

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// Solana Devnet RPC endpoint (default)
const DevnetEndpoint = "https://api.devnet.solana.com"

// SPL Token Program ID (Tokenkeg...)
const TokenProgramID = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

// JSONRPCClient is a simple HTTP JSON-RPC client for the handful of Solana
// methods this service calls directly: submitting the signed mint
// transaction, polling its commitment, and reading a wallet's token
// accounts for the holdings API.
type JSONRPCClient struct {
	Endpoint string
	HTTP     *http.Client
}

// NewJSONRPCClient creates a Solana JSON-RPC client.
// Endpoint resolution order:
// 1) explicit endpoint argument
// 2) SOLANA_RPC_ENDPOINT env (if set)
// 3) DevnetEndpoint (default)
func NewJSONRPCClient(endpoint string) *JSONRPCClient {
	ep := strings.TrimSpace(endpoint)
	if ep == "" {
		ep = strings.TrimSpace(os.Getenv("SOLANA_RPC_ENDPOINT"))
	}
	if ep == "" {
		ep = DevnetEndpoint
	}
	return &JSONRPCClient{
		Endpoint: ep,
		HTTP: &http.Client{
			Timeout: 12 * time.Second,
		},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

func (c *JSONRPCClient) call(ctx context.Context, method string, params any, out any) error {
	if c == nil || c.Endpoint == "" || c.HTTP == nil {
		return fmt.Errorf("solana rpc: client not configured")
	}

	reqBody, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("solana rpc: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("solana rpc: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("solana rpc: http do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("solana rpc: http status=%d", resp.StatusCode)
	}

	var rr rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return fmt.Errorf("solana rpc: decode response: %w", err)
	}
	if rr.Error != nil {
		return fmt.Errorf("solana rpc: error code=%d message=%s", rr.Error.Code, rr.Error.Message)
	}

	if out != nil {
		if err := json.Unmarshal(rr.Result, out); err != nil {
			return fmt.Errorf("solana rpc: unmarshal result: %w", err)
		}
	}
	return nil
}

// SendOptions mirrors the sendTransaction config object. The mint path
// sends with {skipPreflight:true, maxRetries:3} and waits for "confirmed"
// commitment itself.
type SendOptions struct {
	SkipPreflight       bool
	PreflightCommitment string
	MaxRetries          uint64
}

// SendEncodedTransaction submits a base64-serialized signed transaction and
// returns its signature. Resending the same payload is safe: the network
// deduplicates identical signed transactions.
func (c *JSONRPCClient) SendEncodedTransaction(ctx context.Context, encodedTx string, opts SendOptions) (string, error) {
	encodedTx = strings.TrimSpace(encodedTx)
	if encodedTx == "" {
		return "", fmt.Errorf("solana rpc: encoded transaction is empty")
	}

	cfg := map[string]any{
		"encoding":      "base64",
		"skipPreflight": opts.SkipPreflight,
		"maxRetries":    opts.MaxRetries,
	}
	if opts.PreflightCommitment != "" {
		cfg["preflightCommitment"] = opts.PreflightCommitment
	}

	var sig string
	if err := c.call(ctx, "sendTransaction", []any{encodedTx, cfg}, &sig); err != nil {
		return "", err
	}
	return sig, nil
}

// SignatureStatus is one entry of the getSignatureStatuses result.
type SignatureStatus struct {
	Slot               uint64          `json:"slot"`
	Confirmations      *uint64         `json:"confirmations"`
	ConfirmationStatus string          `json:"confirmationStatus"`
	Err                json.RawMessage `json:"err"`
}

// Failed reports whether the cluster recorded a processing error for the
// transaction.
func (s *SignatureStatus) Failed() bool {
	return s != nil && len(s.Err) > 0 && string(s.Err) != "null"
}

type getSignatureStatusesResult struct {
	Context struct {
		Slot uint64 `json:"slot"`
	} `json:"context"`
	Value []*SignatureStatus `json:"value"`
}

// SignatureStatus polls getSignatureStatuses for one signature. A nil
// status means the cluster has not seen the transaction yet.
func (c *JSONRPCClient) SignatureStatus(ctx context.Context, signature string) (*SignatureStatus, error) {
	signature = strings.TrimSpace(signature)
	if signature == "" {
		return nil, fmt.Errorf("solana rpc: signature is empty")
	}

	var out getSignatureStatusesResult
	params := []any{
		[]string{signature},
		map[string]any{"searchTransactionHistory": false},
	}
	if err := c.call(ctx, "getSignatureStatuses", params, &out); err != nil {
		return nil, err
	}
	if len(out.Value) == 0 {
		return nil, nil
	}
	return out.Value[0], nil
}

// GetTokenAccountsByOwnerResult is the decoded `result` object for
// getTokenAccountsByOwner (jsonParsed).
type GetTokenAccountsByOwnerResult struct {
	Context struct {
		Slot uint64 `json:"slot"`
	} `json:"context"`
	Value []struct {
		Pubkey  string `json:"pubkey"`
		Account struct {
			Data struct {
				Program string `json:"program"`
				Parsed  struct {
					Info struct {
						Mint        string `json:"mint"`
						Owner       string `json:"owner"`
						TokenAmount struct {
							Amount   string `json:"amount"`
							Decimals int    `json:"decimals"`
						} `json:"tokenAmount"`
					} `json:"info"`
					Type string `json:"type"`
				} `json:"parsed"`
				Space uint64 `json:"space"`
			} `json:"data"`
			Owner string `json:"owner"`
		} `json:"account"`
	} `json:"value"`
}

// GetTokenAccountsByOwner calls `getTokenAccountsByOwner` with:
// params: [owner, {"programId": programID}, {"encoding":"jsonParsed","commitment":"confirmed"}]
// Commitment is "confirmed" so a just-minted token shows up right after the
// pipeline invalidates the holdings cache.
func (c *JSONRPCClient) GetTokenAccountsByOwner(ctx context.Context, owner string, programID string) (GetTokenAccountsByOwnerResult, error) {
	var out GetTokenAccountsByOwnerResult

	owner = strings.TrimSpace(owner)
	if owner == "" {
		return out, fmt.Errorf("solana rpc: owner is empty")
	}
	if programID == "" {
		programID = TokenProgramID
	}

	params := []any{
		owner,
		map[string]any{
			"programId": programID,
		},
		map[string]any{
			"commitment": "confirmed",
			"encoding":   "jsonParsed",
		},
	}

	if err := c.call(ctx, "getTokenAccountsByOwner", params, &out); err != nil {
		return GetTokenAccountsByOwnerResult{}, err
	}
	return out, nil
}
