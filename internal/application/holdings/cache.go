package holdings

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// TokenHolding is one token account owned by a wallet, as surfaced by the
// holdings API.
type TokenHolding struct {
	AccountPubkey string `json:"accountPubkey"`
	Mint          string `json:"mint"`
	Amount        string `json:"amount"`
	Decimals      int    `json:"decimals"`
}

// Fetcher loads a wallet's token accounts from the network the cache is
// bound to. The Solana JSON-RPC adapter implements it.
type Fetcher interface {
	TokenAccountsByOwner(ctx context.Context, owner string) ([]TokenHolding, error)
}

var ErrOwnerEmpty = errors.New("holdings: owner is empty")

const defaultTTL = 30 * time.Second

type entry struct {
	holdings  []TokenHolding
	fetchedAt time.Time
}

// Cache fronts getTokenAccountsByOwner with a TTL, keyed by
// (owner, endpoint). A confirmed mint invalidates the creator's key so the
// next holdings read sees the new token without waiting out the TTL.
type Cache struct {
	fetcher  Fetcher
	endpoint string
	ttl      time.Duration

	mu      sync.Mutex
	entries map[string]entry
}

func NewCache(fetcher Fetcher, endpoint string) *Cache {
	return &Cache{
		fetcher:  fetcher,
		endpoint: strings.TrimSpace(endpoint),
		ttl:      defaultTTL,
		entries:  make(map[string]entry),
	}
}

// WithTTL overrides the default 30s entry lifetime.
func (c *Cache) WithTTL(ttl time.Duration) *Cache {
	if ttl > 0 {
		c.ttl = ttl
	}
	return c
}

func (c *Cache) key(owner string) string {
	return owner + "|" + c.endpoint
}

// Get returns the owner's holdings, from cache when fresh.
func (c *Cache) Get(ctx context.Context, owner string) ([]TokenHolding, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, ErrOwnerEmpty
	}

	k := c.key(owner)

	c.mu.Lock()
	if e, ok := c.entries[k]; ok && time.Since(e.fetchedAt) < c.ttl {
		c.mu.Unlock()
		return e.holdings, nil
	}
	c.mu.Unlock()

	fresh, err := c.fetcher.TokenAccountsByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[k] = entry{holdings: fresh, fetchedAt: time.Now()}
	c.mu.Unlock()

	return fresh, nil
}

// Invalidate drops the (owner, endpoint) entry. Endpoints other than the
// one this cache is bound to are not ours and are ignored.
func (c *Cache) Invalidate(ownerAddress, endpoint string) error {
	owner := strings.TrimSpace(ownerAddress)
	if owner == "" {
		return ErrOwnerEmpty
	}
	if strings.TrimSpace(endpoint) != c.endpoint {
		return nil
	}

	c.mu.Lock()
	delete(c.entries, c.key(owner))
	c.mu.Unlock()
	return nil
}
