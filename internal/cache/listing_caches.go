package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Key namespaces. Every cached listing read lives under exactly one of
// these, and every mutation invalidates by namespace — the mapping from
// mutation to invalidated keys is enumerated here, not inferred from
// string prefixes at call sites.
const (
	searchPrefix       = "listings:search:"
	buyerViewPrefix    = "listings:buyer:"
	transactionsPrefix = "transactions:"
)

// ListingInvalidator is the cache-invalidation contract of the listing
// lifecycle. Implementations must be safe to call at any time; the cache
// is never a source of truth.
type ListingInvalidator interface {
	InvalidateSearches(ctx context.Context) error
	InvalidateBuyerView(ctx context.Context, userID string) error
	InvalidateTransactions(ctx context.Context, userID string) error
}

// ListingCaches wraps a Cache with the listing key scheme and the
// invalidation contract.
type ListingCaches struct {
	cache Cache
	ttl   time.Duration
}

func NewListingCaches(c Cache, ttl time.Duration) *ListingCaches {
	return &ListingCaches{cache: c, ttl: ttl}
}

// SearchKey returns the canonical cache key for a search. The filter value
// is JSON-encoded and hashed so equal queries always map to the same key.
func (l *ListingCaches) SearchKey(filter interface{}) string {
	return searchPrefix + canonical(filter)
}

// BuyerViewKey returns the cache key for one user's paginated buyer view.
func (l *ListingCaches) BuyerViewKey(userID string, filter interface{}, page, limit int) string {
	return fmt.Sprintf("%s%s:%s:page=%d:limit=%d", buyerViewPrefix, userID, canonical(filter), page, limit)
}

// TransactionsKey returns the cache key for one user's transaction page.
func (l *ListingCaches) TransactionsKey(userID string, page, limit int) string {
	return fmt.Sprintf("%s%s:page=%d:limit=%d", transactionsPrefix, userID, page, limit)
}

func (l *ListingCaches) GetSearch(ctx context.Context, key string, dest interface{}) bool {
	found, err := l.cache.Get(ctx, key, dest)
	return err == nil && found
}

func (l *ListingCaches) SetSearch(ctx context.Context, key string, value interface{}) {
	// Best-effort; a failed write only costs a future cache miss.
	_ = l.cache.Set(ctx, key, value, l.ttl)
}

func (l *ListingCaches) InvalidateSearches(ctx context.Context) error {
	return l.cache.DeleteByPrefix(ctx, searchPrefix)
}

func (l *ListingCaches) InvalidateBuyerView(ctx context.Context, userID string) error {
	return l.cache.DeleteByPrefix(ctx, buyerViewPrefix+userID+":")
}

func (l *ListingCaches) InvalidateTransactions(ctx context.Context, userID string) error {
	return l.cache.DeleteByPrefix(ctx, transactionsPrefix+userID+":")
}

func canonical(filter interface{}) string {
	data, err := json.Marshal(filter)
	if err != nil {
		return "unkeyed"
	}
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}
