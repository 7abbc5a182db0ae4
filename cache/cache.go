// Package cache stores upstream API responses in Redis, keyed by a
// fingerprint of the request, so repeated lookups within the TTL skip the
// external call. The cache is an optimization only: every failure path
// degrades to a miss and the caller talks to the upstream directly.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rountana/page1/logger"
)

const keyPrefix = "amadeus_cache:"

// Per-endpoint TTLs. Hotel lists are close to static; offers carry pricing
// but this demo tolerates month-old quotes.
var endpointTTL = map[string]time.Duration{
	"/v1/reference-data/locations/hotels/by-city": 7 * 24 * time.Hour,
	"/v3/shopping/hotel-offers":                   720 * time.Hour,
	"/v2/shopping/hotel-offers":                   720 * time.Hour,
}

const defaultTTL = 720 * time.Hour

// Entry is the cached document. ExpiresAt duplicates the Redis key TTL so
// the read path can reject a stale document even before Redis evicts it.
type Entry struct {
	CacheKey  string          `json:"cache_key"`
	Endpoint  string          `json:"endpoint"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

func (e *Entry) expired(now time.Time) bool {
	return !e.ExpiresAt.After(now)
}

// redisCmds is the slice of the redis client the store uses, narrow enough
// for tests to stand in a fake.
type redisCmds interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Store is a Redis-backed response cache. A nil client means disabled: Get
// always misses and Put is a no-op.
type Store struct {
	rdb redisCmds
	now func() time.Time
}

func New(rdb *redis.Client) *Store {
	s := &Store{now: time.Now}
	if rdb != nil {
		s.rdb = rdb
	}
	return s
}

func (s *Store) Enabled() bool {
	return s != nil && s.rdb != nil
}

// Key derives the deterministic fingerprint for an endpoint + parameter set.
// Equivalent logical requests must collapse to the same key, so parameters
// are canonicalized before hashing.
func Key(endpoint string, params map[string]string) string {
	sum := sha256.Sum256([]byte(endpoint + ":" + canonicalParams(params)))
	return hex.EncodeToString(sum[:])
}

// canonicalParams renders parameters as sorted key=value pairs joined by
// "&". Empty values are dropped so an absent and a blank parameter hash the
// same way.
func canonicalParams(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	return b.String()
}

// TTLFor returns the cache lifetime for an endpoint, matching exact paths
// first and then prefixes for versioned variants.
func TTLFor(endpoint string) time.Duration {
	if ttl, ok := endpointTTL[endpoint]; ok {
		return ttl
	}
	for prefix, ttl := range endpointTTL {
		if strings.HasPrefix(endpoint, prefix) {
			return ttl
		}
	}
	return defaultTTL
}

// Get returns the cached payload for the request, or miss. Expired entries
// are treated as absent even when Redis has not evicted them yet.
func (s *Store) Get(ctx context.Context, endpoint string, params map[string]string) (json.RawMessage, bool) {
	if !s.Enabled() {
		return nil, false
	}

	key := Key(endpoint, params)
	raw, err := s.rdb.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.WarnLogger.Warnf("cache read failed for %s: %v", endpoint, err)
		}
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		logger.WarnLogger.Warnf("cache entry corrupt for %s: %v", endpoint, err)
		_ = s.rdb.Del(ctx, keyPrefix+key).Err()
		return nil, false
	}

	if entry.expired(s.now()) {
		_ = s.rdb.Del(ctx, keyPrefix+key).Err()
		return nil, false
	}

	logger.InfoLogger.Infof("Cache HIT for endpoint: %s", endpoint)
	return entry.Payload, true
}

// Put stores a successful response with the endpoint's TTL. Concurrent
// writers for the same key race with last-write-wins, which is fine since
// entries for the same fingerprint are interchangeable.
func (s *Store) Put(ctx context.Context, endpoint string, params map[string]string, payload json.RawMessage) {
	if !s.Enabled() {
		return
	}

	key := Key(endpoint, params)
	ttl := TTLFor(endpoint)
	now := s.now()

	entry := Entry{
		CacheKey:  key,
		Endpoint:  endpoint,
		Payload:   payload,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	doc, err := json.Marshal(entry)
	if err != nil {
		logger.WarnLogger.Warnf("cache marshal failed for %s: %v", endpoint, err)
		return
	}

	if err := s.rdb.Set(ctx, keyPrefix+key, doc, ttl).Err(); err != nil {
		logger.WarnLogger.Warnf("cache write failed for %s: %v", endpoint, err)
		return
	}
	logger.InfoLogger.Infof("Cache STORED for endpoint: %s (TTL: %s)", endpoint, ttl)
}
