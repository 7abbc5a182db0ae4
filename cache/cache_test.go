package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rountana/page1/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.InitLoggers()
	os.Exit(m.Run())
}

// fakeRedis implements redisCmds over a plain map so store behavior can be
// tested without a server.
type fakeRedis struct {
	values map[string]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: make(map[string]string)}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			delete(f.values, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestKeyDeterministic(t *testing.T) {
	params := map[string]string{
		"cityCode":    "PAR",
		"radius":      "5",
		"radiusUnit":  "KM",
		"hotelSource": "ALL",
	}

	k1 := Key("/v1/reference-data/locations/hotels/by-city", params)
	k2 := Key("/v1/reference-data/locations/hotels/by-city", map[string]string{
		"hotelSource": "ALL",
		"radiusUnit":  "KM",
		"radius":      "5",
		"cityCode":    "PAR",
	})
	assert.Equal(t, k1, k2, "same endpoint and params must produce the same key")
	assert.Len(t, k1, 64)
}

func TestKeyDiffersAcrossParams(t *testing.T) {
	base := map[string]string{"cityCode": "PAR", "radius": "5"}
	other := map[string]string{"cityCode": "NYC", "radius": "5"}

	assert.NotEqual(t,
		Key("/v1/reference-data/locations/hotels/by-city", base),
		Key("/v1/reference-data/locations/hotels/by-city", other))

	// Same params on a different endpoint is a different request.
	assert.NotEqual(t,
		Key("/v3/shopping/hotel-offers", base),
		Key("/v2/shopping/hotel-offers", base))
}

func TestKeyIgnoresEmptyValues(t *testing.T) {
	withBlank := map[string]string{"cityCode": "PAR", "chainCodes": ""}
	without := map[string]string{"cityCode": "PAR"}

	assert.Equal(t,
		Key("/v1/reference-data/locations/hotels/by-city", withBlank),
		Key("/v1/reference-data/locations/hotels/by-city", without))
}

func TestCanonicalParams(t *testing.T) {
	assert.Equal(t, "", canonicalParams(nil))
	assert.Equal(t, "a=1&b=2", canonicalParams(map[string]string{"b": "2", "a": "1"}))
}

func TestTTLFor(t *testing.T) {
	assert.Equal(t, 7*24*time.Hour, TTLFor("/v1/reference-data/locations/hotels/by-city"))
	assert.Equal(t, 720*time.Hour, TTLFor("/v3/shopping/hotel-offers"))
	// Prefix match covers query-less variants with extra path segments.
	assert.Equal(t, 720*time.Hour, TTLFor("/v3/shopping/hotel-offers/by-hotel"))
	assert.Equal(t, defaultTTL, TTLFor("/v1/some/other/endpoint"))
}

func TestEntryExpiry(t *testing.T) {
	now := time.Now()
	entry := Entry{ExpiresAt: now.Add(time.Minute)}

	assert.False(t, entry.expired(now), "entry must be live before its TTL elapses")
	assert.True(t, entry.expired(now.Add(time.Minute)), "boundary counts as expired")
	assert.True(t, entry.expired(now.Add(2*time.Minute)))
}

func TestGetExpiredEntryIsMissAndDeleted(t *testing.T) {
	rdb := newFakeRedis()
	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	s := &Store{rdb: rdb, now: func() time.Time { return clock }}

	endpoint := "/v3/shopping/hotel-offers"
	params := map[string]string{"hotelIds": "HLPAR001"}
	s.Put(context.Background(), endpoint, params, []byte(`{"data":[]}`))

	payload, ok := s.Get(context.Background(), endpoint, params)
	require.True(t, ok, "entry must be served before its TTL elapses")
	assert.JSONEq(t, `{"data":[]}`, string(payload))

	// The document outlives its logical TTL (redis has not evicted it yet);
	// the read path must treat it as absent and clean it up.
	clock = clock.Add(TTLFor(endpoint))
	payload, ok = s.Get(context.Background(), endpoint, params)
	assert.False(t, ok, "stale entry must read as a miss")
	assert.Nil(t, payload)
	assert.Empty(t, rdb.values, "stale entry must be deleted on read")

	_, ok = s.Get(context.Background(), endpoint, params)
	assert.False(t, ok)
}

func TestGetCorruptEntryIsMissAndDeleted(t *testing.T) {
	rdb := newFakeRedis()
	s := &Store{rdb: rdb, now: time.Now}

	endpoint := "/v3/shopping/hotel-offers"
	params := map[string]string{"hotelIds": "HLPAR001"}
	rdb.values[keyPrefix+Key(endpoint, params)] = "not json"

	payload, ok := s.Get(context.Background(), endpoint, params)
	assert.False(t, ok)
	assert.Nil(t, payload)
	assert.Empty(t, rdb.values, "corrupt entry must be deleted on read")
}

func TestDisabledStore(t *testing.T) {
	var s *Store
	assert.False(t, s.Enabled())

	s = New(nil)
	assert.False(t, s.Enabled())

	// Disabled store must behave as a plain miss, never panic.
	payload, ok := s.Get(context.Background(), "/v3/shopping/hotel-offers", nil)
	assert.False(t, ok)
	assert.Nil(t, payload)
	s.Put(context.Background(), "/v3/shopping/hotel-offers", nil, []byte(`{}`))
}
