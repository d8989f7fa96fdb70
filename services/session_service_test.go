package services

import (
	"context"
	"testing"
	"time"

	"amoria_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryCache implements Cache with every Atomic call recorded as one batch,
// so tests can assert which keys an operation touched together.
type memoryCache struct {
	values  map[string][]byte
	ttls    map[string]time.Duration
	batches [][]cacheCommand
}

type cacheCommand struct {
	op  string
	key string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{
		values: make(map[string][]byte),
		ttls:   make(map[string]time.Duration),
	}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	return c.values[key], nil
}

func (c *memoryCache) Atomic(_ context.Context, fn func(batch CacheBatch)) error {
	batch := &memoryBatch{cache: c}
	fn(batch)
	c.batches = append(c.batches, batch.commands)
	return nil
}

type memoryBatch struct {
	cache    *memoryCache
	commands []cacheCommand
}

func (b *memoryBatch) Set(key string, value []byte, ttl time.Duration) {
	b.cache.values[key] = value
	b.cache.ttls[key] = ttl
	b.commands = append(b.commands, cacheCommand{op: "set", key: key})
}

func (b *memoryBatch) Expire(key string, ttl time.Duration) {
	if _, ok := b.cache.values[key]; ok {
		b.cache.ttls[key] = ttl
	}
	b.commands = append(b.commands, cacheCommand{op: "expire", key: key})
}

func (b *memoryBatch) Del(keys ...string) {
	for _, key := range keys {
		delete(b.cache.values, key)
		delete(b.cache.ttls, key)
		b.commands = append(b.commands, cacheCommand{op: "del", key: key})
	}
}

func sampleSession() models.Session {
	return models.Session{
		SessionID: "sess-1",
		UserID:    "user-1",
		ProfileID: "alice",
		Language:  "en",
		Roles:     []string{"member"},
		Profile: models.SessionProfile{
			ProfileID:   "alice",
			IsActive:    true,
			IsCallable:  true,
			IsOnboarded: true,
		},
		HasActiveProfile: true,
	}
}

func TestSessionRoundtripReturnsDataUnchanged(t *testing.T) {
	cache := newMemoryCache()
	service := &SessionService{Cache: cache}
	ctx := context.Background()

	stored, err := service.GetOrCreate(ctx, "sess-1", sampleSession())
	require.NoError(t, err)
	assert.Equal(t, sampleSession(), stored)

	loaded, err := service.Get(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, sampleSession(), *loaded)
}

func TestSessionCreateWritesBothKeysInOneBatch(t *testing.T) {
	cache := newMemoryCache()
	service := &SessionService{Cache: cache}

	_, err := service.GetOrCreate(context.Background(), "sess-1", sampleSession())
	require.NoError(t, err)

	require.Len(t, cache.batches, 1)
	batch := cache.batches[0]
	require.Len(t, batch, 2)
	assert.Equal(t, cacheCommand{op: "set", key: models.SessionKey("sess-1")}, batch[0])
	assert.Equal(t, cacheCommand{op: "set", key: models.SessionRolesKey("sess-1")}, batch[1])

	assert.Equal(t, models.SessionTTLSeconds*time.Second, cache.ttls[models.SessionKey("sess-1")])
	assert.Equal(t, models.SessionTTLSeconds*time.Second, cache.ttls[models.SessionRolesKey("sess-1")])
}

func TestSessionGetMissReturnsNil(t *testing.T) {
	service := &SessionService{Cache: newMemoryCache()}

	session, err := service.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestSessionGetTreatsCorruptPayloadAsAbsent(t *testing.T) {
	cache := newMemoryCache()
	cache.values[models.SessionKey("sess-1")] = []byte("{not json")
	service := &SessionService{Cache: cache}

	session, err := service.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestSessionGetTreatsIncompletePayloadAsAbsent(t *testing.T) {
	cache := newMemoryCache()
	cache.values[models.SessionKey("sess-1")] = []byte(`{"sessionId":"sess-1"}`)
	service := &SessionService{Cache: cache}

	session, err := service.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestSessionRefreshTouchesBothKeysInOneBatch(t *testing.T) {
	cache := newMemoryCache()
	service := &SessionService{Cache: cache}
	ctx := context.Background()

	_, err := service.GetOrCreate(ctx, "sess-1", sampleSession())
	require.NoError(t, err)
	require.NoError(t, service.RefreshTTL(ctx, "sess-1"))

	require.Len(t, cache.batches, 2)
	batch := cache.batches[1]
	require.Len(t, batch, 2)
	assert.Equal(t, cacheCommand{op: "expire", key: models.SessionKey("sess-1")}, batch[0])
	assert.Equal(t, cacheCommand{op: "expire", key: models.SessionRolesKey("sess-1")}, batch[1])
}

func TestSessionDeleteRemovesBothKeys(t *testing.T) {
	cache := newMemoryCache()
	service := &SessionService{Cache: cache}
	ctx := context.Background()

	_, err := service.GetOrCreate(ctx, "sess-1", sampleSession())
	require.NoError(t, err)
	require.NoError(t, service.Delete(ctx, "sess-1"))

	session, err := service.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, session)
	assert.Empty(t, cache.values)

	// Deleting again is still a no-op.
	require.NoError(t, service.Delete(ctx, "sess-1"))
}
