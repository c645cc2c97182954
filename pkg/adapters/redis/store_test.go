package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/avelar0/kinmap/pkg/adapters/redis"
	"github.com/avelar0/kinmap/pkg/domain"
	"github.com/avelar0/kinmap/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return mr, backend.NewClient(&backend.Options{Addr: mr.Addr()})
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newTestClient(t)

	store := redis.NewFromClient(client)
	ports.RunDocumentStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newTestClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	doc := domain.NewDocument()
	doc.People = append(doc.People, domain.Person{ID: "p_a", Name: "Ana"})

	require.NoError(t, store.Save(ctx, "case-ttl", doc))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, "case-ttl")

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "case-ttl")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)

	// Lazy index cleanup keys off time.Now(), so wait past the stored expiry
	// instant before asserting.
	time.Sleep(1200 * time.Millisecond)

	ids, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newTestClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "case-1", domain.NewDocument()))

	assert.True(t, mr.Exists("custom:app:case-1"), "expected key with custom prefix")
	assert.True(t, mr.Exists("custom:app:index"), "expected index with custom prefix")

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, "case-1")
}

func TestRedisLocker_MutualExclusion(t *testing.T) {
	_, client := newTestClient(t)

	locker := redis.NewLocker(client, "")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "case-1", time.Minute)
	require.NoError(t, err)

	// A second acquisition must not succeed while the first is held.
	blocked, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(blocked, "case-1", time.Minute)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock(ctx))

	unlock2, err := locker.Lock(ctx, "case-1", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlock2(ctx))
}
