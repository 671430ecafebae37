package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/advisor/pkg/adapters/memory"
	"github.com/aretw0/advisor/pkg/adapters/redis"
	"github.com/aretw0/advisor/pkg/domain"
	"github.com/aretw0/advisor/pkg/session"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowStore simulates latency to provoke lost updates if locking is missing.
type slowStore struct {
	*memory.Store
}

func (s slowStore) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	time.Sleep(2 * time.Millisecond)
	return s.Store.Load(ctx, sessionID)
}

func (s slowStore) Save(ctx context.Context, sessionID string, state *domain.State) error {
	time.Sleep(2 * time.Millisecond)
	return s.Store.Save(ctx, sessionID, state)
}

func advanceBy(target int) func(*domain.State) (*domain.State, error) {
	return func(s *domain.State) (*domain.State, error) {
		next := s.Snapshot()
		next.History = append(next.History, next.CurrentPage)
		next.CurrentPage = target
		return next, nil
	}
}

func TestManager_UpdateSerialisesWriters(t *testing.T) {
	manager := session.NewManager(slowStore{memory.NewStore()})
	ctx := context.Background()
	id := "race-test"

	_, err := manager.LoadOrCreate(ctx, id)
	require.NoError(t, err)

	var wg sync.WaitGroup
	const writers = 20
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(target int) {
			defer wg.Done()
			_, err := manager.Update(ctx, id, advanceBy(target))
			assert.NoError(t, err)
		}(i + 2)
	}
	wg.Wait()

	state, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Len(t, state.History, writers, "every update must see the previous one")
}

func TestManager_LoadOrCreate(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	state, err := manager.LoadOrCreate(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, state.HasBrand())
	assert.Equal(t, domain.FirstPage, state.CurrentPage)

	_, err = manager.Update(ctx, "s1", advanceBy(4))
	require.NoError(t, err)

	again, err := manager.LoadOrCreate(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 4, again.CurrentPage)

	ids, err := manager.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, ids)
}

func TestManager_CreateRejectsExistingSession(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	created, err := manager.Create(ctx, "alice", func(context.Context) (*domain.State, error) {
		return domain.NewState("alice"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", created.SessionID)

	_, err = manager.Update(ctx, "alice", advanceBy(3))
	require.NoError(t, err)

	called := false
	_, err = manager.Create(ctx, "alice", func(context.Context) (*domain.State, error) {
		called = true
		return domain.NewState("alice"), nil
	})
	assert.ErrorIs(t, err, domain.ErrSessionExists)
	assert.False(t, called, "builder must not run for a taken ID")

	state, err := manager.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, state.CurrentPage)
	assert.Equal(t, []int{1}, state.History)
}

func TestManager_CreateBuilderError(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	boom := errors.New("boom")
	_, err := manager.Create(ctx, "s1", func(context.Context) (*domain.State, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	_, err = manager.Load(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_UpdateErrors(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	_, err := manager.Update(ctx, "missing", advanceBy(2))
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = manager.LoadOrCreate(ctx, "s1")
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = manager.Update(ctx, "s1", func(*domain.State) (*domain.State, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	state, err := manager.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.FirstPage, state.CurrentPage, "failed update must not save")
}

func TestManager_DistributedLock(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()

	store := redis.NewFromClient(client)
	manager := session.NewManager(store,
		session.WithLocker(redis.NewLocker(client, redis.DefaultPrefix)),
		session.WithLockTTL(time.Second),
	)
	ctx := context.Background()

	_, err := manager.LoadOrCreate(ctx, "s1")
	require.NoError(t, err)

	err = manager.WithLock(ctx, "s1", func(ctx context.Context) error {
		assert.True(t, mr.Exists(redis.DefaultPrefix+"lock:s1"))
		return nil
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists(redis.DefaultPrefix+"lock:s1"))
}
