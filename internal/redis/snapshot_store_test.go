package redis

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sudooom.mahjong/internal/config"
	"sudooom.mahjong/internal/game/mahjong/table"
)

func TestBuildSnapshotKey(t *testing.T) {
	assert.Equal(t, "mahjong:game:snapshot:g1:0", BuildSnapshotKey("g1", 0))
	assert.Equal(t, "mahjong:game:snapshot:g1:-1", BuildSnapshotKey("g1", table.Spectator))
}

// newStore 连接本地 Redis，不可用时跳过
func newStore(t *testing.T) *SnapshotStore {
	t.Helper()
	rdb := NewClient(config.RedisConfig{Host: "127.0.0.1", Port: 6379, PoolSize: 2})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		t.Skipf("Redis 不可用: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })
	return NewSnapshotStore(rdb, time.Minute)
}

func TestSnapshotStore(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	gameID := uuid.NewString()
	defer store.Delete(ctx, gameID)

	e := table.NewEngine(table.Config{Seed: 8})
	_, err := e.NewGame()
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, gameID, e.Snapshot(table.Spectator), e.Snapshot(0)))

	got, err := store.Load(ctx, gameID, 0)
	require.NoError(t, err)
	assert.Equal(t, table.PhaseDiscarding, got.Phase)
	assert.Len(t, got.Players[0].Hand, 14)

	spectator, err := store.Load(ctx, gameID, table.Spectator)
	require.NoError(t, err)
	assert.Nil(t, spectator.Players[0].Hand)

	active, err := store.ActiveGames(ctx)
	require.NoError(t, err)
	assert.Contains(t, active, gameID)

	_, err = store.Load(ctx, gameID, 3)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	require.NoError(t, store.Delete(ctx, gameID))
	_, err = store.Load(ctx, gameID, 0)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}
