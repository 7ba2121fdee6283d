package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"sudooom.mahjong/internal/config"
	"sudooom.mahjong/internal/game/mahjong/table"
)

// ErrSnapshotNotFound 快照不存在或已过期
var ErrSnapshotNotFound = errors.New("snapshot not found")

// NewClient 根据配置创建 Redis 客户端
func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

// SnapshotStore 牌局快照存储，每个视角一份
type SnapshotStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewSnapshotStore 创建快照存储
func NewSnapshotStore(rdb *redis.Client, ttl time.Duration) *SnapshotStore {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &SnapshotStore{
		rdb:    rdb,
		ttl:    ttl,
		logger: slog.Default().With("component", "SnapshotStore"),
	}
}

// Save 保存一组快照，并维护进行中牌局集合
func (s *SnapshotStore) Save(ctx context.Context, gameID string, snaps ...table.Snapshot) error {
	pipe := s.rdb.TxPipeline()
	for _, snap := range snaps {
		data, err := json.Marshal(snap)
		if err != nil {
			return fmt.Errorf("marshal snapshot: %w", err)
		}
		pipe.Set(ctx, BuildSnapshotKey(gameID, snap.Viewer), data, s.ttl)
	}

	finished := len(snaps) > 0 && snaps[0].Phase == table.PhaseFinished
	if finished {
		pipe.SRem(ctx, ActiveGamesKey, gameID)
	} else {
		pipe.SAdd(ctx, ActiveGamesKey, gameID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Warn("保存快照失败", "gameId", gameID, "error", err)
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load 读取指定视角的快照
func (s *SnapshotStore) Load(ctx context.Context, gameID string, viewer int) (*table.Snapshot, error) {
	data, err := s.rdb.Get(ctx, BuildSnapshotKey(gameID, viewer)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var snap table.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// Delete 删除牌局的所有快照
func (s *SnapshotStore) Delete(ctx context.Context, gameID string) error {
	keys := make([]string, 0, 5)
	for viewer := table.Spectator; viewer < 4; viewer++ {
		keys = append(keys, BuildSnapshotKey(gameID, viewer))
	}

	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, keys...)
	pipe.SRem(ctx, ActiveGamesKey, gameID)
	_, err := pipe.Exec(ctx)
	return err
}

// ActiveGames 返回进行中的牌局 ID
func (s *SnapshotStore) ActiveGames(ctx context.Context) ([]string, error) {
	return s.rdb.SMembers(ctx, ActiveGamesKey).Result()
}
