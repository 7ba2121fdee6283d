package game

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// EvictFunc 淘汰或关闭前对牌局的处理（例如保存快照）
type EvictFunc func(ctx context.Context, g *Game)

// GameManager 牌局管理器
type GameManager struct {
	games sync.Map // gameId -> *Game
	count atomic.Int64
	addMu sync.Mutex // 上限检查与登记需要原子完成

	maxGames     int
	evictTimeout time.Duration
	evictTicker  *time.Ticker
	onEvict      EvictFunc

	stopChan chan struct{} // 停止信号通道
	stopOnce sync.Once

	logger *slog.Logger
}

// NewGameManager 创建牌局管理器
// maxGames <= 0 表示不限制；evictEvery <= 0 时不启动淘汰循环
func NewGameManager(maxGames int, evictTimeout, evictEvery time.Duration, onEvict EvictFunc) *GameManager {
	m := &GameManager{
		maxGames:     maxGames,
		evictTimeout: evictTimeout,
		onEvict:      onEvict,
		stopChan:     make(chan struct{}),
		logger:       slog.Default().With("component", "GameManager"),
	}

	if evictEvery > 0 {
		m.evictTicker = time.NewTicker(evictEvery)
		go m.evictLoop()
	}

	return m
}

// Add 登记牌局
func (m *GameManager) Add(g *Game) error {
	select {
	case <-m.stopChan:
		return ErrManagerClosed
	default:
	}

	m.addMu.Lock()
	defer m.addMu.Unlock()

	if m.maxGames > 0 && m.count.Load() >= int64(m.maxGames) {
		return ErrTooManyGames
	}
	if _, loaded := m.games.LoadOrStore(g.ID(), g); !loaded {
		m.count.Add(1)
	}
	return nil
}

// Get 获取牌局
func (m *GameManager) Get(gameID string) (*Game, error) {
	val, ok := m.games.Load(gameID)
	if !ok {
		return nil, ErrGameNotFound
	}
	return val.(*Game), nil
}

// Remove 移除牌局
func (m *GameManager) Remove(gameID string) {
	if _, loaded := m.games.LoadAndDelete(gameID); loaded {
		m.count.Add(-1)
		m.logger.Debug("Removed game", "gameId", gameID)
	}
}

// Count 返回当前牌局数
func (m *GameManager) Count() int {
	return int(m.count.Load())
}

// Range 遍历所有牌局
func (m *GameManager) Range(fn func(g *Game) bool) {
	m.games.Range(func(_, value any) bool {
		return fn(value.(*Game))
	})
}

// evictLoop 淘汰循环
func (m *GameManager) evictLoop() {
	for {
		select {
		case <-m.evictTicker.C:
			m.EvictInactive(context.Background(), time.Now())
		case <-m.stopChan:
			m.logger.Info("Evict loop stopped")
			return
		}
	}
}

// EvictInactive 淘汰 now 之前超过 evictTimeout 未活跃的牌局，返回淘汰数量
func (m *GameManager) EvictInactive(ctx context.Context, now time.Time) int {
	var toEvict []*Game

	m.Range(func(g *Game) bool {
		if now.Sub(g.LastActiveTime()) > m.evictTimeout {
			toEvict = append(toEvict, g)
		}
		return true
	})

	for _, g := range toEvict {
		if g.IsDirty() && m.onEvict != nil {
			m.logger.Info("Saving game before eviction", "gameId", g.ID())
			m.onEvict(ctx, g)
		}
		m.Remove(g.ID())
		m.logger.Info("Evicted inactive game", "gameId", g.ID())
	}
	return len(toEvict)
}

// Shutdown 关闭管理器，保存所有未保存的牌局
func (m *GameManager) Shutdown(ctx context.Context) error {
	m.logger.Info("Shutting down GameManager")

	m.stopOnce.Do(func() {
		// 发送停止信号给 evictLoop
		close(m.stopChan)
		if m.evictTicker != nil {
			m.evictTicker.Stop()
		}
	})

	m.Range(func(g *Game) bool {
		if g.IsDirty() && m.onEvict != nil {
			m.logger.Info("Saving game on shutdown", "gameId", g.ID())
			m.onEvict(ctx, g)
		}
		return ctx.Err() == nil
	})

	m.logger.Info("GameManager shutdown complete")
	return ctx.Err()
}
