package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"sudooom.mahjong/internal/game/mahjong/bot"
	"sudooom.mahjong/internal/game/mahjong/core"
	"sudooom.mahjong/internal/game/mahjong/table"
	"sudooom.mahjong/internal/model"
)

// maxAutoSteps 单次驱动 AI 的步数上限，一局最多 136 次摸牌
const maxAutoSteps = 4 * core.DeckSize

// Game 一局麻将的会话
// 牌桌状态机不是并发安全的，所有状态转换都在 mu 写锁内完成
type Game struct {
	mu sync.RWMutex

	id        string
	seed      int64
	engine    *table.Engine
	bots      [core.SeatCount]*bot.Bot // nil 表示玩家座位
	profiles  [core.SeatCount]string
	startedAt time.Time

	lastActive time.Time
	dirty      bool
	recorded   bool

	logger *slog.Logger
}

// Seats 各座位的控制方
type Seats struct {
	Bots     [core.SeatCount]*bot.Bot
	Profiles [core.SeatCount]string
}

// NewGame 创建牌局会话，尚未发牌
func NewGame(id string, seed int64, rules table.Rules, seats Seats, sink table.EventSink) *Game {
	logger := slog.Default().With("component", "Game", "gameId", id)

	var humans []int
	for seat, b := range seats.Bots {
		if b == nil {
			humans = append(humans, seat)
		}
	}

	return &Game{
		id:   id,
		seed: seed,
		engine: table.NewEngine(table.Config{
			Seed:       seed,
			Rules:      rules,
			HumanSeats: humans,
			Sink:       sink,
			Logger:     logger,
		}),
		bots:       seats.Bots,
		profiles:   seats.Profiles,
		lastActive: time.Now(),
		logger:     logger,
	}
}

// ID 牌局 ID
func (g *Game) ID() string {
	return g.id
}

// Start 发牌并驱动 AI 直到需要玩家操作
func (g *Game) Start(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.startedAt = time.Now()
	g.recorded = false
	return g.run(ctx, func() (table.Prompt, error) {
		return g.engine.NewGame()
	})
}

// Discard 玩家出牌
func (g *Game) Discard(ctx context.Context, seat int, id core.TileID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkHuman(seat); err != nil {
		return err
	}
	return g.run(ctx, func() (table.Prompt, error) {
		return g.engine.Discard(seat, id)
	})
}

// Claim 玩家选择胡/杠/碰/吃
func (g *Game) Claim(ctx context.Context, seat int, ct table.ClaimType, option int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkHuman(seat); err != nil {
		return err
	}
	return g.run(ctx, func() (table.Prompt, error) {
		return g.engine.Claim(seat, ct, option)
	})
}

// Pass 玩家放弃响应
func (g *Game) Pass(ctx context.Context, seat int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkHuman(seat); err != nil {
		return err
	}
	return g.run(ctx, func() (table.Prompt, error) {
		return g.engine.Pass(seat)
	})
}

// Sort 整理手牌，不驱动 AI
func (g *Game) Sort(seat int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, err := g.engine.Sort(seat); err != nil {
		return err
	}
	g.touch()
	return nil
}

// run 执行一次状态转换，然后让 AI 座位行动
func (g *Game) run(ctx context.Context, transition func() (table.Prompt, error)) error {
	if _, err := transition(); err != nil {
		return err
	}
	g.touch()
	return g.autoPlay(ctx)
}

// autoPlay 依次让需要行动的 AI 座位决策，直到轮到玩家或牌局结束
// 决策在锁内完成，保证动作总是基于最新状态
func (g *Game) autoPlay(ctx context.Context) error {
	for steps := 0; steps < maxAutoSteps; steps++ {
		prompt := g.engine.Prompt()
		if prompt.Phase == table.PhaseFinished {
			return nil
		}

		seat, ok := g.nextBotSeat(prompt)
		if !ok {
			return nil
		}

		action, err := g.bots[seat].Decide(ctx, g.engine.View(seat))
		if err != nil {
			return fmt.Errorf("seat %d decide: %w", seat, err)
		}
		if _, err := g.engine.Apply(seat, action); err != nil {
			g.logger.Error("AI 动作被拒绝", "seat", seat, "action", action.Kind().String(), "error", err)
			return err
		}
		g.touch()
	}
	return fmt.Errorf("autoplay exceeded %d steps", maxAutoSteps)
}

func (g *Game) nextBotSeat(prompt table.Prompt) (int, bool) {
	for _, offer := range prompt.Offers {
		if g.bots[offer.Seat] != nil {
			return offer.Seat, true
		}
	}
	return 0, false
}

func (g *Game) checkHuman(seat int) error {
	if g.engine.IsAI(seat) {
		return ErrSeatControlledByAI
	}
	return nil
}

func (g *Game) touch() {
	g.dirty = true
	g.lastActive = time.Now()
}

// Snapshot 指定视角的快照
func (g *Game) Snapshot(viewer int) table.Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.engine.Snapshot(viewer)
}

// Snapshots 观战视角与四个座位视角的快照
func (g *Game) Snapshots() []table.Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()

	snaps := make([]table.Snapshot, 0, core.SeatCount+1)
	snaps = append(snaps, g.engine.Snapshot(table.Spectator))
	for seat := 0; seat < core.SeatCount; seat++ {
		snaps = append(snaps, g.engine.Snapshot(seat))
	}
	return snaps
}

// IsFinished 牌局是否结束
func (g *Game) IsFinished() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.engine.IsFinished()
}

// IsDirty 是否有未保存的修改
func (g *Game) IsDirty() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.dirty
}

// MarkClean 标记为已保存
func (g *Game) MarkClean() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.dirty = false
}

// LastActiveTime 获取最后活跃时间
func (g *Game) LastActiveTime() time.Time {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.lastActive
}

// TakeRecord 牌局结束后返回一次记录，之后返回 nil
func (g *Game) TakeRecord() *model.GameRecord {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.recorded || !g.engine.IsFinished() {
		return nil
	}
	g.recorded = true

	snap := g.engine.Snapshot(table.Spectator)
	return &model.GameRecord{
		GameId:      g.id,
		Seed:        g.seed,
		Winner:      snap.Winner,
		WinType:     snap.WinType.String(),
		Turns:       snap.Turn,
		WinningHand: core.FormatTiles(snap.WinningHand),
		Profiles:    append([]string(nil), g.profiles[:]...),
		StartedAt:   g.startedAt,
		FinishedAt:  g.lastActive,
	}
}
