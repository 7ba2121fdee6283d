package game

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"sudooom.mahjong/internal/game/mahjong/bot"
	"sudooom.mahjong/internal/game/mahjong/core"
	"sudooom.mahjong/internal/game/mahjong/table"
	"sudooom.mahjong/internal/model"
)

// EventPublisher 牌局事件与观战快照发布
type EventPublisher interface {
	Sink(gameID string) table.EventSink
	PublishSnapshot(gameID string, snap table.Snapshot) error
}

// SnapshotStore 牌局快照存储
type SnapshotStore interface {
	Save(ctx context.Context, gameID string, snaps ...table.Snapshot) error
}

// RecordStore 已结束牌局的记录存储
type RecordStore interface {
	Create(ctx context.Context, rec *model.GameRecord) (int64, error)
}

// Options 牌局服务配置
type Options struct {
	Rules          table.Rules
	HumanSeats     []int
	Profiles       bot.Profiles
	DefaultProfile string
	SeatProfiles   map[int]string
	Parallelism    int
	Analyzer       bot.Analyzer // 所有 AI 共享的手牌分析缓存，可为空

	MaxGames     int
	EvictTimeout time.Duration
	EvictEvery   time.Duration
}

// Dependencies 外部依赖，均可为空
type Dependencies struct {
	Publisher EventPublisher
	Snapshots SnapshotStore
	Records   RecordStore
	Sink      table.EventSink // 额外的事件接收方，例如命令行输出
}

// NewGameRequest 开局参数
type NewGameRequest struct {
	Seed       int64 // 0 表示按时间生成
	HumanSeats []int // 为空时使用服务配置
	AllAI      bool  // 四个座位都由 AI 控制
}

// GameService 牌局服务：创建牌局、转发玩家指令、驱动 AI、发布事件并持久化
type GameService struct {
	manager *GameManager
	opts    Options
	deps    Dependencies
	logger  *slog.Logger
}

// NewGameService 创建牌局服务
func NewGameService(opts Options, deps Dependencies) (*GameService, error) {
	if opts.Profiles == nil {
		opts.Profiles = bot.DefaultProfiles()
	}
	if opts.DefaultProfile == "" {
		opts.DefaultProfile = bot.Balanced.Name
	}
	if _, err := opts.Profiles.Lookup(opts.DefaultProfile); err != nil {
		return nil, err
	}
	for seat, name := range opts.SeatProfiles {
		if _, err := opts.Profiles.Lookup(name); err != nil {
			return nil, fmt.Errorf("seat %d: %w", seat, err)
		}
	}

	s := &GameService{
		opts:   opts,
		deps:   deps,
		logger: slog.Default().With("component", "GameService"),
	}
	s.manager = NewGameManager(opts.MaxGames, opts.EvictTimeout, opts.EvictEvery, s.persist)
	return s, nil
}

// Manager 返回牌局管理器
func (s *GameService) Manager() *GameManager {
	return s.manager
}

// NewGame 创建并开始一局，返回牌局 ID 与第一个玩家座位视角的快照
func (s *GameService) NewGame(ctx context.Context, req NewGameRequest) (string, table.Snapshot, error) {
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	humans := req.HumanSeats
	if len(humans) == 0 && !req.AllAI {
		humans = s.opts.HumanSeats
	}
	if req.AllAI {
		humans = nil
	}

	seats, err := s.seats(seed, humans)
	if err != nil {
		return "", table.Snapshot{}, err
	}

	id := uuid.NewString()
	g := NewGame(id, seed, s.opts.Rules, seats, s.sink(id))
	if err := s.manager.Add(g); err != nil {
		return "", table.Snapshot{}, err
	}

	s.logger.Info("创建牌局", "gameId", id, "seed", seed, "humans", humans)

	if err := g.Start(ctx); err != nil {
		s.manager.Remove(id)
		return "", table.Snapshot{}, err
	}
	s.persist(ctx, g)

	viewer := table.Spectator
	if len(humans) > 0 {
		viewer = humans[0]
	}
	return id, g.Snapshot(viewer), nil
}

// Restart 在同一个牌局 ID 上重新开局
func (s *GameService) Restart(ctx context.Context, gameID string, viewer int) (table.Snapshot, error) {
	return s.do(ctx, gameID, viewer, func(g *Game) error {
		return g.Start(ctx)
	})
}

// Discard 出牌
func (s *GameService) Discard(ctx context.Context, gameID string, seat int, id core.TileID) (table.Snapshot, error) {
	return s.do(ctx, gameID, seat, func(g *Game) error {
		return g.Discard(ctx, seat, id)
	})
}

// Claim 胡/杠/碰/吃
func (s *GameService) Claim(ctx context.Context, gameID string, seat int, ct table.ClaimType, option int) (table.Snapshot, error) {
	return s.do(ctx, gameID, seat, func(g *Game) error {
		return g.Claim(ctx, seat, ct, option)
	})
}

// Pass 过
func (s *GameService) Pass(ctx context.Context, gameID string, seat int) (table.Snapshot, error) {
	return s.do(ctx, gameID, seat, func(g *Game) error {
		return g.Pass(ctx, seat)
	})
}

// Sort 整理手牌
func (s *GameService) Sort(ctx context.Context, gameID string, seat int) (table.Snapshot, error) {
	return s.do(ctx, gameID, seat, func(g *Game) error {
		return g.Sort(seat)
	})
}

// Snapshot 查询快照
func (s *GameService) Snapshot(gameID string, viewer int) (table.Snapshot, error) {
	g, err := s.manager.Get(gameID)
	if err != nil {
		return table.Snapshot{}, err
	}
	return g.Snapshot(viewer), nil
}

// Close 移除牌局
func (s *GameService) Close(ctx context.Context, gameID string) error {
	g, err := s.manager.Get(gameID)
	if err != nil {
		return err
	}
	if g.IsDirty() {
		s.persist(ctx, g)
	}
	s.manager.Remove(gameID)
	return nil
}

// Shutdown 关闭服务
func (s *GameService) Shutdown(ctx context.Context) error {
	return s.manager.Shutdown(ctx)
}

// do 执行指令；非法操作不改变状态，直接返回错误
func (s *GameService) do(ctx context.Context, gameID string, viewer int, fn func(g *Game) error) (table.Snapshot, error) {
	g, err := s.manager.Get(gameID)
	if err != nil {
		return table.Snapshot{}, err
	}

	if err := fn(g); err != nil {
		if core.IsIllegalAction(err) {
			s.logger.Debug("拒绝非法操作", "gameId", gameID, "seat", viewer, "error", err)
		} else {
			s.logger.Error("处理指令失败", "gameId", gameID, "seat", viewer, "error", err)
		}
		return table.Snapshot{}, err
	}

	s.persist(ctx, g)
	return g.Snapshot(viewer), nil
}

// persist 发布并保存快照、记录已结束的牌局；失败只记录日志
func (s *GameService) persist(ctx context.Context, g *Game) {
	if s.deps.Publisher != nil {
		if err := s.deps.Publisher.PublishSnapshot(g.ID(), g.Snapshot(table.Spectator)); err != nil {
			s.logger.Warn("发布快照失败", "gameId", g.ID(), "error", err)
		}
	}

	if s.deps.Snapshots != nil {
		if err := s.deps.Snapshots.Save(ctx, g.ID(), g.Snapshots()...); err != nil {
			s.logger.Warn("保存快照失败", "gameId", g.ID(), "error", err)
		}
	}

	if rec := g.TakeRecord(); rec != nil {
		s.logger.Info("牌局结束", "gameId", g.ID(), "winner", rec.Winner, "winType", rec.WinType, "turns", rec.Turns)
		if s.deps.Records != nil {
			if _, err := s.deps.Records.Create(ctx, rec); err != nil {
				s.logger.Warn("保存牌局记录失败", "gameId", g.ID(), "error", err)
			}
		}
	}

	g.MarkClean()
}

// seats 为非玩家座位创建 AI
func (s *GameService) seats(seed int64, humans []int) (Seats, error) {
	var seats Seats
	for seat := 0; seat < core.SeatCount; seat++ {
		if slices.Contains(humans, seat) {
			continue
		}

		name := s.opts.DefaultProfile
		if n, ok := s.opts.SeatProfiles[seat]; ok {
			name = n
		}
		profile, err := s.opts.Profiles.Lookup(name)
		if err != nil {
			return Seats{}, err
		}

		opts := []bot.Option{bot.WithSeed(seed + int64(seat))}
		if s.opts.Parallelism > 0 {
			opts = append(opts, bot.WithParallelism(s.opts.Parallelism))
		}
		if s.opts.Analyzer != nil {
			opts = append(opts, bot.WithAnalyzer(s.opts.Analyzer))
		}

		seats.Bots[seat] = bot.New(profile, opts...)
		seats.Profiles[seat] = profile.Name
	}
	return seats, nil
}

func (s *GameService) sink(gameID string) table.EventSink {
	var sinks table.MultiSink
	if s.deps.Publisher != nil {
		sinks = append(sinks, s.deps.Publisher.Sink(gameID))
	}
	if s.deps.Sink != nil {
		sinks = append(sinks, s.deps.Sink)
	}
	if len(sinks) == 0 {
		return nil
	}
	return sinks
}
