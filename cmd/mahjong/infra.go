package main

import (
	"context"
	"fmt"
	"log/slog"

	"sudooom.mahjong/internal/config"
	"sudooom.mahjong/internal/game"
	"sudooom.mahjong/internal/game/mahjong/analysis"
	"sudooom.mahjong/internal/game/mahjong/bot"
	"sudooom.mahjong/internal/game/mahjong/table"
	mjNats "sudooom.mahjong/internal/nats"
	mjRedis "sudooom.mahjong/internal/redis"
	"sudooom.mahjong/internal/repository"
)

// infra 按配置启用的外部依赖
type infra struct {
	deps      game.Dependencies
	nats      *mjNats.Client
	snapshots *mjRedis.SnapshotStore
	records   *repository.GameRecordRepository
	searcher  *analysis.Searcher
	closers   []func()
}

// connect 连接 NATS、Redis、PostgreSQL（均可在配置中关闭）
func connect(ctx context.Context, cfg *config.Config) (*infra, error) {
	logger := slog.Default()
	in := &infra{}

	searcher, err := analysis.NewSearcher(cfg.AI.CacheSize, cfg.Game.SevenPairs)
	if err != nil {
		return nil, err
	}
	in.searcher = searcher
	in.closers = append(in.closers, searcher.Close)

	if cfg.NATS.Enabled {
		natsClient, err := mjNats.NewClient(cfg.NATS)
		if err != nil {
			in.Close()
			return nil, fmt.Errorf("连接 NATS 失败: %w", err)
		}
		in.closers = append(in.closers, natsClient.Close)
		in.nats = natsClient
		in.deps.Publisher = mjNats.NewEventPublisher(natsClient.Conn(), cfg.NATS.SubjectPrefix)
		logger.Info("Connected to NATS", "url", cfg.NATS.URL)
	}

	if cfg.Redis.Enabled {
		rdb := mjRedis.NewClient(cfg.Redis)
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			in.Close()
			return nil, fmt.Errorf("连接 Redis 失败: %w", err)
		}
		in.closers = append(in.closers, func() { rdb.Close() })
		in.snapshots = mjRedis.NewSnapshotStore(rdb, cfg.Redis.SnapshotTTL)
		in.deps.Snapshots = in.snapshots
		logger.Info("Connected to Redis", "addr", cfg.Redis.Addr())
	}

	if cfg.Database.Enabled {
		db, err := repository.Connect(ctx, cfg.Database)
		if err != nil {
			in.Close()
			return nil, fmt.Errorf("连接数据库失败: %w", err)
		}
		in.closers = append(in.closers, db.Close)

		in.records = repository.NewGameRecordRepository(db)
		if err := in.records.EnsureSchema(ctx); err != nil {
			in.Close()
			return nil, fmt.Errorf("初始化表结构失败: %w", err)
		}
		in.deps.Records = in.records
		logger.Info("Connected to PostgreSQL", "host", cfg.Database.Host)
	}

	return in, nil
}

// Close 逆序关闭所有连接
func (in *infra) Close() {
	for i := len(in.closers) - 1; i >= 0; i-- {
		in.closers[i]()
	}
	in.closers = nil
}

// loadProfiles 内置风格合并配置中的自定义风格
func loadProfiles(cfg *config.Config) (bot.Profiles, error) {
	overrides := make(bot.Profiles, len(cfg.AI.Profiles))
	for name, p := range cfg.AI.Profiles {
		overrides[name] = bot.Profile{
			Rollouts:           p.Rollouts,
			Depth:              p.Depth,
			AttackBias:         p.AttackBias,
			DefenseBias:        p.DefenseBias,
			CallAggressiveness: p.CallAggressiveness,
		}
	}
	return bot.DefaultProfiles().Merge(overrides)
}

// serviceOptions 由配置生成牌局服务参数
func serviceOptions(cfg *config.Config, analyzer bot.Analyzer) (game.Options, error) {
	profiles, err := loadProfiles(cfg)
	if err != nil {
		return game.Options{}, err
	}
	return game.Options{
		Rules:          table.Rules{SevenPairs: cfg.Game.SevenPairs},
		HumanSeats:     cfg.Game.HumanSeats,
		Profiles:       profiles,
		DefaultProfile: cfg.AI.Profile,
		SeatProfiles:   cfg.AI.SeatProfiles,
		Parallelism:    cfg.AI.Parallelism,
		Analyzer:       analyzer,
		MaxGames:       cfg.Game.MaxGames,
		EvictTimeout:   cfg.Game.EvictTimeout,
		EvictEvery:     cfg.Game.EvictEvery,
	}, nil
}
