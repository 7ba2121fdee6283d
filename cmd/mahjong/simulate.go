package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sudooom.mahjong/internal/game"
	"sudooom.mahjong/internal/game/mahjong/core"
	"sudooom.mahjong/internal/game/mahjong/table"
	"sudooom.mahjong/internal/model"
	"sudooom.mahjong/internal/workerpool"
)

var (
	simGames   int
	simWorkers int
	simSeed    int64
	simProfile string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "四个 AI 对局批量模拟，输出胜率统计",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runSimulate(ctx)
	},
}

func init() {
	simulateCmd.Flags().IntVar(&simGames, "games", 0, "number of games (default from config)")
	simulateCmd.Flags().IntVar(&simWorkers, "workers", 0, "concurrent games (default from config)")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 1, "seed of the first game, following games use seed+i")
	simulateCmd.Flags().StringVar(&simProfile, "profile", "", "profile for all seats, overrides seat_profiles")
}

// tally 汇总模拟结果
type tally struct {
	mu     sync.Mutex
	stats  model.WinStats
	turns  int
	failed int
}

func (t *tally) add(snap table.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats.Games++
	t.turns += snap.Turn
	switch {
	case snap.Winner < 0:
		t.stats.Draws++
	default:
		t.stats.SeatWins[snap.Winner]++
		if snap.WinType == table.WinSelfDraw {
			t.stats.SelfDraws++
		}
	}
}

func (t *tally) fail() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failed++
}

func runSimulate(ctx context.Context) error {
	logger := slog.Default().With("component", "simulate")

	games := cfg.Simulate.Games
	if simGames > 0 {
		games = simGames
	}
	workers := cfg.Simulate.Workers
	if simWorkers > 0 {
		workers = simWorkers
	}

	in, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer in.Close()

	opts, err := serviceOptions(cfg, in.searcher)
	if err != nil {
		return err
	}
	if simProfile != "" {
		opts.DefaultProfile = simProfile
		opts.SeatProfiles = nil
	}
	// 多局并发，单个 AI 串行推演
	opts.Parallelism = 1
	opts.EvictEvery = 0

	svc, err := game.NewGameService(opts, in.deps)
	if err != nil {
		return err
	}
	defer svc.Shutdown(context.Background())

	pool := workerpool.New(workers, cfg.Simulate.QueueSize, logger)
	defer pool.Stop()

	var result tally
	start := time.Now()
	for i := 0; i < games; i++ {
		seed := simSeed + int64(i)
		ok := pool.Submit(ctx, func(ctx context.Context) {
			id, snap, err := svc.NewGame(ctx, game.NewGameRequest{Seed: seed, AllAI: true})
			if err != nil {
				logger.Error("模拟失败", "seed", seed, "error", err)
				result.fail()
				return
			}
			result.add(snap)
			if err := svc.Close(ctx, id); err != nil {
				logger.Warn("关闭牌局失败", "gameId", id, "error", err)
			}
		})
		if !ok {
			logger.Warn("模拟被中断", "submitted", i)
			break
		}
	}
	pool.Wait()

	printStats(&result, time.Since(start))

	if in.records != nil {
		stats, err := in.records.WinStats(ctx)
		if err != nil {
			return fmt.Errorf("查询历史统计失败: %w", err)
		}
		fmt.Printf("\n历史记录: %d 局, 流局 %d, 自摸 %d, 平均 %.1f 巡\n",
			stats.Games, stats.Draws, stats.SelfDraws, stats.AvgTurns)
	}
	return ctx.Err()
}

func printStats(t *tally, elapsed time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.stats
	if s.Games > 0 {
		s.AvgTurns = float64(t.turns) / float64(s.Games)
	}

	fmt.Printf("完成 %d 局（失败 %d），耗时 %s\n", s.Games, t.failed, elapsed.Round(time.Millisecond))
	fmt.Printf("流局 %d, 自摸 %d, 平均 %.1f 巡\n", s.Draws, s.SelfDraws, s.AvgTurns)
	for seat := 0; seat < core.SeatCount; seat++ {
		rate := 0.0
		if s.Games > 0 {
			rate = float64(s.SeatWins[seat]) / float64(s.Games) * 100
		}
		fmt.Printf("  座位 %d: 胜 %d (%.1f%%)\n", seat, s.SeatWins[seat], rate)
	}
}
