// Package bot AI 决策：有胡必胡，否则对每个候选动作做蒙特卡洛推演并按风格打分
package bot

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"sudooom.mahjong/internal/game/mahjong/analysis"
	"sudooom.mahjong/internal/game/mahjong/core"
	"sudooom.mahjong/internal/game/mahjong/table"
)

// 决策错误
var (
	ErrNoActions  = errors.New("no legal actions for seat")
	ErrWrongPhase = errors.New("decision requested in wrong phase")
)

const claimPenalty = 0.05

// Candidate 候选动作及其评分
type Candidate struct {
	Action     table.Action
	Score      float64
	WinRate    float64
	AvgShanten float64
	AvgDanger  float64
}

// Bot AI 决策器，只读取 SeatView，不修改牌局
// 同一个 Bot 可以被多个牌局并发使用
type Bot struct {
	profile     Profile
	analyzer    Analyzer
	seed        int64
	parallelism int
	logger      *slog.Logger
}

// Option Bot 配置项
type Option func(*Bot)

// WithSeed 固定随机种子，相同种子与相同候选集合得到相同决策
func WithSeed(seed int64) Option {
	return func(b *Bot) { b.seed = seed }
}

// WithParallelism 同时评估的候选动作数
func WithParallelism(n int) Option {
	return func(b *Bot) {
		if n > 0 {
			b.parallelism = n
		}
	}
}

// WithAnalyzer 指定手牌分析器，通常是共享的 analysis.Searcher
func WithAnalyzer(a Analyzer) Option {
	return func(b *Bot) { b.analyzer = a }
}

// WithLogger 指定日志
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) { b.logger = logger }
}

// New 创建 AI
func New(profile Profile, opts ...Option) *Bot {
	b := &Bot{
		profile:     profile,
		seed:        1,
		parallelism: runtime.GOMAXPROCS(0),
		logger:      slog.Default().With("component", "Bot", "profile", profile.Name),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Profile 返回风格参数
func (b *Bot) Profile() Profile {
	return b.profile
}

// DecideTurn 摸牌后的决策：自摸、暗杠/补杠或出牌
func (b *Bot) DecideTurn(ctx context.Context, view table.SeatView) (table.Action, error) {
	if view.Phase != table.PhaseDiscarding {
		return nil, ErrWrongPhase
	}
	return b.Decide(ctx, view)
}

// DecideClaim 他家出牌后的决策：胡、杠、碰、吃或过
func (b *Bot) DecideClaim(ctx context.Context, view table.SeatView) (table.Action, error) {
	if view.Phase != table.PhaseClaimWindow {
		return nil, ErrWrongPhase
	}
	return b.Decide(ctx, view)
}

// Decide 从 view.Actions 中选择一个动作
func (b *Bot) Decide(ctx context.Context, view table.SeatView) (table.Action, error) {
	if len(view.Actions) == 0 {
		return nil, ErrNoActions
	}

	for _, a := range view.Actions {
		if a.Kind() == table.ActDeclareWin || a.Kind() == table.ActClaimWin {
			return a, nil
		}
	}

	candidates := candidates(view.Actions)
	if len(candidates) == 1 {
		return candidates[0], nil
	}
	if b.profile.Rollouts <= 0 {
		return b.heuristic(view, candidates), nil
	}

	ranked, err := b.Rank(ctx, view)
	if err != nil {
		return nil, err
	}

	best := ranked[0]
	for _, c := range ranked[1:] {
		if c.Score > best.Score {
			best = c
		}
	}

	b.logger.Debug("AI 决策",
		"seat", view.Seat,
		"action", best.Action.Kind().String(),
		"score", best.Score,
		"candidates", len(ranked))
	return best.Action, nil
}

// Rank 对所有候选动作推演打分，结果保持枚举顺序
func (b *Bot) Rank(ctx context.Context, view table.SeatView) ([]Candidate, error) {
	actions := candidates(view.Actions)
	if len(actions) == 0 {
		return nil, ErrNoActions
	}

	a := b.analyzer
	if a == nil {
		a = directAnalyzer{sevenPairs: view.SevenPairs}
	}

	melds := len(view.Melds)
	base := core.Counts(view.Hand)
	baseShanten := a.Shanten(base, melds)
	depth := min(b.profile.Depth, view.WallCount/core.SeatCount)
	rollouts := max(b.profile.Rollouts, 1)

	ranked := make([]Candidate, len(actions))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.parallelism)

	for i, action := range actions {
		i, action := i, action
		g.Go(func() error {
			start := apply(base, melds, action)
			rng := rand.New(rand.NewSource(b.candidateSeed(view, i)))

			o, err := simulate(ctx, a, start, rollouts, depth, rng)
			if err != nil {
				return err
			}

			s := score(b.profile, o)
			if isClaim(action) {
				if improvement := baseShanten - a.Shanten(start.counts, start.melds); improvement > 0 {
					s += b.profile.CallAggressiveness * float64(improvement) * 0.2
				} else {
					s -= claimPenalty
				}
			}

			ranked[i] = Candidate{
				Action:     action,
				Score:      s,
				WinRate:    o.WinRate,
				AvgShanten: o.AvgShanten,
				AvgDanger:  o.AvgDanger,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ranked, nil
}

// candidateSeed 种子只由 Bot 种子、牌墙剩余数与候选下标决定，与并发调度无关
func (b *Bot) candidateSeed(view table.SeatView, index int) int64 {
	return b.seed*1_000_003 + int64(view.WallCount)*131 + int64(view.Seat)*17 + int64(index)
}

// heuristic 不推演时的选择：出牌阶段按启发式出牌，响应阶段只接受能降低向听数的副露
func (b *Bot) heuristic(view table.SeatView, actions []table.Action) table.Action {
	if view.Phase == table.PhaseDiscarding {
		if tile, ok := HeuristicDiscard(view.Hand); ok {
			for _, a := range actions {
				if d, ok := a.(table.Discard); ok && d.Tile.SameKind(tile) {
					return a
				}
			}
		}
		return actions[0]
	}

	melds := len(view.Melds)
	base := core.Counts(view.Hand)
	shanten := analysis.ShantenCounts(base, melds)
	if b.profile.CallAggressiveness > 0 {
		for _, a := range actions {
			if !isClaim(a) {
				continue
			}
			next := apply(base, melds, a)
			if analysis.ShantenCounts(next.counts, next.melds) < shanten {
				return a
			}
		}
	}
	for _, a := range actions {
		if a.Kind() == table.ActPass {
			return a
		}
	}
	return actions[0]
}

// candidates 每种牌只保留一个出牌选项，其余动作全部保留
func candidates(actions []table.Action) []table.Action {
	var seen [core.KindCount]bool
	result := make([]table.Action, 0, len(actions))
	for _, a := range actions {
		if d, ok := a.(table.Discard); ok {
			if seen[d.Tile.Kind()] {
				continue
			}
			seen[d.Tile.Kind()] = true
		}
		result = append(result, a)
	}
	return result
}

// apply 在计数副本上执行动作
func apply(counts [core.KindCount]uint8, melds int, action table.Action) position {
	pos := position{counts: counts, melds: melds}
	remove := func(tiles []core.Tile) {
		for _, t := range tiles {
			pos.counts[t.Kind()]--
		}
	}

	switch act := action.(type) {
	case table.Discard:
		pos.counts[act.Tile.Kind()]--
	case table.DeclareQuad:
		if act.Option.Kind == core.QuadExtended {
			pos.counts[act.Option.Tiles[0].Kind()]--
		} else {
			remove(act.Option.Tiles)
			pos.melds++
		}
	case table.ClaimQuadAction:
		remove(core.RemoveTileIDs(act.Option.Tiles, act.Tile.ID))
		pos.melds++
	case table.ClaimTripletAction:
		remove(act.Option.Tiles)
		pos.melds++
		pos.needDiscard = true
	case table.ClaimSequenceAction:
		remove(core.RemoveTileIDs(act.Option.Tiles, act.Tile.ID))
		pos.melds++
		pos.needDiscard = true
	}
	return pos
}

func isClaim(a table.Action) bool {
	switch a.Kind() {
	case table.ActClaimTriplet, table.ActClaimSequence, table.ActClaimQuad, table.ActDeclareQuad:
		return true
	}
	return false
}

// directAnalyzer 没有共享缓存时直接计算
type directAnalyzer struct {
	sevenPairs bool
}

func (d directAnalyzer) Shanten(counts [core.KindCount]uint8, melds int) int {
	return analysis.ShantenCountsWith(counts, melds, d.sevenPairs)
}

func (d directAnalyzer) CanWin(counts [core.KindCount]uint8, melds int) bool {
	return analysis.CanWin(counts, melds, d.sevenPairs)
}
