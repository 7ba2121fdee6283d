package bot

import (
	"context"
	"math"
	"math/rand"

	"sudooom.mahjong/internal/game/mahjong/core"
)

// Analyzer 推演使用的手牌分析，analysis.Searcher 实现了该接口
type Analyzer interface {
	Shanten(counts [core.KindCount]uint8, melds int) int
	CanWin(counts [core.KindCount]uint8, melds int) bool
}

// position 推演用的私有手牌副本
type position struct {
	counts      [core.KindCount]uint8
	melds       int
	needDiscard bool // 吃碰后需要先出牌
}

// outcome 一组推演的汇总
type outcome struct {
	WinRate    float64
	AvgShanten float64
	AvgDanger  float64
}

// simulate 对同一起点推演 n 次
// 每次随机摸牌（先随机花色再随机点数，不跟踪真实剩余牌），打出使向听数最小的牌
func simulate(ctx context.Context, a Analyzer, start position, n, depth int, rng *rand.Rand) (outcome, error) {
	var wins, shantenSum, dangerSum float64

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return outcome{}, err
		}
		won, minShanten, d := rollout(a, start, depth, rng)
		if won {
			wins++
		}
		shantenSum += float64(minShanten)
		dangerSum += d
	}

	return outcome{
		WinRate:    wins / float64(n),
		AvgShanten: shantenSum / float64(n),
		AvgDanger:  dangerSum / float64(n),
	}, nil
}

func rollout(a Analyzer, pos position, depth int, rng *rand.Rand) (bool, int, float64) {
	var accumulated float64
	best := math.MaxInt

	if pos.needDiscard {
		s, d := discardBest(a, &pos)
		best, accumulated = s, d
	} else {
		best = a.Shanten(pos.counts, pos.melds)
	}

	for step := 0; step < depth; step++ {
		pos.counts[randomKind(&pos.counts, rng)]++
		if a.CanWin(pos.counts, pos.melds) {
			return true, -1, accumulated
		}

		s, d := discardBest(a, &pos)
		accumulated += d
		best = min(best, s)
	}

	return false, best, accumulated
}

// discardBest 打出向听数最小的牌，同分取下标最小者
func discardBest(a Analyzer, pos *position) (int, float64) {
	best, bestKind := math.MaxInt, -1
	for k := range pos.counts {
		if pos.counts[k] == 0 {
			continue
		}
		pos.counts[k]--
		if s := a.Shanten(pos.counts, pos.melds); s < best {
			best, bestKind = s, k
		}
		pos.counts[k]++
	}
	if bestKind < 0 {
		return a.Shanten(pos.counts, pos.melds), 0
	}

	pos.counts[bestKind]--
	pos.needDiscard = false
	return best, danger(core.TileFromKind(bestKind))
}

var suits = [...]core.Suit{core.SuitCharacter, core.SuitBamboo, core.SuitDot, core.SuitWind, core.SuitDragon}

// randomKind 随机一种牌，手中已有四张的重新抽取
func randomKind(counts *[core.KindCount]uint8, rng *rand.Rand) int {
	for {
		suit := suits[rng.Intn(len(suits))]
		value := int8(rng.Intn(int(suit.MaxValue()))) + 1
		kind := core.Tile{Suit: suit, Value: value}.Kind()
		if counts[kind] < core.CopiesPerKind {
			return kind
		}
	}
}

// score 把推演结果折算为评分
func score(p Profile, o outcome) float64 {
	progress := math.Exp(-1.0 * o.AvgShanten)
	safety := math.Exp(-0.1 * o.AvgDanger)
	offense := 0.5*o.WinRate + 0.5*progress
	return p.AttackBias*offense + p.DefenseBias*safety
}
