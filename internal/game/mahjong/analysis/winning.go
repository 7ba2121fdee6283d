// Package analysis 手牌分析：和牌判定与向听数计算
package analysis

import "sudooom.mahjong/internal/game/mahjong/core"

// 牌种下标边界
const (
	numericKinds = 27 // 万条筒共 27 种
	suitSize     = 9
)

// IsWinningHand 判断牌组能否拆成一个雀头加若干面子
// 空牌组视为和牌（副露之外没有剩余手牌），两张相同的牌视为和牌
func IsWinningHand(tiles []core.Tile) bool {
	return IsWinningCounts(core.Counts(tiles))
}

// IsWinningCounts 按牌种计数判断是否和牌
func IsWinningCounts(counts [core.KindCount]uint8) bool {
	total := 0
	for _, c := range counts {
		total += int(c)
	}
	if total == 0 {
		return true
	}
	if total%3 != 2 {
		return false
	}

	for k := 0; k < core.KindCount; k++ {
		if counts[k] < 2 {
			continue
		}
		counts[k] -= 2
		ok := canFormSets(&counts, 0)
		counts[k] += 2
		if ok {
			return true
		}
	}
	return false
}

// canFormSets 剩余牌能否全部拆成刻子或顺子
// 每次取最小的一张，先试刻子再试顺子，失败回溯
func canFormSets(counts *[core.KindCount]uint8, from int) bool {
	i := from
	for i < core.KindCount && counts[i] == 0 {
		i++
	}
	if i == core.KindCount {
		return true
	}

	if counts[i] >= 3 {
		counts[i] -= 3
		ok := canFormSets(counts, i)
		counts[i] += 3
		if ok {
			return true
		}
	}

	if startsSequence(i) && counts[i+1] > 0 && counts[i+2] > 0 {
		counts[i]--
		counts[i+1]--
		counts[i+2]--
		ok := canFormSets(counts, i)
		counts[i]++
		counts[i+1]++
		counts[i+2]++
		if ok {
			return true
		}
	}

	return false
}

// startsSequence 该牌种能否作为顺子的最小一张
func startsSequence(kind int) bool {
	return kind < numericKinds && kind%suitSize <= suitSize-3
}

// IsSevenPairs 七对子：七种不同的对子
func IsSevenPairs(tiles []core.Tile) bool {
	return isSevenPairsCounts(core.Counts(tiles))
}

func isSevenPairsCounts(counts [core.KindCount]uint8) bool {
	pairs := 0
	for _, c := range counts {
		switch c {
		case 0:
		case 2:
			pairs++
		default:
			return false
		}
	}
	return pairs == 7
}

// CanWin 结合规则开关判断是否和牌，七对子仅在门清时成立
func CanWin(counts [core.KindCount]uint8, melds int, sevenPairs bool) bool {
	if IsWinningCounts(counts) {
		return true
	}
	return sevenPairs && melds == 0 && isSevenPairsCounts(counts)
}
