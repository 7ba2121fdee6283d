package analysis

import (
	"sync"

	"sudooom.mahjong/internal/game/mahjong/core"
)

// 面子上限：4 组面子加 1 个雀头
const maxBlocks = 4

// block 单门花色的拆解结果
type block struct {
	melds    int
	partials int
}

func (b block) better(o block) bool {
	if b.melds != o.melds {
		return b.melds > o.melds
	}
	return b.partials > o.partials
}

// suitMemo 单门花色拆解结果缓存，key 为 5 进制计数编码加花色标记
var suitMemo sync.Map

// Shanten 向听数：-1 为已和牌，0 为听牌
// existingMelds 为已副露的面子数，副露牌不包含在 tiles 中
func Shanten(tiles []core.Tile, existingMelds int) int {
	return ShantenCounts(core.Counts(tiles), existingMelds)
}

// ShantenCounts 按牌种计数计算向听数，取一般型与七对子的较小值
func ShantenCounts(counts [core.KindCount]uint8, existingMelds int) int {
	return ShantenCountsWith(counts, existingMelds, true)
}

// ShantenCountsWith 按规则计算向听数，sevenPairs 为 false 时只算一般型
func ShantenCountsWith(counts [core.KindCount]uint8, existingMelds int, sevenPairs bool) int {
	s := standardShanten(counts, existingMelds)
	if sevenPairs && existingMelds == 0 && total(counts) >= core.DealSize {
		s = min(s, sevenPairsShanten(counts))
	}
	return s
}

// StandardShanten 一般型向听数 8 - 2M - T - P
func StandardShanten(tiles []core.Tile, existingMelds int) int {
	return standardShanten(core.Counts(tiles), existingMelds)
}

// SevenPairsShanten 七对子向听数 6 - 对子种数
func SevenPairsShanten(tiles []core.Tile) int {
	return sevenPairsShanten(core.Counts(tiles))
}

func sevenPairsShanten(counts [core.KindCount]uint8) int {
	pairs := 0
	for _, c := range counts {
		if c >= 2 {
			pairs++
		}
	}
	return 6 - pairs
}

func standardShanten(counts [core.KindCount]uint8, existingMelds int) int {
	best := evaluate(&counts, existingMelds, 0)

	for k := 0; k < core.KindCount; k++ {
		if counts[k] < 2 {
			continue
		}
		counts[k] -= 2
		best = min(best, evaluate(&counts, existingMelds, 1))
		counts[k] += 2
	}
	return best
}

// evaluate 各门花色独立拆解后汇总
func evaluate(counts *[core.KindCount]uint8, existingMelds, pair int) int {
	m, t := existingMelds, 0
	for suit := 0; suit < 3; suit++ {
		b := solveSuit(counts[suit*suitSize:(suit+1)*suitSize], true)
		m += b.melds
		t += b.partials
	}
	b := solveSuit(counts[numericKinds:], false)
	m += b.melds
	t += b.partials

	if m+t > maxBlocks {
		t = max(maxBlocks-m, 0)
	}
	return 8 - 2*m - t - pair
}

func solveSuit(counts []uint8, numeric bool) block {
	key := uint32(0)
	for _, c := range counts {
		key = key*5 + uint32(c)
	}
	if numeric {
		key |= 1 << 31
	}
	if v, ok := suitMemo.Load(key); ok {
		return v.(block)
	}

	var buf [suitSize]uint8
	n := copy(buf[:], counts)
	b := solve(&buf, 0, n, numeric)
	suitMemo.Store(key, b)
	return b
}

// solve 递归拆解：最小牌依次尝试刻子、顺子、对子、搭子、跳过
func solve(c *[suitSize]uint8, from, n int, numeric bool) block {
	i := from
	for i < n && c[i] == 0 {
		i++
	}
	if i >= n {
		return block{}
	}

	var best block
	try := func(r block) {
		if r.better(best) {
			best = r
		}
	}

	if c[i] >= 3 {
		c[i] -= 3
		r := solve(c, i, n, numeric)
		c[i] += 3
		r.melds++
		try(r)
	}

	if numeric && i+2 < n && c[i+1] > 0 && c[i+2] > 0 {
		c[i]--
		c[i+1]--
		c[i+2]--
		r := solve(c, i, n, numeric)
		c[i]++
		c[i+1]++
		c[i+2]++
		r.melds++
		try(r)
	}

	if c[i] >= 2 {
		c[i] -= 2
		r := solve(c, i, n, numeric)
		c[i] += 2
		r.partials++
		try(r)
	}

	if numeric {
		for gap := 1; gap <= 2; gap++ {
			j := i + gap
			if j >= n || c[j] == 0 {
				continue
			}
			c[i]--
			c[j]--
			r := solve(c, i, n, numeric)
			c[i]++
			c[j]++
			r.partials++
			try(r)
		}
	}

	c[i]--
	r := solve(c, i, n, numeric)
	c[i]++
	try(r)

	return best
}

func total(counts [core.KindCount]uint8) int {
	n := 0
	for _, c := range counts {
		n += int(c)
	}
	return n
}
