package analysis

import (
	"fmt"

	"github.com/dgraph-io/ristretto"

	"sudooom.mahjong/internal/game/mahjong/core"
)

// Searcher 带缓存的手牌分析器，供 AI 推演高频调用
// 缓存 key 为 34 种牌计数加副露数，结果与无缓存计算完全一致
type Searcher struct {
	cache      *ristretto.Cache
	sevenPairs bool
}

// NewSearcher 创建分析器
// maxEntries: 缓存条目上限（每条 cost 为 1）
func NewSearcher(maxEntries int64, sevenPairs bool) (*Searcher, error) {
	if maxEntries <= 0 {
		maxEntries = 1 << 20
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 ristretto 缓存失败: %w", err)
	}

	return &Searcher{
		cache:      cache,
		sevenPairs: sevenPairs,
	}, nil
}

// SevenPairs 是否启用七对子
func (s *Searcher) SevenPairs() bool {
	return s.sevenPairs
}

// Shanten 带缓存的向听数，与 CanWin 使用同一规则
func (s *Searcher) Shanten(counts [core.KindCount]uint8, melds int) int {
	key := cacheKey('s', counts, melds)
	if v, ok := s.cache.Get(key); ok {
		return v.(int)
	}

	n := ShantenCountsWith(counts, melds, s.sevenPairs)
	s.cache.Set(key, n, 1)
	return n
}

// CanWin 带缓存的和牌判定
func (s *Searcher) CanWin(counts [core.KindCount]uint8, melds int) bool {
	key := cacheKey('w', counts, melds)
	if v, ok := s.cache.Get(key); ok {
		return v.(bool)
	}

	ok := CanWin(counts, melds, s.sevenPairs)
	s.cache.Set(key, ok, 1)
	return ok
}

// Close 关闭缓存
func (s *Searcher) Close() {
	s.cache.Close()
}

func cacheKey(prefix byte, counts [core.KindCount]uint8, melds int) string {
	var buf [core.KindCount + 2]byte
	buf[0] = prefix
	buf[1] = byte(melds)
	for i, c := range counts {
		buf[i+2] = '0' + c
	}
	return string(buf[:])
}
