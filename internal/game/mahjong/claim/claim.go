// Package claim 吃碰杠合法性判定，所有函数均为纯函数
package claim

import "sudooom.mahjong/internal/game/mahjong/core"

// Origin 牌的来源
type Origin int8

const (
	OriginOwnDraw Origin = iota // 自己摸牌
	OriginDiscard               // 他家打出
)

// TripletOption 碰牌选项
type TripletOption struct {
	Tiles []core.Tile `json:"tiles"` // 手中用于碰的两张牌
}

// QuadOption 杠牌选项
type QuadOption struct {
	Kind  core.QuadKind `json:"kind"`  // 杠类型
	Tiles []core.Tile   `json:"tiles"` // 组成杠的四张牌
	Meld  int           `json:"meld"`  // 补杠对应的副露下标，其他杠为 -1
}

// SequenceOption 吃牌选项
type SequenceOption struct {
	Tiles []core.Tile `json:"tiles"` // 三张牌升序，包含被吃的牌
}

// CanClaimTriplet 手中至少有两张同种牌时可以碰
func CanClaimTriplet(hand []core.Tile, tile core.Tile) bool {
	return core.CountKind(hand, tile) >= 2
}

// Triplet 返回碰牌选项
func Triplet(hand []core.Tile, tile core.Tile) (TripletOption, bool) {
	pair := core.FindKind(hand, tile, 2)
	if pair == nil {
		return TripletOption{}, false
	}
	return TripletOption{Tiles: pair}, true
}

// CanClaimQuad 枚举所有杠牌选项
// 自己摸牌时手中每种四张的牌都可以暗杠；他家打牌时手中恰好三张可以明杠
func CanClaimQuad(hand []core.Tile, tile *core.Tile, origin Origin) []QuadOption {
	var options []QuadOption

	switch origin {
	case OriginOwnDraw:
		for _, t := range core.UniqueKinds(hand) {
			if quad := core.FindKind(hand, t, 4); quad != nil {
				options = append(options, QuadOption{Kind: core.QuadConcealed, Tiles: quad, Meld: -1})
			}
		}
	case OriginDiscard:
		if tile == nil || core.CountKind(hand, *tile) != 3 {
			return nil
		}
		quad := append(core.FindKind(hand, *tile, 3), *tile)
		options = append(options, QuadOption{Kind: core.QuadClaimed, Tiles: quad, Meld: -1})
	}

	return options
}

// CanExtendQuad 补杠：手中持有与已碰刻子相同的牌
func CanExtendQuad(hand []core.Tile, melds []core.Meld) []QuadOption {
	var options []QuadOption
	for i, m := range melds {
		if m.Kind != core.MeldTriplet {
			continue
		}
		held := core.FindKind(hand, m.Tiles[0], 1)
		if held == nil {
			continue
		}
		tiles := append(core.CloneTiles(m.Tiles), held[0])
		options = append(options, QuadOption{Kind: core.QuadExtended, Tiles: tiles, Meld: i})
	}
	return options
}

// CanClaimSequence 枚举吃牌选项，只对数牌有效
// 被吃的牌依次作为顺子的最大、中间、最小一张，另外两张必须都在手中
// 选项按顺子最小牌升序排列
func CanClaimSequence(hand []core.Tile, tile core.Tile) []SequenceOption {
	if !tile.Suit.IsNumeric() {
		return nil
	}

	var options []SequenceOption
	for _, offsets := range [][2]int8{{-2, -1}, {-1, 1}, {1, 2}} {
		a, b := tile.Value+offsets[0], tile.Value+offsets[1]
		if a < 1 || b > 9 || a > 9 || b < 1 {
			continue
		}
		ta, okA := core.FindValue(hand, tile.Suit, a)
		tb, okB := core.FindValue(hand, tile.Suit, b)
		if !okA || !okB {
			continue
		}
		tiles := []core.Tile{ta, tb, tile}
		core.SortTiles(tiles)
		options = append(options, SequenceOption{Tiles: tiles})
	}
	return options
}
