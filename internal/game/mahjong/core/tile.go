package core

import "sort"

// SortTiles 按花色、点数、编号排序
func SortTiles(tiles []Tile) {
	sort.Slice(tiles, func(i, j int) bool {
		return tileLess(tiles[i], tiles[j])
	})
}

func tileLess(a, b Tile) bool {
	if a.Suit != b.Suit {
		return a.Suit < b.Suit
	}
	if a.Value != b.Value {
		return a.Value < b.Value
	}
	return a.ID < b.ID
}

// SortGrouped 已成型的刻子排最左，其次顺子，剩余散牌按常规顺序
func SortGrouped(tiles []Tile) []Tile {
	rest := CloneTiles(tiles)
	SortTiles(rest)

	grouped := make([]Tile, 0, len(tiles))

	// 刻子
	for i := 0; i+2 < len(rest); {
		if rest[i].SameKind(rest[i+1]) && rest[i].SameKind(rest[i+2]) {
			grouped = append(grouped, rest[i:i+3]...)
			rest = append(rest[:i:i], rest[i+3:]...)
			continue
		}
		i++
	}

	// 顺子
	var sequences []Tile
	for {
		found := false
		for i := 0; i < len(rest) && !found; i++ {
			if !rest[i].Suit.IsNumeric() {
				continue
			}
			j := indexOfKind(rest, rest[i].Suit, rest[i].Value+1)
			k := indexOfKind(rest, rest[i].Suit, rest[i].Value+2)
			if j < 0 || k < 0 {
				continue
			}
			sequences = append(sequences, rest[i], rest[j], rest[k])
			rest = RemoveTileIDs(rest, rest[i].ID, rest[j].ID, rest[k].ID)
			found = true
		}
		if !found {
			break
		}
	}

	grouped = append(grouped, sequences...)
	return append(grouped, rest...)
}

func indexOfKind(tiles []Tile, suit Suit, value int8) int {
	for i, t := range tiles {
		if t.Suit == suit && t.Value == value {
			return i
		}
	}
	return -1
}

// CountKind 统计某种牌的数量
func CountKind(tiles []Tile, target Tile) int {
	count := 0
	for _, t := range tiles {
		if t.SameKind(target) {
			count++
		}
	}
	return count
}

// FindKind 返回前 n 张同种牌，不足 n 张返回 nil
func FindKind(tiles []Tile, target Tile, n int) []Tile {
	found := make([]Tile, 0, n)
	for _, t := range tiles {
		if t.SameKind(target) {
			found = append(found, t)
			if len(found) == n {
				return found
			}
		}
	}
	return nil
}

// FindValue 返回指定花色点数的第一张牌
func FindValue(tiles []Tile, suit Suit, value int8) (Tile, bool) {
	if i := indexOfKind(tiles, suit, value); i >= 0 {
		return tiles[i], true
	}
	return Tile{}, false
}

// RemoveTileIDs 返回移除指定编号后的新牌组，原切片不变
func RemoveTileIDs(tiles []Tile, ids ...TileID) []Tile {
	result := make([]Tile, 0, len(tiles))
	for _, t := range tiles {
		drop := false
		for _, id := range ids {
			if t.ID == id {
				drop = true
				break
			}
		}
		if !drop {
			result = append(result, t)
		}
	}
	return result
}

// CloneTiles 克隆牌组
func CloneTiles(tiles []Tile) []Tile {
	if tiles == nil {
		return nil
	}
	result := make([]Tile, len(tiles))
	copy(result, tiles)
	return result
}

// Counts 统计 34 种牌各自的数量
func Counts(tiles []Tile) [KindCount]uint8 {
	var counts [KindCount]uint8
	for _, t := range tiles {
		counts[t.Kind()]++
	}
	return counts
}

// UniqueKinds 每种牌只保留第一张，保持原顺序
func UniqueKinds(tiles []Tile) []Tile {
	var seen [KindCount]bool
	result := []Tile{}
	for _, t := range tiles {
		if !seen[t.Kind()] {
			seen[t.Kind()] = true
			result = append(result, t)
		}
	}
	return result
}

// IsSequence 检查是否为顺子 (3张同门数牌连续)
func IsSequence(tiles []Tile) bool {
	if len(tiles) != 3 {
		return false
	}
	if tiles[0].Suit != tiles[1].Suit || tiles[1].Suit != tiles[2].Suit {
		return false
	}
	if !tiles[0].Suit.IsNumeric() {
		return false
	}

	sorted := CloneTiles(tiles)
	SortTiles(sorted)
	return sorted[1].Value == sorted[0].Value+1 && sorted[2].Value == sorted[1].Value+1
}

// IsTriplet 检查是否为刻子 (3张相同的牌)
func IsTriplet(tiles []Tile) bool {
	if len(tiles) != 3 {
		return false
	}
	return tiles[0].SameKind(tiles[1]) && tiles[1].SameKind(tiles[2])
}

// IsQuad 检查是否为杠 (4张相同的牌)
func IsQuad(tiles []Tile) bool {
	if len(tiles) != 4 {
		return false
	}
	return tiles[0].SameKind(tiles[1]) && tiles[1].SameKind(tiles[2]) && tiles[2].SameKind(tiles[3])
}

// ValidMeld 检查副露是否合法
func ValidMeld(m Meld) bool {
	switch m.Kind {
	case MeldSequence:
		return IsSequence(m.Tiles)
	case MeldTriplet:
		return IsTriplet(m.Tiles)
	case MeldQuad:
		return IsQuad(m.Tiles)
	default:
		return false
	}
}
