package core

import (
	"fmt"
	"strings"
)

var suitLetters = [...]byte{'m', 's', 'p', 'z', 'z'}

// ParseTiles 解析简写牌串，例如 "123m456p789s1122z"
// m 万、s 条、p 筒、z 字牌 (1-4 东南西北, 5-7 中发白)。
// 返回的牌按出现顺序依次编号，编号与整副牌中的物理编号一致。
func ParseTiles(s string) ([]Tile, error) {
	var (
		tiles   []Tile
		pending []int8
		used    [KindCount]int
	)

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ':
			continue
		case c >= '0' && c <= '9':
			pending = append(pending, int8(c-'0'))
		case c == 'm' || c == 's' || c == 'p' || c == 'z':
			if len(pending) == 0 {
				return nil, fmt.Errorf("花色 %q 前缺少点数", c)
			}
			for _, v := range pending {
				t, err := tileFromNotation(c, v)
				if err != nil {
					return nil, err
				}
				k := t.Kind()
				if used[k] >= CopiesPerKind {
					return nil, fmt.Errorf("%s 超过 %d 张", t.Name(), CopiesPerKind)
				}
				t.ID = TileID(k*CopiesPerKind + used[k])
				used[k]++
				tiles = append(tiles, t)
			}
			pending = pending[:0]
		default:
			return nil, fmt.Errorf("无法识别的字符 %q", c)
		}
	}

	if len(pending) > 0 {
		return nil, fmt.Errorf("牌串缺少花色后缀: %q", s)
	}
	return tiles, nil
}

// MustParseTiles 解析失败时 panic，仅用于常量牌串
func MustParseTiles(s string) []Tile {
	tiles, err := ParseTiles(s)
	if err != nil {
		panic(err)
	}
	return tiles
}

func tileFromNotation(letter byte, v int8) (Tile, error) {
	switch letter {
	case 'm', 's', 'p':
		if v < 1 || v > 9 {
			return Tile{}, fmt.Errorf("数牌点数越界: %d%c", v, letter)
		}
		suit := map[byte]Suit{'m': SuitCharacter, 's': SuitBamboo, 'p': SuitDot}[letter]
		return Tile{Suit: suit, Value: v}, nil
	default:
		if v >= 1 && v <= 4 {
			return Tile{Suit: SuitWind, Value: v}, nil
		}
		if v >= 5 && v <= 7 {
			return Tile{Suit: SuitDragon, Value: v - 4}, nil
		}
		return Tile{}, fmt.Errorf("字牌点数越界: %dz", v)
	}
}

// FormatTiles 将牌组格式化为简写牌串
func FormatTiles(tiles []Tile) string {
	sorted := CloneTiles(tiles)
	SortTiles(sorted)

	var b strings.Builder
	var digits []byte
	var letter byte
	flush := func() {
		if len(digits) > 0 {
			b.Write(digits)
			b.WriteByte(letter)
			digits = digits[:0]
		}
	}

	for _, t := range sorted {
		l := suitLetters[t.Suit]
		v := t.Value
		if t.Suit == SuitDragon {
			v += 4
		}
		if l != letter {
			flush()
			letter = l
		}
		digits = append(digits, byte('0'+v))
	}
	flush()
	return b.String()
}
