package core

import "fmt"

// 牌型常量
const (
	// KindCount 不同牌种数量（3 门数牌 + 4 风 + 3 箭）
	KindCount = 34
	// CopiesPerKind 每种牌的张数
	CopiesPerKind = 4
	// DeckSize 整副牌张数
	DeckSize = KindCount * CopiesPerKind
	// SeatCount 座位数
	SeatCount = 4
	// DealSize 起手牌张数
	DealSize = 13
	// StartingScore 初始分数（仅展示，不参与结算）
	StartingScore = 1000
)

// Suit 牌的花色
type Suit int8

const (
	SuitCharacter Suit = iota // 万
	SuitBamboo                // 条
	SuitDot                   // 筒
	SuitWind                  // 风 (东南西北)
	SuitDragon                // 箭牌 (中发白)
)

// String 返回花色的字符串表示
func (s Suit) String() string {
	switch s {
	case SuitCharacter:
		return "character"
	case SuitBamboo:
		return "bamboo"
	case SuitDot:
		return "dot"
	case SuitWind:
		return "wind"
	case SuitDragon:
		return "dragon"
	default:
		return "unknown"
	}
}

// IsNumeric 是否数牌
func (s Suit) IsNumeric() bool {
	return s == SuitCharacter || s == SuitBamboo || s == SuitDot
}

// MaxValue 花色最大点数
func (s Suit) MaxValue() int8 {
	switch s {
	case SuitWind:
		return 4
	case SuitDragon:
		return 3
	default:
		return 9
	}
}

// kindOffset 每门花色在 34 种牌中的起始下标
var kindOffset = [...]int{0, 9, 18, 27, 31}

var (
	windNames   = [...]string{"East", "South", "West", "North"}
	dragonNames = [...]string{"Red", "Green", "White"}
)

// TileID 物理牌编号 (0..135)
type TileID int

// Tile 麻将牌，创建后不可变
type Tile struct {
	ID    TileID `json:"id"`    // 物理编号
	Suit  Suit   `json:"suit"`  // 花色
	Value int8   `json:"value"` // 值 (1-9, 风牌:1东2南3西4北, 箭牌:1中2发3白)
}

// Kind 返回牌种下标 (0..33)，同花色同点数的牌下标相同
func (t Tile) Kind() int {
	return kindOffset[t.Suit] + int(t.Value) - 1
}

// SameKind 判断两张牌花色点数是否相同
func (t Tile) SameKind(other Tile) bool {
	return t.Suit == other.Suit && t.Value == other.Value
}

// IsHonor 是否字牌
func (t Tile) IsHonor() bool {
	return !t.Suit.IsNumeric()
}

// IsTerminal 是否幺九
func (t Tile) IsTerminal() bool {
	return t.Suit.IsNumeric() && (t.Value == 1 || t.Value == 9)
}

// Name 返回牌的展示键，例如 5m、East、Red
func (t Tile) Name() string {
	switch t.Suit {
	case SuitWind:
		return windNames[t.Value-1]
	case SuitDragon:
		return dragonNames[t.Value-1]
	default:
		return fmt.Sprintf("%d%c", t.Value, suitLetters[t.Suit])
	}
}

// String 返回牌的字符串表示
func (t Tile) String() string {
	return fmt.Sprintf("%s#%d", t.Name(), t.ID)
}

// TileFromKind 根据牌种下标构造一张牌（ID 为 -1，用于推演）
func TileFromKind(kind int) Tile {
	for s := len(kindOffset) - 1; s >= 0; s-- {
		if kind >= kindOffset[s] {
			return Tile{ID: -1, Suit: Suit(s), Value: int8(kind-kindOffset[s]) + 1}
		}
	}
	return Tile{ID: -1}
}

// MeldKind 副露类型
type MeldKind int8

const (
	MeldSequence MeldKind = iota // 吃 (3张顺子)
	MeldTriplet                  // 碰 (3张相同)
	MeldQuad                     // 杠 (4张相同)
)

// String 返回副露类型的字符串表示
func (k MeldKind) String() string {
	switch k {
	case MeldSequence:
		return "sequence"
	case MeldTriplet:
		return "triplet"
	case MeldQuad:
		return "quad"
	default:
		return "unknown"
	}
}

// QuadKind 杠的来源
type QuadKind int8

const (
	QuadNone      QuadKind = iota
	QuadConcealed          // 暗杠
	QuadClaimed            // 明杠
	QuadExtended           // 补杠
)

// String 返回杠类型的字符串表示
func (k QuadKind) String() string {
	switch k {
	case QuadConcealed:
		return "concealed"
	case QuadClaimed:
		return "claimed"
	case QuadExtended:
		return "extended"
	default:
		return "none"
	}
}

// Meld 副露
type Meld struct {
	Kind  MeldKind `json:"kind"`           // 组合类型
	Quad  QuadKind `json:"quad,omitempty"` // 杠类型
	Tiles []Tile   `json:"tiles"`          // 牌，顺子升序
	From  int      `json:"from"`           // 被吃碰杠的座位，暗杠为 -1
}

// Clone 深拷贝副露
func (m Meld) Clone() Meld {
	m.Tiles = append([]Tile(nil), m.Tiles...)
	return m
}

// CloneMelds 深拷贝副露列表
func CloneMelds(melds []Meld) []Meld {
	if melds == nil {
		return nil
	}
	out := make([]Meld, len(melds))
	for i, m := range melds {
		out[i] = m.Clone()
	}
	return out
}

// SeatWind 座位风，庄家为东
func SeatWind(seat int) int8 {
	return int8(seat%SeatCount) + 1
}

// NextSeat 下家
func NextSeat(seat int) int {
	return (seat + 1) % SeatCount
}

// Distance 从 from 按行牌顺序到 to 的距离 (1..3)
func Distance(from, to int) int {
	return (to - from + SeatCount) % SeatCount
}
