package table

import (
	"fmt"
	"strings"

	"sudooom.mahjong/internal/game/mahjong/claim"
	"sudooom.mahjong/internal/game/mahjong/core"
)

// ActionKind 动作类型
type ActionKind int8

const (
	ActDiscard       ActionKind = iota // 出牌
	ActDeclareWin                      // 自摸
	ActDeclareQuad                     // 暗杠/补杠
	ActClaimWin                        // 点炮胡
	ActClaimQuad                       // 明杠
	ActClaimTriplet                    // 碰
	ActClaimSequence                   // 吃
	ActPass                            // 过
)

// String 返回动作类型的字符串表示
func (k ActionKind) String() string {
	switch k {
	case ActDiscard:
		return "discard"
	case ActDeclareWin:
		return "declare_win"
	case ActDeclareQuad:
		return "declare_quad"
	case ActClaimWin:
		return "claim_win"
	case ActClaimQuad:
		return "claim_quad"
	case ActClaimTriplet:
		return "claim_triplet"
	case ActClaimSequence:
		return "claim_sequence"
	case ActPass:
		return "pass"
	default:
		return "unknown"
	}
}

// Action 玩家动作，每种动作只携带其状态转换需要的数据
type Action interface {
	Kind() ActionKind
	key() string
}

// Discard 出牌
type Discard struct {
	Tile core.Tile
}

// DeclareWin 自摸和牌
type DeclareWin struct{}

// DeclareQuad 暗杠或补杠，之后补摸一张
type DeclareQuad struct {
	Option claim.QuadOption
}

// ClaimWinAction 点炮胡
type ClaimWinAction struct {
	Tile core.Tile
}

// ClaimTripletAction 碰
type ClaimTripletAction struct {
	Tile   core.Tile
	Option claim.TripletOption
}

// ClaimQuadAction 明杠，之后补摸一张
type ClaimQuadAction struct {
	Tile   core.Tile
	Option claim.QuadOption
}

// ClaimSequenceAction 吃
type ClaimSequenceAction struct {
	Tile   core.Tile
	Option claim.SequenceOption
}

// Pass 过
type Pass struct{}

func (Discard) Kind() ActionKind             { return ActDiscard }
func (DeclareWin) Kind() ActionKind          { return ActDeclareWin }
func (DeclareQuad) Kind() ActionKind         { return ActDeclareQuad }
func (ClaimWinAction) Kind() ActionKind      { return ActClaimWin }
func (ClaimQuadAction) Kind() ActionKind     { return ActClaimQuad }
func (ClaimTripletAction) Kind() ActionKind  { return ActClaimTriplet }
func (ClaimSequenceAction) Kind() ActionKind { return ActClaimSequence }
func (Pass) Kind() ActionKind                { return ActPass }

func (a Discard) key() string     { return fmt.Sprintf("discard:%d", a.Tile.ID) }
func (DeclareWin) key() string    { return "declare_win" }
func (a DeclareQuad) key() string { return "declare_quad:" + tileIDs(a.Option.Tiles) }
func (a ClaimWinAction) key() string {
	return fmt.Sprintf("claim_win:%d", a.Tile.ID)
}
func (a ClaimQuadAction) key() string {
	return "claim_quad:" + tileIDs(a.Option.Tiles)
}
func (a ClaimTripletAction) key() string {
	return fmt.Sprintf("claim_triplet:%d:", a.Tile.ID) + tileIDs(a.Option.Tiles)
}
func (a ClaimSequenceAction) key() string {
	return "claim_sequence:" + tileIDs(a.Option.Tiles)
}
func (Pass) key() string { return "pass" }

func tileIDs(tiles []core.Tile) string {
	parts := make([]string, len(tiles))
	for i, t := range tiles {
		parts[i] = fmt.Sprint(int(t.ID))
	}
	return strings.Join(parts, ",")
}

// SameAction 判断两个动作是否指向同一个选项
func SameAction(a, b Action) bool {
	if a == nil || b == nil {
		return false
	}
	return a.key() == b.key()
}

// ClaimTypeOf 动作对应的响应类型，出牌与过返回 false
func ClaimTypeOf(a Action) (ClaimType, bool) {
	switch a.Kind() {
	case ActDeclareWin, ActClaimWin:
		return ClaimWin, true
	case ActDeclareQuad, ActClaimQuad:
		return ClaimQuad, true
	case ActClaimTriplet:
		return ClaimTriplet, true
	case ActClaimSequence:
		return ClaimSequence, true
	default:
		return 0, false
	}
}

// priority 响应优先级：胡 > 杠/碰 > 吃
func priority(a Action) int {
	switch a.Kind() {
	case ActClaimWin:
		return 3
	case ActClaimQuad, ActClaimTriplet:
		return 2
	case ActClaimSequence:
		return 1
	default:
		return 0
	}
}

// ActionView 动作的展示形式
type ActionView struct {
	Kind   string      `json:"kind"`
	Option int         `json:"option"`          // 同类选项中的下标
	Tile   *core.Tile  `json:"tile,omitempty"`  // 出的牌或被响应的牌
	Tiles  []core.Tile `json:"tiles,omitempty"` // 组成副露的牌
}

// Describe 生成动作列表的展示形式
func Describe(actions []Action) []ActionView {
	views := make([]ActionView, 0, len(actions))
	index := make(map[ActionKind]int)

	for _, a := range actions {
		v := ActionView{Kind: a.Kind().String(), Option: index[a.Kind()]}
		index[a.Kind()]++

		switch act := a.(type) {
		case Discard:
			tile := act.Tile
			v.Tile = &tile
		case DeclareQuad:
			v.Tiles = act.Option.Tiles
		case ClaimWinAction:
			tile := act.Tile
			v.Tile = &tile
		case ClaimQuadAction:
			tile := act.Tile
			v.Tile = &tile
			v.Tiles = act.Option.Tiles
		case ClaimTripletAction:
			tile := act.Tile
			v.Tile = &tile
			v.Tiles = act.Option.Tiles
		case ClaimSequenceAction:
			tile := act.Tile
			v.Tile = &tile
			v.Tiles = act.Option.Tiles
		}
		views = append(views, v)
	}
	return views
}
