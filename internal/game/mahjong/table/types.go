// Package table 牌桌状态机：发牌、摸牌、出牌、吃碰杠胡的响应与裁决
package table

import (
	"fmt"

	"sudooom.mahjong/internal/game/mahjong/core"
)

// Phase 牌局阶段
type Phase int8

const (
	PhaseDealing     Phase = iota // 发牌
	PhaseDrawing                  // 摸牌
	PhaseDiscarding               // 出牌
	PhaseClaimWindow              // 等待其他玩家响应
	PhaseFinished                 // 结束
)

// String 返回阶段的字符串表示
func (p Phase) String() string {
	switch p {
	case PhaseDealing:
		return "dealing"
	case PhaseDrawing:
		return "drawing"
	case PhaseDiscarding:
		return "discarding"
	case PhaseClaimWindow:
		return "claim_window"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// MarshalText JSON 中以字符串输出
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText 从字符串解析阶段
func (p *Phase) UnmarshalText(text []byte) error {
	for ph := PhaseDealing; ph <= PhaseFinished; ph++ {
		if ph.String() == string(text) {
			*p = ph
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// ClaimType 响应类型
type ClaimType int8

const (
	ClaimWin      ClaimType = iota // 胡
	ClaimQuad                      // 杠
	ClaimTriplet                   // 碰
	ClaimSequence                  // 吃
)

// String 返回响应类型的字符串表示
func (c ClaimType) String() string {
	switch c {
	case ClaimWin:
		return "win"
	case ClaimQuad:
		return "quad"
	case ClaimTriplet:
		return "triplet"
	case ClaimSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// ParseClaimType 解析响应类型
func ParseClaimType(s string) (ClaimType, error) {
	for c := ClaimWin; c <= ClaimSequence; c++ {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown claim type %q", s)
}

// WinType 胡牌类型
type WinType int8

const (
	WinNone     WinType = iota // 流局
	WinSelfDraw                // 自摸
	WinDiscard                 // 点炮
)

// String 返回胡牌类型的字符串表示
func (w WinType) String() string {
	switch w {
	case WinSelfDraw:
		return "self_draw"
	case WinDiscard:
		return "discard"
	default:
		return "none"
	}
}

// MarshalText JSON 中以字符串输出
func (w WinType) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// UnmarshalText 从字符串解析胡牌类型
func (w *WinType) UnmarshalText(text []byte) error {
	for wt := WinNone; wt <= WinDiscard; wt++ {
		if wt.String() == string(text) {
			*w = wt
			return nil
		}
	}
	return fmt.Errorf("unknown win type %q", text)
}

// Rules 规则开关
type Rules struct {
	SevenPairs bool // 七对子可以胡牌
}

// Player 座位上的玩家
type Player struct {
	Seat     int         `json:"seat"`     // 座位 0..3
	Wind     int8        `json:"wind"`     // 门风 1东2南3西4北
	AI       bool        `json:"ai"`       // 是否由 AI 控制
	Score    int         `json:"score"`    // 分数（仅展示）
	Hand     []core.Tile `json:"hand"`     // 手牌
	Melds    []core.Meld `json:"melds"`    // 副露
	Discards []core.Tile `json:"discards"` // 弃牌，按打出顺序
}

// effectiveSize 手牌加副露的有效张数，杠按 3 张计
func (p *Player) effectiveSize() int {
	return len(p.Hand) + 3*len(p.Melds)
}

// PendingDiscard 等待响应的弃牌
type PendingDiscard struct {
	Tile core.Tile `json:"tile"`
	Seat int       `json:"seat"`
}

// GameState 牌局状态，只由 Engine 修改
type GameState struct {
	Wall        []core.Tile              // 牌墙，从尾部摸牌
	Players     [core.SeatCount]*Player  // 玩家
	Active      int                      // 当前行动座位
	Phase       Phase                    // 阶段
	Pending     *PendingDiscard          // 等待响应的弃牌
	Winner      int                      // 赢家座位，-1 表示无
	WinType     WinType                  // 胡牌类型
	WinningHand []core.Tile              // 胡牌时的手牌快照
	Turn        int                      // 已出牌次数
	LastDrawn   *core.Tile               // 当前行动座位刚摸到的牌
	Offers      [core.SeatCount][]Action // 各座位当前可执行的操作

	mustDiscard bool         // 吃碰后只能出牌
	window      *claimWindow // 当前响应窗口
}

// Player 根据座位获取玩家
func (s *GameState) Player(seat int) *Player {
	if seat < 0 || seat >= core.SeatCount {
		return nil
	}
	return s.Players[seat]
}

// WallCount 剩余牌墙张数
func (s *GameState) WallCount() int {
	return len(s.Wall)
}

// IsFinished 牌局是否结束
func (s *GameState) IsFinished() bool {
	return s.Phase == PhaseFinished
}
