package table

import (
	"sudooom.mahjong/internal/game/mahjong/core"
)

// Spectator 观战视角，所有手牌均不可见
const Spectator = -1

// PlayerView 玩家的可见信息
type PlayerView struct {
	Seat      int         `json:"seat"`
	Wind      int8        `json:"wind"`
	AI        bool        `json:"ai"`
	Score     int         `json:"score"`
	HandCount int         `json:"handCount"`
	Hand      []core.Tile `json:"hand,omitempty"` // 非本人时为空
	Melds     []core.Meld `json:"melds"`
	Discards  []core.Tile `json:"discards"`
}

// Snapshot 某个座位视角下的牌局快照（只读副本）
type Snapshot struct {
	Viewer      int             `json:"viewer"`
	Phase       Phase           `json:"phase"`
	Active      int             `json:"active"`
	WallCount   int             `json:"wallCount"`
	Turn        int             `json:"turn"`
	Players     []PlayerView    `json:"players"`
	Pending     *PendingDiscard `json:"pending,omitempty"`
	LastDrawn   *core.Tile      `json:"lastDrawn,omitempty"` // 仅本人可见
	Winner      int             `json:"winner"`
	WinType     WinType         `json:"winType"`
	WinningHand []core.Tile     `json:"winningHand,omitempty"`
	Legal       []ActionView    `json:"legal"`    // 本座位可执行的操作
	Awaiting    []int           `json:"awaiting"` // 需要行动的座位
}

// Snapshot 生成指定视角的快照，其他座位的手牌只给出张数
func (e *Engine) Snapshot(viewer int) Snapshot {
	st := e.state
	if st == nil {
		return Snapshot{Viewer: viewer, Phase: PhaseDealing, Winner: -1}
	}

	snap := Snapshot{
		Viewer:      viewer,
		Phase:       st.Phase,
		Active:      st.Active,
		WallCount:   len(st.Wall),
		Turn:        st.Turn,
		Winner:      st.Winner,
		WinType:     st.WinType,
		WinningHand: core.CloneTiles(st.WinningHand),
		Legal:       []ActionView{},
		Awaiting:    e.Prompt().Awaiting(),
	}
	if st.Pending != nil {
		pending := *st.Pending
		snap.Pending = &pending
	}

	for _, p := range st.Players {
		v := PlayerView{
			Seat:      p.Seat,
			Wind:      p.Wind,
			AI:        p.AI,
			Score:     p.Score,
			HandCount: len(p.Hand),
			Melds:     core.CloneMelds(p.Melds),
			Discards:  core.CloneTiles(p.Discards),
		}
		if p.Seat == viewer {
			v.Hand = core.CloneTiles(p.Hand)
		}
		snap.Players = append(snap.Players, v)
	}

	if viewer >= 0 && viewer < core.SeatCount {
		snap.Legal = Describe(st.Offers[viewer])
		if viewer == st.Active && st.LastDrawn != nil {
			drawn := *st.LastDrawn
			snap.LastDrawn = &drawn
		}
	}
	return snap
}

// SeatView AI 决策使用的只读视图
type SeatView struct {
	Seat       int
	Phase      Phase
	Hand       []core.Tile
	Melds      []core.Meld
	WallCount  int
	Pending    *PendingDiscard
	Discards   [core.SeatCount][]core.Tile
	SevenPairs bool
	Actions    []Action
}

// View 生成指定座位的决策视图，数据均为副本
func (e *Engine) View(seat int) SeatView {
	st := e.state
	if st == nil || seat < 0 || seat >= core.SeatCount {
		return SeatView{Seat: seat}
	}

	p := st.Players[seat]
	v := SeatView{
		Seat:       seat,
		Phase:      st.Phase,
		Hand:       core.CloneTiles(p.Hand),
		Melds:      core.CloneMelds(p.Melds),
		WallCount:  len(st.Wall),
		SevenPairs: e.rules.SevenPairs,
		Actions:    e.LegalActions(seat),
	}
	if st.Pending != nil {
		pending := *st.Pending
		v.Pending = &pending
	}
	for i, other := range st.Players {
		v.Discards[i] = core.CloneTiles(other.Discards)
	}
	return v
}
