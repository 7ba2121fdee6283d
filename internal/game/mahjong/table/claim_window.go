package table

import (
	"sudooom.mahjong/internal/game/mahjong/analysis"
	"sudooom.mahjong/internal/game/mahjong/claim"
	"sudooom.mahjong/internal/game/mahjong/core"
)

// claimWindow 一次出牌后的响应窗口
// 打开时一次性计算三家的全部可选响应，所有有资格的座位都回复后才裁决
type claimWindow struct {
	discarder int
	tile      core.Tile
	offers    [core.SeatCount][]Action
	responses [core.SeatCount]Action
}

// openClaimWindow 计算其他三家对弃牌的可选响应
func openClaimWindow(st *GameState, rules Rules, discarder int, tile core.Tile) *claimWindow {
	w := &claimWindow{discarder: discarder, tile: tile}

	for dist := 1; dist < core.SeatCount; dist++ {
		seat := (discarder + dist) % core.SeatCount
		p := st.Players[seat]

		var actions []Action

		counts := core.Counts(p.Hand)
		counts[tile.Kind()]++
		if analysis.CanWin(counts, len(p.Melds), rules.SevenPairs) {
			actions = append(actions, ClaimWinAction{Tile: tile})
		}

		// 无牌不让杠
		if len(st.Wall) > 0 {
			for _, opt := range claim.CanClaimQuad(p.Hand, &tile, claim.OriginDiscard) {
				actions = append(actions, ClaimQuadAction{Tile: tile, Option: opt})
			}
		}

		if opt, ok := claim.Triplet(p.Hand, tile); ok {
			actions = append(actions, ClaimTripletAction{Tile: tile, Option: opt})
		}

		// 只有下家可以吃
		if dist == 1 {
			for _, opt := range claim.CanClaimSequence(p.Hand, tile) {
				actions = append(actions, ClaimSequenceAction{Tile: tile, Option: opt})
			}
		}

		if len(actions) > 0 {
			w.offers[seat] = append(actions, Pass{})
		}
	}

	return w
}

// empty 没有任何座位可以响应
func (w *claimWindow) empty() bool {
	for _, offers := range w.offers {
		if len(offers) > 0 {
			return false
		}
	}
	return true
}

// eligible 该座位是否有响应资格
func (w *claimWindow) eligible(seat int) bool {
	return len(w.offers[seat]) > 0
}

// awaiting 尚未回复的座位，按距出牌者远近排序
func (w *claimWindow) awaiting() []int {
	var seats []int
	for dist := 1; dist < core.SeatCount; dist++ {
		seat := (w.discarder + dist) % core.SeatCount
		if w.eligible(seat) && w.responses[seat] == nil {
			seats = append(seats, seat)
		}
	}
	return seats
}

// complete 所有有资格的座位均已回复
func (w *claimWindow) complete() bool {
	return len(w.awaiting()) == 0
}

// resolve 裁决：胡 > 杠/碰 > 吃，同级取距出牌者最近的座位
// 全部为过时返回 false
func (w *claimWindow) resolve() (int, Action, bool) {
	bestSeat, bestPriority := -1, 0
	var best Action

	for dist := 1; dist < core.SeatCount; dist++ {
		seat := (w.discarder + dist) % core.SeatCount
		r := w.responses[seat]
		if r == nil {
			continue
		}
		if p := priority(r); p > bestPriority {
			bestSeat, bestPriority, best = seat, p, r
		}
	}

	return bestSeat, best, best != nil
}
