package bot

import (
	"sudooom.mahjong/internal/game/mahjong/core"
)

// HeuristicDiscard 不做推演时的出牌选择：
// 孤立的字牌，其次是两格内没有同门相邻牌的数牌，否则出第一张
func HeuristicDiscard(hand []core.Tile) (core.Tile, bool) {
	if len(hand) == 0 {
		return core.Tile{}, false
	}
	counts := core.Counts(hand)

	for _, t := range hand {
		if t.IsHonor() && counts[t.Kind()] == 1 {
			return t, true
		}
	}

	for _, t := range hand {
		if t.IsHonor() || counts[t.Kind()] > 1 {
			continue
		}
		if !hasNeighbour(hand, t) {
			return t, true
		}
	}

	return hand[0], true
}

func hasNeighbour(hand []core.Tile, t core.Tile) bool {
	for _, n := range hand {
		if n.Suit != t.Suit || n.Value == t.Value {
			continue
		}
		if d := n.Value - t.Value; d >= -2 && d <= 2 {
			return true
		}
	}
	return false
}

// danger 出牌的放铳风险，只按点数估计，不看他家弃牌
func danger(t core.Tile) float64 {
	switch {
	case t.IsHonor():
		return 1
	case t.IsTerminal():
		return 2
	case t.Value == 2 || t.Value == 8:
		return 3
	default:
		return 5
	}
}
