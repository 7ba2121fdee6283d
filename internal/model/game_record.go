package model

import "time"

// GameRecord 已结束牌局的记录
type GameRecord struct {
	Id          int64     `json:"id"`
	GameId      string    `json:"gameId"`
	Seed        int64     `json:"seed"`
	Winner      int       `json:"winner"`  // -1 表示流局
	WinType     string    `json:"winType"` // none, self_draw, discard
	Turns       int       `json:"turns"`
	WinningHand string    `json:"winningHand"` // 简写牌串，例如 123m456p789s11z
	Profiles    []string  `json:"profiles"`    // 各座位的 AI 风格，玩家座位为空串
	StartedAt   time.Time `json:"startedAt"`
	FinishedAt  time.Time `json:"finishedAt"`
}

// WinStats 胜负统计
type WinStats struct {
	Games     int64    `json:"games"`
	Draws     int64    `json:"draws"`
	SeatWins  [4]int64 `json:"seatWins"`
	SelfDraws int64    `json:"selfDraws"`
	AvgTurns  float64  `json:"avgTurns"`
}
