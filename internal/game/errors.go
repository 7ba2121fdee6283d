package game

import "errors"

// 牌局会话相关错误定义

var (
	// ErrGameNotFound 牌局不存在
	ErrGameNotFound = errors.New("game not found")

	// ErrTooManyGames 牌局数量达到上限
	ErrTooManyGames = errors.New("too many games")

	// ErrSeatControlledByAI 该座位由 AI 控制，不接受玩家指令
	ErrSeatControlledByAI = errors.New("seat is controlled by ai")

	// ErrManagerClosed 管理器已关闭
	ErrManagerClosed = errors.New("game manager closed")
)
