package core

import (
	"errors"
	"fmt"
)

// GameError 游戏错误类型
type GameError struct {
	Code    string                 // 错误代码
	Message string                 // 错误消息
	Cause   error                  // 原因错误
	Context map[string]interface{} // 错误上下文
}

func (e *GameError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *GameError) Unwrap() error {
	return e.Cause
}

// Is 按错误代码比较，便于 errors.Is 匹配哨兵错误
func (e *GameError) Is(target error) bool {
	t, ok := target.(*GameError)
	return ok && t.Code == e.Code
}

// NewGameError 创建游戏错误
func NewGameError(code, message string) *GameError {
	return &GameError{
		Code:    code,
		Message: message,
		Context: make(map[string]interface{}),
	}
}

// WithCause 返回附带原因错误的副本，哨兵错误本身不被修改
func (e *GameError) WithCause(cause error) *GameError {
	c := e.clone()
	c.Cause = cause
	return c
}

// WithContext 返回附带上下文信息的副本
func (e *GameError) WithContext(key string, value interface{}) *GameError {
	c := e.clone()
	c.Context[key] = value
	return c
}

func (e *GameError) clone() *GameError {
	c := &GameError{
		Code:    e.Code,
		Message: e.Message,
		Cause:   e.Cause,
		Context: make(map[string]interface{}, len(e.Context)+1),
	}
	for k, v := range e.Context {
		c.Context[k] = v
	}
	return c
}

// 非法操作，状态不变，调用方重新查询可用操作即可
var (
	ErrIllegalAction = NewGameError("ILLEGAL_ACTION", "当前不允许该操作")
	ErrNotYourTurn   = NewGameError("NOT_YOUR_TURN", "未轮到该座位操作")
	ErrWrongPhase    = NewGameError("WRONG_PHASE", "当前阶段不允许该操作")
	ErrTileNotInHand = NewGameError("TILE_NOT_IN_HAND", "手牌中没有指定的牌")
	ErrNoSuchOption  = NewGameError("NO_SUCH_OPTION", "没有对应的可选项")
	ErrInvalidSeat   = NewGameError("INVALID_SEAT", "座位号无效")
	ErrAlreadyAnswer = NewGameError("ALREADY_ANSWERED", "本轮已经响应过")
)

// 内部一致性错误，出现即说明状态机存在缺陷
var (
	ErrMalformedHand = NewGameError("MALFORMED_HAND", "手牌数量不满足不变式")
)

// IsIllegalAction 判断是否为可恢复的非法操作错误
func IsIllegalAction(err error) bool {
	var ge *GameError
	if !errors.As(err, &ge) {
		return false
	}
	switch ge.Code {
	case ErrIllegalAction.Code, ErrNotYourTurn.Code, ErrWrongPhase.Code,
		ErrTileNotInHand.Code, ErrNoSuchOption.Code, ErrInvalidSeat.Code, ErrAlreadyAnswer.Code:
		return true
	}
	return false
}
