package table

import "sync"

// 事件类型
const (
	EventGameStarted       = "game_started"
	EventTileDrawn         = "tile_drawn"
	EventReplacementDrawn  = "replacement_drawn"
	EventTileDiscarded     = "tile_discarded"
	EventClaimWindowOpened = "claim_window_opened"
	EventClaimPassed       = "claim_passed"
	EventMeldClaimed       = "meld_claimed"
	EventQuadDeclared      = "quad_declared"
	EventHandSorted        = "hand_sorted"
	EventGameWon           = "game_won"
	EventExhaustiveDraw    = "exhaustive_draw"
)

// Event 牌局事件，文案与本地化由展示层负责
type Event struct {
	Kind   string         `json:"kind"`
	Params map[string]any `json:"params"`
}

// EventSink 事件接收方
type EventSink interface {
	Publish(event Event)
}

// SinkFunc 函数适配为 EventSink
type SinkFunc func(event Event)

// Publish 实现 EventSink
func (f SinkFunc) Publish(event Event) {
	f(event)
}

// MultiSink 依次转发给多个接收方
type MultiSink []EventSink

// Publish 实现 EventSink
func (m MultiSink) Publish(event Event) {
	for _, s := range m {
		if s != nil {
			s.Publish(event)
		}
	}
}

// Recorder 在内存中记录事件
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Publish 实现 EventSink
func (r *Recorder) Publish(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events 返回已记录事件的副本
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Kinds 返回已记录事件的类型序列
func (r *Recorder) Kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]string, len(r.events))
	for i, e := range r.events {
		kinds[i] = e.Kind
	}
	return kinds
}
