package nats

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"sudooom.mahjong/internal/game/mahjong/table"
)

// EventMessage 发布到 NATS 的事件消息
type EventMessage struct {
	GameID    string         `json:"gameId"`
	Seq       int64          `json:"seq"`
	Kind      string         `json:"kind"`
	Params    map[string]any `json:"params"`
	Timestamp int64          `json:"timestamp"`
}

// EventPublisher 牌局事件发布器
type EventPublisher struct {
	nc     *nats.Conn
	prefix string
	logger *slog.Logger
}

// NewEventPublisher 创建事件发布器
func NewEventPublisher(nc *nats.Conn, prefix string) *EventPublisher {
	return &EventPublisher{
		nc:     nc,
		prefix: prefix,
		logger: slog.Default().With("component", "EventPublisher"),
	}
}

// Publish 发布一条牌局事件
func (p *EventPublisher) Publish(gameID string, seq int64, event table.Event) error {
	subject := BuildEventsSubject(p.prefix, gameID)
	data, err := json.Marshal(EventMessage{
		GameID:    gameID,
		Seq:       seq,
		Kind:      event.Kind,
		Params:    event.Params,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		p.logger.Error("Failed to marshal event", "error", err, "kind", event.Kind)
		return err
	}

	if err := p.nc.Publish(subject, data); err != nil {
		p.logger.Error("Failed to publish event", "gameId", gameID, "kind", event.Kind, "error", err)
		return err
	}

	p.logger.Debug("Published game event", "subject", subject, "kind", event.Kind, "seq", seq)
	return nil
}

// PublishSnapshot 发布观战视角快照
func (p *EventPublisher) PublishSnapshot(gameID string, snap table.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		p.logger.Error("Failed to marshal snapshot", "error", err)
		return err
	}
	return p.nc.Publish(BuildSnapshotSubject(p.prefix, gameID), data)
}

// Sink 返回绑定到某个牌局的 table.EventSink
// 发布失败只记录日志，不影响牌局状态
func (p *EventPublisher) Sink(gameID string) table.EventSink {
	var seq int64
	return table.SinkFunc(func(event table.Event) {
		seq++
		_ = p.Publish(gameID, seq, event)
	})
}
