package nats

import "strings"

// Subject 约定
// 事件: {prefix}.{gameId}.events
// 快照通知: {prefix}.{gameId}.snapshot
const (
	SubjectEventsSuffix   = ".events"
	SubjectSnapshotSuffix = ".snapshot"
)

// BuildEventsSubject 构建牌局事件 Subject
func BuildEventsSubject(prefix, gameID string) string {
	return strings.TrimSuffix(prefix, ".") + "." + gameID + SubjectEventsSuffix
}

// BuildSnapshotSubject 构建牌局快照 Subject
func BuildSnapshotSubject(prefix, gameID string) string {
	return strings.TrimSuffix(prefix, ".") + "." + gameID + SubjectSnapshotSuffix
}

// BuildAllEventsSubject 订阅所有牌局事件的通配 Subject
func BuildAllEventsSubject(prefix string) string {
	return strings.TrimSuffix(prefix, ".") + ".*" + SubjectEventsSuffix
}
