package redis

import (
	"fmt"
	"time"
)

const (
	// SnapshotKeyPrefix 牌局快照 Key 前缀
	SnapshotKeyPrefix = "mahjong:game:snapshot:"

	// ActiveGamesKey 进行中的牌局集合
	ActiveGamesKey = "mahjong:game:active"

	// DefaultSnapshotTTL 快照 TTL
	DefaultSnapshotTTL = 2 * time.Hour
)

// BuildSnapshotKey 构建牌局快照 Key
// Key: mahjong:game:snapshot:{gameId}:{viewer}，viewer 为 -1 表示观战视角
func BuildSnapshotKey(gameID string, viewer int) string {
	return fmt.Sprintf("%s%s:%d", SnapshotKeyPrefix, gameID, viewer)
}
