package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"sudooom.mahjong/internal/game/mahjong/table"
	mjRedis "sudooom.mahjong/internal/redis"
)

var gamesViewer int

var errRedisDisabled = errors.New("redis is disabled, set redis.enabled")

var gamesCmd = &cobra.Command{
	Use:   "games [show <id> | purge <id>]",
	Short: "查看 Redis 中保存的牌局快照",
	Long: `不带参数时列出进行中的牌局。
  show <id>   输出指定视角的快照（JSON）
  purge <id>  删除牌局的全部快照`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := connect(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer in.Close()

		if in.snapshots == nil {
			return errRedisDisabled
		}
		return runGames(cmd.Context(), os.Stdout, in.snapshots, args, gamesViewer)
	},
}

func init() {
	gamesCmd.Flags().IntVar(&gamesViewer, "viewer", table.Spectator, "viewer seat for show, -1 is spectator")
}

// snapshotReader 快照的查询与删除
type snapshotReader interface {
	ActiveGames(ctx context.Context) ([]string, error)
	Load(ctx context.Context, gameID string, viewer int) (*table.Snapshot, error)
	Delete(ctx context.Context, gameID string) error
}

func runGames(ctx context.Context, out io.Writer, store snapshotReader, args []string, viewer int) error {
	if len(args) == 0 {
		ids, err := store.ActiveGames(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "进行中的牌局: %d\n", len(ids))
		for _, id := range ids {
			fmt.Fprintln(out, id)
		}
		return nil
	}

	if len(args) != 2 {
		return fmt.Errorf("%w: games %s <id>", errBadCommand, args[0])
	}
	id := args[1]

	switch args[0] {
	case "show":
		snap, err := store.Load(ctx, id, viewer)
		if errors.Is(err, mjRedis.ErrSnapshotNotFound) {
			return fmt.Errorf("牌局 %s 视角 %d 没有快照", id, viewer)
		}
		if err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case "purge":
		if err := store.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(out, "已删除 %s 的快照\n", id)
		return nil
	default:
		return fmt.Errorf("%w: games %s", errBadCommand, args[0])
	}
}
