package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"

	"sudooom.mahjong/internal/model"
)

var (
	historyLimit  int
	historyGame   string
	historyDelete bool
)

var errDatabaseDisabled = errors.New("database is disabled, set database.enabled")

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "查询已结束牌局的记录（PostgreSQL）",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := connect(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer in.Close()

		if in.records == nil {
			return errDatabaseDisabled
		}
		return runHistory(cmd.Context(), os.Stdout, in.records, historyGame, historyDelete, historyLimit)
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "number of recent games")
	historyCmd.Flags().StringVar(&historyGame, "game", "", "show a single game by id")
	historyCmd.Flags().BoolVar(&historyDelete, "delete", false, "delete the game given by --game")
}

// recordReader 牌局记录的查询与删除
type recordReader interface {
	FindByGameID(ctx context.Context, gameID string) (*model.GameRecord, error)
	ListRecent(ctx context.Context, limit int) ([]model.GameRecord, error)
	DeleteByGameID(ctx context.Context, gameID string) error
}

func runHistory(ctx context.Context, out io.Writer, repo recordReader, gameID string, del bool, limit int) error {
	if del {
		if gameID == "" {
			return errors.New("--delete requires --game")
		}
		if err := repo.DeleteByGameID(ctx, gameID); err != nil {
			return fmt.Errorf("删除记录失败: %w", err)
		}
		fmt.Fprintf(out, "已删除 %s\n", gameID)
		return nil
	}

	var records []model.GameRecord
	if gameID != "" {
		rec, err := repo.FindByGameID(ctx, gameID)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("牌局 %s 没有记录", gameID)
		}
		if err != nil {
			return err
		}
		records = append(records, *rec)
	} else {
		var err error
		if records, err = repo.ListRecent(ctx, limit); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "GAME\tSEED\tWINNER\tTYPE\tTURNS\tHAND\tPROFILES\tFINISHED")
	for _, rec := range records {
		winner := "-"
		if rec.Winner >= 0 {
			winner = fmt.Sprint(rec.Winner)
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%d\t%s\t%s\t%s\n",
			rec.GameId, rec.Seed, winner, rec.WinType, rec.Turns, rec.WinningHand,
			strings.Join(rec.Profiles, ","), rec.FinishedAt.Format(time.DateTime))
	}
	return w.Flush()
}
