package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"sudooom.mahjong/internal/game"
	"sudooom.mahjong/internal/game/mahjong/core"
	"sudooom.mahjong/internal/game/mahjong/table"
)

var playSeed int64

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "在终端与三个 AI 对局",
	Long: `在终端与三个 AI 对局，玩家座位取配置 game.human_seats 的第一个。

指令:
  d <牌|序号>      出牌，例如 d 5p 或 d 3
  w | win               胡（自摸或点炮）
  k | quad [选项]       杠
  t | triplet           碰
  c | sequence [选项]   吃
  p               过
  s               整理手牌
  n               重新开局
  q               退出`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runPlay(ctx, os.Stdin, os.Stdout)
	},
}

func init() {
	playCmd.Flags().Int64Var(&playSeed, "seed", 0, "game seed (default from config, 0 means random)")
}

func runPlay(ctx context.Context, in io.Reader, out io.Writer) error {
	humans := cfg.Game.HumanSeats
	if len(humans) == 0 {
		humans = []int{0}
	}
	seat := humans[0]

	conns, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer conns.Close()

	deps := conns.deps
	deps.Sink = table.SinkFunc(func(e table.Event) {
		printEvent(out, seat, e)
	})

	opts, err := serviceOptions(cfg, conns.searcher)
	if err != nil {
		return err
	}
	svc, err := game.NewGameService(opts, deps)
	if err != nil {
		return err
	}
	defer svc.Shutdown(context.Background())

	seed := cfg.Game.Seed
	if playSeed != 0 {
		seed = playSeed
	}
	id, snap, err := svc.NewGame(ctx, game.NewGameRequest{Seed: seed, HumanSeats: []int{seat}})
	if err != nil {
		return err
	}
	printSnapshot(out, snap)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "q" {
			return svc.Close(ctx, id)
		}

		next, err := execute(ctx, svc, id, seat, snap, fields)
		if err != nil {
			if core.IsIllegalAction(err) || errors.Is(err, errBadCommand) {
				fmt.Fprintf(out, "无效操作: %v\n", err)
				continue
			}
			return err
		}
		snap = next
		printSnapshot(out, snap)
	}
}

var errBadCommand = errors.New("无法识别的指令")

// execute 把一行输入转为牌局指令
func execute(ctx context.Context, svc *game.GameService, id string, seat int, snap table.Snapshot, fields []string) (table.Snapshot, error) {
	option := 0
	if len(fields) > 1 && fields[0] != "d" {
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return table.Snapshot{}, fmt.Errorf("%w: 选项必须是数字", errBadCommand)
		}
		option = n
	}

	switch fields[0] {
	case "d":
		if len(fields) < 2 {
			return table.Snapshot{}, fmt.Errorf("%w: 缺少要出的牌", errBadCommand)
		}
		tile, err := pickTile(snap.Players[seat].Hand, fields[1])
		if err != nil {
			return table.Snapshot{}, err
		}
		return svc.Discard(ctx, id, seat, tile.ID)
	case "p":
		return svc.Pass(ctx, id, seat)
	case "s":
		return svc.Sort(ctx, id, seat)
	case "n":
		return svc.Restart(ctx, id, seat)
	default:
		ct, err := parseClaim(fields[0])
		if err != nil {
			return table.Snapshot{}, err
		}
		return svc.Claim(ctx, id, seat, ct, option)
	}
}

// claimAliases 响应指令的简写
var claimAliases = map[string]string{
	"w": "win",
	"k": "quad",
	"t": "triplet",
	"c": "sequence",
}

// parseClaim 解析响应指令，接受简写或完整名称
func parseClaim(word string) (table.ClaimType, error) {
	if name, ok := claimAliases[word]; ok {
		word = name
	}
	ct, err := table.ParseClaimType(word)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errBadCommand, err)
	}
	return ct, nil
}

// pickTile 按手牌序号（从 1 开始）或牌名选牌
func pickTile(hand []core.Tile, arg string) (core.Tile, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(hand) {
			return core.Tile{}, fmt.Errorf("%w: 序号 %d 越界", errBadCommand, n)
		}
		return hand[n-1], nil
	}

	tiles, err := core.ParseTiles(arg)
	if err != nil || len(tiles) != 1 {
		return core.Tile{}, fmt.Errorf("%w: %s", errBadCommand, arg)
	}
	for _, t := range hand {
		if t.SameKind(tiles[0]) {
			return t, nil
		}
	}
	return core.Tile{}, core.ErrTileNotInHand.WithContext("tile", arg)
}

func printSnapshot(out io.Writer, snap table.Snapshot) {
	fmt.Fprintf(out, "\n[%s] 第 %d 巡，牌墙剩余 %d\n", snap.Phase, snap.Turn, snap.WallCount)
	for _, p := range snap.Players {
		fmt.Fprintf(out, "  座位 %d", p.Seat)
		if len(p.Melds) > 0 {
			fmt.Fprint(out, " 副露:")
			for _, m := range p.Melds {
				fmt.Fprintf(out, " %s", core.FormatTiles(m.Tiles))
			}
		}
		fmt.Fprintf(out, " 弃牌: %s\n", core.FormatTiles(p.Discards))
		if p.Seat == snap.Viewer {
			names := make([]string, len(p.Hand))
			for i, t := range p.Hand {
				names[i] = fmt.Sprintf("%d:%s", i+1, t.Name())
			}
			fmt.Fprintf(out, "  手牌: %s\n", strings.Join(names, " "))
		}
	}

	if snap.Phase == table.PhaseFinished {
		if snap.Winner < 0 {
			fmt.Fprintln(out, "流局。输入 n 重新开局，q 退出")
		} else {
			fmt.Fprintf(out, "座位 %d 胡牌（%s）: %s。输入 n 重新开局，q 退出\n",
				snap.Winner, snap.WinType, core.FormatTiles(snap.WinningHand))
		}
		return
	}

	if len(snap.Legal) > 0 {
		var legal []string
		for _, a := range snap.Legal {
			if a.Kind == "discard" {
				continue
			}
			s := fmt.Sprintf("%s#%d", a.Kind, a.Option)
			if len(a.Tiles) > 0 {
				s += "(" + core.FormatTiles(a.Tiles) + ")"
			}
			legal = append(legal, s)
		}
		if len(legal) > 0 {
			fmt.Fprintf(out, "可选: %s\n", strings.Join(legal, " "))
		}
	}
}

func printEvent(out io.Writer, seat int, e table.Event) {
	switch e.Kind {
	case table.EventTileDiscarded, table.EventMeldClaimed, table.EventQuadDeclared, table.EventGameWon:
		fmt.Fprintf(out, "  · %s %v\n", e.Kind, e.Params)
	case table.EventTileDrawn:
		if s, ok := e.Params["seat"].(int); ok && s == seat {
			fmt.Fprintf(out, "  · 摸牌\n")
		}
	}
}
