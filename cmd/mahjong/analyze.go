package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"sudooom.mahjong/internal/game/mahjong/analysis"
	"sudooom.mahjong/internal/game/mahjong/bot"
	"sudooom.mahjong/internal/game/mahjong/core"
	"sudooom.mahjong/internal/game/mahjong/table"
)

var (
	analyzeProfile string
	analyzeWall    int
	analyzeMelds   int
)

var analyzeCmd = &cobra.Command{
	Use:     "analyze <hand>",
	Short:   "分析一手牌：向听数、是否和牌，14 张时给出出牌建议",
	Example: "  mahjong analyze 123m456p789s1122z5z",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hand, err := core.ParseTiles(args[0])
		if err != nil {
			return err
		}
		if n := len(hand) + 3*analyzeMelds; n != 13 && n != 14 {
			return fmt.Errorf("手牌加副露应为 13 或 14 张，实际 %d 张", n)
		}

		sevenPairs := cfg.Game.SevenPairs && analyzeMelds == 0
		counts := core.Counts(hand)
		fmt.Printf("手牌: %s\n", core.FormatTiles(hand))
		fmt.Printf("向听数: %d\n", analysis.ShantenCountsWith(counts, analyzeMelds, sevenPairs))
		fmt.Printf("一般型向听数: %d\n", analysis.StandardShanten(hand, analyzeMelds))
		if sevenPairs {
			fmt.Printf("七对子向听数: %d\n", analysis.SevenPairsShanten(hand))
		}
		fmt.Printf("和牌: %v\n", analysis.CanWin(counts, analyzeMelds, sevenPairs))
		if sevenPairs && analysis.IsSevenPairs(hand) {
			fmt.Println("牌型: 七对子")
		}

		if (len(hand)+3*analyzeMelds)%3 != 2 {
			return nil
		}
		return suggestDiscard(cmd, hand, sevenPairs)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeProfile, "profile", "", "AI profile used to rank discards (default from config)")
	analyzeCmd.Flags().IntVar(&analyzeWall, "wall", 70, "tiles left in the wall")
	analyzeCmd.Flags().IntVar(&analyzeMelds, "melds", 0, "number of exposed melds")
}

// suggestDiscard 对每种可出的牌推演打分
func suggestDiscard(cmd *cobra.Command, hand []core.Tile, sevenPairs bool) error {
	profiles, err := loadProfiles(cfg)
	if err != nil {
		return err
	}
	name := cfg.AI.Profile
	if analyzeProfile != "" {
		name = analyzeProfile
	}
	profile, err := profiles.Lookup(name)
	if err != nil {
		return err
	}

	view := table.SeatView{
		Phase:      table.PhaseDiscarding,
		Hand:       hand,
		Melds:      make([]core.Meld, analyzeMelds),
		WallCount:  analyzeWall,
		SevenPairs: sevenPairs,
	}
	if analysis.CanWin(core.Counts(hand), analyzeMelds, sevenPairs) {
		view.Actions = append(view.Actions, table.DeclareWin{})
	}
	for _, t := range hand {
		view.Actions = append(view.Actions, table.Discard{Tile: t})
	}

	opts := []bot.Option{bot.WithSeed(1)}
	if cfg.AI.Parallelism > 0 {
		opts = append(opts, bot.WithParallelism(cfg.AI.Parallelism))
	}
	ranked, err := bot.New(profile, opts...).Rank(cmd.Context(), view)
	if err != nil {
		return err
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	fmt.Printf("\n风格 %s，推演 %d 次，深度 %d\n", profile.Name, profile.Rollouts, profile.Depth)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "动作\t得分\t和牌率\t平均向听\t危险度")
	for _, c := range ranked {
		label := c.Action.Kind().String()
		if d, ok := c.Action.(table.Discard); ok {
			label += " " + d.Tile.Name()
		}
		fmt.Fprintf(w, "%s\t%.3f\t%.2f\t%.2f\t%.2f\n", label, c.Score, c.WinRate, c.AvgShanten, c.AvgDanger)
	}
	return w.Flush()
}
