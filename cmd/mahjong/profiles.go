package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "列出可用的 AI 风格",
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles, err := loadProfiles(cfg)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tROLLOUTS\tDEPTH\tATTACK\tDEFENSE\tCALL")
		for _, name := range profiles.Names() {
			p := profiles[name]
			marker := ""
			if name == cfg.AI.Profile {
				marker = " *"
			}
			fmt.Fprintf(w, "%s%s\t%d\t%d\t%.2f\t%.2f\t%.2f\n",
				name, marker, p.Rollouts, p.Depth, p.AttackBias, p.DefenseBias, p.CallAggressiveness)
		}
		return w.Flush()
	},
}
