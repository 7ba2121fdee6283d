package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"sudooom.mahjong/internal/config"
	"sudooom.mahjong/internal/logger"
)

var (
	configFile string
	logLevel   string
	logFormat  string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "mahjong",
	Short:         "四人麻将：牌桌状态机与蒙特卡洛 AI",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if logLevel != "" {
			c.App.LogLevel = logLevel
		}
		if logFormat != "" {
			c.App.LogFormat = logFormat
		}
		cfg = c

		// 日志写到 stderr，stdout 留给牌局输出
		logger.Init(os.Stderr, cfg.App)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "configs/config.yaml", "config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text, json, logfmt")

	rootCmd.AddCommand(simulateCmd, analyzeCmd, profilesCmd, playCmd, historyCmd, gamesCmd, watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("执行失败", "error", err)
		os.Exit(1)
	}
}
