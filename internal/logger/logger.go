package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"sudooom.mahjong/internal/config"
)

// New 创建 charmbracelet/log 输出的 slog.Logger
func New(w io.Writer, cfg config.AppConfig) *slog.Logger {
	handler := log.NewWithOptions(w, log.Options{
		Prefix:          cfg.Name,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           parseLevel(cfg.LogLevel),
		Formatter:       parseFormatter(cfg.LogFormat),
	})
	return slog.New(handler)
}

// Init 初始化全局日志，w 为空时输出到 stdout
func Init(w io.Writer, cfg config.AppConfig) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	logger := New(w, cfg)
	slog.SetDefault(logger)
	return logger
}

// 默认为 info 级别
func parseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func parseFormatter(format string) log.Formatter {
	switch strings.ToLower(format) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
