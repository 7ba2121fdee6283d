package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	mjNats "sudooom.mahjong/internal/nats"
)

var errNATSDisabled = errors.New("nats is disabled, set nats.enabled")

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "订阅 NATS 上所有牌局的事件并输出",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		in, err := connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer in.Close()

		if in.nats == nil {
			return errNATSDisabled
		}

		subject := mjNats.BuildAllEventsSubject(cfg.NATS.SubjectPrefix)
		sub, err := in.nats.Conn().Subscribe(subject, func(msg *nats.Msg) {
			line, err := formatEventMessage(msg.Data)
			if err != nil {
				slog.Warn("无法解析事件", "subject", msg.Subject, "error", err)
				return
			}
			fmt.Fprintln(os.Stdout, line)
		})
		if err != nil {
			return fmt.Errorf("订阅失败: %w", err)
		}
		defer sub.Unsubscribe()

		slog.Info("Watching game events", "subject", subject)
		<-ctx.Done()
		return nil
	},
}

// formatEventMessage 事件消息的单行文本形式，参数按键排序
func formatEventMessage(data []byte) (string, error) {
	var msg mjNats.EventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return "", err
	}

	keys := make([]string, 0, len(msg.Params))
	for k := range msg.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "%s #%d %s", msg.GameID, msg.Seq, msg.Kind)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, msg.Params[k])
	}
	return b.String(), nil
}
