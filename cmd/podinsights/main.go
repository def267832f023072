package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"podinsights/internal/chat"
	"podinsights/internal/config"
	"podinsights/internal/export"
	"podinsights/internal/feed"
	"podinsights/internal/ingest"
	"podinsights/internal/ui"
	"podinsights/internal/util/logx"
	"podinsights/internal/version"
)

func main() {
	logx.SetLevelFromEnv()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	if cfg.ShowVersion {
		fmt.Println(version.Banner())
		return
	}

	// Setup cancellation on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	topics, err := ingest.Initial(ctx, ingest.InitialOptions{
		Builtin: !cfg.NoBuiltin,
		Path:    cfg.FilePath,
		Stdin:   cfg.UseStdin,
		Format:  cfg.Format,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "load error:", err)
		os.Exit(1)
	}

	state := feed.FromTopics(ctx, topics, feed.Options{
		Months:     cfg.Months,
		Sort:       cfg.Sort,
		Responder:  chat.Canned{},
		ReplyDelay: cfg.ReplyDelay,
	})
	defer state.Close()

	if cfg.ExportFormat != "" {
		list := state.VisibleList()
		if err := export.Write(cfg.ExportFormat, cfg.ExportOut, list); err != nil {
			fmt.Fprintln(os.Stderr, "export error:", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "exported %d insights to %s\n", len(list), cfg.ExportOut)
		return
	}

	// Run TUI app
	logx.Infof("starting %s: %s", version.Banner(), cfg.String())
	if err := ui.Run(ctx, cfg, state); err != nil {
		logx.Errorf("%s exited with error: %v", version.Name, err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
