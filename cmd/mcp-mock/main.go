// Command mcp-mock runs the MediaMath MCP mock server.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/config"
	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/fixtures"
	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/internal/dispatch"
	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/internal/logctx"
	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/mcp"
	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/oauth"
	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/prompts"
	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/server"
	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/sessions"
	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/sse"
	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/tools"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mcp-mock",
		Short:         "MediaMath MCP mock server",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newServeCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	return cmd
}

func runServe(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := newLogger(cfg)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	data := fixtures.NewStore()
	if cfg.FixturesPath != "" {
		if err := data.LoadOverrides(cfg.FixturesPath); err != nil {
			return err
		}
		if err := data.Watch(ctx, cfg.FixturesPath, log); err != nil {
			return err
		}
	}

	store := sessions.NewStore(
		sessions.WithTTL(cfg.SessionTTL),
		sessions.WithSweepInterval(cfg.SweepInterval),
		sessions.WithLogger(log),
	)
	manager := sse.NewManager(
		sse.WithHeartbeatInterval(cfg.HeartbeatInterval),
		sse.WithHeartbeatTimeout(cfg.HeartbeatTimeout),
		sse.WithLogger(log),
	)
	provider := oauth.NewProvider(cfg.OAuthIssuer, []byte(cfg.SigningKey), data,
		oauth.WithAPIKey(cfg.APIKey),
		oauth.WithLogger(log),
	)

	dispatcher := dispatch.NewDispatcher(
		store,
		tools.NewRegistry(data, log),
		prompts.NewRegistry(),
		mcp.ImplementationInfo{Name: "mediamath-mcp-mock", Version: version},
		log,
	)

	go func() { _ = store.Run(ctx) }()
	go func() { _ = provider.Run(ctx, time.Hour) }()

	srv := server.New(server.Options{
		Addr:          cfg.Addr,
		ShutdownGrace: cfg.ShutdownGrace,
		Store:         store,
		Dispatcher:    dispatcher,
		Manager:       manager,
		Provider:      provider,
		Logger:        log,
	})
	return srv.Run(ctx)
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var base slog.Handler
	if strings.EqualFold(cfg.LogFormat, "json") {
		base = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		base = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(logctx.Handler{Handler: base})
}
