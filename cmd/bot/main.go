package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"dungeonBot/internal/app/events"
	"dungeonBot/internal/app/runtime"
	"dungeonBot/internal/domain"
	"dungeonBot/internal/infrastructure/config"
	"dungeonBot/internal/infrastructure/logging"
	sqlitestorage "dungeonBot/internal/infrastructure/persistence/sqlite"
	twitchadapter "dungeonBot/internal/interface/adapters/twitch"
	"dungeonBot/internal/interface/api/ws"
	"dungeonBot/internal/interface/outs"
	"dungeonBot/internal/usecase/commands"
	"dungeonBot/internal/usecase/handle_message"
	"dungeonBot/internal/usecase/notifications"
)

var (
	configPath string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:           "dungeonbot",
	Short:         "Twitch chat bot with a tiny dungeon game",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file (environment variables override it)")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "log at debug level")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "dungeonbot:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(debug || cfg.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	store, err := sqlitestorage.NewPlayerStore(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	prefix := cfg.PrefixRune()
	router := commands.NewRouter(prefix)
	router.MustRegister(
		commands.NewPingCommand(),
		commands.NewRegisterCommand(store),
		commands.NewUnregisterCommand(store, prefix),
		commands.NewEnterCommand(store, prefix),
	)
	if len(cfg.AdminIDs) > 0 {
		router.MustRegister(commands.NewQuitCommand(cfg.AdminIDs))
	}
	router.SetBotCommand(commands.NewBotInfoCommand(router))

	bus := events.NewBus(logger)
	defer bus.Close()

	stopEventLog := notifications.NewEventLogger(bus, logger).Start(ctx)
	defer stopEventLog()

	uc := handle_message.NewInteractor(router, bus, logger)

	bot := runtime.New(
		runtime.Config{
			Credentials: domain.Credentials{
				Username:   cfg.TwitchUsername,
				OAuthToken: cfg.TwitchToken,
			},
			Channels:    cfg.TwitchChannels,
			SendLimiter: outs.NewTwitchLimiter(cfg.RateLimit.Messages, cfg.RateLimit.Window),
		},
		twitchadapter.NewConnector(logger),
		uc,
		logger,
	)

	logger.Info("starting bot",
		zap.String("user", cfg.TwitchUsername),
		zap.Strings("channels", cfg.TwitchChannels),
		zap.String("prefix", cfg.Prefix))

	g, gctx := errgroup.WithContext(ctx)
	feedCtx, stopFeed := context.WithCancel(gctx)
	defer stopFeed()

	g.Go(func() error {
		defer stopFeed()
		return bot.Run(gctx)
	})

	if cfg.FeedAddr != "" {
		feed := ws.NewServer(ws.Config{
			Addr:    cfg.FeedAddr,
			Bus:     bus,
			Catalog: router.Catalog,
			Log:     logger,
		})
		g.Go(func() error {
			return feed.Start(feedCtx)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("bot stopped", zap.Error(err))
		return err
	}

	logger.Info("bot stopped")
	return nil
}
