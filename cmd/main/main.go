package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"birthday-bot/pkg"
	"birthday-bot/pkg/config"
	"birthday-bot/pkg/db"
	"birthday-bot/pkg/handlers"
	"birthday-bot/pkg/health"
	"birthday-bot/pkg/scheduler"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/gateway"
	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
	"github.com/lmittmann/tint"
	slogmulti "github.com/samber/slog-multi"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.LoadEnv()
	if err != nil {
		panic(err)
	}

	err = sentry.Init(sentry.ClientOptions{
		Dsn:           cfg.SentryDSN,
		EnableTracing: false,
		EnableLogs:    true,
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			if cfg.Prod() { // only log events in prod
				return event
			}
			return nil
		},
	})
	if err != nil {
		panic(err)
	}

	defer sentry.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logHandlers := []slog.Handler{
		tint.NewHandler(os.Stdout, &tint.Options{
			Level: slog.LevelInfo,
		}),
		sentryslog.Option{
			EventLevel: []slog.Level{slog.LevelError},
			LogLevel:   []slog.Level{slog.LevelWarn},
		}.NewSentryHandler(ctx),
	}
	if cfg.DebugLogFile != "" {
		fileWriter, err := os.OpenFile(cfg.DebugLogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			panic(err)
		}
		defer fileWriter.Close()
		logHandlers = append(logHandlers, slog.NewTextHandler(fileWriter, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	slog.SetDefault(slog.New(slogmulti.Fanout(logHandlers...)))

	slog.Info("starting the bot...", slog.String("disgo.version", disgo.Version), slog.Any("guild.id", cfg.GuildID))

	store, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		panic(err)
	}
	defer store.Close()

	client, err := disgo.New(cfg.Token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(gateway.IntentGuilds, gateway.IntentGuildMessages, gateway.IntentGuildMessageReactions, gateway.IntentMessageContent),
			gateway.WithPresenceOpts(gateway.WithWatchingActivity("for birthdays"))),
		bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagGuilds, cache.FlagRoles)))
	if err != nil {
		panic(err)
	}

	defer client.Close(context.TODO())

	b := pkg.New(cfg, store, client.Rest)
	h := handlers.NewHandler(ctx, b)
	client.AddEventListeners(h, h.Listener())

	if _, err := client.Rest.SetGuildCommands(cfg.ApplicationID, cfg.GuildID, handlers.Commands); err != nil {
		slog.Error("birthday-bot: error while registering commands", slog.Any("application.id", cfg.ApplicationID), slog.Any("guild.id", cfg.GuildID), tint.Err(err))
	}

	if err := client.OpenGateway(ctx); err != nil {
		panic(err)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return scheduler.NewDaily("birthdays", cfg.BirthdayLocation, b.Announcer.Announce).Run(ctx)
	})
	eg.Go(func() error {
		return health.New(cfg.Port).Run(ctx)
	})

	slog.Info("birthday bot is now running.")
	if err := eg.Wait(); err != nil {
		slog.Error("birthday-bot: stopped with an error", tint.Err(err))
	}
}
