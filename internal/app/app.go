package app

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/gotd/td/tg"
	"golang.org/x/sync/errgroup"

	"github.com/pavelc4/gofile-relay-bot/config"
	"github.com/pavelc4/gofile-relay-bot/internal/bot"
	"github.com/pavelc4/gofile-relay-bot/internal/gofile"
	"github.com/pavelc4/gofile-relay-bot/internal/handler"
	"github.com/pavelc4/gofile-relay-bot/internal/health"
	"github.com/pavelc4/gofile-relay-bot/internal/middleware"
	"github.com/pavelc4/gofile-relay-bot/internal/relay"
	sentryutil "github.com/pavelc4/gofile-relay-bot/internal/sentry"
	"github.com/pavelc4/gofile-relay-bot/internal/stats"
	"github.com/pavelc4/gofile-relay-bot/internal/telegram"
	"github.com/pavelc4/gofile-relay-bot/internal/transfer"
	"github.com/pavelc4/gofile-relay-bot/pkg/buffer"
	httpx "github.com/pavelc4/gofile-relay-bot/pkg/http"
	"github.com/pavelc4/gofile-relay-bot/pkg/logger"
	"github.com/pavelc4/gofile-relay-bot/pkg/utils"
)

const (
	statsSaveInterval = 5 * time.Minute
	staleWorkDirAge   = time.Hour
)

type App struct {
	Bot    *bot.Bot
	Cfg    *config.Config
	Health *health.Server
	Stats  *stats.BotStats

	// ctx outlives single updates; transfers run under it.
	ctx      context.Context
	inflight sync.WaitGroup
}

func New() (*App, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.SetLevel(cfg.LogLevel)

	sentryutil.Init(sentryutil.Options{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		Release:     cfg.SentryRelease,
		Debug:       cfg.Debug,
	})

	if err := os.MkdirAll(cfg.WorkDir, 0o755); err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	utils.CleanupStaleDirs(context.Background(), cfg.WorkDir, staleWorkDirAge)

	botStats := stats.New(cfg.StatsFile)
	if err := botStats.LoadFromFile(); err != nil {
		logger.Warn("Failed to load stats", "error", err)
	}
	stats.CaptureNetBaseline()

	registry := transfer.NewRegistry()
	limiter := relay.NewLimiter(cfg.MaxConcurrentTransfers)
	logger.Info("Transfer concurrency", "cores", runtime.NumCPU(), "limit", limiter.Limit())

	gf := gofile.NewClient(gofile.Options{
		UploadURL: cfg.GoFileUploadURL,
		APIURL:    cfg.GoFileAPIURL,
	})

	rl := relay.New(registry, gf, relay.Config{
		WorkDir:         cfg.WorkDir,
		UploadSteps:     cfg.UploadSteps,
		UploadStepPause: cfg.UploadStepPause,
	}, relay.WithLimiter(limiter))

	dispatcher := tg.NewUpdateDispatcher()

	client, err := telegram.NewClient(cfg, dispatcher)
	if err != nil {
		return nil, err
	}

	basic := handler.NewBasicHandler(client)
	router := bot.NewRouter(bot.Handlers{
		Basic: basic,
		Upload: handler.NewUploadHandler(handler.UploadDeps{
			Client:      client,
			Relay:       rl,
			Registry:    registry,
			Stats:       botStats,
			HTTP:        httpx.NewClient(),
			Pool:        buffer.NewPool(cfg.ChunkSize),
			FeedbackURL: cfg.FeedbackURL,
		}),
		Delete:   handler.NewDeleteHandler(client, gf),
		Admin:    handler.NewAdminHandler(client, cfg.OwnerID, cfg.WorkDir, registry, limiter, botStats),
		Callback: handler.NewCallbackHandler(client, basic, registry),
	})

	a := &App{
		Bot:    bot.New(client, router),
		Cfg:    cfg,
		Health: health.NewServer(cfg.Port),
		Stats:  botStats,
		ctx:    context.Background(),
	}

	dispatcher.OnNewMessage(func(_ context.Context, e tg.Entities, update *tg.UpdateNewMessage) error {
		a.spawn("OnNewMessage", func(ctx context.Context) error {
			return router.OnMessage(ctx, e, update)
		})
		return nil
	})

	dispatcher.OnBotCallbackQuery(func(_ context.Context, e tg.Entities, update *tg.UpdateBotCallbackQuery) error {
		a.spawn("OnBotCallbackQuery", func(ctx context.Context) error {
			return router.OnCallback(ctx, e, update)
		})
		return nil
	})

	logger.Info("Application initialized successfully")
	return a, nil
}

// spawn runs fn off the update loop so long transfers never block other
// updates.
func (a *App) spawn(name string, fn func(ctx context.Context) error) {
	ctx := a.ctx
	a.inflight.Add(1)
	go func() {
		defer a.inflight.Done()
		middleware.Chain(func() {
			if err := fn(ctx); err != nil {
				logger.Error(name+" failed", "error", err)
			}
		},
			middleware.Recover(name),
			middleware.Logger(name),
		)()
	}()
}

// Start runs the bot and the health server until ctx ends or one of them
// fails, then waits for in-flight handlers.
func (a *App) Start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	a.ctx = gctx

	done := make(chan struct{})
	a.Stats.StartAutoSave(statsSaveInterval, done)
	defer func() {
		a.inflight.Wait()
		close(done)
	}()

	g.Go(func() error {
		return a.Bot.Run(gctx, a.Cfg.BotToken)
	})
	g.Go(func() error {
		return a.Health.Run(gctx)
	})
	return g.Wait()
}
