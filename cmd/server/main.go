package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mentorbook/internal/adapters/discord"
	"mentorbook/internal/adapters/httpapi"
	"mentorbook/internal/adapters/scheduler"
	"mentorbook/internal/application"
	"mentorbook/internal/config"
	"mentorbook/internal/infrastructure/database"
	"mentorbook/internal/infrastructure/i18n"
	"mentorbook/internal/infrastructure/memory"
	"mentorbook/internal/infrastructure/sqlite"
	"mentorbook/internal/platform/logger"
	"mentorbook/internal/ports/output"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", zap.Error(err))
		os.Exit(1)
	}
}

// backend is the store chosen by configuration.
type backend struct {
	uow       output.UnitOfWork
	calendars output.CalendarRepository
	meetings  output.MeetingRepository
	people    output.PersonDirectory
	close     func()
}

func openBackend(ctx context.Context, cfg *config.Config, log *zap.Logger) (*backend, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		s, err := sqlite.Open(cfg.SQLitePath, log)
		if err != nil {
			return nil, err
		}
		return &backend{
			uow: s, calendars: s.Calendars(), meetings: s.Meetings(), people: s.People(),
			close: func() { _ = s.Close() },
		}, nil
	case config.StorePostgres:
		if err := database.RunMigrations(cfg.DatabaseURL, log); err != nil {
			return nil, err
		}
		pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, err
		}
		s := database.NewStore(pool, log)
		return &backend{
			uow: s, calendars: s.Calendars(), meetings: s.Meetings(), people: s.People(),
			close: pool.Close,
		}, nil
	default:
		s := memory.NewStore()
		log.Warn("using the in-memory store; data is lost on exit")
		return &backend{
			uow: s, calendars: s.Calendars(), meetings: s.Meetings(), people: s.People(),
			close: func() {},
		}, nil
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tr, err := i18n.NewTranslator(cfg.DefaultLocale, log)
	if err != nil {
		return fmt.Errorf("load translations: %w", err)
	}

	store, err := openBackend(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store, err)
	}
	defer store.close()
	log.Info("store ready", zap.String("backend", cfg.Store), zap.String("timezone", cfg.Location.String()))

	opts := []application.Option{
		application.WithLocation(cfg.Location),
		application.WithLogger(log),
	}
	availability := application.NewAvailabilityService(store.uow, store.calendars, opts...)
	booking := application.NewBookingEngine(store.uow, store.meetings, opts...)
	roster := application.NewRosterView(store.calendars, store.meetings, store.people, opts...)
	directory := application.NewDirectoryService(store.people, opts...)
	sweep := application.NewCompletionSweeper(store.meetings, opts...)

	sweeper, err := scheduler.NewSweeper(cfg.SweepSchedule, sweep, log.Named("sweeper"))
	if err != nil {
		return err
	}

	api := httpapi.NewHandler(availability, booking, roster, directory, tr, cfg.Location)
	server := httpapi.NewServer(cfg.HTTPAddr, httpapi.NewRouter(api, log.Named("http")), log.Named("http"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Run(gctx) })
	g.Go(func() error { return sweeper.Run(gctx) })

	if cfg.DiscordEnabled() {
		handler := discord.NewHandler(availability, booking, roster, directory, tr, cfg.Location, log.Named("discord"))
		bot, err := discord.NewBot(cfg.DiscordToken, cfg.DiscordGuildID, handler, log.Named("discord"))
		if err != nil {
			stop()
			_ = g.Wait()
			return err
		}
		g.Go(func() error { return bot.Run(gctx) })
	} else {
		log.Info("discord disabled: DISCORD_TOKEN not set")
	}

	return g.Wait()
}
