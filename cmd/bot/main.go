package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"hotel_finder/internal/adapters/geocoding"
	"hotel_finder/internal/adapters/hotels"
	server "hotel_finder/internal/adapters/http_server"
	"hotel_finder/internal/adapters/observability"
	"hotel_finder/internal/adapters/rapidapi"
	redisad "hotel_finder/internal/adapters/redis"
	"hotel_finder/internal/adapters/session"
	"hotel_finder/internal/app"
	"hotel_finder/internal/domain"
	"hotel_finder/internal/query"
	"hotel_finder/internal/shared"
	mysqlrepo "hotel_finder/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	// providers
	hotelsAPI, err := rapidapi.New("hotels", cfg.HotelsBase, cfg.HotelsHost, cfg.RapidAPIKey, 20*time.Second)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize hotels client")
	}
	geoAPI, err := rapidapi.New("geocoding", cfg.GeocodingBase, cfg.GeocodingHost, cfg.RapidAPIKey, 20*time.Second)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize geocoding client")
	}
	hotelsClient := hotels.New(hotelsAPI, cfg.Locale, cfg.Currency, log.Logger)
	geoClient := geocoding.New(geoAPI, cfg.Locale)

	// the country table gates every search; no table, no service
	fetchCtx, cancel := context.WithTimeout(ctx, time.Minute)
	countries, err := hotelsClient.Countries(fetchCtx)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("country table fetch failed")
	}
	table := domain.NewCountryTable(countries)
	log.Info().Int("countries", table.Len()).Msg("country table loaded")

	resolver := app.NewResolver(geoClient, hotelsClient, table, log.Logger)
	searcher := app.NewSearcher(resolver, hotelsClient, query.Options{
		Currency: cfg.Currency,
		Locale:   cfg.Locale,
	}, cfg.EnrichWorkers, log.Logger)

	history := openHistory(ctx, cfg)
	store := session.NewStore(cfg.SessionTTL)
	opts := app.DialogOptions{
		SearchTimeout: cfg.SearchTimeout,
		Metrics:       observability.DialogMetrics{},
	}
	if history != nil {
		opts.History = history
	}
	dialog := app.NewDialog(store, resolver, searcher, log.Logger, opts)

	// http
	srv := server.New(cfg.RequestTimeout)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Dialog:  dialog,
		Limiter: server.NewSessionLimiter(cfg.InboundRPS, cfg.InboundBurst),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.ListenAndServe(gctx, cfg.HTTPAddr) })
	g.Go(func() error { return observability.Serve(gctx, cfg.MetricsAddr, reg) })
	g.Go(func() error { return store.Run(gctx, time.Minute) })

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("bye")
}

// openHistory wires MySQL and, when configured, the Redis read cache.
// It returns nil when history is disabled.
func openHistory(ctx context.Context, cfg shared.Config) *app.HistoryService {
	if cfg.MySQLDSN == "" {
		log.Info().Msg("MYSQL_DSN empty; search history disabled")
		return nil
	}
	db, err := mysqlrepo.Open(ctx, cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	log.Info().Msg("database connection ok")

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unreachable; history cache disabled")
		} else {
			cache = rc
		}
	}
	return app.NewHistoryService(mysqlrepo.New(db), cache, cfg.CacheTTL)
}
