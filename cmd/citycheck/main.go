// Command citycheck resolves cities through both providers and reports
// which ones the bot can search.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_finder/internal/adapters/geocoding"
	"hotel_finder/internal/adapters/hotels"
	"hotel_finder/internal/adapters/observability"
	"hotel_finder/internal/adapters/rapidapi"
	"hotel_finder/internal/app"
	"hotel_finder/internal/domain"
	"hotel_finder/internal/shared"
)

func main() {
	workers := flag.Int("workers", 4, "concurrent resolutions")
	flag.Parse()

	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	cities := flag.Args()
	if len(cities) == 0 {
		cities = shared.DefaultCities
	}
	log.Info().Int("cities", len(cities)).Int("workers", *workers).Msg("citycheck starting")

	hotelsAPI, err := rapidapi.New("hotels", cfg.HotelsBase, cfg.HotelsHost, cfg.RapidAPIKey, 20*time.Second)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize hotels client")
	}
	geoAPI, err := rapidapi.New("geocoding", cfg.GeocodingBase, cfg.GeocodingHost, cfg.RapidAPIKey, 20*time.Second)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize geocoding client")
	}
	hotelsClient := hotels.New(hotelsAPI, cfg.Locale, cfg.Currency, log.Logger)

	countries, err := hotelsClient.Countries(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("country table fetch failed")
	}
	resolver := app.NewResolver(geocoding.New(geoAPI, cfg.Locale), hotelsClient, domain.NewCountryTable(countries), log.Logger)

	sem := semaphore.NewWeighted(int64(max(*workers, 1)))
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)
	for _, city := range cities {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			defer sem.Release(1)

			rc, err := resolver.Resolve(ctx, name)
			if err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
				reason := err.Error()
				var ue *domain.UserError
				if errors.As(err, &ue) {
					reason = ue.Code
				}
				log.Warn().Str("city", name).Str("reason", reason).Msg("not searchable")
				return
			}
			log.Info().
				Str("city", name).
				Str("country", rc.Country.Code).
				Str("region", string(rc.Region.ID)).
				Msg("searchable")
		}(city)
	}

	wg.Wait()
	fmt.Printf("%d/%d cities searchable\n", len(cities)-failed, len(cities))
	if failed > 0 {
		os.Exit(1)
	}
}
