package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"tripzy/internal/adapters/amadeus"
	server "tripzy/internal/adapters/http_server"
	"tripzy/internal/adapters/nominatim"
	"tripzy/internal/adapters/observability"
	"tripzy/internal/adapters/provider"
	redisad "tripzy/internal/adapters/redis"
	"tripzy/internal/app"
	"tripzy/internal/shared"
	mysqlrepo "tripzy/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(reg)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// provider gateway
	geoClient := nominatim.New(cfg.NominatimBase, 1)
	lodgingClient, err := amadeus.New(cfg.AmadeusBase, cfg.AmadeusKey, cfg.AmadeusSecret, 10)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Amadeus client")
	}
	gw := provider.New(geoClient, lodgingClient)

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	geo := app.NewGeoService(gw, cfg.GeocodeDelay)
	trip := app.NewTripService(geo)
	lodging := app.NewLodgingService(gw, cfg.LodgingFanout, cfg.LodgingTopN)
	itin := app.NewItineraryService(repo, cache, cfg.CacheTTL)

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Geo:      geo,
		Trip:     trip,
		Lodging:  lodging,
		Itin:     itin,
		Cache:    cache,
		CacheTTL: int(cfg.CacheTTL.Seconds()),
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
