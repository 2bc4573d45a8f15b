package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	MetricsAddr   string
	MySQLDSN      string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	NominatimBase string
	AmadeusBase   string
	AmadeusKey    string
	AmadeusSecret string
	GeocodeDelay  time.Duration // spacing between batch geocode calls
	LodgingFanout int
	LodgingTopN   int
	CacheTTL      time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ":9100"),
		MySQLDSN:      env("MYSQL_DSN", "root:root@tcp(localhost:3306)/tripzy?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisPass:     env("REDIS_PASSWORD", ""),
		NominatimBase: env("OSM_NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		AmadeusBase:   env("AMADEUS_BASE_URL", "https://api.amadeus.com/v1"),
		AmadeusKey:    env("AMADEUS_API_KEY", ""),
		AmadeusSecret: env("AMADEUS_API_SECRET", ""),
		GeocodeDelay:  time.Duration(atoi("GEOCODE_DELAY_MS", 1000)) * time.Millisecond,
		LodgingFanout: atoi("LODGING_FANOUT", 4),
		LodgingTopN:   atoi("LODGING_TOP_N", 10),
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
	}
	if c.AmadeusKey == "" || c.AmadeusSecret == "" {
		log.Warn().Msg("AMADEUS_API_KEY/AMADEUS_API_SECRET are empty; lodging endpoints will fail")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
