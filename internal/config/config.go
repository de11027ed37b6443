package config

import (
	"log"
	"os"
	"strings"
	"time"
)

type Config struct {
	Port     string
	DBDSN    string
	LogFile  string
	LogLevel string

	// Cart slot storage: "sqlite" shares DBDSN, "bolt" uses CartBoltPath.
	CartStore    string
	CartBoltPath string

	CatalogFile        string
	FulfillmentKeyHash string

	NavPort          string
	CareerAPIURL     string
	CareerAPITimeout time.Duration
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func Load() Config {
	timeout, err := time.ParseDuration(getenv("CAREER_API_TIMEOUT", "10s"))
	if err != nil || timeout <= 0 {
		log.Printf("[config] bad CAREER_API_TIMEOUT, using 10s")
		timeout = 10 * time.Second
	}

	store := strings.ToLower(getenv("CART_STORE", "sqlite"))
	if store != "sqlite" && store != "bolt" {
		log.Printf("[config] unknown CART_STORE=%q, using sqlite", store)
		store = "sqlite"
	}

	cfg := Config{
		Port:               getenv("PORT", "8081"),
		DBDSN:              getenv("DB_DSN", "storefront.db"), // sqlite file in project root
		LogFile:            os.Getenv("LOG_FILE"),
		LogLevel:           getenv("LOG_LEVEL", "info"),
		CartStore:          store,
		CartBoltPath:       getenv("CART_BOLT_PATH", "carts.bolt"),
		CatalogFile:        os.Getenv("CATALOG_FILE"),
		FulfillmentKeyHash: os.Getenv("FULFILLMENT_KEY_HASH"),
		NavPort:            getenv("NAV_PORT", "8082"),
		CareerAPIURL:       strings.TrimRight(getenv("CAREER_API_URL", "http://localhost:8000"), "/"),
		CareerAPITimeout:   timeout,
	}
	log.Printf("[config] PORT=%s DB_DSN=%s CART_STORE=%s CATALOG_FILE=%s NAV_PORT=%s CAREER_API_URL=%s LOG_FILE=%s",
		cfg.Port, cfg.DBDSN, cfg.CartStore, cfg.CatalogFile, cfg.NavPort, cfg.CareerAPIURL, cfg.LogFile)
	return cfg
}
