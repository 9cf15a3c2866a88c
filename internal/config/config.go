package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server wiring and marketplace policy, read from the
// environment (optionally seeded from a .env file).
type Config struct {
	ListenAddr string
	Debug      bool

	// MarketAddr is the account the marketplace custodies assets under.
	// OwnerAddr deploys the token contracts, delegates minting to the
	// marketplace and receives the seed supply of the pay token.
	MarketAddr string
	OwnerAddr  string

	AuctionDuration time.Duration
	MinBidsToClear  uint64
	AllowZeroPrice  bool

	// SeedAccounts are credited SeedBalance of the pay token at startup
	// and pre-approve the marketplace, so a fresh dev server is usable
	// without extra setup.
	SeedAccounts []string
	SeedBalance  uint64
}

// Load reads configuration from the environment. A missing .env file is
// not an error.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ListenAddr:      getString("LISTEN_ADDR", ":8081"),
		Debug:           getBool("DEBUG", false),
		MarketAddr:      getString("MARKET_ADDR", "marketplace"),
		OwnerAddr:       getString("OWNER_ADDR", "owner"),
		AuctionDuration: getDuration("AUCTION_DURATION", 72*time.Hour),
		MinBidsToClear:  getUint64("MIN_BIDS_TO_CLEAR", 2),
		AllowZeroPrice:  getBool("ALLOW_ZERO_PRICE", false),
		SeedAccounts:    getSlice("SEED_ACCOUNTS", []string{"user1", "user2"}, ","),
		SeedBalance:     getUint64("SEED_BALANCE", 1_000_000_000),
	}
}

func getString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if val, err := strconv.ParseBool(getString(key, "")); err == nil {
		return val
	}
	return defaultValue
}

func getUint64(key string, defaultValue uint64) uint64 {
	if val, err := strconv.ParseUint(getString(key, ""), 10, 64); err == nil {
		return val
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if val, err := time.ParseDuration(getString(key, "")); err == nil {
		return val
	}
	return defaultValue
}

func getSlice(key string, defaultValue []string, sep string) []string {
	valStr := getString(key, "")
	if valStr == "" {
		return defaultValue
	}
	return strings.Split(valStr, sep)
}
