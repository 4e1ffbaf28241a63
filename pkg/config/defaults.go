// Package config provides centralized default values for the banner service
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Canvas Configuration
	BannerWidth  int
	BannerHeight int

	// Trailhead API Configuration
	TrailheadProfileAPIURL string
	TrailheadMobileAPIURL  string
	TrailheadClientTimeout time.Duration

	// Asset Cache Configuration
	AssetCacheDir      string
	AssetMemoryEntries int
	AssetFetchTimeout  time.Duration

	// Query Cache Configuration
	QueryCacheTTL             time.Duration
	QueryCacheCleanupInterval time.Duration

	// Counter Database
	CounterDBPath string

	// Font Configuration
	FontPath string

	// Logging
	LogDirectory string
	LogToConsole bool
	LogToFile    bool
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 60*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Canvas Configuration
	BannerWidth = getEnvInt("BANNER_WIDTH", 1584)
	BannerHeight = getEnvInt("BANNER_HEIGHT", 396)

	// Trailhead API Configuration
	TrailheadProfileAPIURL = getEnvString("TRAILHEAD_PROFILE_API_URL", "https://profile.api.trailhead.com/graphql")
	TrailheadMobileAPIURL = getEnvString("TRAILHEAD_MOBILE_API_URL", "https://mobile.api.trailhead.com/graphql")
	TrailheadClientTimeout = getEnvDuration("TRAILHEAD_CLIENT_TIMEOUT", 20*time.Second)

	// Asset Cache Configuration
	AssetCacheDir = getEnvString("ASSET_CACHE_DIR", "assets-cache")
	AssetMemoryEntries = getEnvInt("ASSET_MEMORY_ENTRIES", 512)
	AssetFetchTimeout = getEnvDuration("ASSET_FETCH_TIMEOUT", 10*time.Second)

	// Query Cache Configuration
	QueryCacheTTL = time.Duration(getEnvInt("QUERY_CACHE_TTL_MINUTES", 15)) * time.Minute
	QueryCacheCleanupInterval = time.Duration(getEnvInt("QUERY_CACHE_CLEANUP_MINUTES", 5)) * time.Minute

	// Counter Database
	CounterDBPath = getEnvString("COUNTER_DB_PATH", "banner-counters.db")

	// Font Configuration (empty means embedded Go fonts)
	FontPath = getEnvString("FONT_PATH", "")

	// Logging
	LogDirectory = getEnvString("LOG_DIRECTORY", "logs")
	LogToConsole = getEnvString("LOG_TO_CONSOLE", "true") == "true"
	LogToFile = getEnvString("LOG_TO_FILE", "false") == "true"
}
