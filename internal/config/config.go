package config

import (
	"os"
	"strconv"
	"time"
)

// SearchWeights are the ranking policy parameters. The values are tuned by
// hand, not derived; keep them adjustable through the environment.
type SearchWeights struct {
	ExactMatch     float64
	PrefixMatch    float64
	WordBoundary   float64
	SubstringMatch float64
	CategoryMatch  float64
	ProximityMax   float64 // cap on the distance boost
	MallKindBias   float64
}

type Config struct {
	// Server
	ServerPort string
	ServerEnv  string
	ServerHost string // host shown in the docs UI

	// Firebase / Firestore
	FirebaseProjectID       string
	FirebaseCredentialsPath string
	StorageBucket           string

	// Cache TTLs
	MallListTTL  time.Duration
	StoreListTTL time.Duration
	AllStoresTTL time.Duration

	// Search
	Weights        SearchWeights
	MaxResults     int
	DebounceWindow time.Duration

	// Internal API (analytics export)
	InternalAPIKey string

	// SigNoz
	SigNozEndpoint string
}

func Load() *Config {
	return &Config{
		// Server
		ServerPort: getEnv("SERVER_PORT", "3000"),
		ServerEnv:  getEnv("SERVER_ENV", "development"),
		ServerHost: getEnv("SERVER_HOST", "localhost:3000"),

		// Firebase
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		StorageBucket:           getEnv("FIREBASE_STORAGE_BUCKET", ""),

		// Cache
		MallListTTL:  getEnvAsDuration("CACHE_MALLS_TTL", 10*time.Minute),
		StoreListTTL: getEnvAsDuration("CACHE_STORES_TTL", 5*time.Minute),
		AllStoresTTL: getEnvAsDuration("CACHE_ALL_STORES_TTL", 5*time.Minute),

		// Search ranking weights
		Weights: SearchWeights{
			ExactMatch:     getEnvAsFloat("SEARCH_W_EXACT", 100),
			PrefixMatch:    getEnvAsFloat("SEARCH_W_PREFIX", 80),
			WordBoundary:   getEnvAsFloat("SEARCH_W_WORD", 70),
			SubstringMatch: getEnvAsFloat("SEARCH_W_SUBSTRING", 60),
			CategoryMatch:  getEnvAsFloat("SEARCH_W_CATEGORY", 15),
			ProximityMax:   getEnvAsFloat("SEARCH_W_PROXIMITY_MAX", 25),
			MallKindBias:   getEnvAsFloat("SEARCH_W_MALL_BIAS", 5),
		},
		MaxResults:     getEnvAsInt("SEARCH_MAX_RESULTS", 20),
		DebounceWindow: getEnvAsDuration("SEARCH_DEBOUNCE", 300*time.Millisecond),

		// Internal API
		InternalAPIKey: getEnv("INTERNAL_API_KEY", ""),

		// SigNoz
		SigNozEndpoint: getEnv("SIGNOZ_ENDPOINT", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
