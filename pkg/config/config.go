package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	Environment     string
	FirebaseProject string
	FirebaseApiKey  string
	StorageBucket   string

	// ChatGlobalBroadcast keeps the legacy "general chat" fallback: a realtime
	// message without a chat id is broadcast to every connection instead of
	// being dropped. Ephemeral only, nothing is persisted on this path.
	ChatGlobalBroadcast bool

	// OfferAcceptOwnerOnly restricts offer acceptance to the listing's seller.
	// When false any chat participant other than the proposer may accept.
	OfferAcceptOwnerOnly bool
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:           getEnv("SERVER_PORT", "8080"),
		Environment:          getEnv("ENVIRONMENT", "development"),
		FirebaseProject:      getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseApiKey:       getEnv("FIREBASE_API_KEY", ""),
		StorageBucket:        getEnv("STORAGE_BUCKET", ""),
		ChatGlobalBroadcast:  getEnvAsBool("CHAT_GLOBAL_BROADCAST", true),
		OfferAcceptOwnerOnly: getEnvAsBool("OFFER_ACCEPT_OWNER_ONLY", false),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		boolValue, err := strconv.ParseBool(value)
		if err == nil {
			return boolValue
		}
	}
	return defaultValue
}
