package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port               string
	Env                string
	AWSRegion          string
	UsersTable         string
	ConversationsTable string
	BedrockModelID     string
	DynamoEndpoint     string
}

// Load reads configuration from the environment, after loading a local
// .env file if one exists.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:               getenv("PORT", "8080"),
		Env:                getenv("APP_ENV", "production"),
		AWSRegion:          getenv("AWS_REGION", "us-east-1"),
		UsersTable:         getenv("USERS_TABLE", "user-data"),
		ConversationsTable: getenv("CONVERSATIONS_TABLE", "conversation_data"),
		BedrockModelID:     getenv("BEDROCK_MODEL_ID", "amazon.nova-micro-v1:0"),
		DynamoEndpoint:     getenv("DYNAMODB_ENDPOINT", ""), // set for dynamodb-local
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
