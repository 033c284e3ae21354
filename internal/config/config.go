package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	MongoURI       string
	DBName         string
	StoreBackend   string // "mongo" or "memory"
	ImageStorage   string // "inline-required", "inline-optional" or "filesystem"
	ImageMaxBytes  int64
	PageSize       int64 // 0 means the client picks the limit
	UploadDir      string
	PublicPrefix   string
	Placeholder    string
	ConnectTimeout time.Duration
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		MongoURI:       getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		DBName:         getEnvOrDefault("DB_NAME", "textilecatalog"),
		StoreBackend:   getEnvOrDefault("STORE_BACKEND", "mongo"),
		ImageStorage:   getEnvOrDefault("IMAGE_STORAGE", "inline-optional"),
		ImageMaxBytes:  getInt64Env("IMAGE_MAX_BYTES", 5<<20),
		PageSize:       getInt64Env("PAGE_SIZE", 0),
		UploadDir:      getEnvOrDefault("UPLOAD_DIR", "./public/uploads/products"),
		PublicPrefix:   getEnvOrDefault("PUBLIC_PREFIX", "uploads/products"),
		Placeholder:    getEnvOrDefault("PLACEHOLDER_IMAGE", "uploads/products/placeholder.png"),
		ConnectTimeout: 10 * time.Second,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return defaultValue
}
