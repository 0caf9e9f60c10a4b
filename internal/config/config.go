package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type HTTPServer struct {
	Host string
	Port string
}

type RedisStore struct {
	Host     string
	Port     string
	Password string
	DB       int

	// Every write extends the room's life by RoomTTL.
	RoomTTL  time.Duration
	LockTTL  time.Duration
	LockWait time.Duration

	// Relay group events through Redis pub/sub so several instances can serve one room.
	Relay bool
}

type Postgres struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type Analysis struct {
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
	Attempts int
}

type WebSocket struct {
	ReadLimit  int64
	PingPeriod time.Duration
	SendBuffer int
}

type Config struct {
	HTTP      HTTPServer
	Redis     RedisStore
	Postgres  Postgres
	Analysis  Analysis
	WebSocket WebSocket
}

const logtag = "[config]"

func Load() *Config {
	configPath := flag.String("config", "", "path env file")
	flag.Parse()

	if *configPath != "" {
		if err := godotenv.Load(*configPath); err != nil {
			log.Fatalf("%s err loading env from file : %v", logtag, err)
		}
		log.Printf("%s using env from : %s", logtag, *configPath)
	} else {
		log.Printf("%s using env from .env", logtag)
		_ = godotenv.Load()
	}

	cfg := FromEnv()
	log.Printf("%s backend config : %+v\n", logtag, cfg.redacted())
	return cfg
}

// FromEnv builds the config from the current process environment only.
func FromEnv() *Config {
	return &Config{
		HTTP:      *newHTTP(),
		Redis:     *newRedis(),
		Postgres:  *newPostgres(),
		Analysis:  *newAnalysis(),
		WebSocket: *newWebSocket(),
	}
}

func (c Config) redacted() Config {
	if c.Redis.Password != "" {
		c.Redis.Password = "***"
	}
	if c.Postgres.Password != "" {
		c.Postgres.Password = "***"
	}
	if c.Analysis.APIKey != "" {
		c.Analysis.APIKey = "***"
	}
	return c
}

func newHTTP() *HTTPServer {
	return &HTTPServer{
		Port: getenv("HTTP_PORT", "8080"),
		Host: getenv("HTTP_HOST", "localhost"),
	}
}

func newRedis() *RedisStore {
	return &RedisStore{
		Port:     getenv("REDIS_PORT", "6379"),
		Host:     getenv("REDIS_HOST", "redis"),
		Password: getenv("REDIS_PASSWORD", ""),
		DB:       getenvInt("REDIS_DB", 0),
		RoomTTL:  getenvDuration("ROOM_TTL", time.Hour),
		LockTTL:  getenvDuration("ROOM_LOCK_TTL", 10*time.Second),
		LockWait: getenvDuration("ROOM_LOCK_WAIT", 5*time.Second),
		Relay:    getenvBool("REDIS_RELAY", false),
	}
}

func newPostgres() *Postgres {
	return &Postgres{
		Enabled:  getenvBool("CATALOG_ENABLED", false),
		Host:     getenv("DB_HOST", "localhost"),
		Port:     getenv("DB_PORT", "5432"),
		User:     getenv("DB_USER", "admin"),
		Password: getenv("DB_PASSWORD", "shared"),
		DBName:   getenv("DB_NAME", "matchmovie"),
		SSLMode:  getenv("DB_SSLMODE", "disable"),
	}
}

func newAnalysis() *Analysis {
	return &Analysis{
		APIKey:   getenvSecret("OPENAI_API_KEY"),
		Model:    getenv("OPENAI_MODEL", "gpt-4o-mini"),
		BaseURL:  getenv("OPENAI_BASE_URL", ""),
		Timeout:  getenvDuration("ANALYSIS_TIMEOUT", 30*time.Second),
		Attempts: getenvInt("ANALYSIS_ATTEMPTS", 3),
	}
}

func newWebSocket() *WebSocket {
	return &WebSocket{
		ReadLimit:  int64(getenvInt("WS_READ_LIMIT", 102400)),
		PingPeriod: getenvDuration("WS_PING_PERIOD", 54*time.Second),
		SendBuffer: getenvInt("WS_SEND_BUFFER", 256),
	}
}

func getenv(key, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		fmt.Printf("%s %s undefined. Using default value %s\n", logtag, key, defaultValue)
		return defaultValue
	}
	fmt.Printf("%s %s = %s\n", logtag, key, val)
	return val
}

func getenvSecret(key string) string {
	val := os.Getenv(key)
	if val == "" {
		fmt.Printf("%s %s undefined\n", logtag, key)
	}
	return val
}

func getenvInt(key string, defaultValue int) int {
	raw := getenv(key, strconv.Itoa(defaultValue))
	val, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Printf("%s %s is not an integer. Using default value %d\n", logtag, key, defaultValue)
		return defaultValue
	}
	return val
}

func getenvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getenv(key, defaultValue.String())
	val, err := time.ParseDuration(raw)
	if err != nil || val <= 0 {
		fmt.Printf("%s %s is not a positive duration. Using default value %s\n", logtag, key, defaultValue)
		return defaultValue
	}
	return val
}

func getenvBool(key string, defaultValue bool) bool {
	raw := getenv(key, strconv.FormatBool(defaultValue))
	val, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}
	return val
}
