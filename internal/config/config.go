package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Mongo MongoConfig
	Seed  SeedConfig
	Redis RedisConfig
	Kafka KafkaConfig
	Log   LogConfig
}

type MongoConfig struct {
	URI            string
	Database       string // overrides the fixtures database when set
	ConnectTimeout time.Duration
	ConnectRetries int
	RetryInterval  time.Duration
}

type SeedConfig struct {
	FixturesFile string
}

// RedisConfig enables the seed lock when Addr is set.
type RedisConfig struct {
	Addr    string
	LockTTL time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Enabled bool
	Topics  TopicConfig
}

type TopicConfig struct {
	EventsSeeded string
}

type LogConfig struct {
	Dir     string
	Verbose bool
}

func Load() *Config {
	return &Config{
		Mongo: MongoConfig{
			URI:            getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGO_DATABASE", ""),
			ConnectTimeout: getEnvSeconds("MONGO_CONNECT_TIMEOUT_SECONDS", 10),
			ConnectRetries: getEnvInt("MONGO_CONNECT_RETRIES", 5),
			RetryInterval:  2 * time.Second,
		},
		Seed: SeedConfig{
			FixturesFile: getEnv("SEED_FIXTURES_FILE", ""),
		},
		Redis: RedisConfig{
			Addr:    getEnv("REDIS_ADDR", ""),
			LockTTL: getEnvSeconds("SEED_LOCK_TTL_SECONDS", 60),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvList("KAFKA_BROKERS", []string{"localhost:9092"}),
			Enabled: getEnvBool("KAFKA_ENABLED", false),
			Topics: TopicConfig{
				EventsSeeded: getEnv("KAFKA_TOPIC_EVENTS_SEEDED", "event-service.events.seeded"),
			},
		},
		Log: LogConfig{
			// LOG_DIR set to an empty value disables the JSON log file.
			Dir:     getEnvAllowEmpty("LOG_DIR", "logs"),
			Verbose: getEnvBool("LOG_VERBOSE", false),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAllowEmpty(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvSeconds(key string, defaultSeconds int) time.Duration {
	return time.Duration(getEnvInt(key, defaultSeconds)) * time.Second
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
