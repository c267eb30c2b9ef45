package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"MONGO_URI", "MONGO_DATABASE", "MONGO_CONNECT_TIMEOUT_SECONDS", "MONGO_CONNECT_RETRIES",
		"SEED_FIXTURES_FILE", "REDIS_ADDR", "SEED_LOCK_TTL_SECONDS",
		"KAFKA_BROKERS", "KAFKA_ENABLED", "KAFKA_TOPIC_EVENTS_SEEDED", "LOG_VERBOSE",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Empty(t, cfg.Mongo.Database)
	assert.Equal(t, 10*time.Second, cfg.Mongo.ConnectTimeout)
	assert.Equal(t, 5, cfg.Mongo.ConnectRetries)
	assert.Empty(t, cfg.Seed.FixturesFile)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, time.Minute, cfg.Redis.LockTTL)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "event-service.events.seeded", cfg.Kafka.Topics.EventsSeeded)
	assert.False(t, cfg.Log.Verbose)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://mongo:27017")
	t.Setenv("MONGO_DATABASE", "event_service_test")
	t.Setenv("MONGO_CONNECT_RETRIES", "2")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("SEED_LOCK_TTL_SECONDS", "5")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("LOG_DIR", "")
	t.Setenv("LOG_VERBOSE", "1")

	cfg := Load()

	assert.Equal(t, "mongodb://mongo:27017", cfg.Mongo.URI)
	assert.Equal(t, "event_service_test", cfg.Mongo.Database)
	assert.Equal(t, 2, cfg.Mongo.ConnectRetries)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 5*time.Second, cfg.Redis.LockTTL)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Empty(t, cfg.Log.Dir)
	assert.True(t, cfg.Log.Verbose)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("MONGO_CONNECT_RETRIES", "many")
	t.Setenv("KAFKA_ENABLED", "maybe")

	cfg := Load()

	assert.Equal(t, 5, cfg.Mongo.ConnectRetries)
	assert.False(t, cfg.Kafka.Enabled)
}
