// Package testutil starts throwaway containers for integration tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const mongoImage = "mongo:7"

// StartMongo runs a MongoDB container for the lifetime of the test and
// returns its connection string. It skips the test in short mode.
func StartMongo(t testing.TB) string {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping MongoDB integration test in short mode")
	}

	ctx := context.Background()
	mongoContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        mongoImage,
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	testcontainers.CleanupContainer(t, mongoContainer)
	if err != nil {
		t.Fatalf("Failed to start MongoDB container: %v", err)
	}

	endpoint, err := mongoContainer.PortEndpoint(ctx, "27017/tcp", "mongodb")
	if err != nil {
		t.Fatalf("Failed to resolve MongoDB endpoint: %v", err)
	}
	return endpoint
}
