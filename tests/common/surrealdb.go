// Package common provides shared test infrastructure.
package common

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bobmcallan/tradejournal/internal/common"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// Namespace holds one database per test.
	Namespace = "tradejournal_test"

	defaultSurrealImage = "surrealdb/surrealdb:v3.0.0"
	surrealPort         = "8000/tcp"
	surrealUser         = "root"
	surrealPass         = "root"
)

var (
	surrealOnce      sync.Once
	surrealContainer *SurrealDB
	surrealError     error
	databaseSeq      atomic.Int64
)

// SurrealDB is a running SurrealDB container shared by every test in the
// process.
type SurrealDB struct {
	container testcontainers.Container
	address   string
}

// DockerEnabled reports whether container-backed tests should run.
func DockerEnabled() bool {
	return os.Getenv("TJ_TEST_DOCKER") == "true"
}

func surrealImage() string {
	if img := os.Getenv("TJ_TEST_SURREAL_IMAGE"); img != "" {
		return img
	}
	return defaultSurrealImage
}

// StartSurrealDB returns the shared container, starting it on first use.
// The test is skipped unless TJ_TEST_DOCKER=true.
func StartSurrealDB(t *testing.T) *SurrealDB {
	t.Helper()

	if !DockerEnabled() {
		t.Skip("set TJ_TEST_DOCKER=true to run SurrealDB tests")
	}

	surrealOnce.Do(func() {
		surrealContainer, surrealError = startSurrealDB(context.Background())
	})
	if surrealError != nil {
		t.Fatalf("SurrealDB container failed: %v", surrealError)
	}
	return surrealContainer
}

func startSurrealDB(ctx context.Context) (*SurrealDB, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        surrealImage(),
			ExposedPorts: []string{surrealPort},
			Cmd:          []string{"start", "--user", surrealUser, "--pass", surrealPass, "memory"},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort(surrealPort),
				wait.ForLog("Started web server"),
			).WithDeadline(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("start SurrealDB container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("get SurrealDB host: %w", err)
	}
	port, err := container.MappedPort(ctx, surrealPort)
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("get SurrealDB port: %w", err)
	}

	return &SurrealDB{
		container: container,
		address:   fmt.Sprintf("ws://%s:%s/rpc", host, port.Port()),
	}, nil
}

// Address returns the WebSocket RPC address.
func (s *SurrealDB) Address() string {
	return s.address
}

// StorageConfig returns a surrealdb storage section pointing at a database
// no other test uses.
func (s *SurrealDB) StorageConfig(t *testing.T) common.StorageConfig {
	t.Helper()
	return common.StorageConfig{
		Backend:   common.BackendSurrealDB,
		Address:   s.address,
		Namespace: Namespace,
		Database:  DatabaseName(t),
		Username:  surrealUser,
		Password:  surrealPass,
		Timeout:   "30s",
	}
}

// DatabaseName derives a database name from the test name. SurrealDB
// rejects the "/" that subtests add.
func DatabaseName(t *testing.T) string {
	name := strings.NewReplacer("/", "_", " ", "_", "-", "_").Replace(t.Name())
	return fmt.Sprintf("t_%s_%d", name, databaseSeq.Add(1))
}

// Cleanup terminates the container. Call from TestMain if needed.
func (s *SurrealDB) Cleanup() {
	if s != nil && s.container != nil {
		s.container.Terminate(context.Background())
	}
}
