package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/cartkeeper/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		ServerHost:            "127.0.0.1",
		ServerPort:            8080,
		LogLevel:              "error",
		StoreDriver:           "memory",
		StoreOperationTimeout: 5 * time.Second,
		ReminderDispatcher:    "log",
		ActivityWindow:        5 * time.Minute,
		ReminderStepDelays: [4]time.Duration{
			time.Hour, 24 * time.Hour, 72 * time.Hour, 168 * time.Hour,
		},
	}
}

func TestContainer_MemoryDriverWiring(t *testing.T) {
	container := NewContainer(testConfig())

	store, err := container.Store()
	require.NoError(t, err)
	assert.NotNil(t, store)

	activityUseCase, err := container.ActivityUseCase()
	require.NoError(t, err)
	assert.NotNil(t, activityUseCase)

	sweepUseCase, err := container.SweepUseCase()
	require.NoError(t, err)
	assert.NotNil(t, sweepUseCase)

	maintenanceUseCase, err := container.MaintenanceUseCase()
	require.NoError(t, err)
	assert.NotNil(t, maintenanceUseCase)

	server, err := container.HTTPServer()
	require.NoError(t, err)
	assert.NotNil(t, server)

	// Metrics disabled: no provider and no metrics server.
	provider, err := container.MetricsProvider()
	require.NoError(t, err)
	assert.Nil(t, provider)

	metricsServer, err := container.MetricsServer()
	require.NoError(t, err)
	assert.Nil(t, metricsServer)

	assert.NoError(t, container.Shutdown(context.Background()))
}

func TestContainer_MetricsEnabled(t *testing.T) {
	cfg := testConfig()
	cfg.MetricsEnabled = true
	cfg.MetricsNamespace = "cartkeeper_di_test"
	cfg.MetricsPort = 8081

	container := NewContainer(cfg)

	provider, err := container.MetricsProvider()
	require.NoError(t, err)
	assert.NotNil(t, provider)

	metricsServer, err := container.MetricsServer()
	require.NoError(t, err)
	assert.NotNil(t, metricsServer)

	assert.NoError(t, container.Shutdown(context.Background()))
}

func TestContainer_UnsupportedStoreDriver(t *testing.T) {
	cfg := testConfig()
	cfg.StoreDriver = "cassandra"

	container := NewContainer(cfg)

	store, err := container.Store()
	assert.Nil(t, store)
	assert.Error(t, err)

	// The failure is sticky across accesses.
	_, err2 := container.Store()
	assert.Equal(t, err, err2)
}

func TestContainer_UnsupportedReminderDispatcher(t *testing.T) {
	cfg := testConfig()
	cfg.ReminderDispatcher = "carrier-pigeon"

	container := NewContainer(cfg)

	sender, err := container.ReminderSender()
	assert.Nil(t, sender)
	assert.Error(t, err)
}
