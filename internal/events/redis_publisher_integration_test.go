//go:build integration

package events

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/NomadCrew/contact-intake/types"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedisContainer(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedisPublisher_PublishAndSubscribe(t *testing.T) {
	rdb := setupRedisContainer(t)
	p := NewRedisPublisher(rdb, nil, DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received, err := p.Subscribe(ctx)
	require.NoError(t, err)

	event := sampleEvent(t)
	require.NoError(t, p.Publish(ctx, event))

	select {
	case got := <-received:
		assert.Equal(t, event.ID, got.ID)
		assert.Equal(t, types.EventTypeSubmissionCreated, got.Type)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for event")
	}

	cancel()
	_, open := <-received
	assert.False(t, open)
}
