package pubsub

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GTDGit/ministore_api/internal/config"
)

func TestNewRedisBrokerUnreachable(t *testing.T) {
	_, err := NewRedisBroker(&config.RedisConfig{Host: "127.0.0.1", Port: "1", Channel: "ministore:pedidos"})
	assert.ErrorContains(t, err, "redis connection failed")
}
