package utils

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckHealth(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	status := CheckHealth(context.Background(), []*redis.Client{client}, nil)
	assert.Equal(t, []bool{true}, status.Redis)
	assert.Nil(t, status.Mongo)
	assert.True(t, status.Healthy())
	assert.Equal(t, status, GetHealthStatus())

	mr.Close()
	status = CheckHealth(context.Background(), []*redis.Client{client}, nil)
	assert.Equal(t, []bool{false}, status.Redis)
	assert.False(t, status.Healthy())
	assert.False(t, GetHealthStatus().Healthy())
}
