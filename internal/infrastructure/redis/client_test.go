package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	s := miniredis.RunT(t)

	ctx := context.Background()
	client, err := NewClient(ctx, "redis://"+s.Addr()+"/2", Options{PoolSize: 4, DialTimeout: time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.Equal(t, 4, client.Options().PoolSize)
	assert.Equal(t, time.Second, client.Options().DialTimeout)
	assert.Equal(t, 2, client.Options().DB)

	require.NoError(t, client.Set(ctx, "vault:v1:balances", "{}", 0).Err())
	s.Select(2)
	assert.True(t, s.Exists("vault:v1:balances"))
}

func TestNewClientKeepsURLDefaults(t *testing.T) {
	s := miniredis.RunT(t)

	client, err := NewClient(context.Background(), "redis://"+s.Addr(), Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.Positive(t, client.Options().PoolSize)
}

func TestNewClientErrors(t *testing.T) {
	down := miniredis.RunT(t)
	downURL := "redis://" + down.Addr()
	down.Close()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "invalid url", url: "://bad-url", want: "parse redis URL"},
		{name: "server down", url: downURL, want: "ping redis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(context.Background(), tt.url, Options{DialTimeout: 200 * time.Millisecond})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
