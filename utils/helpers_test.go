package utils

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/cppla/network/config"
)

func init() {
	config.Set(config.AppConfig{JWTSecret: "test-secret", GinMode: "test"})
}

// useMiniredis points the shared client at an in-process server for one test.
func useMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	SetRedis(client)
	t.Cleanup(func() {
		SetRedis(nil)
		_ = client.Close()
	})
	return mr
}
