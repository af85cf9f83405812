package db

import (
	"context"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNewRedisClientInvalidURL(t *testing.T) {
	if _, err := NewRedisClient(context.Background(), "not-a-url", zap.NewNop()); err == nil {
		t.Error("expected an error for an invalid url")
	}
}

func TestNewRedisClientUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := NewRedisClient(ctx, "redis://127.0.0.1:1/0", zap.NewNop()); err == nil {
		t.Error("expected an error when redis is unreachable")
	}
}

func TestNewRedisClient(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	client, err := NewRedisClient(context.Background(), url, zap.NewNop())
	if err != nil {
		t.Fatalf("NewRedisClient() = %v", err)
	}
	defer client.Close()
}
