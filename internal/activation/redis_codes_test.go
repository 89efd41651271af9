package activation

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupRedisRegister(t *testing.T) (*RedisCodeRegister, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisCodeRegister(client, 5*time.Minute), mr
}

func TestRedisCodeRegisterConsume(t *testing.T) {
	reg, _ := setupRedisRegister(t)
	ctx := context.Background()

	if err := reg.Put(ctx, "a@x.com", "654321"); err != nil {
		t.Fatalf("put: %v", err)
	}

	ok, err := reg.Consume(ctx, "a@x.com", "111111")
	if err != nil {
		t.Fatalf("consume mismatch: %v", err)
	}
	if ok {
		t.Fatal("mismatched code must not consume")
	}

	// A mismatch must leave the stored code intact.
	ok, err = reg.Consume(ctx, "a@x.com", "654321")
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if !ok {
		t.Fatal("matching code must consume")
	}

	ok, err = reg.Consume(ctx, "a@x.com", "654321")
	if err != nil {
		t.Fatalf("second consume: %v", err)
	}
	if ok {
		t.Fatal("codes are single-use")
	}
}

func TestRedisCodeRegisterExpiry(t *testing.T) {
	reg, mr := setupRedisRegister(t)
	ctx := context.Background()

	if err := reg.Put(ctx, "a@x.com", "654321"); err != nil {
		t.Fatalf("put: %v", err)
	}

	mr.FastForward(6 * time.Minute)

	ok, err := reg.Consume(ctx, "a@x.com", "654321")
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if ok {
		t.Fatal("expired code must not consume")
	}
}

func TestRedisCodeRegisterOverwrite(t *testing.T) {
	reg, _ := setupRedisRegister(t)
	ctx := context.Background()

	if err := reg.Put(ctx, "a@x.com", "111111"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := reg.Put(ctx, "a@x.com", "222222"); err != nil {
		t.Fatalf("put: %v", err)
	}

	ok, err := reg.Consume(ctx, "a@x.com", "111111")
	if err != nil || ok {
		t.Fatalf("stale code must not consume, ok=%v err=%v", ok, err)
	}
	ok, err = reg.Consume(ctx, "a@x.com", "222222")
	if err != nil || !ok {
		t.Fatalf("latest code must consume, ok=%v err=%v", ok, err)
	}
}
