package redisad_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	redisad "azurea_hotel/internal/adapters/redis"
)

func TestCache_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	type stats struct {
		ActiveBookings int
		Revenue        string
	}

	// miss before set
	var got stats
	ok, err := c.Get(ctx, "dashboard:stats:v1", &got)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("expected miss on empty cache")
	}

	want := stats{ActiveBookings: 3, Revenue: "1500.00"}
	if err := c.Set(ctx, "dashboard:stats:v1", want, 60); err != nil {
		t.Fatalf("set: %v", err)
	}

	ok, err = c.Get(ctx, "dashboard:stats:v1", &got)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || got != want {
		t.Fatalf("unexpected cached value: ok=%v got=%+v", ok, got)
	}

	// Keys are stored under the azurea: namespace with their TTL applied
	// so availability snapshots expire on their own
	if !mr.Exists("azurea:dashboard:stats:v1") {
		t.Fatalf("expected namespaced key, have %v", mr.Keys())
	}
	if mr.TTL("azurea:dashboard:stats:v1") <= 0 {
		t.Fatalf("expected a positive TTL")
	}

	if err := c.Del(ctx, "dashboard:stats:v1"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if ok, _ := c.Get(ctx, "dashboard:stats:v1", &got); ok {
		t.Fatalf("expected miss after del")
	}
}
