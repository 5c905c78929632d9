package queue

import (
	"testing"
	"time"

	"github.com/catalog-next/internal/config"
)

func TestDiscountExpireTaskPayload(t *testing.T) {
	task, err := NewDiscountExpireTask(DiscountExpirePayload{ApplicationID: 12, ProductID: 3})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != TaskDiscountExpire {
		t.Fatalf("task type want %s got %s", TaskDiscountExpire, task.Type())
	}
	payload, err := ParseDiscountExpirePayload(task)
	if err != nil {
		t.Fatalf("parse payload failed: %v", err)
	}
	if payload.ApplicationID != 12 || payload.ProductID != 3 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if _, err := ParseDiscountExpirePayload(nil); err == nil {
		t.Fatalf("nil task should fail to parse")
	}
}

func TestDisabledClientSkipsEnqueue(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("client should be disabled")
	}
	if err := client.EnqueueDiscountExpire(DiscountExpirePayload{ApplicationID: 1}, time.Hour); err != nil {
		t.Fatalf("disabled enqueue should be noop, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close disabled client failed: %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(nil)
	if opt.Addr != "127.0.0.1:6379" {
		t.Fatalf("addr want 127.0.0.1:6379 got %s", opt.Addr)
	}
	if cfg.Concurrency != 5 {
		t.Fatalf("concurrency want 5 got %d", cfg.Concurrency)
	}
	if _, ok := cfg.Queues[DiscountQueue]; !ok {
		t.Fatalf("discount queue should be served by default")
	}

	opt, cfg = BuildServerConfig(&config.QueueConfig{Host: "redis", Port: 6380, DB: 2, Concurrency: 3, Queues: map[string]int{"discount": 2}})
	if opt.Addr != "redis:6380" || opt.DB != 2 {
		t.Fatalf("unexpected redis opt: %+v", opt)
	}
	if cfg.Concurrency != 3 || cfg.Queues["discount"] != 2 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
}
