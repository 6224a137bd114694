package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/entity"
	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/repository"
	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/testutil"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisIdempotencyStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisIdempotencyStore(rdb, ttl), mr
}

func sampleOrder() *entity.Order {
	productID := 1
	return &entity.Order{
		CustomerName:  "Ivan",
		CustomerPhone: "+7",
		ProductID:     &productID,
		Quantity:      1,
		TotalPrice:    decimal.RequireFromString("1500.5"),
	}
}

func TestRedisIdempotencyStore(t *testing.T) {
	store, mr := newRedisStore(t, time.Hour)
	ctx := context.Background()

	ok, err := store.Reserve(ctx, "k1")
	if err != nil || !ok {
		t.Fatalf("first Reserve() = %v, %v", ok, err)
	}
	ok, err = store.Reserve(ctx, "k1")
	if err != nil || ok {
		t.Fatalf("second Reserve() = %v, %v; want false", ok, err)
	}
	if ttl := mr.TTL("idempotent-key:k1"); ttl != time.Hour {
		t.Errorf("TTL = %v, want 1h", ttl)
	}

	mr.FastForward(2 * time.Hour)
	ok, err = store.Reserve(ctx, "k1")
	if err != nil || !ok {
		t.Fatalf("Reserve() after expiry = %v, %v", ok, err)
	}

	if err := store.Release(ctx, "k1"); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if mr.Exists("idempotent-key:k1") {
		t.Error("key should be gone after Release")
	}
}

func TestOrderServiceRejectsRepeatedKey(t *testing.T) {
	repo := repository.NewOrderRepository(testutil.OpenInMemoryDB(t))
	store, _ := newRedisStore(t, time.Hour)
	orders := NewOrderService(repo, store, nil)
	ctx := context.Background()

	if _, err := orders.CreateOrder(ctx, sampleOrder(), "abc"); err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if _, err := orders.CreateOrder(ctx, sampleOrder(), "abc"); !errors.Is(err, ErrDuplicateIdempotentKey) {
		t.Fatalf("expected ErrDuplicateIdempotentKey, got %v", err)
	}
	// no key, no check
	if _, err := orders.CreateOrder(ctx, sampleOrder(), ""); err != nil {
		t.Fatalf("CreateOrder() without key error = %v", err)
	}

	list, err := orders.ListOrders(ctx)
	if err != nil {
		t.Fatalf("ListOrders() error = %v", err)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 orders, got %d", len(list))
	}
}

func TestOrderServicePublishesEvents(t *testing.T) {
	repo := repository.NewOrderRepository(testutil.OpenInMemoryDB(t))
	writer := &fakeWriter{}
	orders := NewOrderService(repo, nil, NewKafkaPublisher(writer))
	ctx := context.Background()

	id, err := orders.CreateOrder(ctx, sampleOrder(), "")
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if err := orders.UpdateStatus(ctx, id, entity.OrderStatusProcessing); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	if len(writer.messages) != 2 {
		t.Fatalf("expected 2 events, got %d", len(writer.messages))
	}
	if got := string(writer.messages[0].Key); got != "order-created-1" {
		t.Errorf("first key = %q, want order-created-1", got)
	}
	if got := string(writer.messages[1].Key); got != "order-updated-1" {
		t.Errorf("second key = %q, want order-updated-1", got)
	}

	var payload struct {
		ID     int    `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(writer.messages[1].Value, &payload); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if payload.ID != id || payload.Status != entity.OrderStatusProcessing {
		t.Errorf("unexpected payload: %+v", payload)
	}
}

func TestOrderServiceIgnoresPublishFailure(t *testing.T) {
	repo := repository.NewOrderRepository(testutil.OpenInMemoryDB(t))
	writer := &fakeWriter{err: errors.New("broker down")}
	orders := NewOrderService(repo, nil, NewKafkaPublisher(writer))

	id, err := orders.CreateOrder(context.Background(), sampleOrder(), "")
	if err != nil {
		t.Fatalf("CreateOrder() should succeed when publishing fails, got %v", err)
	}
	if id == 0 {
		t.Error("expected an order id")
	}
}
