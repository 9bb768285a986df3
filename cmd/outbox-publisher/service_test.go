package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/angelmondragon/lockerbox-backend/pkg/config"
	"github.com/angelmondragon/lockerbox-backend/pkg/db/models"
	"github.com/angelmondragon/lockerbox-backend/pkg/enums"
	"github.com/angelmondragon/lockerbox-backend/pkg/logger"
	"github.com/angelmondragon/lockerbox-backend/pkg/metrics"
	"github.com/angelmondragon/lockerbox-backend/pkg/outbox"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

func TestServiceProcessBatchContinuesAfterFailure(t *testing.T) {
	repo := &fakeRepo{
		events: []models.OutboxEvent{
			{
				ID:            1,
				EventType:     enums.EventOrderCreated,
				AggregateType: enums.AggregateOrder,
				AggregateID:   41,
				Payload:       mustEnvelopePayload(t, "event-one"),
			},
			{
				ID:            2,
				EventType:     enums.EventOrderCreated,
				AggregateType: enums.AggregateOrder,
				AggregateID:   42,
				Payload:       mustEnvelopePayload(t, "event-two"),
			},
		},
	}
	pub := &fakePublisher{
		results: []publishResult{
			fakePublishResult{err: errors.New("transient")},
			fakePublishResult{},
		},
	}
	service := newTestService(t, repo, pub, nil)

	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch returned error: %v", err)
	}
	if !processed {
		t.Fatalf("expected batch to report processed")
	}
	if len(repo.failed) != 1 || repo.failed[0] != 1 {
		t.Fatalf("unexpected failed rows: %v", repo.failed)
	}
	if len(repo.published) != 1 || repo.published[0] != 2 {
		t.Fatalf("unexpected published rows: %v", repo.published)
	}
}

func TestServicePublishCarriesAttributes(t *testing.T) {
	created := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{events: []models.OutboxEvent{{
		ID:            7,
		EventType:     enums.EventOrderStatusChanged,
		AggregateType: enums.AggregateOrder,
		AggregateID:   99,
		Payload:       mustEnvelopePayload(t, "evt-7"),
		CreatedAt:     created,
	}}}
	pub := &fakePublisher{results: []publishResult{fakePublishResult{}}}
	service := newTestService(t, repo, pub, nil)

	if _, err := service.processBatch(context.Background()); err != nil {
		t.Fatalf("process batch returned error: %v", err)
	}
	if len(pub.messages) != 1 {
		t.Fatalf("expected one message, got %d", len(pub.messages))
	}
	attrs := pub.messages[0].Attributes
	want := map[string]string{
		"event_id":       "evt-7",
		"event_type":     "order_status_changed",
		"aggregate_type": "order",
		"aggregate_id":   "99",
		"created_at":     created.Format(time.RFC3339Nano),
	}
	for k, v := range want {
		if attrs[k] != v {
			t.Fatalf("attribute %s = %q, want %q", k, attrs[k], v)
		}
	}
}

func TestServiceProcessBatchParksUndecodablePayload(t *testing.T) {
	repo := &fakeRepo{events: []models.OutboxEvent{{
		ID:            3,
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   5,
		Payload:       json.RawMessage(`"not an envelope"`),
	}}}
	pub := &fakePublisher{}
	service := newTestService(t, repo, pub, nil)

	if _, err := service.processBatch(context.Background()); err != nil {
		t.Fatalf("process batch returned error: %v", err)
	}
	if len(repo.terminal) != 1 || repo.terminal[0] != 3 {
		t.Fatalf("expected row 3 parked, got %v", repo.terminal)
	}
	if len(pub.messages) != 0 {
		t.Fatalf("undecodable row must not be published")
	}
}

func TestServiceProcessBatchParksOnMaxAttempts(t *testing.T) {
	repo := &fakeRepo{events: []models.OutboxEvent{{
		ID:            4,
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   8,
		Payload:       mustEnvelopePayload(t, "max-attempts"),
		AttemptCount:  1,
	}}}
	pub := &fakePublisher{results: []publishResult{fakePublishResult{err: errors.New("transient")}}}
	reg := prometheus.NewRegistry()
	service := newTestService(t, repo, pub, &config.OutboxConfig{
		BatchSize:      1,
		PollIntervalMS: 100,
		MaxAttempts:    2,
	})
	service.metrics = metrics.NewRelayMetrics(reg)

	if _, err := service.processBatch(context.Background()); err != nil {
		t.Fatalf("process batch returned error: %v", err)
	}
	if len(repo.terminal) != 1 || repo.terminal[0] != 4 {
		t.Fatalf("expected row 4 parked, got %v", repo.terminal)
	}
	if len(repo.failed) != 0 {
		t.Fatalf("parked row must not also be marked failed")
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, mf := range mfs {
		if mf.GetName() == "outbox_publish_failed_total" {
			found = mf.GetMetric()[0].GetCounter().GetValue() == 1
		}
	}
	if !found {
		t.Fatalf("expected failure counter to be 1")
	}
}

func TestNextBackoffCaps(t *testing.T) {
	base := 500 * time.Millisecond
	if got := nextBackoff(0, base, maxBackoff); got != time.Second {
		t.Fatalf("expected 1s, got %v", got)
	}
	if got := nextBackoff(8*time.Second, base, maxBackoff); got != maxBackoff {
		t.Fatalf("expected cap %v, got %v", maxBackoff, got)
	}
}

func newTestService(t *testing.T, repo outboxRepository, pub publisher, outboxCfgOverride *config.OutboxConfig) *Service {
	outboxCfg := config.OutboxConfig{
		BatchSize:      2,
		PollIntervalMS: 100,
		MaxAttempts:    5,
	}
	if outboxCfgOverride != nil {
		outboxCfg = *outboxCfgOverride
	}
	cfg := &config.Config{
		Outbox: outboxCfg,
		PubSub: config.PubSubConfig{OrdersTopic: "orders-topic", MachinesTopic: "machines-topic"},
	}
	logg := logger.New(logger.Options{
		ServiceName: "outbox-publisher-test",
		Output:      io.Discard,
	})
	service, err := NewService(ServiceParams{
		Config:     cfg,
		Logger:     logg,
		DB:         &fakeDB{},
		PubSub:     &fakePubSubClient{},
		Repository: repo,
		Publisher:  pub,
	})
	if err != nil {
		t.Fatalf("failed to construct service: %v", err)
	}
	return service
}

func mustEnvelopePayload(tb testing.TB, eventID string) json.RawMessage {
	tb.Helper()
	env := outbox.PayloadEnvelope{
		Version:    1,
		EventID:    eventID,
		OccurredAt: time.Now(),
		Data:       json.RawMessage(`{}`),
	}
	payload, err := json.Marshal(env)
	if err != nil {
		tb.Fatalf("marshal envelope: %v", err)
	}
	return payload
}

type fakeRepo struct {
	events    []models.OutboxEvent
	published []uint
	failed    []uint
	terminal  []uint
}

func (f *fakeRepo) FetchUnpublishedForPublish(tx *gorm.DB, limit, maxAttempts int) ([]models.OutboxEvent, error) {
	return f.events, nil
}

func (f *fakeRepo) MarkPublishedTx(tx *gorm.DB, id uint) error {
	f.published = append(f.published, id)
	return nil
}

func (f *fakeRepo) MarkFailedTx(tx *gorm.DB, id uint, err error) error {
	f.failed = append(f.failed, id)
	return nil
}

func (f *fakeRepo) MarkTerminalTx(tx *gorm.DB, id uint, err error, attempts int) error {
	f.terminal = append(f.terminal, id)
	return nil
}

func (f *fakeRepo) Stats(ctx context.Context, maxAttempts int) (outbox.Stats, error) {
	return outbox.Stats{}, nil
}

type fakeDB struct{}

func (f *fakeDB) Ping(context.Context) error {
	return nil
}

func (f *fakeDB) WithTx(_ context.Context, fn func(*gorm.DB) error) error {
	return fn(nil)
}

type fakePubSubClient struct{}

func (f *fakePubSubClient) Ping(context.Context) error {
	return nil
}

func (f *fakePubSubClient) PublisherFor(enums.OutboxAggregateType) *gcppubsub.Publisher {
	return nil
}

type fakePublisher struct {
	results  []publishResult
	messages []*gcppubsub.Message
}

func (f *fakePublisher) Publish(_ context.Context, msg *gcppubsub.Message) publishResult {
	f.messages = append(f.messages, msg)
	if len(f.results) == 0 {
		return nil
	}
	result := f.results[0]
	f.results = f.results[1:]
	return result
}

type fakePublishResult struct {
	err error
}

func (f fakePublishResult) Get(context.Context) (string, error) {
	return "", f.err
}

func TestServiceProcessBatchPublishesBeforeWaiting(t *testing.T) {
	repo := &fakeRepo{events: []models.OutboxEvent{
		{ID: 10, EventType: enums.EventOrderCreated, AggregateType: enums.AggregateOrder, AggregateID: 1, Payload: mustEnvelopePayload(t, "a")},
		{ID: 11, EventType: enums.EventOrderCreated, AggregateType: enums.AggregateOrder, AggregateID: 2, Payload: mustEnvelopePayload(t, "b")},
	}}
	pub := &fakePublisher{}
	pub.results = []publishResult{
		orderedResult{pub: pub, wantQueued: 2},
		orderedResult{pub: pub, wantQueued: 2},
	}
	service := newTestService(t, repo, pub, nil)

	if _, err := service.processBatch(context.Background()); err != nil {
		t.Fatalf("process batch returned error: %v", err)
	}
	if len(repo.published) != 2 {
		t.Fatalf("expected both rows published, got %v (failed %v)", repo.published, repo.failed)
	}
}

func TestServiceProcessBatchEmpty(t *testing.T) {
	service := newTestService(t, &fakeRepo{}, &fakePublisher{}, nil)
	processed, err := service.processBatch(context.Background())
	if err != nil || processed {
		t.Fatalf("expected idle batch, processed=%v err=%v", processed, err)
	}
}

// orderedResult fails unless every message of the batch was queued before Get.
type orderedResult struct {
	pub        *fakePublisher
	wantQueued int
}

func (r orderedResult) Get(context.Context) (string, error) {
	if len(r.pub.messages) != r.wantQueued {
		return "", errors.New("result awaited before batch was queued")
	}
	return "server-id", nil
}

func TestServiceParksEventsWithoutTopic(t *testing.T) {
	repo := &fakeRepo{events: []models.OutboxEvent{
		{ID: 20, EventType: enums.EventVendingMachineCreated, AggregateType: enums.AggregateVendingMachine, AggregateID: 3, Payload: mustEnvelopePayload(t, "vm")},
		{ID: 21, EventType: enums.EventOrderCreated, AggregateType: enums.AggregateOrder, AggregateID: 4, Payload: mustEnvelopePayload(t, "order")},
	}}
	pub := &fakePublisher{results: []publishResult{fakePublishResult{}}}
	service := newTestService(t, repo, pub, nil)
	service.topics.MachinesTopic = ""

	if _, err := service.processBatch(context.Background()); err != nil {
		t.Fatalf("process batch returned error: %v", err)
	}
	if len(repo.terminal) != 1 || repo.terminal[0] != 20 {
		t.Fatalf("expected machine event parked, got %v", repo.terminal)
	}
	if len(repo.published) != 1 || repo.published[0] != 21 {
		t.Fatalf("expected order event published, got %v", repo.published)
	}
}

func TestServiceRouteWithoutPublisherFails(t *testing.T) {
	service := newTestService(t, &fakeRepo{}, nil, nil)
	if _, _, err := service.route(enums.AggregateOrder); err == nil || errors.Is(err, errUndeliverable) {
		t.Fatalf("expected retryable routing error, got %v", err)
	}
	if _, topic, err := service.route(enums.AggregateVendingMachine); err == nil || topic != "" {
		t.Fatalf("expected machine routing to fail without a publisher, topic=%q err=%v", topic, err)
	}
}
