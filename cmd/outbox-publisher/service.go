package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"gorm.io/gorm"

	"github.com/angelmondragon/lockerbox-backend/pkg/config"
	"github.com/angelmondragon/lockerbox-backend/pkg/db/models"
	"github.com/angelmondragon/lockerbox-backend/pkg/enums"
	"github.com/angelmondragon/lockerbox-backend/pkg/logger"
	"github.com/angelmondragon/lockerbox-backend/pkg/metrics"
	"github.com/angelmondragon/lockerbox-backend/pkg/outbox"
	"github.com/angelmondragon/lockerbox-backend/pkg/pubsub"
)

const (
	defaultBatchSize   = 50
	defaultPoll        = 500 * time.Millisecond
	defaultMaxAttempts = 10
)

type dbClient interface {
	Ping(context.Context) error
	WithTx(context.Context, func(tx *gorm.DB) error) error
}

type pubSubClient interface {
	Ping(context.Context) error
	PublisherFor(enums.OutboxAggregateType) *gcppubsub.Publisher
}

type outboxRepository interface {
	FetchUnpublishedForPublish(tx *gorm.DB, limit, maxAttempts int) ([]models.OutboxEvent, error)
	MarkPublishedTx(tx *gorm.DB, id uint) error
	MarkFailedTx(tx *gorm.DB, id uint, err error) error
	MarkTerminalTx(tx *gorm.DB, id uint, err error, attempts int) error
	Stats(ctx context.Context, maxAttempts int) (outbox.Stats, error)
}

type ServiceParams struct {
	Config     *config.Config
	Logger     *logger.Logger
	DB         dbClient
	PubSub     pubSubClient
	Repository outboxRepository
	// Publisher replaces the per-aggregate publishers taken from PubSub.
	Publisher publisher
	Metrics   *metrics.RelayMetrics
}

// Service relays outbox rows to the topic of their aggregate. Rows are claimed
// inside a transaction, so several relays can run side by side.
type Service struct {
	logg         *logger.Logger
	db           dbClient
	repo         outboxRepository
	pubsub       pubSubClient
	override     publisher
	publishers   map[enums.OutboxAggregateType]publisher
	topics       config.PubSubConfig
	metrics      *metrics.RelayMetrics
	batchSize    int
	maxAttempts  int
	pollInterval time.Duration
}

func NewService(params ServiceParams) (*Service, error) {
	switch {
	case params.Config == nil:
		return nil, errors.New("config is required")
	case params.Logger == nil:
		return nil, errors.New("logger is required")
	case params.DB == nil:
		return nil, errors.New("database client is required")
	case params.PubSub == nil:
		return nil, errors.New("pubsub client is required")
	case params.Repository == nil:
		return nil, errors.New("outbox repository is required")
	}

	cfg := params.Config.Outbox
	return &Service{
		logg:         params.Logger,
		db:           params.DB,
		repo:         params.Repository,
		pubsub:       params.PubSub,
		override:     params.Publisher,
		publishers:   map[enums.OutboxAggregateType]publisher{},
		topics:       params.Config.PubSub,
		metrics:      params.Metrics,
		batchSize:    positiveOr(cfg.BatchSize, defaultBatchSize),
		maxAttempts:  positiveOr(cfg.MaxAttempts, defaultMaxAttempts),
		pollInterval: time.Duration(positiveOr(cfg.PollIntervalMS, int(defaultPoll/time.Millisecond))) * time.Millisecond,
	}, nil
}

// Run polls until ctx is cancelled. A full batch is followed immediately by the
// next one; an empty batch waits one poll interval; a failed batch backs off
// exponentially up to maxBackoff.
func (s *Service) Run(ctx context.Context) error {
	for name, ping := range map[string]func(context.Context) error{"database": s.db.Ping, "pubsub": s.pubsub.Ping} {
		if err := ping(ctx); err != nil {
			s.logg.Error(ctx, name+" ping failed", err)
			return fmt.Errorf("%s ping failed: %w", name, err)
		}
	}

	backoff := s.pollInterval
	for {
		if err := ctx.Err(); err != nil {
			s.logg.Info(ctx, "outbox publisher context canceled")
			return err
		}

		start := time.Now()
		processed, err := s.processBatch(ctx)
		s.metrics.ObserveBatch(time.Since(start))
		s.reportBacklog(ctx)

		var wait time.Duration
		switch {
		case err != nil:
			s.logg.Error(ctx, "outbox publisher batch error", err)
			backoff = nextBackoff(backoff, s.pollInterval, maxBackoff)
			wait = withJitter(backoff)
		case processed:
			backoff = s.pollInterval
			continue
		default:
			backoff = s.pollInterval
			wait = withJitter(s.pollInterval)
		}
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
}

func (s *Service) reportBacklog(ctx context.Context) {
	if s.metrics == nil {
		return
	}
	stats, err := s.repo.Stats(ctx, s.maxAttempts)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "outbox stats unavailable")
		return
	}
	s.metrics.SetPending(stats.Pending)
	if stats.Stalled > 0 {
		s.logg.Warn(s.logg.WithField(ctx, "stalled", stats.Stalled), "outbox events exhausted their attempts")
	}
}

// route resolves the publisher and topic id for an aggregate. Publishers are
// created on first use and reused for the life of the service.
func (s *Service) route(aggregate enums.OutboxAggregateType) (publisher, string, error) {
	topic, ok := pubsub.TopicFor(s.topics, aggregate)
	if !ok {
		return nil, "", fmt.Errorf("%w: no topic for aggregate %q", errUndeliverable, aggregate)
	}
	if s.override != nil {
		return s.override, topic, nil
	}
	if pub, ok := s.publishers[aggregate]; ok {
		return pub, topic, nil
	}
	pub := newGCPPublisher(s.pubsub.PublisherFor(aggregate))
	if pub == nil {
		return nil, "", fmt.Errorf("publisher unavailable for topic %s", topic)
	}
	s.publishers[aggregate] = pub
	return pub, topic, nil
}

func positiveOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
