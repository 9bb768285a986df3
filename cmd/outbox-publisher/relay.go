package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"gorm.io/gorm"

	"github.com/angelmondragon/lockerbox-backend/pkg/db/models"
	"github.com/angelmondragon/lockerbox-backend/pkg/outbox"
)

const (
	publishTimeout = 15 * time.Second
	maxBackoff     = 10 * time.Second
	jitterWindow   = 250 * time.Millisecond
)

// errUndeliverable marks rows whose payload can never be published.
var errUndeliverable = errors.New("undeliverable outbox event")

// pending is one claimed row whose publish has been handed to the client.
type pending struct {
	event    models.OutboxEvent
	envelope outbox.PayloadEnvelope
	topic    string
	result   publishResult
}

// processBatch claims up to batchSize rows, hands every decodable one to the
// publisher before waiting on any result so the client can batch them, then
// settles each row in claim order. It reports whether any row was claimed.
func (s *Service) processBatch(ctx context.Context) (bool, error) {
	claimed := false
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		events, err := s.repo.FetchUnpublishedForPublish(tx, s.batchSize, s.maxAttempts)
		if err != nil || len(events) == 0 {
			return err
		}
		claimed = true

		publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()

		inflight := make([]pending, 0, len(events))
		for _, event := range events {
			envelope, err := outbox.DecodeEnvelope(event.Payload)
			if err != nil {
				if err := s.park(ctx, tx, event, fmt.Errorf("%w: %v", errUndeliverable, err)); err != nil {
					return err
				}
				continue
			}
			pub, topic, err := s.route(event.AggregateType)
			if errors.Is(err, errUndeliverable) {
				if err := s.park(ctx, tx, event, err); err != nil {
					return err
				}
				continue
			}
			if err != nil {
				return err
			}
			inflight = append(inflight, pending{
				event:    event,
				envelope: envelope,
				topic:    topic,
				result:   pub.Publish(publishCtx, &gcppubsub.Message{Data: event.Payload, Attributes: messageAttributes(event, envelope)}),
			})
		}

		for _, p := range inflight {
			if err := s.settle(publishCtx, ctx, tx, p); err != nil {
				return err
			}
		}
		return nil
	})
	return claimed, err
}

// settle waits for one publish and records the outcome on its row.
func (s *Service) settle(publishCtx, ctx context.Context, tx *gorm.DB, p pending) error {
	fields := eventFields(p.event, p.envelope)
	fields["topic"] = p.topic

	var pubErr error
	if p.result == nil {
		pubErr = errors.New("publisher returned no result")
	} else {
		_, pubErr = p.result.Get(publishCtx)
	}

	if pubErr == nil {
		if err := s.repo.MarkPublishedTx(tx, p.event.ID); err != nil {
			return fmt.Errorf("mark published %d: %w", p.event.ID, err)
		}
		s.metrics.IncPublished(string(p.event.EventType))
		s.logg.Info(s.logg.WithFields(ctx, fields), "outbox event published")
		return nil
	}

	s.metrics.IncFailed(string(p.event.EventType))
	attempt := p.event.AttemptCount + 1
	if attempt >= s.maxAttempts {
		return s.park(ctx, tx, p.event, fmt.Errorf("max publish attempts reached: %w", pubErr))
	}

	fields["attempt_count"] = attempt
	fields["error"] = pubErr.Error()
	s.logg.Warn(s.logg.WithFields(ctx, fields), "outbox publish failed")
	if err := s.repo.MarkFailedTx(tx, p.event.ID, pubErr); err != nil {
		return fmt.Errorf("mark failure %d: %w", p.event.ID, err)
	}
	return nil
}

// park moves a row past maxAttempts so it is never claimed again.
func (s *Service) park(ctx context.Context, tx *gorm.DB, event models.OutboxEvent, cause error) error {
	fields := eventFields(event, outbox.PayloadEnvelope{})
	fields["error"] = cause.Error()
	s.logg.Warn(s.logg.WithFields(ctx, fields), "outbox event will not be retried")

	if err := s.repo.MarkTerminalTx(tx, event.ID, cause, s.maxAttempts); err != nil {
		return fmt.Errorf("mark terminal %d: %w", event.ID, err)
	}
	return nil
}

func messageAttributes(event models.OutboxEvent, envelope outbox.PayloadEnvelope) map[string]string {
	return map[string]string{
		"event_id":       envelope.EventID,
		"event_type":     string(event.EventType),
		"aggregate_type": string(event.AggregateType),
		"aggregate_id":   strconv.FormatUint(uint64(event.AggregateID), 10),
		"created_at":     event.CreatedAt.Format(time.RFC3339Nano),
	}
}

func eventFields(event models.OutboxEvent, envelope outbox.PayloadEnvelope) map[string]any {
	fields := map[string]any{
		"outbox_id":      event.ID,
		"event_type":     event.EventType,
		"aggregate_type": event.AggregateType,
		"aggregate_id":   event.AggregateID,
		"attempt_count":  event.AttemptCount,
	}
	if envelope.EventID != "" {
		fields["event_id"] = envelope.EventID
		fields["occurred_at"] = envelope.OccurredAt.Format(time.RFC3339Nano)
	}
	if event.LastError != nil {
		fields["last_error"] = *event.LastError
	}
	return fields
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// nextBackoff doubles current (base when unset) and caps it at max.
func nextBackoff(current, base, max time.Duration) time.Duration {
	if current <= 0 {
		current = base
	}
	return min(current*2, max)
}

func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return d + rand.N(jitterWindow)
}
