package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/lockerbox-backend/pkg/db/models"
	"github.com/angelmondragon/lockerbox-backend/pkg/enums"
	"github.com/angelmondragon/lockerbox-backend/pkg/logger"
)

type DomainEvent struct {
	EventType   enums.OutboxEventType
	AggregateID uint
	Actor       *ActorRef
	Data        any
	OccurredAt  time.Time
}

// Emitter queues a domain event inside the caller's transaction.
type Emitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event DomainEvent) error
}

type Service struct {
	repo *Repository
	logg *logger.Logger
	now  func() time.Time
}

func NewService(repo *Repository, logg *logger.Logger) *Service {
	return &Service{repo: repo, logg: logg, now: time.Now}
}

// Emit writes the event as an outbox row using tx, so it commits or rolls back
// with the change that caused it. The aggregate type follows from the event type.
func (s *Service) Emit(ctx context.Context, tx *gorm.DB, event DomainEvent) error {
	if tx == nil {
		return errors.New("outbox emit requires a transaction")
	}
	aggregate, ok := event.EventType.Aggregate()
	if !ok {
		return fmt.Errorf("unknown outbox event type %q", event.EventType)
	}
	if event.AggregateID == 0 {
		return fmt.Errorf("%s event without aggregate id", event.EventType)
	}

	data, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("marshal %s data: %w", event.EventType, err)
	}
	occurred := event.OccurredAt
	if occurred.IsZero() {
		occurred = s.now()
	}
	envelope := PayloadEnvelope{
		Version:    envelopeVersion,
		EventID:    uuid.NewString(),
		OccurredAt: occurred.UTC(),
		Actor:      event.Actor,
		Data:       data,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	row := models.OutboxEvent{
		EventType:     event.EventType,
		AggregateType: aggregate,
		AggregateID:   event.AggregateID,
		Payload:       payload,
	}
	if err := s.repo.Insert(tx, &row); err != nil {
		return fmt.Errorf("insert outbox row: %w", err)
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"outbox_id":      row.ID,
		"event_id":       envelope.EventID,
		"event_type":     event.EventType,
		"aggregate_type": aggregate,
		"aggregate_id":   event.AggregateID,
	}), "outbox event queued")
	return nil
}
