package models

import (
	"encoding/json"
	"time"

	"github.com/angelmondragon/lockerbox-backend/pkg/enums"
)

// OutboxEvent is one domain event written in the same transaction as the
// change it describes. The relay sets PublishedAt once Pub/Sub accepts it.
// Rows past the attempt limit stay unpublished and are never claimed again.
type OutboxEvent struct {
	ID            uint                      `gorm:"column:id;primaryKey;index:idx_outbox_events_unpublished,priority:2,where:published_at IS NULL"`
	EventType     enums.OutboxEventType     `gorm:"column:event_type;type:text;not null"`
	AggregateType enums.OutboxAggregateType `gorm:"column:aggregate_type;type:text;not null"`
	AggregateID   uint                      `gorm:"column:aggregate_id;not null"`
	Payload       json.RawMessage           `gorm:"column:payload;type:jsonb;not null"`
	CreatedAt     time.Time                 `gorm:"column:created_at;autoCreateTime;index:idx_outbox_events_unpublished,priority:1,where:published_at IS NULL"`
	PublishedAt   *time.Time                `gorm:"column:published_at"`
	AttemptCount  int                       `gorm:"column:attempt_count;not null;default:0"`
	LastError     *string                   `gorm:"column:last_error"`
}

func (OutboxEvent) TableName() string { return "outbox_events" }
