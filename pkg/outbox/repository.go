package outbox

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/lockerbox-backend/pkg/db/models"
)

const maxErrorLen = 1024

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(tx *gorm.DB, event *models.OutboxEvent) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Create(event).Error
}

// FetchUnpublishedForPublish returns the oldest pending rows still under the
// attempt ceiling. On Postgres the rows are locked with SKIP LOCKED so several
// publishers can share the table.
func (r *Repository) FetchUnpublishedForPublish(tx *gorm.DB, limit, maxAttempts int) ([]models.OutboxEvent, error) {
	query := tx.Where("published_at IS NULL").
		Where("attempt_count < ?", maxAttempts).
		Order("created_at ASC").
		Order("id ASC").
		Limit(limit)
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
	}

	var rows []models.OutboxEvent
	err := query.Find(&rows).Error
	return rows, err
}

func (r *Repository) MarkPublishedTx(tx *gorm.DB, id uint) error {
	return tx.Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"published_at": time.Now().UTC(),
			"last_error":   nil,
		}).Error
}

func (r *Repository) MarkFailedTx(tx *gorm.DB, id uint, err error) error {
	msg := err.Error()
	if len(msg) > maxErrorLen {
		msg = msg[:maxErrorLen]
	}
	return tx.Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_error":    msg,
			"attempt_count": gorm.Expr("attempt_count + 1"),
		}).Error
}

// Stats summarizes the backlog for the outbox gauges.
type Stats struct {
	Pending int64
	Stalled int64
}

// Stats counts pending rows and rows that ran out of attempts.
func (r *Repository) Stats(ctx context.Context, maxAttempts int) (Stats, error) {
	var stats Stats
	base := r.db.WithContext(ctx).Model(&models.OutboxEvent{}).Where("published_at IS NULL")
	if err := base.Session(&gorm.Session{}).Where("attempt_count < ?", maxAttempts).Count(&stats.Pending).Error; err != nil {
		return Stats{}, err
	}
	if err := base.Session(&gorm.Session{}).Where("attempt_count >= ?", maxAttempts).Count(&stats.Stalled).Error; err != nil {
		return Stats{}, err
	}
	return stats, nil
}

// MarkTerminalTx parks a row that can never be delivered by raising its
// attempt counter to the ceiling.
func (r *Repository) MarkTerminalTx(tx *gorm.DB, id uint, err error, attempts int) error {
	msg := err.Error()
	if len(msg) > maxErrorLen {
		msg = msg[:maxErrorLen]
	}
	return tx.Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_error":    msg,
			"attempt_count": attempts,
		}).Error
}
