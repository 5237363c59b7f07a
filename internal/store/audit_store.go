package store

import (
	"context"

	"voting/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditLogStore struct{ db *gorm.DB }

func (s *Store) AuditLogs() *AuditLogStore { return &AuditLogStore{s.DB} }

// Append is insert-only. Nothing in this package updates or deletes audit rows.
func (as *AuditLogStore) Append(ctx context.Context, e *domain.AuditLogEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return as.db.WithContext(ctx).Create(e).Error
}

func (as *AuditLogStore) ListForSession(ctx context.Context, sessionID domain.SessionID, limit int) ([]domain.AuditLogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []domain.AuditLogEntry
	err := as.db.WithContext(ctx).
		Where("voting_session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
