package impl

import (
	"context"
	"log/slog"
	"time"

	"voting/internal/domain"
	"voting/internal/store"

	"github.com/google/uuid"
)

type AuditRecorderImpl struct {
	store *store.Store
}

func NewAuditRecorderImpl(st *store.Store) *AuditRecorderImpl {
	return &AuditRecorderImpl{store: st}
}

// Record appends one forensic entry. Failures are logged and swallowed: an
// audit write must never turn a successful operation into a reported failure.
func (a *AuditRecorderImpl) Record(ctx context.Context, e domain.AuditLogEntry) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if err := a.store.AuditLogs().Append(ctx, &e); err != nil {
		slog.Warn("audit append failed", "action", e.Action, "error", err)
	}
}
