package service

import (
	"context"
	"encoding/json"

	"voting/internal/domain"
)

// AuditRecorder appends forensic entries. Implementations never fail the
// calling operation: a lost audit row is logged and swallowed.
type AuditRecorder interface {
	Record(ctx context.Context, e domain.AuditLogEntry)
}

// Details marshals an audit payload, dropping it silently on marshal failure
// rather than aborting the caller.
func Details(v map[string]any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}
