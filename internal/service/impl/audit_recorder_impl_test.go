package impl

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"voting/internal/domain"
	"voting/internal/service"
)

func TestAuditRecorderAppendsEntries(t *testing.T) {
	st := setupStore(t)
	now := time.Now().UTC()
	sess := seedSession(t, st, domain.StatusDraft, now, now.Add(time.Hour))

	rec := NewAuditRecorderImpl(st)
	ctx := context.Background()

	rec.Record(ctx, domain.AuditLogEntry{
		VotingSessionID: &sess.ID,
		Action:          domain.ActionSessionCreated,
		EntityType:      "voting_session",
		EntityID:        sess.ID.String(),
		Details:         service.Details(map[string]any{"title": sess.Title}),
		Actor:           "admin@example.com",
	})
	rec.Record(ctx, domain.AuditLogEntry{
		VotingSessionID: &sess.ID,
		Action:          domain.ActionSessionActivated,
	})

	entries, err := st.AuditLogs().ListForSession(ctx, sess.ID, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.ID.String() == "00000000-0000-0000-0000-000000000000" || e.CreatedAt.IsZero() {
			t.Fatalf("recorder must fill id and timestamp: %+v", e)
		}
	}

	var details map[string]any
	for _, e := range entries {
		if e.Action == domain.ActionSessionCreated {
			if err := json.Unmarshal(e.Details, &details); err != nil {
				t.Fatalf("details not valid JSON: %v", err)
			}
		}
	}
	if details["title"] != sess.Title {
		t.Fatalf("unexpected details payload: %v", details)
	}
}
