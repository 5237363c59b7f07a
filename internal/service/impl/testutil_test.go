package impl

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"voting/internal/domain"
	"voting/internal/service"
	"voting/internal/store"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupStore opens a fresh in-memory sqlite database per test. The named DSN
// keeps the schema alive across the pooled connections gorm opens.
func setupStore(t *testing.T) *store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(
		&domain.VotingSession{},
		&domain.Candidate{},
		&domain.AuthorizedVoter{},
		&domain.Vote{},
		&domain.AuditLogEntry{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return store.New(gdb)
}

func seedSession(t *testing.T, st *store.Store, status domain.SessionStatus, start, end time.Time) *domain.VotingSession {
	t.Helper()

	now := time.Now().UTC()
	sess := &domain.VotingSession{
		ID:        uuid.New(),
		Title:     "Board Election",
		Status:    status,
		StartTime: start,
		EndTime:   end,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := st.Sessions().Create(context.Background(), sess); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return sess
}

func seedCandidate(t *testing.T, st *store.Store, sessionID domain.SessionID, name string, position int) *domain.Candidate {
	t.Helper()

	c := &domain.Candidate{
		ID:              uuid.New(),
		VotingSessionID: sessionID,
		Name:            name,
		Position:        position,
		IsActive:        true,
		CreatedAt:       time.Now().UTC(),
	}
	if err := st.Candidates().Create(context.Background(), c); err != nil {
		t.Fatalf("seed candidate %s: %v", name, err)
	}
	return c
}

func nopActor() service.Actor {
	return service.Actor{Email: "admin@example.com", IP: "127.0.0.1"}
}

type nopAudit struct{}

func (nopAudit) Record(context.Context, domain.AuditLogEntry) {}

// recordingSender captures deliveries and can be told to fail for specific
// recipients.
type recordingSender struct {
	mu            sync.Mutex
	invitations   []service.Invitation
	confirmations []service.Confirmation
	failFor       map[string]bool
}

func (s *recordingSender) SendInvitation(_ context.Context, inv service.Invitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFor[inv.Email] {
		return fmt.Errorf("smtp unavailable")
	}
	s.invitations = append(s.invitations, inv)
	return nil
}

func (s *recordingSender) SendConfirmation(_ context.Context, c service.Confirmation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFor[c.Email] {
		return fmt.Errorf("smtp unavailable")
	}
	s.confirmations = append(s.confirmations, c)
	return nil
}
