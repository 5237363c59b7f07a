package impl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"voting/internal/domain"
	"voting/internal/dto"
	"voting/internal/service"
	"voting/internal/store"

	"github.com/google/uuid"
)

const defaultSessionDuration = time.Hour

type SessionServiceImpl struct {
	store *store.Store
	audit service.AuditRecorder
}

func NewSessionServiceImpl(st *store.Store, audit service.AuditRecorder) *SessionServiceImpl {
	return &SessionServiceImpl{store: st, audit: audit}
}

func (s *SessionServiceImpl) Create(ctx context.Context, req dto.CreateSessionRequest, actor service.Actor) (*domain.VotingSession, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}

	now := time.Now().UTC()
	start, end := now, now.Add(defaultSessionDuration)
	if req.DurationHours > 0 {
		end = now.Add(time.Duration(req.DurationHours) * time.Hour)
	}
	if req.StartTime != nil {
		start = req.StartTime.UTC()
	}
	if req.EndTime != nil {
		end = req.EndTime.UTC()
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end time must be after start time", domain.ErrValidation)
	}

	sess := &domain.VotingSession{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.StatusDraft,
		StartTime:   start,
		EndTime:     end,
		CreatedBy:   actor.Email,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Sessions().Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	s.audit.Record(ctx, domain.AuditLogEntry{
		VotingSessionID: &sess.ID,
		Action:          domain.ActionSessionCreated,
		EntityType:      "voting_session",
		EntityID:        sess.ID.String(),
		Details:         service.Details(map[string]any{"title": sess.Title}),
		Actor:           actor.Email,
		IP:              actor.IP,
	})

	slog.Info("voting session created", "session_id", sess.ID, "title", sess.Title)
	return sess, nil
}

func (s *SessionServiceImpl) Get(ctx context.Context, id domain.SessionID) (*domain.VotingSession, error) {
	sess, err := s.store.Sessions().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return sess, nil
}

func (s *SessionServiceImpl) List(ctx context.Context) ([]store.SessionOverview, error) {
	out, err := s.store.Sessions().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return out, nil
}

// Activate moves draft -> active. Requires at least one active candidate; the
// transition itself is a conditional update so it can happen only once.
func (s *SessionServiceImpl) Activate(ctx context.Context, id domain.SessionID, actor service.Actor) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	candidates, err := s.store.Candidates().CountActive(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	if candidates == 0 {
		return fmt.Errorf("%w: cannot activate a session without candidates", domain.ErrInvalidState)
	}

	rows, err := s.store.Sessions().TransitionStatus(ctx, id, domain.StatusDraft, domain.StatusActive, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: session is not in draft", domain.ErrInvalidState)
	}

	s.audit.Record(ctx, domain.AuditLogEntry{
		VotingSessionID: &id,
		Action:          domain.ActionSessionActivated,
		EntityType:      "voting_session",
		EntityID:        id.String(),
		Actor:           actor.Email,
		IP:              actor.IP,
	})
	slog.Info("voting session activated", "session_id", id)
	return nil
}

// Close moves active -> closed. Irreversible.
func (s *SessionServiceImpl) Close(ctx context.Context, id domain.SessionID, actor service.Actor) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	rows, err := s.store.Sessions().TransitionStatus(ctx, id, domain.StatusActive, domain.StatusClosed, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: session is not active", domain.ErrInvalidState)
	}

	s.audit.Record(ctx, domain.AuditLogEntry{
		VotingSessionID: &id,
		Action:          domain.ActionSessionClosed,
		EntityType:      "voting_session",
		EntityID:        id.String(),
		Actor:           actor.Email,
		IP:              actor.IP,
	})
	slog.Info("voting session closed", "session_id", id)
	return nil
}
