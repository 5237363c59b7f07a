package impl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"voting/internal/domain"
	"voting/internal/dto"
	"voting/internal/service"
	"voting/internal/store"

	"github.com/google/uuid"
)

type CandidateServiceImpl struct {
	store *store.Store
	audit service.AuditRecorder
}

func NewCandidateServiceImpl(st *store.Store, audit service.AuditRecorder) *CandidateServiceImpl {
	return &CandidateServiceImpl{store: st, audit: audit}
}

// draftSession loads the session and rejects any mutation outside the draft
// phase; the candidate list is frozen once a session goes active.
func (c *CandidateServiceImpl) draftSession(ctx context.Context, id domain.SessionID) (*domain.VotingSession, error) {
	sess, err := c.store.Sessions().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	if sess.Status != domain.StatusDraft {
		return nil, fmt.Errorf("%w: candidates can only change while the session is draft", domain.ErrInvalidState)
	}
	return sess, nil
}

func (c *CandidateServiceImpl) Add(ctx context.Context, req dto.AddCandidateRequest, actor service.Actor) (*domain.Candidate, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed session id", domain.ErrValidation)
	}
	if _, err := c.draftSession(ctx, sessionID); err != nil {
		return nil, err
	}

	position := 0
	if req.Position != nil {
		position = *req.Position
	} else {
		max, err := c.store.Candidates().MaxPosition(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
		}
		position = max + 1
	}

	cand := &domain.Candidate{
		ID:              uuid.New(),
		VotingSessionID: sessionID,
		Name:            req.Name,
		Description:     req.Description,
		Position:        position,
		IsActive:        true,
		CreatedAt:       time.Now().UTC(),
	}
	if err := c.store.Candidates().Create(ctx, cand); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	c.audit.Record(ctx, domain.AuditLogEntry{
		VotingSessionID: &sessionID,
		Action:          domain.ActionCandidateAdded,
		EntityType:      "candidate",
		EntityID:        cand.ID.String(),
		Details:         service.Details(map[string]any{"name": cand.Name, "position": cand.Position}),
		Actor:           actor.Email,
		IP:              actor.IP,
	})
	return cand, nil
}

func (c *CandidateServiceImpl) Update(ctx context.Context, id domain.CandidateID, u domain.CandidateUpdate, actor service.Actor) (*domain.Candidate, error) {
	if u.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", domain.ErrValidation)
	}
	if u.Name != nil && *u.Name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrValidation)
	}

	cand, err := c.store.Candidates().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	if _, err := c.draftSession(ctx, cand.VotingSessionID); err != nil {
		return nil, err
	}

	if _, err := c.store.Candidates().Update(ctx, id, u); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	c.audit.Record(ctx, domain.AuditLogEntry{
		VotingSessionID: &cand.VotingSessionID,
		Action:          domain.ActionCandidateUpdated,
		EntityType:      "candidate",
		EntityID:        id.String(),
		Actor:           actor.Email,
		IP:              actor.IP,
	})
	return c.store.Candidates().GetByID(ctx, id)
}

func (c *CandidateServiceImpl) Deactivate(ctx context.Context, id domain.CandidateID, actor service.Actor) error {
	cand, err := c.store.Candidates().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	if _, err := c.draftSession(ctx, cand.VotingSessionID); err != nil {
		return err
	}

	rows, err := c.store.Candidates().Deactivate(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	c.audit.Record(ctx, domain.AuditLogEntry{
		VotingSessionID: &cand.VotingSessionID,
		Action:          domain.ActionCandidateRemoved,
		EntityType:      "candidate",
		EntityID:        id.String(),
		Actor:           actor.Email,
		IP:              actor.IP,
	})
	return nil
}

func (c *CandidateServiceImpl) List(ctx context.Context, sessionID domain.SessionID) ([]domain.Candidate, error) {
	out, err := c.store.Candidates().ListActive(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return out, nil
}
