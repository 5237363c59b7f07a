package service

import (
	"context"

	"voting/internal/domain"
	"voting/internal/dto"
	"voting/internal/store"
)

// Actor identifies who performed an admin action, for audit trails only.
type Actor struct {
	Email string
	IP    string
}

type SessionService interface {
	Create(ctx context.Context, req dto.CreateSessionRequest, actor Actor) (*domain.VotingSession, error)
	Get(ctx context.Context, id domain.SessionID) (*domain.VotingSession, error)
	List(ctx context.Context) ([]store.SessionOverview, error)
	Activate(ctx context.Context, id domain.SessionID, actor Actor) error
	Close(ctx context.Context, id domain.SessionID, actor Actor) error
}

type CandidateService interface {
	Add(ctx context.Context, req dto.AddCandidateRequest, actor Actor) (*domain.Candidate, error)
	Update(ctx context.Context, id domain.CandidateID, u domain.CandidateUpdate, actor Actor) (*domain.Candidate, error)
	Deactivate(ctx context.Context, id domain.CandidateID, actor Actor) error
	List(ctx context.Context, sessionID domain.SessionID) ([]domain.Candidate, error)
}

type RosterService interface {
	Upload(ctx context.Context, req dto.UploadVotersRequest, actor Actor) (*dto.UploadVotersResponse, error)
	List(ctx context.Context, sessionID domain.SessionID) ([]dto.VoterSummary, error)
}
