package impl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"voting/internal/domain"
	"voting/internal/dto"
	"voting/internal/netutil"
	"voting/internal/observability/metrics"
	"voting/internal/service"
	"voting/internal/store"

	"github.com/google/uuid"
)

// Narrow store contracts keep the vote path testable without a database. The
// gorm adapter below is the production wiring.

type voteDataStore interface {
	WithTx(ctx context.Context, fn func(tx voteTx) error) error
	Sessions() voteSessionReader
	Candidates() voteCandidateReader
	Votes() voteLedgerReader
}

type voteTx interface {
	Sessions() voteSessionReader
	Candidates() voteCandidateReader
	Voters() voterClaimStore
	Votes() voteLedgerWriter
}

type voteSessionReader interface {
	GetByID(ctx context.Context, id domain.SessionID) (*domain.VotingSession, error)
}

type voteCandidateReader interface {
	GetActive(ctx context.Context, id domain.CandidateID, sessionID domain.SessionID) (*domain.Candidate, error)
	ListActive(ctx context.Context, sessionID domain.SessionID) ([]domain.Candidate, error)
}

type voterClaimStore interface {
	ClaimVote(ctx context.Context, sessionID domain.SessionID, email, verificationCode string, at time.Time) (int64, error)
	GetByEmail(ctx context.Context, sessionID domain.SessionID, email string) (*domain.AuthorizedVoter, error)
}

type voteLedgerReader interface {
	HasVoted(ctx context.Context, sessionID domain.SessionID, voterHash string) (bool, error)
}

type voteLedgerWriter interface {
	Create(ctx context.Context, v *domain.Vote) error
}

// ====== gorm adapter ======

type gormVoteStore struct{ store *store.Store }

func newVoteStoreAdapter(st *store.Store) *gormVoteStore { return &gormVoteStore{store: st} }

func (g *gormVoteStore) WithTx(ctx context.Context, fn func(tx voteTx) error) error {
	return g.store.WithTx(ctx, func(tx *store.Store) error {
		return fn(gormVoteTx{tx: tx})
	})
}

func (g *gormVoteStore) Sessions() voteSessionReader     { return g.store.Sessions() }
func (g *gormVoteStore) Candidates() voteCandidateReader { return g.store.Candidates() }
func (g *gormVoteStore) Votes() voteLedgerReader         { return g.store.Votes() }

type gormVoteTx struct{ tx *store.Store }

func (g gormVoteTx) Sessions() voteSessionReader     { return g.tx.Sessions() }
func (g gormVoteTx) Candidates() voteCandidateReader { return g.tx.Candidates() }
func (g gormVoteTx) Voters() voterClaimStore         { return g.tx.Voters() }
func (g gormVoteTx) Votes() voteLedgerWriter         { return g.tx.Votes() }

// ====== Service ======

type VoteServiceImpl struct {
	Store       voteDataStore
	Credentials service.CredentialService
	Audit       service.AuditRecorder
	Notify      service.NotificationSender

	// Now is swappable for window boundary tests.
	Now func() time.Time
}

func NewVoteServiceImpl(st *store.Store, creds service.CredentialService, audit service.AuditRecorder, notify service.NotificationSender) *VoteServiceImpl {
	return &VoteServiceImpl{
		Store:       newVoteStoreAdapter(st),
		Credentials: creds,
		Audit:       audit,
		Notify:      notify,
		Now:         func() time.Time { return time.Now().UTC() },
	}
}

// Info resolves the voting page data for a presented credential. Read-only.
func (s *VoteServiceImpl) Info(ctx context.Context, token string) (*dto.VotingInfoResponse, error) {
	claims, err := s.Credentials.Verify(token)
	if err != nil {
		return nil, err
	}

	sess, err := s.Store.Sessions().GetByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	if open, reason := sess.VotingWindow(s.Now()); !open {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionClosed, reason)
	}

	voted, err := s.Store.Votes().HasVoted(ctx, sess.ID, claims.VoterHash)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	if voted {
		return nil, domain.ErrAlreadyVoted
	}

	candidates, err := s.Store.Candidates().ListActive(ctx, sess.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates available", domain.ErrInvalidState)
	}

	resp := &dto.VotingInfoResponse{
		Session: dto.VotingInfoSession{
			ID:          sess.ID.String(),
			Title:       sess.Title,
			Description: sess.Description,
			EndTime:     sess.EndTime,
		},
		Voter: dto.VoterIdentity{Email: claims.Email},
	}
	for _, c := range candidates {
		resp.Candidates = append(resp.Candidates, dto.CandidateResponse{
			ID:          c.ID.String(),
			SessionID:   c.VotingSessionID.String(),
			Name:        c.Name,
			Description: c.Description,
			Position:    c.Position,
		})
	}
	return resp, nil
}

// Cast performs the exactly-once vote. The conditional claim on the roster row
// and the ledger insert run inside one transaction: either the voter is marked
// voted and the Vote row exists, or neither.
func (s *VoteServiceImpl) Cast(ctx context.Context, req dto.CastVoteRequest, ip, ua string) (*dto.CastVoteResponse, error) {
	result := "success"
	defer func() {
		metrics.VotesCastTotal.WithLabelValues(result).Inc()
	}()

	claims, err := s.Credentials.Verify(req.Token)
	if err != nil {
		result = "invalid_credential"
		return nil, err
	}

	candidateID, err := uuid.Parse(req.CandidateID)
	if err != nil {
		result = "invalid_candidate"
		return nil, fmt.Errorf("%w: malformed candidate id", domain.ErrValidation)
	}

	ip = normalizeIP(ip)
	ua = netutil.TruncateUserAgent(ua)
	now := s.Now()

	var (
		sess *domain.VotingSession
		code string
		vote *domain.Vote
	)

	txErr := s.Store.WithTx(ctx, func(tx voteTx) error {
		var err error
		sess, err = tx.Sessions().GetByID(ctx, claims.SessionID)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("%w: %v", domain.ErrStorage, err)
		}

		if open, reason := sess.VotingWindow(now); !open {
			return fmt.Errorf("%w: %s", domain.ErrSessionClosed, reason)
		}

		// Scoped by the claim's session id, so a credential for another
		// session can never reach this candidate.
		if _, err := tx.Candidates().GetActive(ctx, candidateID, sess.ID); err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrInvalidCandidate
			}
			return fmt.Errorf("%w: %v", domain.ErrStorage, err)
		}

		code, err = domain.NewVerificationCode()
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStorage, err)
		}

		// The compare-and-set. Under concurrent submissions for the same
		// voter exactly one claim lands; all others see zero rows.
		rows, err := tx.Voters().ClaimVote(ctx, sess.ID, claims.Email, code, now)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStorage, err)
		}
		if rows == 0 {
			if _, err := tx.Voters().GetByEmail(ctx, sess.ID, claims.Email); err != nil {
				if errors.Is(err, store.ErrRecordNotFound) {
					return domain.ErrNotAuthorized
				}
				return fmt.Errorf("%w: %v", domain.ErrStorage, err)
			}
			return domain.ErrAlreadyVoted
		}

		vote = &domain.Vote{
			ID:               uuid.New(),
			VotingSessionID:  sess.ID,
			CandidateID:      candidateID,
			VoterHash:        claims.VoterHash,
			VerificationCode: code,
			CastAt:           now,
			IPAddress:        ip,
			UserAgent:        ua,
		}
		return tx.Votes().Create(ctx, vote)
	})

	if txErr != nil {
		switch {
		case errors.Is(txErr, domain.ErrAlreadyVoted):
			result = "already_voted"
			s.recordRejection(ctx, claims, ip, ua, "already_voted")
		case errors.Is(txErr, domain.ErrNotAuthorized):
			result = "not_authorized"
			s.recordRejection(ctx, claims, ip, ua, "not_authorized")
		case errors.Is(txErr, domain.ErrSessionClosed):
			result = "session_closed"
		case errors.Is(txErr, domain.ErrInvalidCandidate):
			result = "invalid_candidate"
		default:
			result = "failure"
		}
		return nil, txErr
	}

	s.Audit.Record(ctx, domain.AuditLogEntry{
		VotingSessionID: &sess.ID,
		Action:          domain.ActionVoteCast,
		EntityType:      "vote",
		EntityID:        vote.ID.String(),
		Details: service.Details(map[string]any{
			"voterHash":        claims.VoterHash,
			"verificationCode": code,
		}),
		Actor:     claims.VoterHash,
		IP:        ip,
		UserAgent: ua,
	})

	if s.Notify != nil {
		// Receipt delivery is best-effort; a failed email never unwinds a
		// recorded vote.
		if err := s.Notify.SendConfirmation(ctx, service.Confirmation{
			Email:            claims.Email,
			SessionTitle:     sess.Title,
			VerificationCode: code,
			CastAt:           now,
		}); err != nil {
			slog.Warn("vote confirmation delivery failed", "error", err, "session_id", sess.ID)
		}
	}

	slog.Info("vote cast", "session_id", sess.ID, "voter_hash", claims.VoterHash)

	return &dto.CastVoteResponse{
		VerificationCode: code,
		Timestamp:        now,
		Session:          dto.SessionSummary{Title: sess.Title, EndTime: sess.EndTime},
	}, nil
}

func (s *VoteServiceImpl) recordRejection(ctx context.Context, claims *service.CredentialClaims, ip, ua, reason string) {
	s.Audit.Record(ctx, domain.AuditLogEntry{
		VotingSessionID: &claims.SessionID,
		Action:          domain.ActionVoteRejected,
		EntityType:      "vote",
		Details: service.Details(map[string]any{
			"voterHash": claims.VoterHash,
			"reason":    reason,
		}),
		Actor:     claims.VoterHash,
		IP:        ip,
		UserAgent: ua,
	})
}

func normalizeIP(ip string) string {
	if normalized, ok := netutil.NormalizeIP(ip); ok {
		return normalized
	}
	return ip
}
