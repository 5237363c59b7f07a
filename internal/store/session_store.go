package store

import (
	"context"
	"errors"
	"time"

	"voting/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionStore struct{ db *gorm.DB }

func (s *Store) Sessions() *SessionStore { return &SessionStore{s.DB} }

// SessionOverview is a session row plus roll-up counts for admin listings.
type SessionOverview struct {
	domain.VotingSession
	CandidateCount int64 `json:"candidateCount"`
	VoterCount     int64 `json:"voterCount"`
	VoteCount      int64 `json:"voteCount"`
}

func (ss *SessionStore) Create(ctx context.Context, s *domain.VotingSession) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return ss.db.WithContext(ctx).Create(s).Error
}

func (ss *SessionStore) GetByID(ctx context.Context, id domain.SessionID) (*domain.VotingSession, error) {
	var s domain.VotingSession
	if err := ss.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (ss *SessionStore) List(ctx context.Context) ([]SessionOverview, error) {
	var out []SessionOverview
	err := ss.db.WithContext(ctx).
		Model(&domain.VotingSession{}).
		Select(`voting_sessions.*,
			(SELECT count(*) FROM candidates c WHERE c.voting_session_id = voting_sessions.id AND c.is_active) AS candidate_count,
			(SELECT count(*) FROM authorized_voters av WHERE av.voting_session_id = voting_sessions.id) AS voter_count,
			(SELECT count(*) FROM votes v WHERE v.voting_session_id = voting_sessions.id) AS vote_count`).
		Order("voting_sessions.created_at DESC").
		Find(&out).Error
	return out, err
}

// TransitionStatus flips status only when the current status matches `from`,
// keeping draft -> active -> closed one-directional. Zero affected rows means
// the session was missing or in a different phase.
func (ss *SessionStore) TransitionStatus(ctx context.Context, id domain.SessionID, from, to domain.SessionStatus, at time.Time) (int64, error) {
	tx := ss.db.WithContext(ctx).
		Model(&domain.VotingSession{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": at})
	return tx.RowsAffected, tx.Error
}

func (ss *SessionStore) AddInviteCounts(ctx context.Context, id domain.SessionID, invited, sent int) error {
	return ss.db.WithContext(ctx).
		Model(&domain.VotingSession{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"total_invited": gorm.Expr("total_invited + ?", invited),
			"emails_sent":   gorm.Expr("emails_sent + ?", sent),
			"updated_at":    time.Now().UTC(),
		}).Error
}
