package store

import (
	"context"
	"errors"
	"time"

	"voting/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VoterStore struct{ db *gorm.DB }

func (s *Store) Voters() *VoterStore { return &VoterStore{s.DB} }

// RosterStats are the turnout inputs for a session.
type RosterStats struct {
	TotalInvited int64
	EmailsSent   int64
	VotesCast    int64
}

func (vs *VoterStore) Create(ctx context.Context, v *domain.AuthorizedVoter) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return vs.db.WithContext(ctx).Create(v).Error
}

func (vs *VoterStore) GetByEmail(ctx context.Context, sessionID domain.SessionID, email string) (*domain.AuthorizedVoter, error) {
	var v domain.AuthorizedVoter
	err := vs.db.WithContext(ctx).
		First(&v, "voting_session_id = ? AND email = ?", sessionID, email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &v, nil
}

// ClaimVote is the compare-and-set at the heart of exactly-once voting: the
// voted_at stamp lands only if it is still NULL, in a single conditional
// UPDATE. Zero affected rows means the claim was lost (already voted) or the
// voter was never on the roster; callers disambiguate with GetByEmail.
func (vs *VoterStore) ClaimVote(ctx context.Context, sessionID domain.SessionID, email, verificationCode string, at time.Time) (int64, error) {
	tx := vs.db.WithContext(ctx).
		Model(&domain.AuthorizedVoter{}).
		Where("voting_session_id = ? AND email = ? AND voted_at IS NULL", sessionID, email).
		Updates(map[string]any{
			"voted_at":               at,
			"vote_verification_code": verificationCode,
		})
	return tx.RowsAffected, tx.Error
}

func (vs *VoterStore) MarkEmailSent(ctx context.Context, sessionID domain.SessionID, email string, at time.Time) error {
	return vs.db.WithContext(ctx).
		Model(&domain.AuthorizedVoter{}).
		Where("voting_session_id = ? AND email = ?", sessionID, email).
		Update("email_sent_at", at).Error
}

func (vs *VoterStore) List(ctx context.Context, sessionID domain.SessionID) ([]domain.AuthorizedVoter, error) {
	var out []domain.AuthorizedVoter
	err := vs.db.WithContext(ctx).
		Where("voting_session_id = ?", sessionID).
		Order("email ASC").
		Find(&out).Error
	return out, err
}

func (vs *VoterStore) Stats(ctx context.Context, sessionID domain.SessionID) (RosterStats, error) {
	var st RosterStats
	err := vs.db.WithContext(ctx).
		Model(&domain.AuthorizedVoter{}).
		Where("voting_session_id = ?", sessionID).
		Select("COUNT(*) AS total_invited, COUNT(email_sent_at) AS emails_sent, COUNT(voted_at) AS votes_cast").
		Scan(&st).Error
	return st, err
}
