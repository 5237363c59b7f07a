package store

import (
	"context"

	"voting/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VoteStore struct{ db *gorm.DB }

func (s *Store) Votes() *VoteStore { return &VoteStore{s.DB} }

func (vs *VoteStore) Create(ctx context.Context, v *domain.Vote) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return vs.db.WithContext(ctx).Create(v).Error
}

// HasVoted is advisory only: it backs the friendly "already voted" message on
// the read path. Correctness comes from VoterStore.ClaimVote, never from this.
func (vs *VoteStore) HasVoted(ctx context.Context, sessionID domain.SessionID, voterHash string) (bool, error) {
	var n int64
	err := vs.db.WithContext(ctx).
		Model(&domain.Vote{}).
		Where("voting_session_id = ? AND voter_hash = ?", sessionID, voterHash).
		Count(&n).Error
	return n > 0, err
}

type candidateCount struct {
	CandidateID domain.CandidateID
	N           int64
}

// CountsByCandidate tallies the ledger for one session. Candidates with no
// votes are absent from the map; the tally engine fills in the zeros.
func (vs *VoteStore) CountsByCandidate(ctx context.Context, sessionID domain.SessionID) (map[domain.CandidateID]int64, error) {
	var rows []candidateCount
	err := vs.db.WithContext(ctx).
		Model(&domain.Vote{}).
		Where("voting_session_id = ?", sessionID).
		Select("candidate_id, COUNT(*) AS n").
		Group("candidate_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[domain.CandidateID]int64, len(rows))
	for _, r := range rows {
		counts[r.CandidateID] = r.N
	}
	return counts, nil
}

func (vs *VoteStore) CountForSession(ctx context.Context, sessionID domain.SessionID) (int64, error) {
	var n int64
	err := vs.db.WithContext(ctx).
		Model(&domain.Vote{}).
		Where("voting_session_id = ?", sessionID).
		Count(&n).Error
	return n, err
}
