package domain

import "time"

// Vote is the anonymous ledger entry: it carries the voter pseudonym, never
// the email, and is immutable once inserted. The unique index on
// (voting_session_id, voter_hash) is the storage-level backstop for the
// one-vote-per-voter invariant; the conditional claim on AuthorizedVoter is
// the primary enforcement.
type Vote struct {
	ID               VoteID      `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	VotingSessionID  SessionID   `gorm:"type:uuid;not null;uniqueIndex:ux_votes_session_voter;index" db:"voting_session_id" json:"votingSessionId"`
	CandidateID      CandidateID `gorm:"type:uuid;not null;index" db:"candidate_id" json:"candidateId"`
	VoterHash        string      `gorm:"type:text;not null;uniqueIndex:ux_votes_session_voter" db:"voter_hash" json:"-"`
	VerificationCode string      `gorm:"type:text;not null" db:"verification_code" json:"verificationCode"`
	CastAt           time.Time   `gorm:"type:timestamptz;not null" db:"cast_at" json:"castAt"`
	IPAddress        string      `gorm:"type:text" db:"ip_address" json:"-"`
	UserAgent        string      `gorm:"type:text" db:"user_agent" json:"-"`
}

func (Vote) TableName() string { return "votes" }
