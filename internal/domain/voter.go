package domain

import "time"

// AuthorizedVoter is the sole eligibility gate for a session: without a row
// here a voter cannot vote no matter how valid their credential is. VotedAt is
// written at most once, by a conditional update; once set it is permanent.
type AuthorizedVoter struct {
	ID                   VoterID    `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	VotingSessionID      SessionID  `gorm:"type:uuid;not null;uniqueIndex:ux_voters_session_email" db:"voting_session_id" json:"votingSessionId"`
	Email                string     `gorm:"type:text;not null;uniqueIndex:ux_voters_session_email" db:"email" json:"email"`
	TokenHash            string     `gorm:"type:text;not null" db:"token_hash" json:"-"`
	EmailSentAt          *time.Time `db:"email_sent_at" json:"emailSentAt,omitempty"`
	VotedAt              *time.Time `db:"voted_at" json:"votedAt,omitempty"`
	VoteVerificationCode *string    `gorm:"type:text" db:"vote_verification_code" json:"-"`
	CreatedAt            time.Time  `gorm:"not null" db:"created_at" json:"createdAt"`
}

func (AuthorizedVoter) TableName() string { return "authorized_voters" }
