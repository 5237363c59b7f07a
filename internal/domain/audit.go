package domain

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions recorded by the service. Vote-cast details never pair a voter
// identity with a candidate choice; the choice lives only in the Vote row.
const (
	ActionSessionCreated   = "SESSION_CREATED"
	ActionSessionActivated = "SESSION_ACTIVATED"
	ActionSessionClosed    = "SESSION_CLOSED"
	ActionCandidateAdded   = "CANDIDATE_ADDED"
	ActionCandidateUpdated = "CANDIDATE_UPDATED"
	ActionCandidateRemoved = "CANDIDATE_REMOVED"
	ActionVotersAdded      = "VOTERS_ADDED"
	ActionVoteCast         = "VOTE_CAST"
	ActionVoteRejected     = "VOTE_REJECTED"
)

type AuditLogEntry struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" db:"id"`
	VotingSessionID *SessionID `gorm:"type:uuid;index" db:"voting_session_id"`
	Action          string     `gorm:"type:text;not null;index" db:"action"`
	EntityType      string     `gorm:"type:text" db:"entity_type"`
	EntityID        string     `gorm:"type:text" db:"entity_id"`
	Details         []byte     `gorm:"type:jsonb" db:"details"`
	Actor           string     `gorm:"type:text" db:"actor"`
	IP              string     `gorm:"type:text" db:"ip"`
	UserAgent       string     `gorm:"type:text" db:"user_agent"`
	CreatedAt       time.Time  `gorm:"not null;index" db:"created_at"`
}

func (AuditLogEntry) TableName() string { return "audit_logs" }
