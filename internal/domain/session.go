package domain

import "time"

type SessionStatus string

const (
	StatusDraft  SessionStatus = "draft"
	StatusActive SessionStatus = "active"
	StatusClosed SessionStatus = "closed"
)

// WindowReason explains why a session is not currently open for voting.
type WindowReason string

const (
	WindowOpen       WindowReason = ""
	WindowNotActive  WindowReason = "not_active"
	WindowNotStarted WindowReason = "not_yet_started"
	WindowExpired    WindowReason = "expired"
)

type VotingSession struct {
	ID           SessionID     `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	Title        string        `gorm:"type:text;not null" db:"title" json:"title"`
	Description  string        `gorm:"type:text" db:"description" json:"description,omitempty"`
	Status       SessionStatus `gorm:"type:text;not null;default:draft;index" db:"status" json:"status"`
	StartTime    time.Time     `gorm:"type:timestamptz;not null" db:"start_time" json:"startTime"`
	EndTime      time.Time     `gorm:"type:timestamptz;not null" db:"end_time" json:"endTime"`
	CreatedBy    string        `gorm:"type:text" db:"created_by" json:"createdBy,omitempty"`
	TotalInvited int           `gorm:"not null;default:0" db:"total_invited" json:"totalInvited"`
	EmailsSent   int           `gorm:"not null;default:0" db:"emails_sent" json:"emailsSent"`
	CreatedAt    time.Time     `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time     `gorm:"not null" db:"updated_at" json:"updatedAt"`
}

func (VotingSession) TableName() string { return "voting_sessions" }

// VotingWindow reports whether the session accepts votes at the given instant.
// Status must be active and the instant must fall inside [StartTime, EndTime];
// both bounds are inclusive. Re-evaluated on every attempt, never cached.
func (s *VotingSession) VotingWindow(now time.Time) (bool, WindowReason) {
	if s.Status != StatusActive {
		return false, WindowNotActive
	}
	if now.Before(s.StartTime) {
		return false, WindowNotStarted
	}
	if now.After(s.EndTime) {
		return false, WindowExpired
	}
	return true, WindowOpen
}
