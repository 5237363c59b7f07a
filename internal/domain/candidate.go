package domain

import "time"

type Candidate struct {
	ID              CandidateID `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	VotingSessionID SessionID   `gorm:"type:uuid;not null;index" db:"voting_session_id" json:"votingSessionId"`
	Name            string      `gorm:"type:text;not null" db:"name" json:"name"`
	Description     string      `gorm:"type:text" db:"description" json:"description,omitempty"`
	Position        int         `gorm:"not null" db:"position" json:"position"`
	IsActive        bool        `gorm:"not null;default:true" db:"is_active" json:"isActive"`
	CreatedAt       time.Time   `gorm:"not null" db:"created_at" json:"createdAt"`
}

func (Candidate) TableName() string { return "candidates" }

// CandidateUpdate is a partial update: nil fields are left untouched.
type CandidateUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Position    *int    `json:"position,omitempty"`
}

func (u CandidateUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Position == nil
}
