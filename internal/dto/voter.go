package dto

import "time"

type UploadVotersRequest struct {
	SessionID string   `json:"sessionId"`
	Emails    []string `json:"emails"`
}

type UploadVotersResponse struct {
	TotalProcessed  int      `json:"totalProcessed"`
	ValidEmails     int      `json:"validEmails"`
	EmailsSent      int      `json:"emailsSent"`
	EmailsFailed    int      `json:"emailsFailed"`
	InvalidEmails   []string `json:"invalidEmails,omitempty"`
	DuplicateEmails []string `json:"duplicateEmails,omitempty"`
	DeliveryErrors  []string `json:"deliveryErrors,omitempty"`
}

type VoterSummary struct {
	Email       string     `json:"email"`
	EmailSentAt *time.Time `json:"emailSentAt,omitempty"`
	VotedAt     *time.Time `json:"votedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}
