package dto

type AddCandidateRequest struct {
	SessionID   string `json:"sessionId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Position    *int   `json:"position,omitempty"`
}

type CandidateResponse struct {
	ID          string `json:"id"`
	SessionID   string `json:"sessionId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Position    int    `json:"position"`
}
