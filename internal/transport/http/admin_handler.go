package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"voting/internal/domain"
	"voting/internal/dto"
	"voting/internal/service"
	"voting/internal/service/impl"
	"voting/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type adminHandler struct {
	sessions   service.SessionService
	candidates service.CandidateService
	roster     service.RosterService
	tally      service.TallyService
}

func actorFrom(r *http.Request) service.Actor {
	return service.Actor{
		Email: strings.TrimSpace(r.Header.Get("X-Admin-Email")),
		IP:    clientIP(r),
	}
}

func sessionIDParam(r *http.Request) (domain.SessionID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	return id, err == nil
}

func (h *adminHandler) createSession(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad request"})
		return
	}
	session, err := h.sessions.Create(r.Context(), req, actorFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSessionResponse(session))
}

func (h *adminHandler) listSessions(w http.ResponseWriter, r *http.Request) {
	overviews, err := h.sessions.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	resp := make([]dto.SessionOverviewResponse, 0, len(overviews))
	for i := range overviews {
		resp = append(resp, toOverviewResponse(&overviews[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *adminHandler) getSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid session id"})
		return
	}
	session, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (h *adminHandler) activateSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid session id"})
		return
	}
	if err := h.sessions.Activate(r.Context(), id, actorFrom(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *adminHandler) closeSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid session id"})
		return
	}
	if err := h.sessions.Close(r.Context(), id, actorFrom(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *adminHandler) addCandidate(w http.ResponseWriter, r *http.Request) {
	var req dto.AddCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad request"})
		return
	}
	candidate, err := h.candidates.Add(r.Context(), req, actorFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCandidateResponse(candidate))
}

func (h *adminHandler) updateCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "candidateID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid candidate id"})
		return
	}
	var upd domain.CandidateUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad request"})
		return
	}
	candidate, err := h.candidates.Update(r.Context(), id, upd, actorFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCandidateResponse(candidate))
}

func (h *adminHandler) deactivateCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "candidateID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid candidate id"})
		return
	}
	if err := h.candidates.Deactivate(r.Context(), id, actorFrom(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *adminHandler) listCandidates(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid session id"})
		return
	}
	list, err := h.candidates.List(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := make([]dto.CandidateResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toCandidateResponse(&list[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *adminHandler) uploadVoters(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid session id"})
		return
	}
	var req dto.UploadVotersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad request"})
		return
	}
	req.SessionID = id.String()
	resp, err := h.roster.Upload(r.Context(), req, actorFrom(r))
	if err != nil {
		// A fully rejected batch still carries the per-email breakdown.
		if resp != nil {
			writeJSON(w, http.StatusBadRequest, resp)
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *adminHandler) listVoters(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid session id"})
		return
	}
	voters, err := h.roster.List(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, voters)
}

func (h *adminHandler) results(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid session id"})
		return
	}
	summary, err := h.tally.Results(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+impl.ReportFilename(summary.Session.Title)+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(impl.RenderResultsCSV(summary)))
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func toSessionResponse(s *domain.VotingSession) dto.SessionResponse {
	return dto.SessionResponse{
		ID:           s.ID.String(),
		Title:        s.Title,
		Description:  s.Description,
		Status:       string(s.Status),
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
		TotalInvited: s.TotalInvited,
		EmailsSent:   s.EmailsSent,
		CreatedAt:    s.CreatedAt,
	}
}

func toOverviewResponse(o *store.SessionOverview) dto.SessionOverviewResponse {
	return dto.SessionOverviewResponse{
		SessionResponse: toSessionResponse(&o.VotingSession),
		CandidateCount:  o.CandidateCount,
		VoterCount:      o.VoterCount,
		VoteCount:       o.VoteCount,
	}
}

func toCandidateResponse(c *domain.Candidate) dto.CandidateResponse {
	return dto.CandidateResponse{
		ID:          c.ID.String(),
		SessionID:   c.VotingSessionID.String(),
		Name:        c.Name,
		Description: c.Description,
		Position:    c.Position,
	}
}
