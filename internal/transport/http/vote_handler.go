package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"voting/internal/dto"
	"voting/internal/netutil"
	"voting/internal/service"
)

type voteHandler struct {
	votes service.VoteService
}

// info resolves the voting link: token in, session + candidates out.
func (h *voteHandler) info(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing token"})
		return
	}
	res, err := h.votes.Info(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *voteHandler) cast(w http.ResponseWriter, r *http.Request) {
	var req dto.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad request"})
		return
	}
	if strings.TrimSpace(req.Token) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing token"})
		return
	}
	res, err := h.votes.Cast(r.Context(), req, clientIP(r), netutil.TruncateUserAgent(r.UserAgent()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
