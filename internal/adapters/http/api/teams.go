package api

import (
	"net/http"
)

// TeamsHandler handles team listing requests.
type TeamsHandler struct {
	deps TeamDependencies
}

// NewTeamsHandler creates a new teams handler.
func NewTeamsHandler(deps TeamDependencies) *TeamsHandler {
	return &TeamsHandler{deps: deps}
}

// HandleListTeams handles GET /teams requests.
func (h *TeamsHandler) HandleListTeams(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Teams(r.Context()))
}
