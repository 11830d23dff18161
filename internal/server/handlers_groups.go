package server

import (
	"net/http"

	"filedrop/internal/api"
)

// handleListGroups returns the owner's items folded into display
// groups, oldest group first.
func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ownerOrUnauthorized(w, r)
	if !ok {
		return
	}
	groups, err := s.groupService.ListGrouped(r.Context(), ownerID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.GroupListResponse{Groups: groups})
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ownerOrUnauthorized(w, r)
	if !ok {
		return
	}
	outcome, err := s.deleteService.DeleteGroup(r.Context(), ownerID, r.PathValue("key"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.DeleteGroupResponse{Deleted: outcome.Deleted, Failed: outcome.Failed})
}
