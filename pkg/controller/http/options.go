package http

import (
	"net/http"

	"github.com/fieldline-hq/fieldline/pkg/domain/types"
	"github.com/go-chi/chi/v5"
)

func (s *Server) openOptionSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FormID string `json:"form_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	sessionID, err := s.uc.Options.OpenSession(r.Context(), req.FormID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, map[string]string{"session_id": sessionID})
}

func (s *Server) closeOptionSession(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Options.CloseSession(chi.URLParam(r, "sessionID")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) resolveOptions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Values map[string]any `json:"values"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	snap, err := s.uc.Options.Resolve(r.Context(), chi.URLParam(r, "sessionID"), toValues(req.Values))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"fields": toSnapshotDTOs(snap)})
}

func (s *Server) refreshOptions(w http.ResponseWriter, r *http.Request) {
	fieldID := types.FieldID(chi.URLParam(r, "fieldID"))

	snap, err := s.uc.Options.Refresh(r.Context(), chi.URLParam(r, "sessionID"), fieldID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"fields": toSnapshotDTOs(snap)})
}
