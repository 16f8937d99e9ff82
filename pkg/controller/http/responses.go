package http

import (
	"net/http"

	"github.com/fieldline-hq/fieldline/pkg/domain/model"
	"github.com/fieldline-hq/fieldline/pkg/domain/types"
	"github.com/go-chi/chi/v5"
)

func (s *Server) listResponses(w http.ResponseWriter, r *http.Request) {
	resps, err := s.uc.Response.ListResponses(r.Context(), chi.URLParam(r, "formID"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]responseDTO, len(resps))
	for i, resp := range resps {
		out[i] = toResponseDTO(resp)
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"responses": out})
}

func (s *Server) submitResponse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Values map[string]any `json:"values"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	resp, thankYou, err := s.uc.Response.Submit(
		r.Context(),
		chi.URLParam(r, "formID"),
		toValues(req.Values),
		model.ResponseSourceInternal,
		"",
	)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusCreated, map[string]any{
		"response":  toResponseDTO(resp),
		"thank_you": toThankYouResultDTO(thankYou),
	})
}

func (s *Server) getResponse(w http.ResponseWriter, r *http.Request) {
	resp, err := s.uc.Response.GetResponse(r.Context(), chi.URLParam(r, "formID"), chi.URLParam(r, "responseID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, toResponseDTO(resp))
}

func (s *Server) exportResponse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EntityType string `json:"entity_type"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	record, err := s.uc.Export.ExportResponse(
		r.Context(),
		chi.URLParam(r, "formID"),
		chi.URLParam(r, "responseID"),
		types.EntityType(req.EntityType),
	)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusCreated, map[string]any{
		"entity_id":   record.ID,
		"entity_type": string(record.Type),
	})
}
