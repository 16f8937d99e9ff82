package http

import (
	"net/http"

	"github.com/fieldline-hq/fieldline/pkg/domain/model"
	"github.com/go-chi/chi/v5"
)

func (s *Server) listLinks(w http.ResponseWriter, r *http.Request) {
	links, err := s.uc.PublicLink.ListLinks(r.Context(), chi.URLParam(r, "formID"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]map[string]any, len(links))
	for i, link := range links {
		out[i] = map[string]any{
			"id":         link.ID,
			"form_id":    link.FormID,
			"revoked":    link.Revoked,
			"expires_at": link.ExpiresAt,
			"created_at": link.CreatedAt,
		}
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"links": out})
}

func (s *Server) createLink(w http.ResponseWriter, r *http.Request) {
	link, token, err := s.uc.PublicLink.CreateLink(r.Context(), chi.URLParam(r, "formID"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusCreated, map[string]any{
		"id":         link.ID,
		"form_id":    link.FormID,
		"token":      token,
		"expires_at": link.ExpiresAt,
	})
}

func (s *Server) revokeLink(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.PublicLink.RevokeLink(r.Context(), chi.URLParam(r, "linkID")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// getPublicForm resolves a link token and returns the renderable form
func (s *Server) getPublicForm(w http.ResponseWriter, r *http.Request) {
	_, form, err := s.uc.PublicLink.ResolveToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	pages := model.OrganizeFieldsIntoPages(form.Fields)
	respondJSON(w, r, http.StatusOK, map[string]any{
		"form":       toFormDTO(form),
		"pages":      toPageDTOs(pages),
		"multi_page": model.IsMultiPageForm(form.Fields),
	})
}

func (s *Server) submitPublicResponse(w http.ResponseWriter, r *http.Request) {
	link, form, err := s.uc.PublicLink.ResolveToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req struct {
		Values map[string]any `json:"values"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	resp, thankYou, err := s.uc.Response.Submit(
		r.Context(),
		form.ID,
		toValues(req.Values),
		model.ResponseSourcePublicLink,
		link.ID,
	)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusCreated, map[string]any{
		"response_id": resp.ID,
		"thank_you":   toThankYouResultDTO(thankYou),
	})
}
