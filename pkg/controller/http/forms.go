package http

import (
	"net/http"

	"github.com/fieldline-hq/fieldline/pkg/domain/model"
	"github.com/go-chi/chi/v5"
)

func (s *Server) listForms(w http.ResponseWriter, r *http.Request) {
	forms, err := s.uc.Form.ListForms(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]formDTO, len(forms))
	for i, form := range forms {
		out[i] = toFormDTO(form)
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"forms": out})
}

func (s *Server) createForm(w http.ResponseWriter, r *http.Request) {
	var dto formDTO
	if err := decodeJSON(r, &dto); err != nil {
		respondError(w, r, err)
		return
	}

	created, err := s.uc.Form.CreateForm(r.Context(), dto.toModel())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, toFormDTO(created))
}

func (s *Server) getForm(w http.ResponseWriter, r *http.Request) {
	form, err := s.uc.Form.GetForm(r.Context(), chi.URLParam(r, "formID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, toFormDTO(form))
}

func (s *Server) updateForm(w http.ResponseWriter, r *http.Request) {
	var dto formDTO
	if err := decodeJSON(r, &dto); err != nil {
		respondError(w, r, err)
		return
	}

	form := dto.toModel()
	form.ID = chi.URLParam(r, "formID")

	updated, err := s.uc.Form.UpdateForm(r.Context(), form)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, toFormDTO(updated))
}

func (s *Server) deleteForm(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Form.DeleteForm(r.Context(), chi.URLParam(r, "formID")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) publishForm(w http.ResponseWriter, r *http.Request) {
	form, err := s.uc.Form.PublishForm(r.Context(), chi.URLParam(r, "formID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, toFormDTO(form))
}

func (s *Server) archiveForm(w http.ResponseWriter, r *http.Request) {
	form, err := s.uc.Form.ArchiveForm(r.Context(), chi.URLParam(r, "formID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, toFormDTO(form))
}

func (s *Server) getFormPages(w http.ResponseWriter, r *http.Request) {
	form, err := s.uc.Form.GetForm(r.Context(), chi.URLParam(r, "formID"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	pages := model.OrganizeFieldsIntoPages(form.Fields)
	respondJSON(w, r, http.StatusOK, map[string]any{
		"pages":      toPageDTOs(pages),
		"multi_page": model.IsMultiPageForm(form.Fields),
	})
}

// renderForm evaluates field visibility against the submitted values and
// returns the organized pages with hidden fields filtered out
func (s *Server) renderForm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Values map[string]any `json:"values"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	form, err := s.uc.Form.GetForm(r.Context(), chi.URLParam(r, "formID"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	values := toValues(req.Values)
	visible := model.VisibleFields(form.Fields, values)
	pages := model.OrganizeFieldsIntoPages(visible)

	respondJSON(w, r, http.StatusOK, map[string]any{
		"pages":      toPageDTOs(pages),
		"multi_page": model.IsMultiPageForm(form.Fields),
	})
}
