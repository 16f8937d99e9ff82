package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/fieldline-hq/fieldline/pkg/usecase"
	"github.com/fieldline-hq/fieldline/pkg/utils/errutil"
	"github.com/fieldline-hq/fieldline/pkg/utils/logging"
	"github.com/fieldline-hq/fieldline/pkg/utils/safe"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
}

type Options func(*Server)

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/forms", func(r chi.Router) {
			r.Get("/", s.listForms)
			r.Post("/", s.createForm)

			r.Route("/{formID}", func(r chi.Router) {
				r.Get("/", s.getForm)
				r.Put("/", s.updateForm)
				r.Delete("/", s.deleteForm)
				r.Post("/publish", s.publishForm)
				r.Post("/archive", s.archiveForm)
				r.Get("/pages", s.getFormPages)
				r.Post("/render", s.renderForm)

				r.Route("/responses", func(r chi.Router) {
					r.Get("/", s.listResponses)
					r.Post("/", s.submitResponse)
					r.Get("/{responseID}", s.getResponse)
					r.Post("/{responseID}/export", s.exportResponse)
				})

				r.Route("/links", func(r chi.Router) {
					r.Get("/", s.listLinks)
					r.Post("/", s.createLink)
				})
			})
		})

		r.Post("/links/{linkID}/revoke", s.revokeLink)

		r.Route("/options/sessions", func(r chi.Router) {
			r.Post("/", s.openOptionSession)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Delete("/", s.closeOptionSession)
				r.Post("/resolve", s.resolveOptions)
				r.Post("/refresh/{fieldID}", s.refreshOptions)
			})
		})
	})

	// Public form endpoints, addressed by signed link token
	r.Route("/f/{token}", func(r chi.Router) {
		r.Get("/", s.getPublicForm)
		r.Post("/responses", s.submitPublicResponse)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return goerr.Wrap(err, "failed to decode request body")
	}
	return nil
}

// respondError maps use case errors to HTTP status codes
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, usecase.ErrFormNotFound),
		errors.Is(err, usecase.ErrResponseNotFound),
		errors.Is(err, usecase.ErrLinkNotFound),
		errors.Is(err, usecase.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, usecase.ErrLinkNotUsable):
		status = http.StatusForbidden
	case errors.Is(err, usecase.ErrFormNotPublished),
		errors.Is(err, usecase.ErrNoExportMapping),
		errors.Is(err, usecase.ErrAlreadyExported):
		status = http.StatusConflict
	}
	errutil.HandleHTTP(r.Context(), w, err, status)
}
