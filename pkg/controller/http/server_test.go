package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpctrl "github.com/fieldline-hq/fieldline/pkg/controller/http"
	"github.com/fieldline-hq/fieldline/pkg/domain/interfaces"
	"github.com/fieldline-hq/fieldline/pkg/domain/model"
	"github.com/fieldline-hq/fieldline/pkg/repository/memory"
	"github.com/fieldline-hq/fieldline/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func newTestServer(opts ...usecase.Option) *httpctrl.Server {
	return httpctrl.New(usecase.New(memory.New(), opts...))
}

func doJSON(t *testing.T, srv *httpctrl.Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		gt.NoError(t, json.NewEncoder(&buf).Encode(body)).Required()
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst)).Required()
}

func surveyPayload() map[string]any {
	return map[string]any{
		"title": "Survey",
		"fields": []map[string]any{
			{"id": "name", "type": "text", "required": true, "order": 1},
			{"id": "subscribe", "type": "radio", "order": 2,
				"options": []map[string]any{{"value": "yes"}, {"value": "no"}}},
			{"id": "email", "type": "email", "order": 3, "required": true,
				"condition": map[string]any{"field_id": "subscribe", "operator": "equals", "value": "yes"}},
		},
	}
}

func createPublishedForm(t *testing.T, srv *httpctrl.Server) string {
	t.Helper()

	rec := doJSON(t, srv, http.MethodPost, "/api/forms", surveyPayload())
	gt.Value(t, rec.Code).Equal(http.StatusCreated)

	var form struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &form)
	gt.Value(t, form.ID).NotEqual("")

	rec = doJSON(t, srv, http.MethodPost, "/api/forms/"+form.ID+"/publish", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	return form.ID
}

func TestFormEndpoints(t *testing.T) {
	srv := newTestServer()

	t.Run("create and fetch", func(t *testing.T) {
		formID := createPublishedForm(t, srv)

		rec := doJSON(t, srv, http.MethodGet, "/api/forms/"+formID, nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var form struct {
			Title  string `json:"title"`
			Status string `json:"status"`
			Fields []struct {
				ID string `json:"id"`
			} `json:"fields"`
		}
		decodeBody(t, rec, &form)
		gt.Value(t, form.Title).Equal("Survey")
		gt.Value(t, form.Status).Equal("published")
		gt.Array(t, form.Fields).Length(3)
	})

	t.Run("unknown form is 404", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/forms/missing", nil)
		gt.Value(t, rec.Code).Equal(http.StatusNotFound)
	})

	t.Run("invalid definition is rejected", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/forms", map[string]any{"title": ""})
		gt.Value(t, rec.Code).Equal(http.StatusInternalServerError)
	})

	t.Run("delete", func(t *testing.T) {
		formID := createPublishedForm(t, srv)
		rec := doJSON(t, srv, http.MethodDelete, "/api/forms/"+formID, nil)
		gt.Value(t, rec.Code).Equal(http.StatusNoContent)

		rec = doJSON(t, srv, http.MethodGet, "/api/forms/"+formID, nil)
		gt.Value(t, rec.Code).Equal(http.StatusNotFound)
	})
}

func TestRenderEndpoint(t *testing.T) {
	srv := newTestServer()
	formID := createPublishedForm(t, srv)

	render := func(values map[string]any) []string {
		rec := doJSON(t, srv, http.MethodPost, "/api/forms/"+formID+"/render", map[string]any{"values": values})
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var body struct {
			Pages []struct {
				Fields []struct {
					ID string `json:"id"`
				} `json:"fields"`
			} `json:"pages"`
		}
		decodeBody(t, rec, &body)

		var ids []string
		for _, p := range body.Pages {
			for _, f := range p.Fields {
				ids = append(ids, f.ID)
			}
		}
		return ids
	}

	// email only shows up once subscribe is yes
	gt.Array(t, render(map[string]any{})).Equal([]string{"name", "subscribe"})
	gt.Array(t, render(map[string]any{"subscribe": "yes"})).Equal([]string{"name", "subscribe", "email"})
}

func TestResponseEndpoints(t *testing.T) {
	srv := newTestServer()
	formID := createPublishedForm(t, srv)

	t.Run("submit and read back", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/forms/"+formID+"/responses", map[string]any{
			"values": map[string]any{"name": "Ada", "subscribe": "no"},
		})
		gt.Value(t, rec.Code).Equal(http.StatusCreated)

		var body struct {
			Response struct {
				ID string `json:"id"`
			} `json:"response"`
			ThankYou struct {
				TitleEn string `json:"title_en"`
			} `json:"thank_you"`
		}
		decodeBody(t, rec, &body)
		gt.Value(t, body.ThankYou.TitleEn).Equal("Thank You!")

		rec = doJSON(t, srv, http.MethodGet, "/api/forms/"+formID+"/responses/"+body.Response.ID, nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		rec = doJSON(t, srv, http.MethodGet, "/api/forms/"+formID+"/responses", nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)
	})

	t.Run("draft form conflicts", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/forms", surveyPayload())
		gt.Value(t, rec.Code).Equal(http.StatusCreated)
		var form struct {
			ID string `json:"id"`
		}
		decodeBody(t, rec, &form)

		rec = doJSON(t, srv, http.MethodPost, "/api/forms/"+form.ID+"/responses", map[string]any{
			"values": map[string]any{"name": "Ada", "subscribe": "no"},
		})
		gt.Value(t, rec.Code).Equal(http.StatusConflict)
	})

	t.Run("export without mapping conflicts", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/forms/"+formID+"/responses", map[string]any{
			"values": map[string]any{"name": "Ada", "subscribe": "no"},
		})
		gt.Value(t, rec.Code).Equal(http.StatusCreated)
		var body struct {
			Response struct {
				ID string `json:"id"`
			} `json:"response"`
		}
		decodeBody(t, rec, &body)

		rec = doJSON(t, srv, http.MethodPost,
			"/api/forms/"+formID+"/responses/"+body.Response.ID+"/export",
			map[string]any{"entity_type": "contact"})
		gt.Value(t, rec.Code).Equal(http.StatusConflict)
	})
}

func TestPublicLinkEndpoints(t *testing.T) {
	srv := newTestServer(usecase.WithLinkSigning([]byte("test-secret"), time.Hour))
	formID := createPublishedForm(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/forms/"+formID+"/links", nil)
	gt.Value(t, rec.Code).Equal(http.StatusCreated)

	var link struct {
		ID    string `json:"id"`
		Token string `json:"token"`
	}
	decodeBody(t, rec, &link)
	gt.Value(t, link.Token).NotEqual("")

	t.Run("public form fetch and submit", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/f/"+link.Token, nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		rec = doJSON(t, srv, http.MethodPost, "/f/"+link.Token+"/responses", map[string]any{
			"values": map[string]any{"name": "Ada", "subscribe": "no"},
		})
		gt.Value(t, rec.Code).Equal(http.StatusCreated)

		var body struct {
			ResponseID string `json:"response_id"`
		}
		decodeBody(t, rec, &body)
		gt.Value(t, body.ResponseID).NotEqual("")
	})

	t.Run("revoked link is forbidden", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/links/"+link.ID+"/revoke", nil)
		gt.Value(t, rec.Code).Equal(http.StatusNoContent)

		rec = doJSON(t, srv, http.MethodGet, "/f/"+link.Token, nil)
		gt.Value(t, rec.Code).Equal(http.StatusForbidden)
	})

	t.Run("garbage token is forbidden", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/f/not-a-token", nil)
		gt.Value(t, rec.Code).Equal(http.StatusForbidden)
	})
}

func TestOptionSessionEndpoints(t *testing.T) {
	source := interfaces.OptionSourceFunc(func(ctx context.Context, ds *model.DataSource) ([]model.Option, error) {
		return []model.Option{{Value: "c1", LabelEn: "Contact One"}}, nil
	})
	srv := newTestServer(usecase.WithOptionSource(source))

	rec := doJSON(t, srv, http.MethodPost, "/api/forms", map[string]any{
		"title": "Dynamic",
		"fields": []map[string]any{
			{"id": "contact", "type": "select", "order": 1, "use_dynamic_data": true,
				"data_source": map[string]any{"entity_type": "contact", "value_field": "id"}},
		},
	})
	gt.Value(t, rec.Code).Equal(http.StatusCreated)
	var form struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &form)

	rec = doJSON(t, srv, http.MethodPost, "/api/options/sessions", map[string]any{"form_id": form.ID})
	gt.Value(t, rec.Code).Equal(http.StatusCreated)
	var session struct {
		SessionID string `json:"session_id"`
	}
	decodeBody(t, rec, &session)
	gt.Value(t, session.SessionID).NotEqual("")

	rec = doJSON(t, srv, http.MethodPost, "/api/options/sessions/"+session.SessionID+"/resolve",
		map[string]any{"values": map[string]any{}})
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var snapshot struct {
		Fields map[string]struct {
			Options []struct {
				Value string `json:"value"`
			} `json:"options"`
		} `json:"fields"`
	}
	decodeBody(t, rec, &snapshot)
	gt.Array(t, snapshot.Fields["contact"].Options).Length(1)
	gt.Value(t, snapshot.Fields["contact"].Options[0].Value).Equal("c1")

	rec = doJSON(t, srv, http.MethodDelete, "/api/options/sessions/"+session.SessionID, nil)
	gt.Value(t, rec.Code).Equal(http.StatusNoContent)

	rec = doJSON(t, srv, http.MethodPost, "/api/options/sessions/"+session.SessionID+"/resolve",
		map[string]any{"values": map[string]any{}})
	gt.Value(t, rec.Code).Equal(http.StatusNotFound)
}
