package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tareaspendientes/tareas-api/internal/api/shared"
	"github.com/tareaspendientes/tareas-api/internal/domain"
	"github.com/tareaspendientes/tareas-api/internal/platform/logger"
)

var anyCtx = mock.Anything

func testUser() *domain.User {
	return &domain.User{ID: uuid.New(), Name: "Ana García", IsApproved: true}
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

// request describes one call against a handler mounted on a chi router.
type request struct {
	method  string
	pattern string
	target  string
	body    string
	user    *domain.User
}

func serve(t *testing.T, handler http.HandlerFunc, req request) *httptest.ResponseRecorder {
	t.Helper()

	log, _ := logger.GetTestLogger(t)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logger.WithLogger(r.Context(), log)
			if req.user != nil {
				ctx = shared.WithUser(ctx, req.user)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	r.Method(req.method, req.pattern, handler)

	var body io.Reader
	if req.body != "" {
		body = strings.NewReader(req.body)
	}
	httpReq := httptest.NewRequest(req.method, req.target, body)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httpReq)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp.Error
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	l, _ := logger.GetTestLogger(t)
	return l
}
