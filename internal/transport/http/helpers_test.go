package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"studyhub/internal/app"
	"studyhub/internal/auth"
	"studyhub/internal/domain"
	"studyhub/internal/infra/memory"
)

type testEnv struct {
	e     *echo.Echo
	store *memory.Store
	exams *app.ExamService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	provider := auth.NewProvider(store, memory.NewRevocations(), "test-secret", time.Hour, auth.WithBcryptCost(4))
	submitter := app.NewSubmitter(store, store, nil)
	svc := Services{
		Accounts:  app.NewAccounts(provider, store),
		Catalog:   app.NewQuizCatalog(store, store),
		Materials: app.NewMaterials(store),
		Exams:     app.NewExamService(memory.NewSessionStore(), store, submitter, app.ExamConfig{}),
	}
	return &testEnv{e: NewRouter(svc), store: store, exams: svc.Exams}
}

func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

// signUp registers email, logs in and completes the profile with role.
func (env *testEnv) signUp(t *testing.T, email, name string, role domain.Role) string {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/auth/register", "", echo.Map{"email": email, "password": "Secret1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/auth/login", "", echo.Map{"email": email, "password": "Secret1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var token domain.Token
	decode(t, rec, &token)

	rec = env.do(t, http.MethodPut, "/me", token.AccessToken, echo.Map{"name": name, "age": 30, "role": role})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return token.AccessToken
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}
