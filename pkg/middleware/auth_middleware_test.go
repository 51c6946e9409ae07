package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"reelcraft/internal/services"
	"reelcraft/pkg/utils"
)

type fakeIdentity struct {
	principals map[string]*services.Principal
}

func (f *fakeIdentity) Resolve(_ context.Context, token string) (*services.Principal, error) {
	if p, ok := f.principals[token]; ok {
		return p, nil
	}
	return nil, utils.ErrUnauthenticated
}

func (f *fakeIdentity) IssueSession(context.Context, uuid.UUID) (string, time.Time, error) {
	return "", time.Time{}, nil
}

func (f *fakeIdentity) RevokeSession(context.Context, *services.Principal) error {
	return nil
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	identity := &fakeIdentity{principals: map[string]*services.Principal{
		"admin-session": {ID: uuid.New(), IsAdmin: true, Credential: services.CredentialSession},
		"user-session":  {ID: uuid.New(), Credential: services.CredentialSession},
		"admin-key":     {ID: uuid.New(), IsAdmin: true, Credential: services.CredentialAPIKey},
	}}

	r := gin.New()
	r.Use(TraceIDMiddleware())
	authed := r.Group("/", AuthMiddleware(identity))
	authed.GET("/me", func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, p.ID.String())
	})
	authed.GET("/admin", AdminMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r http.Handler, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name   string
		path   string
		auth   string
		status int
	}{
		{"missing header", "/me", "", http.StatusUnauthorized},
		{"no bearer prefix", "/me", "user-session", http.StatusUnauthorized},
		{"unknown token", "/me", "Bearer nope", http.StatusUnauthorized},
		{"valid session", "/me", "Bearer user-session", http.StatusOK},
		{"admin route as user", "/admin", "Bearer user-session", http.StatusForbidden},
		{"admin route with api key", "/admin", "Bearer admin-key", http.StatusForbidden},
		{"admin route as admin", "/admin", "Bearer admin-session", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.path, tt.auth)
			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))
		})
	}
}

func TestTraceIDMiddleware_ReusesValidID(t *testing.T) {
	r := newTestRouter()
	id := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("X-Trace-ID", id)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, id, w.Header().Get("X-Trace-ID"))

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("X-Trace-ID", "not a uuid")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "not a uuid", w.Header().Get("X-Trace-ID"))
}
