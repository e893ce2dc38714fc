package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/team-task-tracker/internal/constants"
	apierrors "github.com/yukikurage/team-task-tracker/internal/errors"
	"github.com/yukikurage/team-task-tracker/internal/models"
	"github.com/yukikurage/team-task-tracker/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuthenticator struct {
	users map[string]*models.User
	err   error
	seen  string
}

func (s *stubAuthenticator) Authenticate(token string) (*models.User, error) {
	s.seen = token
	if s.err != nil {
		return nil, s.err
	}
	if user, ok := s.users[token]; ok {
		return user, nil
	}
	return nil, services.ErrTokenMalformed
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apierrors.APIError {
	t.Helper()
	var body apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func newAuthRouter(auth Authenticator) *gin.Engine {
	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	r.GET("/login", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(constants.SessionKeyToken, "session-token")
		session.Save()
		c.Status(http.StatusNoContent)
	})
	r.GET("/me", RequireAuth(auth), func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		id, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"username": actor.Username, "id": id.String()})
	})
	return r
}

func TestRequireAuth_BearerHeader(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "alice", Role: models.RoleManager, IsActive: true}
	auth := &stubAuthenticator{users: map[string]*models.User{"good": user}}
	r := newAuthRouter(auth)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, user.ID.String(), body["id"])
}

func TestRequireAuth_SessionFallback(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "bob", Role: models.RoleEmployee, IsActive: true}
	auth := &stubAuthenticator{users: map[string]*models.User{"session-token": user}}
	r := newAuthRouter(auth)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "session-token", auth.seen)
}

func TestRequireAuth_Failures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"missing", services.ErrTokenMissing, http.StatusUnauthorized, apierrors.ErrCodeUnauthorized},
		{"malformed", services.ErrTokenMalformed, http.StatusUnauthorized, apierrors.ErrCodeUnauthorized},
		{"expired", services.ErrTokenExpired, http.StatusUnauthorized, apierrors.ErrCodeTokenExpired},
		{"inactive", services.ErrInactiveAccount, http.StatusUnauthorized, apierrors.ErrCodeInactiveAccount},
		{"deleted user", services.ErrUserNotFound, http.StatusUnauthorized, apierrors.ErrCodeUnauthorized},
		{"busy", services.ErrRetryableConflict, http.StatusConflict, apierrors.ErrCodeResourceContended},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newAuthRouter(&stubAuthenticator{err: tt.err})

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			req.Header.Set("Authorization", "Bearer whatever")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Code)
		})
	}
}

func TestRequireAuth_NoSessionMiddleware(t *testing.T) {
	auth := &stubAuthenticator{}
	r := gin.New()
	r.GET("/me", RequireAuth(auth), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, auth.seen)
}
