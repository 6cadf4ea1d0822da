package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewstack/auth-backend/internal/auth"
	"github.com/crewstack/auth-backend/internal/middleware"
)

func newProtectedRouter(tokens *auth.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", middleware.JWT(tokens), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(middleware.ContextSubject))
	})
	return router
}

func TestJWTMiddlewareAllowsValidToken(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	router := newProtectedRouter(tokens)

	access, _, err := tokens.IssuePair("a@x.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a@x.com", w.Body.String())
}

func TestJWTMiddlewareRejects(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	router := newProtectedRouter(tokens)

	otherSecret := auth.NewTokenService("other-secret", time.Hour)
	forged, _, err := otherSecret.IssuePair("a@x.com")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic dXNlcjpwdw=="},
		{name: "bare token", header: "garbage"},
		{name: "not a jwt", header: "Bearer garbage"},
		{name: "wrong secret", header: "Bearer " + forged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
