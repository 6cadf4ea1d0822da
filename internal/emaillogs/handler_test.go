package emaillogs_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/crewstack/auth-backend/internal/emaillogs"
	"github.com/crewstack/auth-backend/internal/models"
	"github.com/crewstack/auth-backend/pkg/response"
)

type fakeStore struct {
	logs         []*models.EmailLog
	err          error
	gotRecipient string
	gotLimit     int
}

func (f *fakeStore) List(_ context.Context, recipient string, limit int) ([]*models.EmailLog, error) {
	f.gotRecipient = recipient
	f.gotLimit = limit
	return f.logs, f.err
}

func newLogsRouter(store *fakeStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/emails", emaillogs.NewHandler(store, zap.NewNop()).List)
	return router
}

func TestListEmailLogs(t *testing.T) {
	store := &fakeStore{logs: []*models.EmailLog{
		{ID: 1, EmailType: "invite", RecipientEmail: "a@x.com", Status: models.EmailStatusSent, SentAt: 1700000000},
	}}
	router := newLogsRouter(store)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/emails?recipient=a@x.com&limit=5", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "a@x.com", store.gotRecipient)
	assert.Equal(t, 5, store.gotLimit)

	var body response.Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	rows := body.Data.([]interface{})
	require.Len(t, rows, 1)
	row := rows[0].(map[string]interface{})
	assert.Equal(t, "invite", row["email_type"])
	assert.Equal(t, models.EmailStatusSent, row["status"])
}

func TestListEmailLogsDefaults(t *testing.T) {
	store := &fakeStore{}
	router := newLogsRouter(store)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/emails", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, store.gotRecipient)
	assert.Equal(t, 100, store.gotLimit)
}

func TestListEmailLogsStoreFailure(t *testing.T) {
	router := newLogsRouter(&fakeStore{err: errors.New("query failed")})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/emails", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body response.Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, response.CodeInternal, body.Code)
}
