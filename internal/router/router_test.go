// internal/router/router_test.go
package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demotrack/demotrack-backend/internal/config"
	"github.com/demotrack/demotrack-backend/internal/models"
	"github.com/demotrack/demotrack-backend/internal/utils"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.JWT.SecretKey = "router-test-secret"
	cfg.JWT.AccessTokenTTL = 1
	cfg.Lending.DefaultLoanWeeks = 2
	cfg.Lending.FetchLimit = 100
	return Initialize(nil, cfg)
}

func memberToken(t *testing.T) string {
	t.Helper()
	token, err := utils.GenerateJWT(uuid.New(), "jane@demotrack.local", string(models.TeamRoleMember), 1)
	require.NoError(t, err)
	return token
}

func TestFixCaseDataRequiresAuth(t *testing.T) {
	r := testRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/loans/fix-case-data", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFixCaseDataRequiresAdmin(t *testing.T) {
	r := testRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/loans/fix-case-data", nil)
	req.Header.Set("Authorization", "Bearer "+memberToken(t))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTeamManagementRequiresAdmin(t *testing.T) {
	r := testRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/team", nil)
	req.Header.Set("Authorization", "Bearer "+memberToken(t))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
