package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/SscSPs/branch_finance_admin/internal/apperrors"
	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	portssvc "github.com/SscSPs/branch_finance_admin/internal/core/ports/services"
	"github.com/SscSPs/branch_finance_admin/internal/middleware"
	"github.com/gin-gonic/gin"
)

const testToken = "valid-test-token"

// stubTokens accepts testToken and maps it to principal.
type stubTokens struct {
	principal domain.Principal
}

func (s stubTokens) GenerateAccessToken(*domain.Actor, *domain.Role) (string, time.Time, error) {
	return testToken, time.Now().Add(time.Hour), nil
}

func (s stubTokens) ParseAccessToken(token string) (*portssvc.AccessClaims, error) {
	if token != testToken {
		return nil, apperrors.ErrTokenInvalid
	}
	return &portssvc.AccessClaims{Principal: s.principal, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (s stubTokens) GenerateRefreshToken() (string, string, time.Time, error) {
	return "raw", "hash", time.Now().Add(time.Hour), nil
}

var _ portssvc.TokenSvc = stubTokens{}

// newAuthedGroup returns a router and its authenticated /api/v1 group.
func newAuthedGroup(p domain.Principal) (*gin.Engine, *gin.RouterGroup) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	return r, r.Group("/api/v1", middleware.AuthMiddleware(stubTokens{principal: p}))
}

func doRequest(r http.Handler, method, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func cashier() domain.Principal {
	return domain.Principal{
		ActorID:    "actor-cashier",
		Username:   "cashier",
		RoleName:   "Cashier",
		RoleActive: true,
		BranchCode: "01",
		Capabilities: domain.CapabilityMap{
			domain.ModuleContributions: {domain.ActionCreate, domain.ActionRead},
			domain.ModuleTransactions:  {domain.ActionCreate, domain.ActionRead},
		},
	}
}

func doRawRequest(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
