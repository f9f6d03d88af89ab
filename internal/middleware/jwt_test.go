package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/australparking/estacionamiento-api/internal/utils"
)

const testSecret = "test-secret"

func protectedEcho(t *testing.T, roles ...string) *echo.Echo {
	t.Helper()
	e := echo.New()
	g := e.Group("/v1")
	g.Use(JWTAuth(testSecret))
	if len(roles) > 0 {
		g.Use(RequireRole(roles...))
	}
	g.GET("/ping", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"user_id": c.Get("user_id"),
			"role":    c.Get("role"),
		})
	})
	return e
}

func doGet(e *echo.Echo, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthRejectsMissingAndInvalidTokens(t *testing.T) {
	e := protectedEcho(t)

	if rec := doGet(e, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", rec.Code)
	}
	if rec := doGet(e, "not-a-jwt"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: status = %d, want 401", rec.Code)
	}

	other, err := utils.NewAccessToken("some-other-secret", 7, "OPERATOR", 5)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if rec := doGet(e, other.Token); rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong secret: status = %d, want 401", rec.Code)
	}
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	e := protectedEcho(t)

	tok, err := utils.NewAccessToken(testSecret, 42, "OPERATOR", 5)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if rec := doGet(e, tok.Token); rec.Code != http.StatusOK {
		t.Fatalf("valid token: status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestRequireRoleEnforcesAllowedRoles(t *testing.T) {
	e := protectedEcho(t, "ADMIN")

	operator, err := utils.NewAccessToken(testSecret, 1, "OPERATOR", 5)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if rec := doGet(e, operator.Token); rec.Code != http.StatusForbidden {
		t.Fatalf("operator on admin route: status = %d, want 403", rec.Code)
	}

	admin, err := utils.NewAccessToken(testSecret, 2, "ADMIN", 5)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if rec := doGet(e, admin.Token); rec.Code != http.StatusOK {
		t.Fatalf("admin on admin route: status = %d, want 200", rec.Code)
	}
}
