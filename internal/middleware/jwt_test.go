package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/avelor/dinner-show-reservation/internal/utils"
)

const testSecret = "unit-test-secret"

func invoke(t *testing.T, mw echo.MiddlewareFunc, req *http.Request, seed func(echo.Context)) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if seed != nil {
		seed(c)
	}
	h := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "reached")
	})
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec, c
}

func TestJWTAuth(t *testing.T) {
	t.Run("valid token passes and claims land in context", func(t *testing.T) {
		access, err := utils.NewAccessToken(testSecret, 42, "ops@example.com", "ADMIN", 5)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+access.Token)

		rec, c := invoke(t, JWTAuth(testSecret), req, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if role, _ := c.Get("role").(string); role != "ADMIN" {
			t.Fatalf("role claim = %q, want ADMIN", role)
		}
		if email, _ := c.Get("staff_email").(string); email != "ops@example.com" {
			t.Fatalf("email claim = %q", email)
		}
	})

	t.Run("missing header rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec, _ := invoke(t, JWTAuth(testSecret), req, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("token signed with another secret rejected", func(t *testing.T) {
		access, err := utils.NewAccessToken("other-secret", 42, "ops@example.com", "ADMIN", 5)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+access.Token)

		rec, _ := invoke(t, JWTAuth(testSecret), req, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name    string
		role    interface{}
		allowed []string
		want    int
	}{
		{"allowed role passes", "ADMIN", []string{"ADMIN", "STAFF"}, http.StatusOK},
		{"second allowed role passes", "STAFF", []string{"ADMIN", "STAFF"}, http.StatusOK},
		{"disallowed role rejected", "STAFF", []string{"ADMIN"}, http.StatusForbidden},
		{"missing role rejected", nil, []string{"ADMIN"}, http.StatusForbidden},
		{"non-string role rejected", 7, []string{"ADMIN"}, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec, _ := invoke(t, RequireRole(tc.allowed...), req, func(c echo.Context) {
				if tc.role != nil {
					c.Set("role", tc.role)
				}
			})
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}
