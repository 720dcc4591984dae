package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestAuth_ValidToken(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"sub":   "user-42",
		"name":  "Ada",
		"email": "ada@example.com",
		"role":  "admin",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(testSecret)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatal("next handler not called")
	}
	if got, _ := c.Get("user_id").(string); got != "user-42" {
		t.Errorf("user_id = %q, want %q", got, "user-42")
	}
	if got, _ := c.Get("role").(string); got != "admin" {
		t.Errorf("role = %q, want %q", got, "admin")
	}
	if got, _ := c.Get("email").(string); got != "ada@example.com" {
		t.Errorf("email = %q, want %q", got, "ada@example.com")
	}
}

func TestAuth_Rejects(t *testing.T) {
	expired := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	wrongKey := signToken(t, jwt.SigningMethodHS256, "other-secret", jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	wrongAlg := signToken(t, jwt.SigningMethodHS384, testSecret, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"malformed token", "Bearer not.a.token"},
		{"expired token", "Bearer " + expired},
		{"wrong signing key", "Bearer " + wrongKey},
		{"wrong algorithm", "Bearer " + wrongAlg},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := Auth(testSecret)(func(c echo.Context) error {
				t.Fatal("should not reach next handler")
				return nil
			})

			err := handler(c)
			he, ok := err.(*echo.HTTPError)
			if !ok {
				t.Fatalf("expected *echo.HTTPError, got %v", err)
			}
			if he.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", he.Code)
			}
		})
	}
}
