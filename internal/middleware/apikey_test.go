package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

// callWithKey runs a request through APIKeyAuth with the given header value
// and reports the resulting status code.
func callWithKey(t *testing.T, secret, headerValue string) int {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
	if headerValue != "" {
		req.Header.Set(APIKeyHeader, headerValue)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	if err := APIKeyAuth(secret)(next)(c); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	return rec.Code
}

func TestAPIKeyAuthMissingKey(t *testing.T) {
	if code := callWithKey(t, "s3cret", ""); code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", code)
	}
}

func TestAPIKeyAuthWrongKey(t *testing.T) {
	if code := callWithKey(t, "s3cret", "not-the-key"); code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", code)
	}
}

func TestAPIKeyAuthCorrectKey(t *testing.T) {
	if code := callWithKey(t, "s3cret", "s3cret"); code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
}

// The secret is injected per middleware instance, so two routers can run
// with different keys side by side.
func TestAPIKeyAuthPerInstanceSecret(t *testing.T) {
	if code := callWithKey(t, "key-a", "key-b"); code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 for a key from another instance", code)
	}
	if code := callWithKey(t, "key-b", "key-b"); code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
}
