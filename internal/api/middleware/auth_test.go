package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/landsurveyors/directory-api/internal/core/domain"
)

type stubVerifier struct {
	id    *domain.Identity
	err   error
	token string
}

func (s *stubVerifier) VerifyToken(token string) (*domain.Identity, error) {
	s.token = token
	if s.err != nil {
		return nil, s.err
	}
	return s.id, nil
}

func newContext(header string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	v := &stubVerifier{id: &domain.Identity{UserID: 7, Email: "ada@example.com"}}
	c, rec := newContext("Bearer good.token.value")

	called := false
	handler := Auth(v)(func(c echo.Context) error {
		called = true
		id, ok := IdentityFrom(c)
		if !ok {
			t.Fatalf("identity not set")
		}
		if id.UserID != 7 || id.Email != "ada@example.com" {
			t.Fatalf("unexpected identity %+v", id)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if v.token != "good.token.value" {
		t.Fatalf("verifier got %q", v.token)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingOrMalformedHeader(t *testing.T) {
	for _, header := range []string{"", "Bearer", "Bearer   ", "Token abc", "abc"} {
		c, _ := newContext(header)
		v := &stubVerifier{id: &domain.Identity{UserID: 1}}

		err := Auth(v)(func(echo.Context) error {
			t.Fatalf("next must not run for header %q", header)
			return nil
		})(c)

		if !errors.Is(err, domain.ErrMissingToken) {
			t.Fatalf("header %q: expected missing token, got %v", header, err)
		}
		if domain.KindOf(err).Status() != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401", header)
		}
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	c, _ := newContext("Bearer old")
	v := &stubVerifier{err: domain.ErrTokenExpired}

	err := Auth(v)(func(echo.Context) error { return nil })(c)
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected expired, got %v", err)
	}
	if domain.KindOf(err).Status() != http.StatusUnauthorized {
		t.Fatalf("expired token must be 401")
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	c, _ := newContext("bearer forged")
	v := &stubVerifier{err: domain.ErrInvalidToken.Wrap(errors.New("signature is invalid"))}

	err := Auth(v)(func(echo.Context) error { return nil })(c)
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
	if domain.KindOf(err).Status() != http.StatusForbidden {
		t.Fatalf("invalid token must be 403")
	}
	if c.Get(ContextUserID) != nil {
		t.Fatalf("identity must not be set on failure")
	}
}
