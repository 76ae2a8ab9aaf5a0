package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"landreg-portal/internal/core/domain"
	"landreg-portal/internal/core/policy"

	"github.com/gofiber/fiber/v2"
)

type stubValidator struct {
	actor domain.Actor
	err   error
	got   string
}

func (v *stubValidator) ValidateToken(_ context.Context, token string) (domain.Actor, string, error) {
	v.got = token
	if v.err != nil {
		return domain.Actor{}, "", v.err
	}
	return v.actor, "session-1", nil
}

func newProtectedApp(v TokenValidator, action policy.Action) *fiber.App {
	app := fiber.New()
	app.Get("/x", AuthMiddleware(v), RequirePermission(action), func(c *fiber.Ctx) error {
		actor, _ := ActorFrom(c)
		return c.SendString(actor.Username + "/" + SessionIDFrom(c))
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		v      *stubValidator
		action policy.Action
		header string
		cookie string
		want   int
	}{
		{"no token", &stubValidator{}, policy.ActionViewOwnRegistrations, "", "", http.StatusUnauthorized},
		{"bearer ok", &stubValidator{actor: domain.Actor{Username: "ama", Role: domain.RoleStaff}}, policy.ActionViewOwnRegistrations, "Bearer tok", "", http.StatusOK},
		{"cookie ok", &stubValidator{actor: domain.Actor{Username: "ama", Role: domain.RoleStaff}}, policy.ActionViewOwnRegistrations, "", "tok", http.StatusOK},
		{"revoked session", &stubValidator{err: domain.ErrSessionRevoked}, policy.ActionViewOwnRegistrations, "Bearer tok", "", http.StatusUnauthorized},
		{"inactive user", &stubValidator{err: domain.ErrUserInactive}, policy.ActionViewOwnRegistrations, "Bearer tok", "", http.StatusForbidden},
		{"role lacks permission", &stubValidator{actor: domain.Actor{Username: "ama", Role: domain.RoleStaff}}, policy.ActionDeleteRegistration, "Bearer tok", "", http.StatusForbidden},
		{"non-bearer scheme", &stubValidator{}, policy.ActionViewOwnRegistrations, "Basic abc", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newProtectedApp(tt.v, tt.action)
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "access_token", Value: tt.cookie})
			}

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
			if tt.want == http.StatusOK && tt.v.got != "tok" {
				t.Errorf("validator got token %q, want tok", tt.v.got)
			}
		})
	}
}

func TestCacheHeaders(t *testing.T) {
	app := fiber.New()
	app.Get("/policy", PolicyCache(), func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/private", NoStore(), func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/policy", nil))
	if got := resp.Header.Get(fiber.HeaderCacheControl); got != "public, max-age=3600" {
		t.Errorf("policy Cache-Control = %q", got)
	}
	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/private", nil))
	if got := resp.Header.Get(fiber.HeaderCacheControl); got != "no-store" {
		t.Errorf("private Cache-Control = %q", got)
	}
}

func TestAuthRateLimiterDisabled(t *testing.T) {
	app := fiber.New()
	app.Post("/login", AuthRateLimiter(0), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	for i := 0; i < 10; i++ {
		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
		if resp.StatusCode != fiber.StatusNoContent {
			t.Fatalf("request %d status = %d", i, resp.StatusCode)
		}
	}

	limited := fiber.New()
	limited.Post("/login", AuthRateLimiter(2), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	var last int
	for i := 0; i < 3; i++ {
		resp, _ := limited.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
		last = resp.StatusCode
	}
	if last != fiber.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", last)
	}
}
