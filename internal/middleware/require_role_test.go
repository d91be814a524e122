package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/osvaldoandrade/storeq/pkg/domain"

	"github.com/gin-gonic/gin"
)

func runRoleGate(t *testing.T, handler gin.HandlerFunc, principal *domain.Principal) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/api/users", nil)
	if principal != nil {
		setPrincipal(ctx, principal)
	}
	handler(ctx)
	return ctx, rec
}

func TestRequireAdminAllows(t *testing.T) {
	ctx, _ := runRoleGate(t, RequireAdmin(), &domain.Principal{ID: "u1", IsAdmin: true})
	if ctx.IsAborted() {
		t.Fatal("expected admin to pass")
	}
}

func TestRequireAdminWithoutPrincipal(t *testing.T) {
	_, rec := runRoleGate(t, RequireAdmin(), nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 when the gate never ran, got %d", rec.Code)
	}
	if body := decodeEnvelope(t, rec); body["error"] != "Authentication required" {
		t.Fatalf("expected Authentication required, got %v", body["error"])
	}
}

func TestRequireAdminDeniesNonAdmin(t *testing.T) {
	_, rec := runRoleGate(t, RequireAdmin(), &domain.Principal{ID: "u1"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if body := decodeEnvelope(t, rec); body["error"] != "Admin access required" {
		t.Fatalf("expected Admin access required, got %v", body["error"])
	}
}

func TestRequireAnyRoleFirstRuleWins(t *testing.T) {
	called := false
	handler := RequireAnyRole(
		Attribute("isAdmin"),
		Predicate("isModerator", func(p *domain.Principal) bool {
			called = true
			return p.IsModerator
		}),
	)

	ctx, _ := runRoleGate(t, handler, &domain.Principal{ID: "u1", IsAdmin: true})

	if ctx.IsAborted() {
		t.Fatal("expected admin to pass")
	}
	if called {
		t.Fatal("later rules must not run once one allows")
	}
}

func TestRequireAnyRoleSecondRuleWins(t *testing.T) {
	handler := RequireAnyRole(
		Attribute("isAdmin"),
		Predicate("isModerator", func(p *domain.Principal) bool { return p.IsModerator }),
	)

	ctx, _ := runRoleGate(t, handler, &domain.Principal{ID: "u1", IsModerator: true})

	if ctx.IsAborted() {
		t.Fatal("expected moderator to pass via the second rule")
	}
}

func TestRequireAnyRoleDenialNamesRules(t *testing.T) {
	handler := RequireAnyRole(
		Attribute("isAdmin"),
		Predicate("isModerator", func(p *domain.Principal) bool { return p.IsModerator }),
	)

	_, rec := runRoleGate(t, handler, &domain.Principal{ID: "u1"})

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	want := "Insufficient permissions. Required role(s): isAdmin, isModerator"
	if body["error"] != want {
		t.Fatalf("expected %q, got %v", want, body["error"])
	}
}

func TestRequireAnyRoleWithoutPrincipal(t *testing.T) {
	_, rec := runRoleGate(t, RequireAnyRole(Attribute("isAdmin")), nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAnyRoleNoRulesDeniesEveryone(t *testing.T) {
	_, rec := runRoleGate(t, RequireAnyRole(), &domain.Principal{ID: "u1", IsAdmin: true})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 with an empty rule set, got %d", rec.Code)
	}
}

func TestAttributeUnknownFlag(t *testing.T) {
	rule := Attribute("isOwner")
	if rule.Allows(&domain.Principal{ID: "u1", IsAdmin: true, IsModerator: true}) {
		t.Fatal("unknown attribute names must never match")
	}
	if rule.Name() != "isOwner" {
		t.Fatalf("unexpected rule name %q", rule.Name())
	}
}
