package hmac

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/osvaldoandrade/storeq/pkg/auth"
)

const testSecret = "unit-test-secret-0123456789abcdef"

func newTestProvider(t *testing.T, cfg string) auth.Verifier {
	t.Helper()
	v, err := NewProviderFromJSON(json.RawMessage(cfg))
	if err != nil {
		t.Fatalf("NewProviderFromJSON: %v", err)
	}
	return v
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	v := newTestProvider(t, `{"secret":"`+testSecret+`","issuer":"storeq-test","ttlMinutes":5}`)

	issuer, ok := v.(auth.Issuer)
	if !ok {
		t.Fatal("hmac provider must implement auth.Issuer")
	}

	token, expiresAt, err := issuer.Issue(auth.Identity{
		UserID:   "u-1",
		Username: "alice",
		Email:    "alice@example.com",
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expected future expiry, got %v", expiresAt)
	}

	claims, err := v.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != "u-1" {
		t.Errorf("expected userId u-1, got %q", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("expected username alice, got %q", claims.Username)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("expected email, got %q", claims.Email)
	}
	if !claims.ExpiresAt.Equal(expiresAt.Truncate(time.Second)) {
		t.Errorf("expected expiry %v, got %v", expiresAt.Truncate(time.Second), claims.ExpiresAt)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	v := newTestProvider(t, `{"secret":"`+testSecret+`"}`)

	token := signTestToken(t, testSecret, jwt.SigningMethodHS256, tokenClaims{
		UserID: "u-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-2 * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-10 * time.Minute)),
		},
	})

	if _, err := v.Verify(token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestVerifyClockSkewLeeway(t *testing.T) {
	v := newTestProvider(t, `{"secret":"`+testSecret+`","clockSkewSeconds":120}`)

	// Expired 30s ago but inside the 120s leeway.
	token := signTestToken(t, testSecret, jwt.SigningMethodHS256, tokenClaims{
		UserID: "u-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-30 * time.Second)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-10 * time.Minute)),
		},
	})

	if _, err := v.Verify(token); err != nil {
		t.Fatalf("expected leeway to accept token, got %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	v := newTestProvider(t, `{"secret":"`+testSecret+`"}`)

	token := signTestToken(t, "a-completely-different-secret-key", jwt.SigningMethodHS256, tokenClaims{
		UserID: "u-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	if _, err := v.Verify(token); err == nil {
		t.Fatal("expected error for token signed with another secret")
	}
}

func TestVerifyRejectsWrongMethod(t *testing.T) {
	v := newTestProvider(t, `{"secret":"`+testSecret+`"}`)

	token := signTestToken(t, testSecret, jwt.SigningMethodHS512, tokenClaims{
		UserID: "u-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	if _, err := v.Verify(token); err == nil {
		t.Fatal("expected error for non-HS256 token")
	}
}

func TestVerifyRejectsMissingUserID(t *testing.T) {
	v := newTestProvider(t, `{"secret":"`+testSecret+`"}`)

	token := signTestToken(t, testSecret, jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	if _, err := v.Verify(token); err == nil {
		t.Fatal("expected error for token without userId claim")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	v := newTestProvider(t, `{"secret":"`+testSecret+`"}`)

	for _, token := range []string{"", "garbage", "a.b.c", "Bearer abc"} {
		if _, err := v.Verify(token); err == nil {
			t.Errorf("expected error for token %q", token)
		}
	}
}

func TestVerifyEnforcesIssuer(t *testing.T) {
	v := newTestProvider(t, `{"secret":"`+testSecret+`","issuer":"storeq"}`)

	token := signTestToken(t, testSecret, jwt.SigningMethodHS256, tokenClaims{
		UserID: "u-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	if _, err := v.Verify(token); err == nil {
		t.Fatal("expected error for token with wrong issuer")
	}
}

func TestStringConfig(t *testing.T) {
	v := newTestProvider(t, `"`+testSecret+`"`)

	issuer := v.(auth.Issuer)
	token, _, err := issuer.Issue(auth.Identity{UserID: "u-1"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := v.Verify(token); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestConfigValidation(t *testing.T) {
	if _, err := NewProviderFromJSON(json.RawMessage(``)); err == nil {
		t.Error("expected error for empty config")
	}
	if _, err := NewProviderFromJSON(json.RawMessage(`{}`)); err == nil {
		t.Error("expected error for config without secret")
	}
	if _, err := NewProviderFromJSON(json.RawMessage(`{"secret":"   "}`)); err == nil {
		t.Error("expected error for blank secret")
	}
}

func TestIssueRequiresUserID(t *testing.T) {
	v := newTestProvider(t, `{"secret":"`+testSecret+`"}`)

	if _, _, err := v.(auth.Issuer).Issue(auth.Identity{Username: "alice"}); err == nil {
		t.Fatal("expected error for identity without userId")
	}
}

func signTestToken(t *testing.T, secret string, method jwt.SigningMethod, claims tokenClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign test token: %v", err)
	}
	return signed
}
