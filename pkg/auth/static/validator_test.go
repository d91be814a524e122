package static

import (
	"encoding/json"
	"testing"
)

func TestStaticVerifier(t *testing.T) {
	raw := json.RawMessage(`{"token":"t-1","userId":"u-1","username":"alice","email":"e@local","raw":{"isAdmin":true}}`)
	v, err := NewVerifierFromJSON(raw)
	if err != nil {
		t.Fatalf("NewVerifierFromJSON: %v", err)
	}

	claims, err := v.Verify("t-1")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != "u-1" {
		t.Fatalf("expected userId u-1, got %q", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Fatalf("expected username alice, got %q", claims.Username)
	}
	if claims.Email != "e@local" {
		t.Fatalf("expected email e@local, got %q", claims.Email)
	}
	if claims.Raw["isAdmin"] != true {
		t.Fatalf("expected raw isAdmin passthrough, got %v", claims.Raw)
	}

	if _, err := v.Verify("wrong"); err == nil {
		t.Fatalf("expected verification error for wrong token")
	}
}

func TestStaticVerifier_StringConfig(t *testing.T) {
	raw := json.RawMessage(`"t-2"`)
	v, err := NewVerifierFromJSON(raw)
	if err != nil {
		t.Fatalf("NewVerifierFromJSON: %v", err)
	}
	if _, err := v.Verify("t-2"); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestStaticVerifier_MissingToken(t *testing.T) {
	if _, err := NewVerifierFromJSON(json.RawMessage(`{}`)); err == nil {
		t.Fatalf("expected error for config without token")
	}
	if _, err := NewVerifierFromJSON(json.RawMessage(``)); err == nil {
		t.Fatalf("expected error for empty config")
	}
}
