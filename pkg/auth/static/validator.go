package static

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/osvaldoandrade/storeq/pkg/auth"
)

type verifierConfig struct {
	// Token is the exact bearer token value accepted by this verifier.
	Token string `json:"token"`

	// UserID is returned as claims.UserID.
	UserID string `json:"userId,omitempty"`

	// Username is returned as claims.Username.
	Username string `json:"username,omitempty"`

	// Email is returned as claims.Email.
	Email string `json:"email,omitempty"`

	// Raw is passed through on the claims (provider-specific checks).
	Raw map[string]any `json:"raw,omitempty"`
}

type verifier struct {
	cfg verifierConfig
}

func NewVerifierFromJSON(raw json.RawMessage) (auth.Verifier, error) {
	raw = json.RawMessage(strings.TrimSpace(string(raw)))
	if len(raw) == 0 {
		return nil, errors.New("static auth: missing config")
	}

	var cfg verifierConfig
	// Allow config to be either:
	// - JSON object: {"token":"...","userId":"..."}
	// - JSON string: "token-value"
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &cfg.Token); err != nil {
			return nil, fmtError("static auth: invalid config", err)
		}
	} else {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return nil, fmtError("static auth: invalid config", err)
		}
	}

	cfg.Token = strings.TrimSpace(cfg.Token)
	if cfg.Token == "" {
		return nil, errors.New("static auth: token is required")
	}
	cfg.UserID = strings.TrimSpace(cfg.UserID)
	if cfg.UserID == "" {
		cfg.UserID = "static"
	}
	if cfg.Raw == nil {
		cfg.Raw = map[string]any{}
	}

	return &verifier{cfg: cfg}, nil
}

func (v *verifier) Verify(token string) (*auth.Claims, error) {
	if strings.TrimSpace(token) != v.cfg.Token {
		return nil, errors.New("invalid token")
	}
	return &auth.Claims{
		UserID:   v.cfg.UserID,
		Username: v.cfg.Username,
		Email:    v.cfg.Email,
		Raw:      v.cfg.Raw,
	}, nil
}

func init() {
	auth.RegisterProvider("static", NewVerifierFromJSON)
}

func fmtError(msg string, err error) error {
	if err == nil {
		return errors.New(msg)
	}
	return errors.New(msg + ": " + err.Error())
}
