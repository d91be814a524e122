package hmac

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/osvaldoandrade/storeq/pkg/auth"
)

type providerConfig struct {
	// Secret is the shared HS256 signing key.
	Secret string `json:"secret"`

	// Issuer is stamped into iss on issued tokens and enforced on verify when set.
	Issuer string `json:"issuer,omitempty"`

	// TTLMinutes bounds the lifetime of issued tokens. Defaults to 60.
	TTLMinutes int `json:"ttlMinutes,omitempty"`

	// ClockSkewSeconds is the leeway applied to exp/iat checks.
	ClockSkewSeconds int `json:"clockSkewSeconds,omitempty"`
}

type tokenClaims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type provider struct {
	secret []byte
	issuer string
	ttl    time.Duration
	skew   time.Duration
}

func NewProviderFromJSON(raw json.RawMessage) (auth.Verifier, error) {
	raw = json.RawMessage(strings.TrimSpace(string(raw)))
	if len(raw) == 0 {
		return nil, errors.New("hmac auth: missing config")
	}

	var cfg providerConfig
	// Allow config to be either:
	// - JSON object: {"secret":"...","issuer":"..."}
	// - JSON string: "secret-value"
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &cfg.Secret); err != nil {
			return nil, fmt.Errorf("hmac auth: invalid config: %w", err)
		}
	} else {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("hmac auth: invalid config: %w", err)
		}
	}

	cfg.Secret = strings.TrimSpace(cfg.Secret)
	if cfg.Secret == "" {
		return nil, errors.New("hmac auth: secret is required")
	}
	if cfg.TTLMinutes <= 0 {
		cfg.TTLMinutes = 60
	}
	if cfg.ClockSkewSeconds < 0 {
		cfg.ClockSkewSeconds = 0
	}

	return &provider{
		secret: []byte(cfg.Secret),
		issuer: strings.TrimSpace(cfg.Issuer),
		ttl:    time.Duration(cfg.TTLMinutes) * time.Minute,
		skew:   time.Duration(cfg.ClockSkewSeconds) * time.Second,
	}, nil
}

func (p *provider) Verify(token string) (*auth.Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(p.skew),
	}
	if p.issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.UserID == "" {
		return nil, errors.New("hmac auth: token has no userId claim")
	}

	out := &auth.Claims{
		UserID:   claims.UserID,
		Username: claims.Username,
		Email:    claims.Email,
		Raw:      map[string]interface{}{},
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

func (p *provider) Issue(identity auth.Identity) (string, time.Time, error) {
	if identity.UserID == "" {
		return "", time.Time{}, errors.New("hmac auth: identity requires a userId")
	}

	now := time.Now()
	expiresAt := now.Add(p.ttl)
	claims := tokenClaims{
		UserID:   identity.UserID,
		Username: identity.Username,
		Email:    identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.issuer,
			Subject:   identity.UserID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func init() {
	auth.RegisterProvider("hmac", NewProviderFromJSON)
}
