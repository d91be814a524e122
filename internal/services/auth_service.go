package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/osvaldoandrade/storeq/internal/metrics"
	"github.com/osvaldoandrade/storeq/pkg/auth"
	"github.com/osvaldoandrade/storeq/pkg/domain"
	"github.com/osvaldoandrade/storeq/pkg/persistence"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.Principal, error)
	Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
}

type authService struct {
	users  persistence.UserStorage
	issuer auth.Issuer
	logger *slog.Logger
	now    func() time.Time
}

func NewAuthService(users persistence.UserStorage, issuer auth.Issuer, logger *slog.Logger, now func() time.Time) AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &authService{users: users, issuer: issuer, logger: logger, now: now}
}

func (s *authService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Principal, error) {
	ctx, span := otel.Tracer("storeq/auth").Start(ctx, "storeq.auth.register",
		trace.WithAttributes(attribute.String("storeq.username", req.Username)),
	)
	defer span.End()

	if _, err := s.users.FindByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, persistence.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, persistence.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Save(ctx, user); err != nil {
		if errors.Is(err, persistence.ErrAlreadyExists) {
			// Lost a race with a concurrent registration.
			if _, probe := s.users.FindByUsername(ctx, req.Username); probe == nil {
				return nil, ErrUsernameTaken
			}
			return nil, ErrEmailTaken
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.logger.Info("user registered", "userId", user.ID, "username", user.Username)
	return domain.NewPrincipal(user), nil
}

func (s *authService) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	ctx, span := otel.Tracer("storeq/auth").Start(ctx, "storeq.auth.login",
		trace.WithAttributes(attribute.String("storeq.username", req.Username)),
	)
	defer span.End()

	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return nil, ErrInvalidCredentials
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	}

	// Verify-only providers (e.g. the static one) cannot mint tokens.
	if s.issuer == nil {
		s.logger.Error("login attempted without a token issuer", "username", req.Username)
		span.SetStatus(codes.Error, ErrNoIssuer.Error())
		return nil, ErrNoIssuer
	}

	token, expiresAt, err := s.issuer.Issue(auth.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.logger.Info("user logged in", "userId", user.ID, "username", user.Username)
	return &domain.LoginResponse{Token: token, ExpiresAt: expiresAt, User: domain.NewPrincipal(user)}, nil
}
