package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/osvaldoandrade/storeq/pkg/domain"
	"github.com/osvaldoandrade/storeq/pkg/persistence"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DirectoryService resolves token subjects to principals. It is the only
// suspending dependency of the request gate, so the lookup takes the request
// context and a miss stays distinguishable from a storage failure.
type DirectoryService interface {
	FindPrincipalByID(ctx context.Context, id string) (*domain.Principal, error)
}

type directoryService struct {
	users  persistence.UserStorage
	logger *slog.Logger
}

func NewDirectoryService(users persistence.UserStorage, logger *slog.Logger) DirectoryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &directoryService{users: users, logger: logger}
}

func (s *directoryService) FindPrincipalByID(ctx context.Context, id string) (*domain.Principal, error) {
	ctx, span := otel.Tracer("storeq/auth").Start(ctx, "storeq.auth.resolve_principal",
		trace.WithAttributes(attribute.String("storeq.user_id", id)),
	)
	defer span.End()

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, persistence.ErrNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return nil, err
	}
	return domain.NewPrincipal(user), nil
}
