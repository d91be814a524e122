package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/osvaldoandrade/storeq/pkg/domain"
	"github.com/osvaldoandrade/storeq/pkg/persistence"
)

type UsersService interface {
	List(ctx context.Context) ([]*domain.Principal, error)
	Get(ctx context.Context, id string) (*domain.Principal, error)
	Update(ctx context.Context, id string, req domain.UpdateUserRequest) (*domain.Principal, error)
	Delete(ctx context.Context, id string) error
}

type usersService struct {
	users  persistence.UserStorage
	logger *slog.Logger
	now    func() time.Time
}

func NewUsersService(users persistence.UserStorage, logger *slog.Logger, now func() time.Time) UsersService {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &usersService{users: users, logger: logger, now: now}
}

func (s *usersService) List(ctx context.Context) ([]*domain.Principal, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	principals := make([]*domain.Principal, 0, len(users))
	for _, u := range users {
		principals = append(principals, domain.NewPrincipal(u))
	}
	return principals, nil
}

func (s *usersService) Get(ctx context.Context, id string) (*domain.Principal, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return domain.NewPrincipal(user), nil
}

func (s *usersService) Update(ctx context.Context, id string, req domain.UpdateUserRequest) (*domain.Principal, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		owner, err := s.users.FindByEmail(ctx, *req.Email)
		if err == nil && owner.ID != id {
			return nil, ErrEmailTaken
		} else if err != nil && !errors.Is(err, persistence.ErrNotFound) {
			return nil, err
		}
		user.Email = *req.Email
	}
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}
	if req.IsModerator != nil {
		user.IsModerator = *req.IsModerator
	}
	user.UpdatedAt = s.now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, persistence.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.logger.Info("user updated", "userId", id)
	return domain.NewPrincipal(user), nil
}

func (s *usersService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", "userId", id)
	return nil
}
