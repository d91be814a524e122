package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/osvaldoandrade/storeq/pkg/domain"
	"github.com/osvaldoandrade/storeq/pkg/persistence"

	"github.com/go-redis/redis/v8"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.User, error)
	Count(ctx context.Context) (int64, error)
}

type userRedisRepo struct {
	rdb *redis.Client
	ns  string
}

func NewUserRepository(rdb *redis.Client, namespace string) UserRepository {
	if namespace == "" {
		namespace = "storeq"
	}
	return &userRedisRepo{rdb: rdb, ns: namespace}
}

// ===== Chaves Redis =====
func (r *userRedisRepo) keyUsersHash() string { return r.ns + ":users" } // HASH único: field = id, value = JSON
func (r *userRedisRepo) keyUsernameIndex() string {
	return r.ns + ":users:by-username" // HASH: field = lower(username), value = id
}
func (r *userRedisRepo) keyEmailIndex() string {
	return r.ns + ":users:by-email" // HASH: field = lower(email), value = id
}

// ===== Helpers =====

// userRecord is the stored form of a user. domain.User hides PasswordHash
// from JSON, so the repository keeps its own record type to persist it.
type userRecord struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	IsAdmin      bool      `json:"isAdmin"`
	IsModerator  bool      `json:"isModerator"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func marshal(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func marshalUser(u *domain.User) string {
	return marshal(userRecord{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsAdmin:      u.IsAdmin,
		IsModerator:  u.IsModerator,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	})
}

func unmarshalUser(jsonStr string) (*domain.User, error) {
	var rec userRecord
	if err := json.Unmarshal([]byte(jsonStr), &rec); err != nil {
		return nil, err
	}
	return &domain.User{
		ID:           rec.ID,
		Username:     rec.Username,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		IsAdmin:      rec.IsAdmin,
		IsModerator:  rec.IsModerator,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}, nil
}

func indexField(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ===== Implementação =====

func (r *userRedisRepo) Create(ctx context.Context, user *domain.User) error {
	nameField := indexField(user.Username)
	emailField := indexField(user.Email)

	// Os índices reservam a identidade; HSETNX falha quando já existe dono.
	ok, err := r.rdb.HSetNX(ctx, r.keyUsernameIndex(), nameField, user.ID).Result()
	if err != nil {
		return fmt.Errorf("redis HSETNX username index: %w", err)
	}
	if !ok {
		return persistence.ErrAlreadyExists
	}

	ok, err = r.rdb.HSetNX(ctx, r.keyEmailIndex(), emailField, user.ID).Result()
	if err != nil {
		_ = r.rdb.HDel(ctx, r.keyUsernameIndex(), nameField).Err()
		return fmt.Errorf("redis HSETNX email index: %w", err)
	}
	if !ok {
		_ = r.rdb.HDel(ctx, r.keyUsernameIndex(), nameField).Err()
		return persistence.ErrAlreadyExists
	}

	if err := r.rdb.HSet(ctx, r.keyUsersHash(), user.ID, marshalUser(user)).Err(); err != nil {
		// desfaz os índices para não deixar identidade órfã
		_ = r.rdb.HDel(ctx, r.keyUsernameIndex(), nameField).Err()
		_ = r.rdb.HDel(ctx, r.keyEmailIndex(), emailField).Err()
		return fmt.Errorf("redis HSET user: %w", err)
	}
	return nil
}

func (r *userRedisRepo) Update(ctx context.Context, user *domain.User) error {
	current, err := r.GetByID(ctx, user.ID)
	if err != nil {
		return err
	}

	nameField := indexField(user.Username)
	emailField := indexField(user.Email)

	if owner, err := r.rdb.HGet(ctx, r.keyUsernameIndex(), nameField).Result(); err == nil && owner != "" && owner != user.ID {
		return persistence.ErrAlreadyExists
	} else if err != nil && err != redis.Nil {
		return fmt.Errorf("redis HGET username index: %w", err)
	}
	if owner, err := r.rdb.HGet(ctx, r.keyEmailIndex(), emailField).Result(); err == nil && owner != "" && owner != user.ID {
		return persistence.ErrAlreadyExists
	} else if err != nil && err != redis.Nil {
		return fmt.Errorf("redis HGET email index: %w", err)
	}

	pipe := r.rdb.TxPipeline()
	if f := indexField(current.Username); f != nameField {
		pipe.HDel(ctx, r.keyUsernameIndex(), f)
	}
	if f := indexField(current.Email); f != emailField {
		pipe.HDel(ctx, r.keyEmailIndex(), f)
	}
	pipe.HSet(ctx, r.keyUsernameIndex(), nameField, user.ID)
	pipe.HSet(ctx, r.keyEmailIndex(), emailField, user.ID)
	pipe.HSet(ctx, r.keyUsersHash(), user.ID, marshalUser(user))
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	return nil
}

func (r *userRedisRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	js, err := r.rdb.HGet(ctx, r.keyUsersHash(), id).Result()
	if err == redis.Nil || js == "" {
		return nil, persistence.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis HGET user: %w", err)
	}
	return unmarshalUser(js)
}

func (r *userRedisRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getByIndex(ctx, r.keyUsernameIndex(), indexField(username))
}

func (r *userRedisRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getByIndex(ctx, r.keyEmailIndex(), indexField(email))
}

func (r *userRedisRepo) getByIndex(ctx context.Context, indexKey, field string) (*domain.User, error) {
	id, err := r.rdb.HGet(ctx, indexKey, field).Result()
	if err == redis.Nil || id == "" {
		return nil, persistence.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis HGET index: %w", err)
	}
	user, err := r.GetByID(ctx, id)
	if err == persistence.ErrNotFound {
		// índice órfão: remove e responde not-found
		_ = r.rdb.HDel(ctx, indexKey, field).Err()
		return nil, persistence.ErrNotFound
	}
	return user, err
}

func (r *userRedisRepo) Delete(ctx context.Context, id string) error {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.rdb.TxPipeline()
	pipe.HDel(ctx, r.keyUsersHash(), id)
	pipe.HDel(ctx, r.keyUsernameIndex(), indexField(current.Username))
	pipe.HDel(ctx, r.keyEmailIndex(), indexField(current.Email))
	_, err = pipe.Exec(ctx)
	return err
}

func (r *userRedisRepo) List(ctx context.Context) ([]*domain.User, error) {
	all, err := r.rdb.HGetAll(ctx, r.keyUsersHash()).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("redis HGETALL users: %w", err)
	}
	users := make([]*domain.User, 0, len(all))
	for _, js := range all {
		u, err := unmarshalUser(js)
		if err != nil {
			continue
		}
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID < users[j].ID
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

func (r *userRedisRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.rdb.HLen(ctx, r.keyUsersHash()).Result()
	if err != nil && err != redis.Nil {
		return 0, err
	}
	return n, nil
}
