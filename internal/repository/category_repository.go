package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/osvaldoandrade/storeq/pkg/domain"
	"github.com/osvaldoandrade/storeq/pkg/persistence"

	"github.com/go-redis/redis/v8"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Category, error)
	Count(ctx context.Context) (int64, error)
}

type categoryRedisRepo struct {
	rdb *redis.Client
	ns  string
}

func NewCategoryRepository(rdb *redis.Client, namespace string) CategoryRepository {
	if namespace == "" {
		namespace = "storeq"
	}
	return &categoryRedisRepo{rdb: rdb, ns: namespace}
}

// ===== Chaves Redis =====
func (r *categoryRedisRepo) keyCategoriesHash() string { return r.ns + ":categories" } // HASH único: field = id, value = JSON
func (r *categoryRedisRepo) keySlugIndex() string {
	return r.ns + ":categories:by-slug" // HASH: field = slug, value = id
}

func unmarshalCategory(jsonStr string) (*domain.Category, error) {
	var c domain.Category
	if err := json.Unmarshal([]byte(jsonStr), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ===== Implementação =====

func (r *categoryRedisRepo) Create(ctx context.Context, category *domain.Category) error {
	// O slug reserva a categoria; HSETNX falha quando já existe dono.
	ok, err := r.rdb.HSetNX(ctx, r.keySlugIndex(), category.Slug, category.ID).Result()
	if err != nil {
		return fmt.Errorf("redis HSETNX slug index: %w", err)
	}
	if !ok {
		return persistence.ErrAlreadyExists
	}

	ok, err = r.rdb.HSetNX(ctx, r.keyCategoriesHash(), category.ID, marshal(category)).Result()
	if err != nil {
		_ = r.rdb.HDel(ctx, r.keySlugIndex(), category.Slug).Err()
		return fmt.Errorf("redis HSETNX category: %w", err)
	}
	if !ok {
		_ = r.rdb.HDel(ctx, r.keySlugIndex(), category.Slug).Err()
		return persistence.ErrAlreadyExists
	}
	return nil
}

func (r *categoryRedisRepo) Update(ctx context.Context, category *domain.Category) error {
	current, err := r.GetByID(ctx, category.ID)
	if err != nil {
		return err
	}

	if owner, err := r.rdb.HGet(ctx, r.keySlugIndex(), category.Slug).Result(); err == nil && owner != "" && owner != category.ID {
		return persistence.ErrAlreadyExists
	} else if err != nil && err != redis.Nil {
		return fmt.Errorf("redis HGET slug index: %w", err)
	}

	pipe := r.rdb.TxPipeline()
	if current.Slug != category.Slug {
		pipe.HDel(ctx, r.keySlugIndex(), current.Slug)
	}
	pipe.HSet(ctx, r.keySlugIndex(), category.Slug, category.ID)
	pipe.HSet(ctx, r.keyCategoriesHash(), category.ID, marshal(category))
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	return nil
}

func (r *categoryRedisRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	js, err := r.rdb.HGet(ctx, r.keyCategoriesHash(), id).Result()
	if err == redis.Nil || js == "" {
		return nil, persistence.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis HGET category: %w", err)
	}
	return unmarshalCategory(js)
}

func (r *categoryRedisRepo) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	id, err := r.rdb.HGet(ctx, r.keySlugIndex(), slug).Result()
	if err == redis.Nil || id == "" {
		return nil, persistence.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis HGET slug index: %w", err)
	}
	category, err := r.GetByID(ctx, id)
	if err == persistence.ErrNotFound {
		// índice órfão: remove e responde not-found
		_ = r.rdb.HDel(ctx, r.keySlugIndex(), slug).Err()
		return nil, persistence.ErrNotFound
	}
	return category, err
}

func (r *categoryRedisRepo) Delete(ctx context.Context, id string) error {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.rdb.TxPipeline()
	pipe.HDel(ctx, r.keyCategoriesHash(), id)
	pipe.HDel(ctx, r.keySlugIndex(), current.Slug)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *categoryRedisRepo) List(ctx context.Context) ([]*domain.Category, error) {
	all, err := r.rdb.HGetAll(ctx, r.keyCategoriesHash()).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("redis HGETALL categories: %w", err)
	}
	categories := make([]*domain.Category, 0, len(all))
	for _, js := range all {
		c, err := unmarshalCategory(js)
		if err != nil {
			continue
		}
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].CreatedAt.Equal(categories[j].CreatedAt) {
			return categories[i].ID < categories[j].ID
		}
		return categories[i].CreatedAt.Before(categories[j].CreatedAt)
	})
	return categories, nil
}

func (r *categoryRedisRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.rdb.HLen(ctx, r.keyCategoriesHash()).Result()
	if err != nil && err != redis.Nil {
		return 0, err
	}
	return n, nil
}
