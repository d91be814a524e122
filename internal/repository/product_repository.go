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

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, categoryID string) ([]*domain.Product, error)
	CountByCategory(ctx context.Context, categoryID string) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type productRedisRepo struct {
	rdb *redis.Client
	ns  string
}

func NewProductRepository(rdb *redis.Client, namespace string) ProductRepository {
	if namespace == "" {
		namespace = "storeq"
	}
	return &productRedisRepo{rdb: rdb, ns: namespace}
}

// ===== Chaves Redis =====
func (r *productRedisRepo) keyProductsHash() string { return r.ns + ":products" } // HASH único: field = id, value = JSON
func (r *productRedisRepo) keyCategorySet(categoryID string) string {
	return fmt.Sprintf("%s:products:by-category:%s", r.ns, categoryID) // SET de ids
}

func unmarshalProduct(jsonStr string) (*domain.Product, error) {
	var p domain.Product
	if err := json.Unmarshal([]byte(jsonStr), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ===== Implementação =====

func (r *productRedisRepo) Create(ctx context.Context, product *domain.Product) error {
	ok, err := r.rdb.HSetNX(ctx, r.keyProductsHash(), product.ID, marshal(product)).Result()
	if err != nil {
		return fmt.Errorf("redis HSETNX product: %w", err)
	}
	if !ok {
		return persistence.ErrAlreadyExists
	}
	if err := r.rdb.SAdd(ctx, r.keyCategorySet(product.CategoryID), product.ID).Err(); err != nil {
		_ = r.rdb.HDel(ctx, r.keyProductsHash(), product.ID).Err()
		return fmt.Errorf("redis SADD category set: %w", err)
	}
	return nil
}

func (r *productRedisRepo) Update(ctx context.Context, product *domain.Product) error {
	current, err := r.GetByID(ctx, product.ID)
	if err != nil {
		return err
	}

	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, r.keyProductsHash(), product.ID, marshal(product))
	if current.CategoryID != product.CategoryID {
		pipe.SRem(ctx, r.keyCategorySet(current.CategoryID), product.ID)
		pipe.SAdd(ctx, r.keyCategorySet(product.CategoryID), product.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	return nil
}

func (r *productRedisRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	js, err := r.rdb.HGet(ctx, r.keyProductsHash(), id).Result()
	if err == redis.Nil || js == "" {
		return nil, persistence.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis HGET product: %w", err)
	}
	return unmarshalProduct(js)
}

func (r *productRedisRepo) Delete(ctx context.Context, id string) error {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.rdb.TxPipeline()
	pipe.HDel(ctx, r.keyProductsHash(), id)
	pipe.SRem(ctx, r.keyCategorySet(current.CategoryID), id)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *productRedisRepo) List(ctx context.Context, categoryID string) ([]*domain.Product, error) {
	var products []*domain.Product

	if categoryID == "" {
		all, err := r.rdb.HGetAll(ctx, r.keyProductsHash()).Result()
		if err != nil && err != redis.Nil {
			return nil, fmt.Errorf("redis HGETALL products: %w", err)
		}
		products = make([]*domain.Product, 0, len(all))
		for _, js := range all {
			p, err := unmarshalProduct(js)
			if err != nil {
				continue
			}
			products = append(products, p)
		}
	} else {
		ids, err := r.rdb.SMembers(ctx, r.keyCategorySet(categoryID)).Result()
		if err != nil && err != redis.Nil {
			return nil, fmt.Errorf("redis SMEMBERS category set: %w", err)
		}
		products = make([]*domain.Product, 0, len(ids))
		for _, id := range ids {
			p, err := r.GetByID(ctx, id)
			if err == persistence.ErrNotFound {
				// membro órfão: remove do índice e segue
				_ = r.rdb.SRem(ctx, r.keyCategorySet(categoryID), id).Err()
				continue
			}
			if err != nil {
				return nil, err
			}
			products = append(products, p)
		}
	}

	sort.Slice(products, func(i, j int) bool {
		if products[i].CreatedAt.Equal(products[j].CreatedAt) {
			return products[i].ID < products[j].ID
		}
		return products[i].CreatedAt.Before(products[j].CreatedAt)
	})
	return products, nil
}

func (r *productRedisRepo) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	n, err := r.rdb.SCard(ctx, r.keyCategorySet(categoryID)).Result()
	if err != nil && err != redis.Nil {
		return 0, err
	}
	return n, nil
}

func (r *productRedisRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.rdb.HLen(ctx, r.keyProductsHash()).Result()
	if err != nil && err != redis.Nil {
		return 0, err
	}
	return n, nil
}
