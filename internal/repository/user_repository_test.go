package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/osvaldoandrade/storeq/pkg/domain"
	"github.com/osvaldoandrade/storeq/pkg/persistence"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func setupRedis(t *testing.T) (context.Context, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return context.Background(), mr, rdb
}

func testUser(id, username, email string) *domain.User {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$10$hash-" + id,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserCreateAndLookups(t *testing.T) {
	ctx, _, rdb := setupRedis(t)
	repo := NewUserRepository(rdb, "storeq")

	u := testUser("u-1", "Alice", "Alice@Example.com")
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetByID(ctx, "u-1")
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.Username != "Alice" {
		t.Fatalf("expected username preserved, got %q", got.Username)
	}
	if got.PasswordHash != u.PasswordHash {
		t.Fatalf("expected password hash persisted, got %q", got.PasswordHash)
	}

	// Index lookups are case-insensitive
	if _, err := repo.GetByUsername(ctx, "alice"); err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if _, err := repo.GetByEmail(ctx, "ALICE@EXAMPLE.COM"); err != nil {
		t.Fatalf("get by email: %v", err)
	}

	// Raw index layout
	id, err := rdb.HGet(ctx, "storeq:users:by-username", "alice").Result()
	if err != nil || id != "u-1" {
		t.Fatalf("expected username index entry, got %q err=%v", id, err)
	}
}

func TestUserCreateDuplicate(t *testing.T) {
	ctx, _, rdb := setupRedis(t)
	repo := NewUserRepository(rdb, "storeq")

	if err := repo.Create(ctx, testUser("u-1", "alice", "alice@example.com")); err != nil {
		t.Fatalf("create: %v", err)
	}

	err := repo.Create(ctx, testUser("u-2", "ALICE", "other@example.com"))
	if !errors.Is(err, persistence.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists for duplicate username, got %v", err)
	}

	err = repo.Create(ctx, testUser("u-3", "bob", "alice@example.com"))
	if !errors.Is(err, persistence.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists for duplicate email, got %v", err)
	}
	// The username reservation must have been rolled back on the email conflict
	if n, _ := rdb.HExists(ctx, "storeq:users:by-username", "bob").Result(); n {
		t.Fatal("expected username index rollback after email conflict")
	}
}

func TestUserUpdateReindex(t *testing.T) {
	ctx, _, rdb := setupRedis(t)
	repo := NewUserRepository(rdb, "storeq")

	u := testUser("u-1", "alice", "alice@example.com")
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, testUser("u-2", "bob", "bob@example.com")); err != nil {
		t.Fatalf("create: %v", err)
	}

	u.Email = "alice@new.example.com"
	u.IsModerator = true
	if err := repo.Update(ctx, u); err != nil {
		t.Fatalf("update: %v", err)
	}

	if _, err := repo.GetByEmail(ctx, "alice@example.com"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected old email index removed, got %v", err)
	}
	got, err := repo.GetByEmail(ctx, "alice@new.example.com")
	if err != nil {
		t.Fatalf("get by new email: %v", err)
	}
	if !got.IsModerator {
		t.Fatal("expected moderator flag persisted")
	}

	// Moving onto another account's email must fail
	u.Email = "bob@example.com"
	if err := repo.Update(ctx, u); !errors.Is(err, persistence.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	ghost := testUser("ghost", "ghost", "ghost@example.com")
	if err := repo.Update(ctx, ghost); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserDelete(t *testing.T) {
	ctx, _, rdb := setupRedis(t)
	repo := NewUserRepository(rdb, "storeq")

	if err := repo.Create(ctx, testUser("u-1", "alice", "alice@example.com")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Delete(ctx, "u-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, "u-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Identity is reusable once the indexes are cleared
	if err := repo.Create(ctx, testUser("u-9", "alice", "alice@example.com")); err != nil {
		t.Fatalf("expected identity reusable, got %v", err)
	}

	if err := repo.Delete(ctx, "never-existed"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserListAndCount(t *testing.T) {
	ctx, _, rdb := setupRedis(t)
	repo := NewUserRepository(rdb, "storeq")

	first := testUser("u-1", "alice", "alice@example.com")
	second := testUser("u-2", "bob", "bob@example.com")
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("create: %v", err)
	}

	users, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].ID != "u-1" || users[1].ID != "u-2" {
		t.Fatalf("expected creation order, got %s then %s", users[0].ID, users[1].ID)
	}

	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected count 2, got %d", n)
	}
}
