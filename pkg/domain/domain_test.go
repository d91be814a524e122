package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestPrincipalFlag(t *testing.T) {
	tests := []struct {
		name      string
		principal Principal
		flag      string
		want      bool
	}{
		{"admin set", Principal{IsAdmin: true}, "isAdmin", true},
		{"admin unset", Principal{}, "isAdmin", false},
		{"moderator set", Principal{IsModerator: true}, "isModerator", true},
		{"moderator unset", Principal{IsAdmin: true}, "isModerator", false},
		{"unknown flag", Principal{IsAdmin: true, IsModerator: true}, "isOwner", false},
		{"empty flag", Principal{IsAdmin: true}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.principal.Flag(tt.flag); got != tt.want {
				t.Errorf("Flag(%q) = %v, want %v", tt.flag, got, tt.want)
			}
		})
	}
}

func TestNewPrincipal(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	u := &User{
		ID:           "user-1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$secret",
		IsAdmin:      true,
		IsModerator:  false,
		CreatedAt:    created,
	}

	p := NewPrincipal(u)
	if p.ID != "user-1" {
		t.Errorf("Expected ID 'user-1', got %s", p.ID)
	}
	if p.Username != "alice" {
		t.Errorf("Expected username 'alice', got %s", p.Username)
	}
	if !p.IsAdmin {
		t.Error("Expected IsAdmin to carry over")
	}
	if !p.CreatedAt.Equal(created) {
		t.Errorf("Expected CreatedAt %v, got %v", created, p.CreatedAt)
	}
}

func TestUserJSONOmitsPasswordHash(t *testing.T) {
	u := User{
		ID:           "user-1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$verysecret",
	}

	raw, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(raw), "verysecret") {
		t.Errorf("serialized user leaks password hash: %s", raw)
	}
	if strings.Contains(strings.ToLower(string(raw)), "password") {
		t.Errorf("serialized user exposes a password field: %s", raw)
	}
}

func TestPrincipalJSONHasNoPasswordField(t *testing.T) {
	p := Principal{ID: "user-1", Username: "alice", Email: "alice@example.com"}

	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(strings.ToLower(string(raw)), "password") {
		t.Errorf("serialized principal exposes a password field: %s", raw)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Electronics", "electronics"},
		{"spaces", "Home Office", "home-office"},
		{"symbols", "Home & Garden", "home-garden"},
		{"leading and trailing", "  Books!  ", "books"},
		{"collapses runs", "a --- b", "a-b"},
		{"digits", "Top 10 Deals", "top-10-deals"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestProductFields(t *testing.T) {
	p := Product{
		ID:          "prod-1",
		Name:        "Mechanical Keyboard",
		Description: "Tenkeyless, brown switches",
		Price:       129.90,
		CategoryID:  "cat-1",
		InStock:     true,
		ImageURL:    "/assets/prod-1.png",
	}

	if p.ID != "prod-1" {
		t.Errorf("Expected ID 'prod-1', got %s", p.ID)
	}
	if p.Price != 129.90 {
		t.Errorf("Expected price 129.90, got %f", p.Price)
	}
	if !p.InStock {
		t.Error("Expected product in stock")
	}
}

func TestCategoryFields(t *testing.T) {
	c := Category{
		ID:          "cat-1",
		Name:        "Home & Garden",
		Slug:        "home-garden",
		Description: "Everything for the house",
	}

	if c.ID != "cat-1" {
		t.Errorf("Expected ID 'cat-1', got %s", c.ID)
	}
	if c.Slug != "home-garden" {
		t.Errorf("Expected slug 'home-garden', got %s", c.Slug)
	}
}
