package bench

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/osvaldoandrade/storeq/pkg/app"
	"github.com/osvaldoandrade/storeq/pkg/auth"
	_ "github.com/osvaldoandrade/storeq/pkg/auth/hmac" // Register shared-secret auth provider.
	"github.com/osvaldoandrade/storeq/pkg/config"
	"github.com/osvaldoandrade/storeq/pkg/domain"
	"github.com/osvaldoandrade/storeq/pkg/persistence"
	"github.com/osvaldoandrade/storeq/pkg/persistence/memory"
)

const benchSecret = "bench-secret-0123456789abcdef-0123456789"

func newBenchApp(b *testing.B) (*app.Application, string) {
	b.Helper()
	gin.SetMode(gin.ReleaseMode)

	cfg := &config.Config{
		Port:                8080,
		Env:                 "test",
		LogLevel:            "error",
		LogFormat:           "json",
		AuthProvider:        "hmac",
		AuthSecret:          benchSecret,
		TokenTTLMinutes:     60,
		PersistenceProvider: "memory",
		Namespace:           "storeq-bench",
		LocalAssetsDir:      b.TempDir(),
	}
	cfg.AuthConfig = json.RawMessage(fmt.Sprintf(`{"secret":%q}`, benchSecret))

	store, err := memory.NewPlugin(persistence.PluginConfig{})
	if err != nil {
		b.Fatalf("memory plugin: %v", err)
	}

	application, err := app.NewApplication(cfg, app.WithPersistence(store))
	if err != nil {
		b.Fatalf("init app: %v", err)
	}
	app.SetupMappings(application)

	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("bench-pass"), bcrypt.MinCost)
	if err != nil {
		b.Fatalf("hash: %v", err)
	}
	now := time.Now().UTC()
	user := &domain.User{
		ID:           "bench-user",
		Username:     "bench",
		Email:        "bench@storeq.local",
		PasswordHash: string(hash),
		IsAdmin:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := store.UserStorage().Save(ctx, user); err != nil {
		b.Fatalf("seed user: %v", err)
	}
	category := &domain.Category{ID: "bench-cat", Name: "Bench", Slug: "bench", CreatedAt: now, UpdatedAt: now}
	if err := store.CategoryStorage().Save(ctx, category); err != nil {
		b.Fatalf("seed category: %v", err)
	}
	for i := 0; i < 50; i++ {
		p := &domain.Product{
			ID:         fmt.Sprintf("bench-prod-%02d", i),
			Name:       fmt.Sprintf("Bench Product %02d", i),
			Price:      9.99,
			CategoryID: category.ID,
			InStock:    true,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := store.ProductStorage().Save(ctx, p); err != nil {
			b.Fatalf("seed product: %v", err)
		}
	}

	token, _, err := application.Issuer.Issue(auth.Identity{UserID: user.ID, Username: user.Username, Email: user.Email})
	if err != nil {
		b.Fatalf("issue token: %v", err)
	}
	return application, token
}

// BenchmarkPublicProductList measures the ungated read path.
func BenchmarkPublicProductList(b *testing.B) {
	application, _ := newBenchApp(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		application.Engine.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			b.Fatalf("status %d", w.Code)
		}
	}
}

// BenchmarkGatedRequest measures the full gate: extract, verify, resolve,
// attach, then a trivial handler.
func BenchmarkGatedRequest(b *testing.B) {
	application, token := newBenchApp(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		application.Engine.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			b.Fatalf("status %d body=%s", w.Code, w.Body.String())
		}
	}
}

// BenchmarkGateRejection measures the short-circuit on a garbage credential.
func BenchmarkGateRejection(b *testing.B) {
	application, _ := newBenchApp(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		application.Engine.ServeHTTP(w, req)
		if w.Code != http.StatusForbidden {
			b.Fatalf("status %d", w.Code)
		}
	}
}
