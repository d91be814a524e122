package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/osvaldoandrade/storeq/pkg/persistence"

	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Config holds Postgres-specific configuration
type Config struct {
	DSN string `json:"dsn"`
}

// Plugin implements PluginPersistence backed by Postgres via GORM.
// Schema scoping comes from the DSN (database or search_path), so the
// generic namespace setting is not used here.
type Plugin struct {
	db *gorm.DB
}

// NewPlugin creates a new Postgres persistence plugin
func NewPlugin(config persistence.PluginConfig) (persistence.PluginPersistence, error) {
	var cfg Config
	if err := json.Unmarshal(config.Config, &cfg); err != nil {
		return nil, err
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres: dsn is required")
	}

	// TranslateError maps driver unique-violation errors onto
	// gorm.ErrDuplicatedKey so they can be translated below.
	gdb, err := gorm.Open(pgdriver.Open(cfg.DSN), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := gdb.AutoMigrate(&UserModel{}, &ProductModel{}, &CategoryModel{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &Plugin{db: gdb}, nil
}

// UserStorage returns the user storage implementation
func (p *Plugin) UserStorage() persistence.UserStorage {
	return &userStorage{db: p.db}
}

// ProductStorage returns the product storage implementation
func (p *Plugin) ProductStorage() persistence.ProductStorage {
	return &productStorage{db: p.db}
}

// CategoryStorage returns the category storage implementation
func (p *Plugin) CategoryStorage() persistence.CategoryStorage {
	return &categoryStorage{db: p.db}
}

// Health checks if the database connection is alive
func (p *Plugin) Health(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool
func (p *Plugin) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translateErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return persistence.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return persistence.ErrAlreadyExists
	default:
		return err
	}
}

func init() {
	persistence.RegisterProvider("postgres", NewPlugin)
}
