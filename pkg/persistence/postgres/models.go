package postgres

import (
	"strings"
	"time"

	"github.com/osvaldoandrade/storeq/pkg/domain"
)

// UserModel is the users table row. UsernameLower and EmailLower carry
// the unique indexes so lookups stay case-insensitive.
type UserModel struct {
	ID            string    `gorm:"type:uuid;primaryKey"`
	Username      string    `gorm:"not null"`
	UsernameLower string    `gorm:"uniqueIndex;not null"`
	Email         string    `gorm:"not null"`
	EmailLower    string    `gorm:"uniqueIndex;not null"`
	PasswordHash  string    `gorm:"not null"`
	IsAdmin       bool      `gorm:"not null"`
	IsModerator   bool      `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}

type ProductModel struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	Name        string `gorm:"not null"`
	Description string
	Price       float64 `gorm:"not null"`
	CategoryID  string  `gorm:"type:uuid;index;not null"`
	InStock     bool    `gorm:"not null"`
	ImageURL    string
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (ProductModel) TableName() string {
	return "products"
}

type CategoryModel struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	Name        string `gorm:"not null"`
	Slug        string `gorm:"uniqueIndex;not null"`
	Description string
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (CategoryModel) TableName() string {
	return "categories"
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func toUserModel(u *domain.User) UserModel {
	return UserModel{
		ID:            u.ID,
		Username:      u.Username,
		UsernameLower: normalize(u.Username),
		Email:         u.Email,
		EmailLower:    normalize(u.Email),
		PasswordHash:  u.PasswordHash,
		IsAdmin:       u.IsAdmin,
		IsModerator:   u.IsModerator,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (m *UserModel) toDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		IsAdmin:      m.IsAdmin,
		IsModerator:  m.IsModerator,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toProductModel(p *domain.Product) ProductModel {
	return ProductModel{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CategoryID:  p.CategoryID,
		InStock:     p.InStock,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (m *ProductModel) toDomain() *domain.Product {
	return &domain.Product{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		CategoryID:  m.CategoryID,
		InStock:     m.InStock,
		ImageURL:    m.ImageURL,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toCategoryModel(c *domain.Category) CategoryModel {
	return CategoryModel{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        normalize(c.Slug),
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (m *CategoryModel) toDomain() *domain.Category {
	return &domain.Category{
		ID:          m.ID,
		Name:        m.Name,
		Slug:        m.Slug,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
