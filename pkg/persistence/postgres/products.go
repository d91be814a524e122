package postgres

import (
	"context"

	"github.com/osvaldoandrade/storeq/pkg/domain"
	"github.com/osvaldoandrade/storeq/pkg/persistence"

	"gorm.io/gorm"
)

type productStorage struct {
	db *gorm.DB
}

func (s *productStorage) Save(ctx context.Context, product *domain.Product) error {
	model := toProductModel(product)
	return translateErr(s.db.WithContext(ctx).Create(&model).Error)
}

func (s *productStorage) Update(ctx context.Context, product *domain.Product) error {
	model := toProductModel(product)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing ProductModel
		if err := tx.First(&existing, "id = ?", product.ID).Error; err != nil {
			return err
		}
		return tx.Save(&model).Error
	})
	return translateErr(err)
}

func (s *productStorage) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var model ProductModel
	if err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	return model.toDomain(), nil
}

func (s *productStorage) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&ProductModel{}, "id = ?", id)
	if res.Error != nil {
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func (s *productStorage) List(ctx context.Context, categoryID string) ([]*domain.Product, error) {
	q := s.db.WithContext(ctx).Order("created_at, id")
	if categoryID != "" {
		q = q.Where("category_id = ?", categoryID)
	}
	var models []ProductModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(models))
	for i := range models {
		products = append(products, models[i].toDomain())
	}
	return products, nil
}

func (s *productStorage) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&ProductModel{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *productStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&ProductModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
