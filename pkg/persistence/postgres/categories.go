package postgres

import (
	"context"

	"github.com/osvaldoandrade/storeq/pkg/domain"
	"github.com/osvaldoandrade/storeq/pkg/persistence"

	"gorm.io/gorm"
)

type categoryStorage struct {
	db *gorm.DB
}

func (s *categoryStorage) Save(ctx context.Context, category *domain.Category) error {
	model := toCategoryModel(category)
	return translateErr(s.db.WithContext(ctx).Create(&model).Error)
}

func (s *categoryStorage) Update(ctx context.Context, category *domain.Category) error {
	model := toCategoryModel(category)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing CategoryModel
		if err := tx.First(&existing, "id = ?", category.ID).Error; err != nil {
			return err
		}
		return tx.Save(&model).Error
	})
	return translateErr(err)
}

func (s *categoryStorage) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	var model CategoryModel
	if err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	return model.toDomain(), nil
}

func (s *categoryStorage) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	var model CategoryModel
	if err := s.db.WithContext(ctx).First(&model, "slug = ?", normalize(slug)).Error; err != nil {
		return nil, translateErr(err)
	}
	return model.toDomain(), nil
}

func (s *categoryStorage) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&CategoryModel{}, "id = ?", id)
	if res.Error != nil {
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func (s *categoryStorage) List(ctx context.Context) ([]*domain.Category, error) {
	var models []CategoryModel
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&models).Error; err != nil {
		return nil, err
	}
	categories := make([]*domain.Category, 0, len(models))
	for i := range models {
		categories = append(categories, models[i].toDomain())
	}
	return categories, nil
}

func (s *categoryStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&CategoryModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
