package postgres

import (
	"context"

	"github.com/osvaldoandrade/storeq/pkg/domain"
	"github.com/osvaldoandrade/storeq/pkg/persistence"

	"gorm.io/gorm"
)

type userStorage struct {
	db *gorm.DB
}

func (s *userStorage) Save(ctx context.Context, user *domain.User) error {
	model := toUserModel(user)
	return translateErr(s.db.WithContext(ctx).Create(&model).Error)
}

func (s *userStorage) Update(ctx context.Context, user *domain.User) error {
	model := toUserModel(user)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing UserModel
		if err := tx.First(&existing, "id = ?", user.ID).Error; err != nil {
			return err
		}
		return tx.Save(&model).Error
	})
	return translateErr(err)
}

func (s *userStorage) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var model UserModel
	if err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	return model.toDomain(), nil
}

func (s *userStorage) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var model UserModel
	if err := s.db.WithContext(ctx).First(&model, "username_lower = ?", normalize(username)).Error; err != nil {
		return nil, translateErr(err)
	}
	return model.toDomain(), nil
}

func (s *userStorage) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var model UserModel
	if err := s.db.WithContext(ctx).First(&model, "email_lower = ?", normalize(email)).Error; err != nil {
		return nil, translateErr(err)
	}
	return model.toDomain(), nil
}

func (s *userStorage) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&UserModel{}, "id = ?", id)
	if res.Error != nil {
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func (s *userStorage) List(ctx context.Context) ([]*domain.User, error) {
	var models []UserModel
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&models).Error; err != nil {
		return nil, err
	}
	users := make([]*domain.User, 0, len(models))
	for i := range models {
		users = append(users, models[i].toDomain())
	}
	return users, nil
}

func (s *userStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&UserModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
