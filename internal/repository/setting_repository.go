package repository

import (
	"floresya-image-server/internal/model"

	"gorm.io/gorm"
)

type SettingStore interface {
	FindByKey(key string) (*model.Setting, error)
	CountByKey(key string) (int64, error)
	Create(setting *model.Setting) error
	UpdateValue(key, value string) error
}

type SettingRepository struct {
	db *gorm.DB
}

func (r *SettingRepository) FindByKey(key string) (*model.Setting, error) {
	var setting model.Setting
	if err := r.db.Where("key = ?", key).First(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *SettingRepository) CountByKey(key string) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Setting{}).Where("key = ?", key).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SettingRepository) Create(setting *model.Setting) error {
	return r.db.Create(setting).Error
}

func (r *SettingRepository) UpdateValue(key, value string) error {
	result := r.db.Model(&model.Setting{}).Where("key = ?", key).Update("value", value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.db.Create(&model.Setting{Key: key, Value: value}).Error
	}
	return nil
}
