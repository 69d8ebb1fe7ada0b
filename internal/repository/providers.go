package repository

import (
	"gorm.io/gorm"
)

type Repositories struct {
	Image   ImageStore
	Setting SettingStore
}

func NewImageRepository(db *gorm.DB) ImageStore {
	return &ImageRepository{db: db}
}

func NewSettingRepository(db *gorm.DB) SettingStore {
	return &SettingRepository{db: db}
}

func NewRepositories(image ImageStore, setting SettingStore) *Repositories {
	return &Repositories{
		Image:   image,
		Setting: setting,
	}
}
