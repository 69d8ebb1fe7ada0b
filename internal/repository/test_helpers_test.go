package repository

import (
	"fmt"
	"testing"

	"floresya-image-server/internal/consts"
	"floresya-image-server/internal/model"
	"floresya-image-server/internal/testutils"

	"gorm.io/gorm"
)

func setupRepo(t *testing.T) (*gorm.DB, *ImageRepository) {
	t.Helper()
	gdb := testutils.SetupDB(t)
	return gdb, &ImageRepository{db: gdb}
}

// makeSlotRows 为一个槽位构造四个尺寸档的行。
func makeSlotRows(productID uint, imageIndex int, contentHash string, primary bool) []model.ProductImage {
	rows := make([]model.ProductImage, 0, len(consts.SizeClasses))
	for _, size := range consts.SizeClasses {
		rows = append(rows, model.ProductImage{
			ProductID:   productID,
			ImageIndex:  imageIndex,
			SizeClass:   string(size),
			URL:         fmt.Sprintf("/media/%d/%d/%s/%s.jpg", productID, imageIndex, contentHash, size),
			ObjectKey:   fmt.Sprintf("%d/%d/%s/%s.jpg", productID, imageIndex, contentHash, size),
			ContentHash: contentHash,
			MimeType:    consts.VariantMIMEType,
			IsPrimary:   primary && size == consts.SizeMedium,
		})
	}
	return rows
}

func mustInsertSlot(t *testing.T, repo *ImageRepository, productID uint, imageIndex int, contentHash string, primary bool) {
	t.Helper()
	if err := repo.InsertSlot(makeSlotRows(productID, imageIndex, contentHash, primary), 0); err != nil {
		t.Fatalf("insert slot %d: %v", imageIndex, err)
	}
}
