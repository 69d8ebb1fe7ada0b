package repository

import (
	"floresya-image-server/internal/consts"
	"floresya-image-server/internal/model"

	"gorm.io/gorm"
)

type ImageRepository struct {
	db *gorm.DB
}

// reorderShift 两阶段重排的临时索引偏移，避免唯一约束在中间状态冲突。
const reorderShift = 1000000

func (r *ImageRepository) FindByProduct(productID uint) ([]model.ProductImage, error) {
	var rows []model.ProductImage
	if err := r.db.Where("product_id = ?", productID).
		Order("image_index asc, id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ImageRepository) FindByProductAndSize(productID uint, sizeClass string) ([]model.ProductImage, error) {
	var rows []model.ProductImage
	if err := r.db.Where("product_id = ? AND size_class = ?", productID, sizeClass).
		Order("image_index asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ImageRepository) FindSlotByHash(productID uint, contentHash string) ([]model.ProductImage, error) {
	var rows []model.ProductImage
	if err := r.db.Where("product_id = ? AND content_hash = ?", productID, contentHash).
		Order("image_index asc, id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	// 只取最小槽位的行
	first := rows[0].ImageIndex
	slot := make([]model.ProductImage, 0, len(consts.SizeClasses))
	for _, row := range rows {
		if row.ImageIndex == first {
			slot = append(slot, row)
		}
	}
	return slot, nil
}

func (r *ImageRepository) FindPrimaryRow(productID uint) (*model.ProductImage, error) {
	var row model.ProductImage
	if err := r.db.Where("product_id = ? AND is_primary = ?", productID, true).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *ImageRepository) CountSlots(productID uint) (int64, error) {
	return countSlotsTx(r.db, productID)
}

func countSlotsTx(tx *gorm.DB, productID uint) (int64, error) {
	var count int64
	if err := tx.Model(&model.ProductImage{}).
		Where("product_id = ?", productID).
		Distinct("image_index").Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ImageRepository) NextImageIndex(productID uint) (int, error) {
	var maxIndex int
	if err := r.db.Model(&model.ProductImage{}).
		Where("product_id = ?", productID).
		Select("COALESCE(MAX(image_index), 0)").Scan(&maxIndex).Error; err != nil {
		return 0, err
	}
	return maxIndex + 1, nil
}

func (r *ImageRepository) HashRefCount(productID uint, contentHash string) (int64, error) {
	var count int64
	if err := r.db.Model(&model.ProductImage{}).
		Where("product_id = ? AND content_hash = ?", productID, contentHash).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ImageRepository) InsertSlot(rows []model.ProductImage, maxSlots int) error {
	if len(rows) != len(consts.SizeClasses) {
		return ErrIncompleteSlot
	}
	// 同槽位行必须共享 product/index/hash
	for _, row := range rows[1:] {
		if row.ProductID != rows[0].ProductID ||
			row.ImageIndex != rows[0].ImageIndex ||
			row.ContentHash != rows[0].ContentHash {
			return ErrIncompleteSlot
		}
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		// 槽位上限在事务内校验，防止并发插入越界
		count, err := countSlotsTx(tx, rows[0].ProductID)
		if err != nil {
			return err
		}
		if maxSlots > 0 && count >= int64(maxSlots) {
			return ErrSlotLimitExceeded
		}
		return tx.Create(&rows).Error
	})
}

func (r *ImageRepository) SetPrimary(productID uint, imageIndex int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// 主图标记仅承载在 medium 行上
		var target model.ProductImage
		if err := tx.Where("product_id = ? AND image_index = ? AND size_class = ?",
			productID, imageIndex, string(consts.SizeMedium)).First(&target).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.ProductImage{}).
			Where("product_id = ? AND is_primary = ?", productID, true).
			Update("is_primary", false).Error; err != nil {
			return err
		}

		return tx.Model(&model.ProductImage{}).
			Where("id = ?", target.ID).
			Update("is_primary", true).Error
	})
}

func (r *ImageRepository) DeleteSlot(productID uint, imageIndex int) ([]model.ProductImage, error) {
	var deleted []model.ProductImage
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ? AND image_index = ?", productID, imageIndex).
			Find(&deleted).Error; err != nil {
			return err
		}
		if len(deleted) == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("product_id = ? AND image_index = ?", productID, imageIndex).
			Delete(&model.ProductImage{}).Error
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func (r *ImageRepository) Reorder(productID uint, newIndexOrder []int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing []int
		if err := tx.Model(&model.ProductImage{}).
			Where("product_id = ?", productID).
			Distinct("image_index").Order("image_index asc").
			Pluck("image_index", &existing).Error; err != nil {
			return err
		}

		if !samePermutation(existing, newIndexOrder) {
			return ErrBadReorderSet
		}

		// 阶段一：整体平移到临时区间，规避 (product, index, size) 唯一约束
		if err := tx.Model(&model.ProductImage{}).
			Where("product_id = ?", productID).
			Update("image_index", gorm.Expr("image_index + ?", reorderShift)).Error; err != nil {
			return err
		}

		// 阶段二：按新顺序重新编号为 1..n
		for pos, oldIndex := range newIndexOrder {
			if err := tx.Model(&model.ProductImage{}).
				Where("product_id = ? AND image_index = ?", productID, oldIndex+reorderShift).
				Update("image_index", pos+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// samePermutation 判断 b 是否为 a 的一个排列。
func samePermutation(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[int]int, len(a))
	for _, v := range a {
		seen[v]++
	}
	for _, v := range b {
		seen[v]--
		if seen[v] < 0 {
			return false
		}
	}
	return true
}
