package model

import "floresya-image-server/internal/consts"

// ProductImage 商品图片变体记录，每个逻辑图片槽位固定 4 行 (thumb/small/medium/large)。
// (product_id, image_index, size_class) 唯一；is_primary 仅在主图槽位的 medium 行为 true。
type ProductImage struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	ProductID   uint   `json:"product_id" gorm:"not null;index;uniqueIndex:uix_product_slot_size,priority:1"`
	ImageIndex  int    `json:"image_index" gorm:"not null;uniqueIndex:uix_product_slot_size,priority:2"`
	SizeClass   string `json:"size_class" gorm:"not null;size:16;uniqueIndex:uix_product_slot_size,priority:3"`
	URL         string `json:"url" gorm:"not null"`
	// ObjectKey 指向 blob 的实际存储键。复用去重时可能指向其他槽位索引下的键。
	ObjectKey   string `json:"-" gorm:"not null"`
	ContentHash string `json:"content_hash" gorm:"not null;size:64;index:idx_product_hash"`
	MimeType    string `json:"mime_type" gorm:"not null;size:64"`
	IsPrimary   bool   `json:"is_primary" gorm:"not null;default:false;index"`
	CreatedAt   int64  `json:"created_at" gorm:"not null;autoCreateTime"`
}

// ImageSlot 同一逻辑图片的 4 个变体行聚合视图，不单独落库。
type ImageSlot struct {
	ProductID   uint                        `json:"product_id"`
	ImageIndex  int                         `json:"image_index"`
	ContentHash string                      `json:"content_hash"`
	IsPrimary   bool                        `json:"is_primary"`
	URLs        map[consts.SizeClass]string `json:"urls"`
}

// GroupSlots 将按 image_index 升序排列的变体行聚合为槽位序列。
func GroupSlots(rows []ProductImage) []ImageSlot {
	var slots []ImageSlot
	byIndex := map[int]int{}
	for _, row := range rows {
		pos, ok := byIndex[row.ImageIndex]
		if !ok {
			slots = append(slots, ImageSlot{
				ProductID:   row.ProductID,
				ImageIndex:  row.ImageIndex,
				ContentHash: row.ContentHash,
				URLs:        map[consts.SizeClass]string{},
			})
			pos = len(slots) - 1
			byIndex[row.ImageIndex] = pos
		}
		slots[pos].URLs[consts.SizeClass(row.SizeClass)] = row.URL
		if row.IsPrimary {
			slots[pos].IsPrimary = true
		}
	}
	return slots
}
