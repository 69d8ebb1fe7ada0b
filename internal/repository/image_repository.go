package repository

import (
	"errors"

	"floresya-image-server/internal/model"
)

var (
	// ErrSlotLimitExceeded 商品槽位数已达上限 (在插入事务内校验)。
	ErrSlotLimitExceeded = errors.New("商品图片槽位已达上限")
	// ErrIncompleteSlot 槽位行数不完整，拒绝写入部分集合。
	ErrIncompleteSlot = errors.New("槽位变体行不完整")
	// ErrBadReorderSet 重排序列不是现有槽位索引的排列。
	ErrBadReorderSet = errors.New("重排序列与现有槽位不匹配")
)

// ImageStore 商品图片元数据存储。
// 多行写入全部在单事务内完成，任何时刻对外可见状态满足槽位完整性。
type ImageStore interface {
	// FindByProduct 返回商品全部变体行，按 image_index 升序。
	FindByProduct(productID uint) ([]model.ProductImage, error)
	// FindByProductAndSize 返回商品指定规格的行，按 image_index 升序。
	FindByProductAndSize(productID uint, sizeClass string) ([]model.ProductImage, error)
	// FindSlotByHash 返回商品内匹配内容指纹的最小槽位的全部行；无匹配返回空切片。
	FindSlotByHash(productID uint, contentHash string) ([]model.ProductImage, error)
	// FindPrimaryRow 返回承载主图标记的行；无主图返回 gorm.ErrRecordNotFound。
	FindPrimaryRow(productID uint) (*model.ProductImage, error)
	// CountSlots 返回商品现有槽位数 (按 image_index 去重)。
	CountSlots(productID uint) (int64, error)
	// NextImageIndex 返回商品下一个可用槽位索引 (从 1 开始)。
	NextImageIndex(productID uint) (int, error)
	// HashRefCount 返回商品内引用该内容指纹的行数。
	HashRefCount(productID uint, contentHash string) (int64, error)
	// InsertSlot 单事务写入一个槽位的全部行，同时校验槽位上限。
	InsertSlot(rows []model.ProductImage, maxSlots int) error
	// SetPrimary 单事务切换主图：清除旧主图标记并设置新主图。
	SetPrimary(productID uint, imageIndex int) error
	// DeleteSlot 单事务删除槽位全部行，返回被删除的行。
	DeleteSlot(productID uint, imageIndex int) ([]model.ProductImage, error)
	// Reorder 单事务按新索引序列批量重排槽位。
	Reorder(productID uint, newIndexOrder []int) error
}
