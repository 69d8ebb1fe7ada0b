package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	commonpkg "floresya-image-server/internal/common"
	"floresya-image-server/internal/consts"
	"floresya-image-server/internal/model"
	"floresya-image-server/internal/repository"
	"floresya-image-server/internal/service"
	"floresya-image-server/internal/storage"

	"gorm.io/gorm"
)

// SlotAdminUseCase 槽位管理：列表、主图切换、删除、重排。
type SlotAdminUseCase struct {
	appService  *service.AppService
	imageStore  repository.ImageStore
	objectStore storage.ObjectStore
	locks       *ProductLocks
}

// ListSlots 返回商品全部图片槽位，按 image_index 升序。
func (c *SlotAdminUseCase) ListSlots(productID uint) ([]model.ImageSlot, error) {
	rows, err := c.imageStore.FindByProduct(productID)
	if err != nil {
		log.Printf("List slots error: %v\n", err)
		return nil, commonpkg.NewInternalError("查询商品图片失败")
	}
	slots := model.GroupSlots(rows)
	if slots == nil {
		slots = []model.ImageSlot{}
	}
	return slots, nil
}

// ListBySize 返回商品指定规格的变体行，按 image_index 升序。
func (c *SlotAdminUseCase) ListBySize(productID uint, sizeClass string) ([]model.ProductImage, error) {
	if !consts.ValidSizeClass(sizeClass) {
		return nil, commonpkg.NewValidationError(fmt.Sprintf("无效的图片规格: %s", sizeClass))
	}
	rows, err := c.imageStore.FindByProductAndSize(productID, sizeClass)
	if err != nil {
		log.Printf("List by size error: %v\n", err)
		return nil, commonpkg.NewInternalError("查询商品图片失败")
	}
	if rows == nil {
		rows = []model.ProductImage{}
	}
	return rows, nil
}

// GetPrimary 返回商品主图所在槽位。
// 没有任何行携带主图标记时回退到最小索引槽位，只有完全无图才返回 not_found。
func (c *SlotAdminUseCase) GetPrimary(productID uint) (*model.ImageSlot, error) {
	row, err := c.imageStore.FindPrimaryRow(productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Find primary error: %v\n", err)
		return nil, commonpkg.NewInternalError("查询商品主图失败")
	}

	rows, err := c.imageStore.FindByProduct(productID)
	if err != nil {
		log.Printf("Find primary slot rows error: %v\n", err)
		return nil, commonpkg.NewInternalError("查询商品主图失败")
	}
	slots := model.GroupSlots(rows)
	if len(slots) == 0 {
		return nil, commonpkg.NewNotFoundError("商品暂无图片")
	}

	if row == nil {
		// 主图标记缺失（删除后的短暂窗口），回退到最小索引槽位
		return &slots[0], nil
	}
	for _, slot := range slots {
		if slot.ImageIndex == row.ImageIndex {
			return &slot, nil
		}
	}
	// 主图行存在但槽位聚合缺失，说明元数据被破坏
	return nil, commonpkg.NewConsistencyError("主图槽位数据不完整")
}

// SetPrimary 将指定槽位设为主图。
func (c *SlotAdminUseCase) SetPrimary(productID uint, imageIndex int) error {
	unlock := c.locks.Lock(productID)
	defer unlock()

	if err := c.imageStore.SetPrimary(productID, imageIndex); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return commonpkg.NewNotFoundError(fmt.Sprintf("图片槽位 %d 不存在", imageIndex))
		}
		log.Printf("Set primary error: %v\n", err)
		return commonpkg.NewInternalError("设置主图失败")
	}
	return nil
}

// DeleteSlot 删除槽位。被删槽位是主图时，主图顺延给剩余最小索引的槽位；
// 槽位持有商品内某内容指纹的最后一份引用时，对应 blob 被尽力清理。
func (c *SlotAdminUseCase) DeleteSlot(ctx context.Context, productID uint, imageIndex int) error {
	unlock := c.locks.Lock(productID)
	defer unlock()

	deleted, err := c.imageStore.DeleteSlot(productID, imageIndex)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return commonpkg.NewNotFoundError(fmt.Sprintf("图片槽位 %d 不存在", imageIndex))
		}
		log.Printf("Delete slot error: %v\n", err)
		return commonpkg.NewInternalError("删除图片失败")
	}

	wasPrimary := false
	for _, row := range deleted {
		if row.IsPrimary {
			wasPrimary = true
		}
	}
	if wasPrimary {
		c.promoteNextPrimary(productID)
	}

	c.cleanupOrphanBlobs(ctx, productID, deleted)
	return nil
}

// Reorder 按给定的现有索引序列重排槽位，重排后索引重新编号为 1..n。
func (c *SlotAdminUseCase) Reorder(productID uint, newIndexOrder []int) error {
	unlock := c.locks.Lock(productID)
	defer unlock()

	if err := c.imageStore.Reorder(productID, newIndexOrder); err != nil {
		if errors.Is(err, repository.ErrBadReorderSet) {
			return commonpkg.NewValidationError("重排序列必须包含商品现有全部槽位索引且不重复")
		}
		log.Printf("Reorder error: %v\n", err)
		return commonpkg.NewInternalError("图片重排失败")
	}
	return nil
}

// promoteNextPrimary 删除主图后把主图顺延给最小索引槽位。失败只记录日志，
// 商品短暂无主图可接受，下一次摄取会自动补上。
func (c *SlotAdminUseCase) promoteNextPrimary(productID uint) {
	rows, err := c.imageStore.FindByProduct(productID)
	if err != nil {
		log.Printf("Promote primary lookup error: %v\n", err)
		return
	}
	slots := model.GroupSlots(rows)
	if len(slots) == 0 {
		return
	}
	if err := c.imageStore.SetPrimary(productID, slots[0].ImageIndex); err != nil {
		log.Printf("Promote primary error: %v\n", err)
	}
}

// cleanupOrphanBlobs 清理不再被任何槽位引用的 blob。
func (c *SlotAdminUseCase) cleanupOrphanBlobs(ctx context.Context, productID uint, deleted []model.ProductImage) {
	cleanCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cleaned := map[string]bool{}
	for _, row := range deleted {
		if cleaned[row.ContentHash] {
			continue
		}
		cleaned[row.ContentHash] = true

		refs, err := c.imageStore.HashRefCount(productID, row.ContentHash)
		if err != nil {
			log.Printf("Blob refcount error: %v\n", err)
			continue
		}
		if refs > 0 {
			continue
		}
		for _, del := range deleted {
			if del.ContentHash != row.ContentHash {
				continue
			}
			if err := c.objectStore.Delete(cleanCtx, del.ObjectKey); err != nil {
				log.Printf("⚠️ Blob cleanup %s failed: %v\n", del.ObjectKey, err)
			}
		}
	}
}
