package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	commonpkg "floresya-image-server/internal/common"
	"floresya-image-server/internal/consts"
	"floresya-image-server/internal/model"
	"floresya-image-server/internal/repository"
	"floresya-image-server/internal/service"
	"floresya-image-server/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	// DedupPolicyReuse 同商品重复内容复用既有 URL，新建槽位引用原 blob。
	DedupPolicyReuse = "reuse"
	// DedupPolicyReject 同商品重复内容直接拒绝。
	DedupPolicyReject = "reject"
)

type IngestUseCase struct {
	imageService *service.ImageService
	appService   *service.AppService
	imageStore   repository.ImageStore
	objectStore  storage.ObjectStore
	locks        *ProductLocks
}

// UploadPayload 一个待摄取的原始图片。
type UploadPayload struct {
	Filename string
	Data     []byte
}

// IngestResult 单张图片的摄取结果。
type IngestResult struct {
	Filename     string           `json:"filename"`
	Slot         *model.ImageSlot `json:"slot,omitempty"`
	Deduplicated bool             `json:"deduplicated"`
	Err          error            `json:"-"`
}

// IngestImage 摄取一张商品图片：校验 → 指纹 → 去重 → 变体生成 → 并行上传 → 元数据落库。
// 任一阶段失败时已写入的对象会被尽力清理，数据库不会残留部分槽位。
// markPrimary 为 true、或商品尚无主图时，新槽位成为主图。
func (c *IngestUseCase) IngestImage(ctx context.Context, productID uint, payload UploadPayload, markPrimary bool) (*model.ImageSlot, bool, error) {
	unlock := c.locks.Lock(productID)
	defer unlock()
	return c.ingestLocked(ctx, productID, payload, markPrimary)
}

// IngestBatch 摄取多张图片，逐张独立成败，返回与输入等长的结果序列。
// 第一张成功的图片在商品尚无主图时成为主图。
func (c *IngestUseCase) IngestBatch(ctx context.Context, productID uint, payloads []UploadPayload) ([]IngestResult, error) {
	if len(payloads) == 0 {
		return nil, commonpkg.NewValidationError("请求未包含任何图片")
	}

	unlock := c.locks.Lock(productID)
	defer unlock()

	results := make([]IngestResult, 0, len(payloads))
	for _, payload := range payloads {
		slot, deduped, err := c.ingestLocked(ctx, productID, payload, false)
		results = append(results, IngestResult{
			Filename:     payload.Filename,
			Slot:         slot,
			Deduplicated: deduped,
			Err:          err,
		})
	}
	return results, nil
}

func (c *IngestUseCase) ingestLocked(ctx context.Context, productID uint, payload UploadPayload, markPrimary bool) (*model.ImageSlot, bool, error) {
	opID := uuid.New().String()

	// 1. 校验
	meta, err := c.imageService.ValidateImageBytes(payload.Data)
	if err != nil {
		return nil, false, err
	}

	// 2. 内容指纹
	contentHash := c.imageService.HashBytes(payload.Data)

	// 3. 同商品去重
	existing, err := c.imageStore.FindSlotByHash(productID, contentHash)
	if err != nil {
		log.Printf("[%s] Dedup lookup error: %v\n", opID, err)
		return nil, false, commonpkg.NewInternalError("查询重复图片失败")
	}
	if len(existing) > 0 {
		switch c.appService.GetString(consts.ConfigDedupPolicy) {
		case DedupPolicyReject:
			return nil, false, commonpkg.NewDuplicateError(
				fmt.Sprintf("商品已存在相同内容的图片 (槽位 %d)", existing[0].ImageIndex))
		default:
			slot, err := c.reuseSlot(productID, existing, markPrimary)
			if err != nil {
				return nil, false, err
			}
			return slot, true, nil
		}
	}

	// 4. 变体生成
	variants, err := c.imageService.GenerateVariants(ctx, payload.Data)
	if err != nil {
		return nil, false, err
	}

	imageIndex, err := c.imageStore.NextImageIndex(productID)
	if err != nil {
		log.Printf("[%s] Next index error: %v\n", opID, err)
		return nil, false, commonpkg.NewInternalError("分配图片槽位失败")
	}

	// 槽位上限先在锁内快速失败，最终仍由插入事务兜底
	maxSlots := c.appService.GetInt(consts.ConfigMaxSlotsPerProduct)
	count, err := c.imageStore.CountSlots(productID)
	if err != nil {
		return nil, false, commonpkg.NewInternalError("查询商品槽位数失败")
	}
	if maxSlots > 0 && count >= int64(maxSlots) {
		return nil, false, commonpkg.NewConsistencyError(
			fmt.Sprintf("商品图片数已达上限 (%d)", maxSlots))
	}

	// 5. 并行上传 4 个变体
	uploaded, err := c.uploadVariants(ctx, opID, productID, imageIndex, contentHash, variants)
	if err != nil {
		c.rollbackObjects(opID, uploaded)
		return nil, false, err
	}

	// 6. 元数据单事务落库
	// 商品已有主图时不在插入行上带主图标记，避免出现双主图；
	// 插入后再经 SetPrimary 事务切换。
	hadPrimary := c.hasPrimary(productID)
	rows := c.buildSlotRows(productID, imageIndex, contentHash, !hadPrimary)
	if err := c.imageStore.InsertSlot(rows, maxSlots); err != nil {
		c.rollbackObjects(opID, uploaded)
		if errors.Is(err, repository.ErrSlotLimitExceeded) {
			return nil, false, commonpkg.NewConsistencyError(
				fmt.Sprintf("商品图片数已达上限 (%d)", maxSlots))
		}
		log.Printf("[%s] Insert slot error: %v\n", opID, err)
		return nil, false, commonpkg.NewConsistencyError("图片元数据写入失败，已回滚存储对象")
	}

	if markPrimary && hadPrimary {
		if err := c.imageStore.SetPrimary(productID, imageIndex); err != nil {
			log.Printf("[%s] Set primary after ingest error: %v\n", opID, err)
		}
	}

	log.Printf("[%s] Ingested product=%d index=%d hash=%s format=%s %dx%d\n",
		opID, productID, imageIndex, contentHash[:12], meta.Format, meta.Width, meta.Height)

	return c.committedSlot(productID, imageIndex, rows), false, nil
}

// reuseSlot 复用去重：不触碰对象存储，仅新建一个引用相同 URL 的槽位。
func (c *IngestUseCase) reuseSlot(productID uint, existing []model.ProductImage, markPrimary bool) (*model.ImageSlot, error) {
	imageIndex, err := c.imageStore.NextImageIndex(productID)
	if err != nil {
		return nil, commonpkg.NewInternalError("分配图片槽位失败")
	}

	maxSlots := c.appService.GetInt(consts.ConfigMaxSlotsPerProduct)
	hadPrimary := c.hasPrimary(productID)

	rows := make([]model.ProductImage, 0, len(existing))
	for _, row := range existing {
		rows = append(rows, model.ProductImage{
			ProductID:   productID,
			ImageIndex:  imageIndex,
			SizeClass:   row.SizeClass,
			URL:         row.URL,
			ObjectKey:   row.ObjectKey,
			ContentHash: row.ContentHash,
			MimeType:    row.MimeType,
			IsPrimary:   !hadPrimary && row.SizeClass == string(consts.SizeMedium),
		})
	}

	if err := c.imageStore.InsertSlot(rows, maxSlots); err != nil {
		if errors.Is(err, repository.ErrSlotLimitExceeded) {
			return nil, commonpkg.NewConsistencyError(
				fmt.Sprintf("商品图片数已达上限 (%d)", maxSlots))
		}
		log.Printf("Reuse slot insert error: %v\n", err)
		return nil, commonpkg.NewInternalError("图片元数据写入失败")
	}

	if markPrimary && hadPrimary {
		if err := c.imageStore.SetPrimary(productID, imageIndex); err != nil {
			log.Printf("Set primary after reuse error: %v\n", err)
		}
	}

	return c.committedSlot(productID, imageIndex, rows), nil
}

// committedSlot 以数据库已提交状态聚合槽位，读取失败时退回到内存中的插入行。
func (c *IngestUseCase) committedSlot(productID uint, imageIndex int, fallback []model.ProductImage) *model.ImageSlot {
	rows, err := c.imageStore.FindByProduct(productID)
	if err == nil {
		for _, slot := range model.GroupSlots(rows) {
			if slot.ImageIndex == imageIndex {
				return &slot
			}
		}
	}
	slots := model.GroupSlots(fallback)
	return &slots[0]
}

// uploadVariants 并行写入全部变体，返回已成功写入的键 (失败时供回滚)。
// 每次写入带独立超时并做有限重试，超时与失败同等对待。
func (c *IngestUseCase) uploadVariants(ctx context.Context, opID string, productID uint,
	imageIndex int, contentHash string, variants map[consts.SizeClass][]byte) ([]string, error) {

	timeout := time.Duration(c.appService.GetInt(consts.ConfigUploadTimeoutSeconds)) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	retries := c.appService.GetInt(consts.ConfigUploadRetryCount)

	var mu sync.Mutex
	var uploaded []string

	g, gctx := errgroup.WithContext(ctx)
	for _, size := range consts.SizeClasses {
		data, ok := variants[size]
		if !ok {
			return uploaded, commonpkg.NewInternalError(fmt.Sprintf("缺少 %s 变体数据", size))
		}
		key := storage.VariantKey(productID, imageIndex, contentHash, size)
		g.Go(func() error {
			if err := c.putWithRetry(gctx, key, data, timeout, retries); err != nil {
				log.Printf("[%s] Upload %s failed: %v\n", opID, key, err)
				return commonpkg.NewStorageError(fmt.Sprintf("变体 %s 上传失败", key), err)
			}
			mu.Lock()
			uploaded = append(uploaded, key)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return uploaded, err
	}
	return uploaded, nil
}

// retryBaseDelay 重试退避的基础间隔，第 n 次重试前等待 n 倍间隔。
const retryBaseDelay = 100 * time.Millisecond

func (c *IngestUseCase) putWithRetry(ctx context.Context, key string, data []byte,
	timeout time.Duration, retries int) error {
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return lastErr
			case <-time.After(time.Duration(attempt) * retryBaseDelay):
			}
		}
		putCtx, cancel := context.WithTimeout(ctx, timeout)
		lastErr = c.objectStore.Put(putCtx, key, data, consts.VariantMIMEType)
		cancel()
		if lastErr == nil {
			return nil
		}
		// 外层上下文已取消时不再重试
		if ctx.Err() != nil {
			return lastErr
		}
	}
	return lastErr
}

// rollbackObjects 补偿清理已写入的对象。清理失败只记录日志：
// 孤儿 blob 可容忍，孤儿元数据行不可容忍。
func (c *IngestUseCase) rollbackObjects(opID string, keys []string) {
	if len(keys) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, key := range keys {
		if err := c.objectStore.Delete(ctx, key); err != nil {
			log.Printf("[%s] ⚠️ Rollback delete %s failed: %v\n", opID, key, err)
		}
	}
}

func (c *IngestUseCase) buildSlotRows(productID uint, imageIndex int, contentHash string, primary bool) []model.ProductImage {
	rows := make([]model.ProductImage, 0, len(consts.SizeClasses))
	for _, size := range consts.SizeClasses {
		key := storage.VariantKey(productID, imageIndex, contentHash, size)
		rows = append(rows, model.ProductImage{
			ProductID:   productID,
			ImageIndex:  imageIndex,
			SizeClass:   string(size),
			URL:         c.objectStore.URL(key),
			ObjectKey:   key,
			ContentHash: contentHash,
			MimeType:    consts.VariantMIMEType,
			IsPrimary:   primary && size == consts.SizeMedium,
		})
	}
	return rows
}

func (c *IngestUseCase) hasPrimary(productID uint) bool {
	_, err := c.imageStore.FindPrimaryRow(productID)
	return err == nil
}
