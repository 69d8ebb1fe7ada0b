package storage

import (
	"context"
	"fmt"

	"floresya-image-server/internal/consts"
)

// ObjectStore 对象存储抽象：按键写入/删除不透明字节块。
// 元数据真实性以数据库为准，对象存储只保存可重建的派生字节。
type ObjectStore interface {
	// Put 写入对象。相同键重复写入为幂等覆盖。
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Delete 删除对象。键不存在不视为错误（尽力而为语义）。
	Delete(ctx context.Context, key string) error
	// URL 返回对象的对外访问地址。
	URL(key string) string
}

// VariantKey 生成变体对象键: {product_id}/{image_index}/{content_hash}/{size}.jpg
// 键由内容哈希决定，相同内容重复上传天然幂等。
func VariantKey(productID uint, imageIndex int, contentHash string, size consts.SizeClass) string {
	return fmt.Sprintf("%d/%d/%s/%s%s", productID, imageIndex, contentHash, size, consts.VariantExtension)
}
