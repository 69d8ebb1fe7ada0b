package service

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashBytes 计算原始上传字节的 SHA-256 十六进制指纹。
// 指纹同时用于去重判断和对象键，必须保持确定性。
func (s *ImageService) HashBytes(buf []byte) string {
	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:])
}
