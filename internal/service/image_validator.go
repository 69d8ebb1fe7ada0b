package service

import (
	"bytes"
	"fmt"
	"image"
	"net/http"
	"strings"

	"floresya-image-server/internal/common"
	"floresya-image-server/internal/consts"

	// 注册解码器：DecodeConfig/Decode 依赖
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// ImageMeta 校验通过后返回的图片元信息。
type ImageMeta struct {
	Width    int
	Height   int
	Format   string // image.DecodeConfig 识别的格式名，如 "jpeg"
	MimeType string // 嗅探到的 MIME 类型
	Size     int64
}

// mime 类型与扩展名映射，来源与上传内容嗅探保持一致。
var mimeExtensions = map[string][]string{
	"image/jpeg":     {".jpg", ".jpeg"},
	"image/png":      {".png"},
	"image/gif":      {".gif"},
	"image/webp":     {".webp"},
	"image/bmp":      {".bmp"},
	"image/x-ms-bmp": {".bmp"},
}

// ValidateImageBytes 按顺序校验上传字节：大小 → 格式 → 尺寸。
// 大小检查不做任何解码，快速失败。
// 返回解码出的元信息；所有失败均为 ValidationError 且带明确原因。
func (s *ImageService) ValidateImageBytes(buf []byte) (*ImageMeta, error) {
	// 1. 字节大小
	maxSizeMB := s.app.GetInt(consts.ConfigMaxUploadSize)
	if maxSizeMB <= 0 {
		maxSizeMB = 5
	}
	if int64(len(buf)) > int64(maxSizeMB)*1024*1024 {
		return nil, common.NewValidationError(fmt.Sprintf("文件大小不能超过 %dMB", maxSizeMB))
	}
	if len(buf) == 0 {
		return nil, common.NewValidationError("文件内容为空")
	}

	// 2. 魔数嗅探 + 允许列表
	contentType := http.DetectContentType(buf)
	if !s.mimeAllowed(contentType) {
		return nil, common.NewValidationError(fmt.Sprintf("不支持的文件类型: %s", contentType))
	}

	// 3. 解码头部获取尺寸
	cfg, format, err := image.DecodeConfig(bytes.NewReader(buf))
	if err != nil {
		return nil, common.NewValidationError("文件不是可识别的图片格式")
	}

	minW := s.app.GetInt(consts.ConfigMinImageWidth)
	minH := s.app.GetInt(consts.ConfigMinImageHeight)
	if cfg.Width < minW || cfg.Height < minH {
		return nil, common.NewValidationError(
			fmt.Sprintf("图片尺寸过小: %dx%d，最小要求 %dx%d", cfg.Width, cfg.Height, minW, minH))
	}

	return &ImageMeta{
		Width:    cfg.Width,
		Height:   cfg.Height,
		Format:   format,
		MimeType: contentType,
		Size:     int64(len(buf)),
	}, nil
}

// mimeAllowed 判断嗅探类型对应的扩展名是否在允许列表中。
func (s *ImageService) mimeAllowed(contentType string) bool {
	exts, ok := mimeExtensions[contentType]
	if !ok {
		return false
	}

	allowExtsStr := s.app.GetString(consts.ConfigAllowFileExtensions)
	if allowExtsStr == "" {
		allowExtsStr = ".jpg,.jpeg,.png,.gif,.webp"
	}
	for _, allowExt := range strings.Split(allowExtsStr, ",") {
		allowExt = strings.TrimSpace(strings.ToLower(allowExt))
		for _, ext := range exts {
			if allowExt == ext {
				return true
			}
		}
	}
	return false
}
