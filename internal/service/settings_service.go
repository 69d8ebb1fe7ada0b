package service

import (
	"floresya-image-server/internal/consts"
	"floresya-image-server/internal/model"
)

var DefaultSettings = []model.Setting{
	{Key: consts.ConfigMaxUploadSize, Value: "5", Desc: "单张图片最大大小 (MB)"},
	{Key: consts.ConfigAllowFileExtensions, Value: ".jpg,.jpeg,.png,.gif,.webp", Desc: "允许上传的文件扩展名"},
	{Key: consts.ConfigMinImageWidth, Value: "200", Desc: "上传图片最小宽度 (像素)"},
	{Key: consts.ConfigMinImageHeight, Value: "200", Desc: "上传图片最小高度 (像素)"},
	{Key: consts.ConfigMaxSlotsPerProduct, Value: "5", Desc: "单个商品最多图片槽位数"},
	{Key: consts.ConfigDedupPolicy, Value: "reuse", Desc: "同商品重复内容策略 (reuse=复用已有对象/reject=拒绝)"},
	{Key: consts.ConfigJPEGQuality, Value: "85", Desc: "变体输出 JPEG 质量 (1-100)"},
	{Key: consts.ConfigVariantThumbSize, Value: "150", Desc: "thumb 变体边长 (像素)"},
	{Key: consts.ConfigVariantSmallSize, Value: "300", Desc: "small 变体边长 (像素)"},
	{Key: consts.ConfigVariantMediumSize, Value: "600", Desc: "medium 变体边长 (像素)"},
	{Key: consts.ConfigVariantLargeSize, Value: "1200", Desc: "large 变体边长 (像素)"},
	{Key: consts.ConfigUploadTimeoutSeconds, Value: "30", Desc: "单个对象写入超时 (秒)"},
	{Key: consts.ConfigUploadRetryCount, Value: "2", Desc: "对象写入瞬时失败重试次数"},
	{Key: consts.ConfigRateLimitEnabled, Value: "true", Desc: "是否开启接口限流"},
	{Key: consts.ConfigRateLimitUploadRPS, Value: "1.0", Desc: "上传接口每秒请求限制 (RPS)"},
	{Key: consts.ConfigRateLimitUploadBurst, Value: "5", Desc: "上传接口突发请求限制"},
	{Key: consts.ConfigMaxRequestBodySize, Value: "2", Desc: "非文件上传接口最大请求体限制 (MB)"},
	{Key: consts.ConfigStaticCacheControl, Value: "public, max-age=31536000, immutable", Desc: "媒体资源缓存设置 (Cache-Control)"},
}

// InitializeSettings 将缺失的默认设置写入数据库（幂等）。
func (s *AppService) InitializeSettings() {
	for _, def := range DefaultSettings {
		count, err := s.repos.Setting.CountByKey(def.Key)
		if err != nil {
			continue
		}
		if count == 0 {
			newSetting := def
			_ = s.repos.Setting.Create(&newSetting)
		}
	}
}

// VariantDimensions 返回各规格的目标边长（像素）。
func (s *AppService) VariantDimensions() map[consts.SizeClass]int {
	dims := map[consts.SizeClass]int{
		consts.SizeThumb:  s.GetInt(consts.ConfigVariantThumbSize),
		consts.SizeSmall:  s.GetInt(consts.ConfigVariantSmallSize),
		consts.SizeMedium: s.GetInt(consts.ConfigVariantMediumSize),
		consts.SizeLarge:  s.GetInt(consts.ConfigVariantLargeSize),
	}
	// 设置损坏时回退到出厂边长，变体集合必须始终完整。
	fallback := map[consts.SizeClass]int{
		consts.SizeThumb:  150,
		consts.SizeSmall:  300,
		consts.SizeMedium: 600,
		consts.SizeLarge:  1200,
	}
	for class, dim := range dims {
		if dim <= 0 {
			dims[class] = fallback[class]
		}
	}
	return dims
}
