package consts

const (

	// ConfigMaxUploadSize 单张图片最大上传限制 (MB)
	ConfigMaxUploadSize = "max_upload_size"

	// ConfigAllowFileExtensions 允许上传的文件扩展名 (逗号分隔)
	ConfigAllowFileExtensions = "allow_file_extensions"

	// ConfigMinImageWidth 上传图片最小宽度 (像素)
	ConfigMinImageWidth = "min_image_width"

	// ConfigMinImageHeight 上传图片最小高度 (像素)
	ConfigMinImageHeight = "min_image_height"

	// ConfigMaxSlotsPerProduct 单个商品最多图片槽位数
	ConfigMaxSlotsPerProduct = "max_slots_per_product"

	// ConfigDedupPolicy 同商品重复内容策略 (reuse/reject)
	ConfigDedupPolicy = "dedup_policy"

	// ConfigJPEGQuality 变体输出 JPEG 质量 (1-100)
	ConfigJPEGQuality = "jpeg_quality"

	// ConfigVariantThumbSize thumb 变体边长 (像素)
	ConfigVariantThumbSize = "variant_thumb_size"

	// ConfigVariantSmallSize small 变体边长 (像素)
	ConfigVariantSmallSize = "variant_small_size"

	// ConfigVariantMediumSize medium 变体边长 (像素)
	ConfigVariantMediumSize = "variant_medium_size"

	// ConfigVariantLargeSize large 变体边长 (像素)
	ConfigVariantLargeSize = "variant_large_size"

	// ConfigUploadTimeoutSeconds 单个对象写入超时 (秒)
	ConfigUploadTimeoutSeconds = "upload_timeout_seconds"

	// ConfigUploadRetryCount 对象写入瞬时失败重试次数
	ConfigUploadRetryCount = "upload_retry_count"

	// ConfigRateLimitEnabled 是否开启限流
	ConfigRateLimitEnabled = "rate_limit_enabled"

	// ConfigRateLimitUploadRPS 上传接口限流 RPS
	ConfigRateLimitUploadRPS = "rate_limit_upload_rps"

	// ConfigRateLimitUploadBurst 上传接口限流 Burst
	ConfigRateLimitUploadBurst = "rate_limit_upload_burst"

	// ConfigMaxRequestBodySize 非上传接口最大请求体限制 (MB)
	ConfigMaxRequestBodySize = "max_request_body_size"

	// ConfigStaticCacheControl 媒体资源缓存设置 (Cache-Control header value)
	ConfigStaticCacheControl = "static_cache_control"
)
