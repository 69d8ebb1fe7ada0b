package service

// ImageService 图片管线服务：校验、内容指纹、变体生成。
// 无状态，约束参数全部来自运行时设置。
type ImageService struct {
	app *AppService
}

func NewImageService(appService *AppService) *ImageService {
	return &ImageService{app: appService}
}
