package service

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"runtime"
	"sync"

	"floresya-image-server/internal/common"
	"floresya-image-server/internal/consts"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

// GenerateVariants 从一份已校验的源图生成固定四档 JPEG 变体。
//
// 每档独立生成：居中裁剪为覆盖目标比例的最大区域，再缩放到目标边长。
// 小图允许放大，合法的小图绝不拒绝。
// 源图在 Validator 通过后解码失败属于管线内部缺陷，按 InternalError 上报。
func (s *ImageService) GenerateVariants(ctx context.Context, src []byte) (map[consts.SizeClass][]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		// 校验已通过却无法解码，说明校验器与生成器支持的格式不一致
		return nil, common.WrapServiceError(common.ErrorCodeInternal, "系统错误: 已校验图片解码失败", err)
	}

	quality := s.app.GetInt(consts.ConfigJPEGQuality)
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	dims := s.app.VariantDimensions()

	variants := make(map[consts.SizeClass][]byte, len(consts.SizeClasses))
	var mu sync.Mutex

	// 生成为 CPU 密集操作，并发度不超过核数，避免饿死其他请求
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, class := range consts.SizeClasses {
		class := class
		side := dims[class]
		g.Go(func() error {
			data, err := encodeVariant(img, side, quality)
			if err != nil {
				return common.WrapServiceError(common.ErrorCodeInternal, "系统错误: 变体编码失败", err)
			}
			mu.Lock()
			variants[class] = data
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return variants, nil
}

// encodeVariant 居中裁剪并缩放到 side×side，输出 JPEG。
func encodeVariant(img image.Image, side, quality int) ([]byte, error) {
	cropped := centerSquare(img)
	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, cropped, draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// centerSquare 返回图片中心的最大正方形区域（fit-to-cover 裁剪）。
func centerSquare(img image.Image) image.Rectangle {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	side := w
	if h < side {
		side = h
	}
	x0 := b.Min.X + (w-side)/2
	y0 := b.Min.Y + (h-side)/2
	return image.Rect(x0, y0, x0+side, y0+side)
}
