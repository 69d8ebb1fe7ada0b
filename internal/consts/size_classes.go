package consts

// SizeClass 图片变体规格，固定四档。
type SizeClass string

const (
	SizeThumb  SizeClass = "thumb"
	SizeSmall  SizeClass = "small"
	SizeMedium SizeClass = "medium"
	SizeLarge  SizeClass = "large"
)

// SizeClasses 按从小到大的固定顺序列出全部规格。
// 槽位的 4 行记录与此一一对应。
var SizeClasses = []SizeClass{SizeThumb, SizeSmall, SizeMedium, SizeLarge}

// ValidSizeClass 判断字符串是否为合法规格名。
func ValidSizeClass(s string) bool {
	switch SizeClass(s) {
	case SizeThumb, SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}

// VariantMIMEType 所有变体统一的输出格式。
const VariantMIMEType = "image/jpeg"

// VariantExtension 变体对象键的文件后缀。
const VariantExtension = ".jpg"
