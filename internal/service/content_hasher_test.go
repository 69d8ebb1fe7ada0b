package service

import (
	"testing"

	"floresya-image-server/internal/testutils"
)

// 测试内容：验证内容指纹确定性与区分性。
func TestHashBytes(t *testing.T) {
	_, _, imageService := setupService(t)

	a := testutils.MakePNG(t, 400, 300)
	b := testutils.MakePNG(t, 400, 301)

	h1 := imageService.HashBytes(a)
	h2 := imageService.HashBytes(a)
	h3 := imageService.HashBytes(b)

	if len(h1) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(h1))
	}
	if h1 != h2 {
		t.Fatal("identical bytes must produce identical digests")
	}
	if h1 == h3 {
		t.Fatal("different bytes must produce different digests")
	}
}
