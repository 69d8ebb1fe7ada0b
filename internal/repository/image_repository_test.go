package repository

import (
	"errors"
	"testing"

	"floresya-image-server/internal/consts"
	"floresya-image-server/internal/model"

	"gorm.io/gorm"
)

func TestInsertSlot_RejectsIncompleteSlot(t *testing.T) {
	_, repo := setupRepo(t)

	rows := makeSlotRows(1, 1, "aaa", false)
	if err := repo.InsertSlot(rows[:2], 0); !errors.Is(err, ErrIncompleteSlot) {
		t.Fatalf("expected ErrIncompleteSlot, got %v", err)
	}

	// 混入不同槽位的行同样拒绝
	mixed := makeSlotRows(1, 1, "aaa", false)
	mixed[2].ImageIndex = 2
	if err := repo.InsertSlot(mixed, 0); !errors.Is(err, ErrIncompleteSlot) {
		t.Fatalf("expected ErrIncompleteSlot for mixed rows, got %v", err)
	}

	var count int64
	repo.db.Model(&model.ProductImage{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no rows persisted, got %d", count)
	}
}

func TestInsertSlot_AtomicOnConstraintViolation(t *testing.T) {
	_, repo := setupRepo(t)
	mustInsertSlot(t, repo, 1, 1, "aaa", true)

	// 与已有槽位冲突，整批回滚
	if err := repo.InsertSlot(makeSlotRows(1, 1, "bbb", false), 0); err == nil {
		t.Fatal("expected unique constraint violation")
	}

	var count int64
	repo.db.Model(&model.ProductImage{}).Where("content_hash = ?", "bbb").Count(&count)
	if count != 0 {
		t.Fatalf("expected rollback to leave no bbb rows, got %d", count)
	}
}

func TestInsertSlot_EnforcesSlotLimit(t *testing.T) {
	_, repo := setupRepo(t)
	mustInsertSlot(t, repo, 1, 1, "aaa", true)
	mustInsertSlot(t, repo, 1, 2, "bbb", false)

	if err := repo.InsertSlot(makeSlotRows(1, 3, "ccc", false), 2); !errors.Is(err, ErrSlotLimitExceeded) {
		t.Fatalf("expected ErrSlotLimitExceeded, got %v", err)
	}

	// 其他商品不受该上限影响
	if err := repo.InsertSlot(makeSlotRows(2, 1, "ccc", true), 2); err != nil {
		t.Fatalf("other product insert: %v", err)
	}
}

func TestFindByProduct_OrderedByIndex(t *testing.T) {
	_, repo := setupRepo(t)
	mustInsertSlot(t, repo, 1, 2, "bbb", false)
	mustInsertSlot(t, repo, 1, 1, "aaa", true)
	mustInsertSlot(t, repo, 2, 1, "zzz", true)

	rows, err := repo.FindByProduct(1)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(rows) != 2*len(consts.SizeClasses) {
		t.Fatalf("expected %d rows, got %d", 2*len(consts.SizeClasses), len(rows))
	}
	last := 0
	for _, row := range rows {
		if row.ProductID != 1 {
			t.Fatalf("leaked row for product %d", row.ProductID)
		}
		if row.ImageIndex < last {
			t.Fatalf("rows not ordered by image_index: %d after %d", row.ImageIndex, last)
		}
		last = row.ImageIndex
	}
}

func TestFindByProductAndSize(t *testing.T) {
	_, repo := setupRepo(t)
	mustInsertSlot(t, repo, 1, 1, "aaa", true)
	mustInsertSlot(t, repo, 1, 2, "bbb", false)

	rows, err := repo.FindByProductAndSize(1, string(consts.SizeThumb))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 thumb rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.SizeClass != string(consts.SizeThumb) {
			t.Fatalf("unexpected size class %s", row.SizeClass)
		}
	}
}

func TestFindSlotByHash_ReturnsLowestSlot(t *testing.T) {
	_, repo := setupRepo(t)
	mustInsertSlot(t, repo, 1, 1, "aaa", true)
	mustInsertSlot(t, repo, 1, 2, "dup", false)
	mustInsertSlot(t, repo, 1, 3, "dup", false)

	slot, err := repo.FindSlotByHash(1, "dup")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(slot) != len(consts.SizeClasses) {
		t.Fatalf("expected full slot, got %d rows", len(slot))
	}
	for _, row := range slot {
		if row.ImageIndex != 2 {
			t.Fatalf("expected lowest slot 2, got %d", row.ImageIndex)
		}
	}

	missing, err := repo.FindSlotByHash(1, "nope")
	if err != nil {
		t.Fatalf("find missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown hash, got %d rows", len(missing))
	}
}

func TestSetPrimary_SingleMediumRowHoldsFlag(t *testing.T) {
	_, repo := setupRepo(t)
	mustInsertSlot(t, repo, 1, 1, "aaa", true)
	mustInsertSlot(t, repo, 1, 2, "bbb", false)

	if err := repo.SetPrimary(1, 2); err != nil {
		t.Fatalf("set primary: %v", err)
	}

	var primaries []model.ProductImage
	repo.db.Where("product_id = ? AND is_primary = ?", 1, true).Find(&primaries)
	if len(primaries) != 1 {
		t.Fatalf("expected exactly one primary row, got %d", len(primaries))
	}
	if primaries[0].ImageIndex != 2 || primaries[0].SizeClass != string(consts.SizeMedium) {
		t.Fatalf("primary on wrong row: index=%d size=%s", primaries[0].ImageIndex, primaries[0].SizeClass)
	}
}

func TestSetPrimary_UnknownSlot(t *testing.T) {
	_, repo := setupRepo(t)
	mustInsertSlot(t, repo, 1, 1, "aaa", true)

	if err := repo.SetPrimary(1, 9); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestDeleteSlot_ReturnsDeletedRows(t *testing.T) {
	_, repo := setupRepo(t)
	mustInsertSlot(t, repo, 1, 1, "aaa", true)
	mustInsertSlot(t, repo, 1, 2, "bbb", false)

	deleted, err := repo.DeleteSlot(1, 1)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(deleted) != len(consts.SizeClasses) {
		t.Fatalf("expected %d deleted rows, got %d", len(consts.SizeClasses), len(deleted))
	}

	var remaining int64
	repo.db.Model(&model.ProductImage{}).Where("product_id = ?", 1).Count(&remaining)
	if remaining != int64(len(consts.SizeClasses)) {
		t.Fatalf("expected one slot left, got %d rows", remaining)
	}

	if _, err := repo.DeleteSlot(1, 1); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound on second delete, got %v", err)
	}
}

func TestHashRefCount(t *testing.T) {
	_, repo := setupRepo(t)
	mustInsertSlot(t, repo, 1, 1, "dup", true)
	mustInsertSlot(t, repo, 1, 2, "dup", false)

	count, err := repo.HashRefCount(1, "dup")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != int64(2*len(consts.SizeClasses)) {
		t.Fatalf("expected %d references, got %d", 2*len(consts.SizeClasses), count)
	}
}

func TestNextImageIndex(t *testing.T) {
	_, repo := setupRepo(t)

	next, err := repo.NextImageIndex(1)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if next != 1 {
		t.Fatalf("expected first index 1, got %d", next)
	}

	mustInsertSlot(t, repo, 1, 1, "aaa", true)
	mustInsertSlot(t, repo, 1, 2, "bbb", false)

	next, err = repo.NextImageIndex(1)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if next != 3 {
		t.Fatalf("expected next index 3, got %d", next)
	}
}

func TestReorder_RenumbersSequentially(t *testing.T) {
	_, repo := setupRepo(t)
	mustInsertSlot(t, repo, 1, 1, "aaa", true)
	mustInsertSlot(t, repo, 1, 2, "bbb", false)
	mustInsertSlot(t, repo, 1, 3, "ccc", false)

	if err := repo.Reorder(1, []int{3, 1, 2}); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	rows, err := repo.FindByProduct(1)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	slots := model.GroupSlots(rows)
	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(slots))
	}
	wantHashes := []string{"ccc", "aaa", "bbb"}
	for i, slot := range slots {
		if slot.ImageIndex != i+1 {
			t.Fatalf("slot %d: expected index %d, got %d", i, i+1, slot.ImageIndex)
		}
		if slot.ContentHash != wantHashes[i] {
			t.Fatalf("slot %d: expected hash %s, got %s", i, wantHashes[i], slot.ContentHash)
		}
	}
}

func TestReorder_RejectsBadSet(t *testing.T) {
	_, repo := setupRepo(t)
	mustInsertSlot(t, repo, 1, 1, "aaa", true)
	mustInsertSlot(t, repo, 1, 2, "bbb", false)

	cases := [][]int{
		{1},       // 少了一个
		{1, 2, 3}, // 多了一个
		{1, 1},    // 重复
		{1, 9},    // 未知索引
	}
	for _, order := range cases {
		if err := repo.Reorder(1, order); !errors.Is(err, ErrBadReorderSet) {
			t.Fatalf("order %v: expected ErrBadReorderSet, got %v", order, err)
		}
	}
}
