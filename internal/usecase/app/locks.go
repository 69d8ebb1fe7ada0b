package app

import "sync"

// ProductLocks 以商品为粒度串行化多行写入，避免并发摄取交错破坏槽位完整性。
// 锁只在进程内生效，多实例部署时由数据库唯一约束兜底。
type ProductLocks struct {
	mu sync.Map // productID -> *sync.Mutex
}

// Lock 锁定指定商品，返回解锁函数。
func (l *ProductLocks) Lock(productID uint) func() {
	v, _ := l.mu.LoadOrStore(productID, &sync.Mutex{})
	m := v.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}
