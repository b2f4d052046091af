package xtiming

import "sync"

// Scope 是 LIFO 资源释放栈。
//
// 多阶段测量用它保证环境上下文的清理：无论阶段序列如何结束，
// Close 按入栈逆序执行所有清理函数，且只执行一次。
// 清理函数接收导致关闭的错误（成功关闭时为 nil），
// 使回滚路径上的清理逻辑能看到原始错误。
//
// 一个 start→terminal 周期内 Scope 由事务实体独占；
// 互斥锁只防御误用，不构成多任务并发驱动的正确性保证。
type Scope struct {
	mu       sync.Mutex
	closed   bool
	cleanups []func(error)
}

// NewScope 创建空的释放栈。
func NewScope() *Scope {
	return &Scope{}
}

// Push 压入清理函数。Scope 已关闭时 no-op。
func (s *Scope) Push(fn func(error)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.cleanups = append(s.cleanups, fn)
}

// Close 按逆序执行清理函数。重复 Close 是安全的 no-op，不会二次释放。
func (s *Scope) Close(err error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	cleanups := s.cleanups
	s.cleanups = nil
	s.mu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i](err)
	}
}

// Closed 报告释放栈是否已关闭。
func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
