package xtiming

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// =============================================================================
// Database 接口
// =============================================================================

// Database 标识被测目标的数据库身份。
// 处理器用它为日志和统计打标签；目标不具备此能力时处理器静默跳过。
type Database interface {
	// DatabaseName 返回逻辑数据库名。
	DatabaseName() string
	// InstanceName 返回数据库实例名。
	InstanceName() string
}

// =============================================================================
// QueryTimer
// =============================================================================

// QueryTimer 捕获一次测量跨度：起止时间戳与结果状态。
//
// 生命周期：管理器在跨度入口创建并 Enter；被测操作结束时 Exit 记录
// 结果；随后交给处理器消费，不再保留所有权。
//
// 状态粘滞：跨度期间状态可变，但首次设置为非默认值后，
// 后续 Exit 不再覆盖（支持嵌套/派生计时器预置更具体的状态）。
type QueryTimer struct {
	database Database

	callingModuleName   string
	callingFunctionName string

	start   time.Time
	end     time.Time
	entered bool
	exited  bool

	requestStatus string
	exceptionName string

	// timeoutPredicates 调用方注册的超时类错误判定（如驱动层查询取消信号）
	timeoutPredicates []func(error) bool
}

// Enter 记录起始时间戳，返回自身便于链式调用。
// 重复 Enter 的行为未定义，不做保护，与作用域获取语义一致。
func (t *QueryTimer) Enter() *QueryTimer {
	t.start = time.Now()
	t.entered = true
	return t
}

// Exit 记录结束时间戳并归类操作结果。
//
// err 为 nil 时保持默认（成功类）状态。err 非 nil 时记录错误的类型名；
// 若状态已是非默认值则不覆盖；否则超时/取消类错误归类为 timeout，
// 其余归类为 error。Exit 绝不吞掉错误——归类只是观测副作用，
// 错误是否继续传播由调用方决定。
func (t *QueryTimer) Exit(err error) {
	t.end = time.Now()
	t.exited = true

	if err == nil {
		return
	}

	t.exceptionName = exceptionName(err)

	// 状态粘滞：已设置的非默认状态不被覆盖
	if t.requestStatus != "" && t.requestStatus != string(QueryStatusSuccess) {
		return
	}

	if t.isTimeoutLike(err) {
		t.requestStatus = string(QueryStatusTimeout)
	} else {
		t.requestStatus = string(QueryStatusError)
	}
}

// ProcessResult 显式设置阶段结果。
// 多阶段计时器在成功路径上没有异常可归类，由调用方指定 commit/rollback/error。
func (t *QueryTimer) ProcessResult(status TransactionStatus) {
	t.requestStatus = string(status)
}

// Completed 报告跨度是否已完整（Enter 且 Exit）。
func (t *QueryTimer) Completed() bool {
	return t.entered && t.exited
}

// ElapsedMS 返回跨度耗时（毫秒）。仅在 Completed 后有定义，否则返回 0。
func (t *QueryTimer) ElapsedMS() float64 {
	if !t.Completed() {
		return 0
	}
	return float64(t.end.Sub(t.start)) / float64(time.Millisecond)
}

// Database 返回被测目标的数据库身份，可能为 nil。
func (t *QueryTimer) Database() Database {
	return t.database
}

// CallingModuleName 返回发起调用的包路径。
func (t *QueryTimer) CallingModuleName() string {
	return t.callingModuleName
}

// CallingFunctionName 返回发起调用的函数名，即操作名。
func (t *QueryTimer) CallingFunctionName() string {
	return t.callingFunctionName
}

// RequestStatus 返回当前状态。
func (t *QueryTimer) RequestStatus() string {
	return t.requestStatus
}

// ExceptionName 返回捕获错误的类型名，无错误时为空。
func (t *QueryTimer) ExceptionName() string {
	return t.exceptionName
}

// isTimeoutLike 判定错误是否属于超时/取消类。
// 覆盖协作取消（context）、IO 截止（os.ErrDeadlineExceeded）、
// net.Error 风格的 Timeout()，以及调用方注册的驱动层判定。
func (t *QueryTimer) isTimeoutLike(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}

	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return true
	}

	for _, pred := range t.timeoutPredicates {
		if pred != nil && pred(err) {
			return true
		}
	}
	return false
}

// exceptionName 提取错误的类型名（去掉指针前缀）。
func exceptionName(err error) string {
	if err == nil {
		return ""
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", err), "*")
}
