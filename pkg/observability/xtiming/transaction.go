package xtiming

import (
	"context"

	"github.com/omeyang/xtrack/pkg/context/xctx"
	"github.com/omeyang/xtrack/pkg/observability/xlog"
	"github.com/omeyang/xtrack/pkg/observability/xmetrics"
)

// =============================================================================
// TrackedTransaction 接口
// =============================================================================

// TrackedTransaction 是被跟踪的多阶段事务实体。
//
// 实体不拥有管理器：管理器共享且无状态，实体是管理器写入的
// 每实例可变记录。跨度外 Tracker/Scope 均为 nil。
// 实体若同时实现 Database，处理器会带上其数据库身份标签。
type TrackedTransaction interface {
	// Tracker 返回当前计时器，无活跃跨度时为 nil。
	Tracker() *QueryTimer
	// SetTracker 设置当前计时器。
	SetTracker(*QueryTimer)
	// TrackingScope 返回当前资源释放栈，无活跃跨度时为 nil。
	TrackingScope() *Scope
	// SetTrackingScope 设置当前资源释放栈。
	SetTrackingScope(*Scope)
}

// =============================================================================
// TransactionManager
// =============================================================================

// TransactionManager 多阶段测量管理器。
//
// 四个阶段入口绑定到一个 TrackedTransaction 实体，各阶段可以来自
// 不同调用点，共享 Start 分配的计时器和资源释放栈。
// 状态机见包文档；一个 start→terminal 周期内实体由单一任务独占。
type TransactionManager struct {
	TimingManager
}

// NewTransactionManager 创建多阶段测量管理器。
// 默认处理器为 LogTransactionTiming + StatTransactionTiming。
func NewTransactionManager(message string, opts ...ManagerOption) *TransactionManager {
	tm := &TransactionManager{
		TimingManager: TimingManager{
			message:    message,
			processors: []Processor{LogTransactionTiming, StatTransactionTiming},
			logger:     xlog.Nop(),
			stats:      xmetrics.NoopStats{},
		},
	}
	for _, opt := range opts {
		opt(&tm.TimingManager)
	}
	return tm
}

// Start 开始一个事务跨度。
//
// 分配资源释放栈和计时器并挂到实体上，把发现的事务名注入返回的
// context 面包屑，使事务内嵌套的单阶段操作能携带事务名标签。
// op 执行失败时自动路由到 Error 阶段，然后原样返回该错误。
// 返回的 context 仅在本事务的阶段序列内使用。
func (m *TransactionManager) Start(ctx context.Context, txn TrackedTransaction, op func(context.Context) error) (context.Context, error) {
	if txn == nil {
		return ctx, ErrNilTransaction
	}
	if ctx == nil {
		ctx = context.Background()
	}

	scope := NewScope()
	txn.SetTrackingScope(scope)

	// 实体具备数据库身份时带上，处理器据此打标签
	db, _ := txn.(Database)
	timer := m.newTimer(db, string(TransactionCommit))
	timer.Enter()
	txn.SetTracker(timer)

	txnCtx := ctx
	if name := timer.CallingFunctionName(); name != "" && name != unknownCaller {
		if derived, err := xctx.WithBreadcrumb(ctx, xctx.Breadcrumb{TransactionName: name}); err == nil {
			txnCtx = derived
		}
	}

	if op != nil {
		if err := op(txnCtx); err != nil {
			// 事务启动失败：恰好路由一次 Error，原始错误原样返回
			m.Error(txnCtx, txn, err)
			return ctx, err
		}
	}
	return txnCtx, nil
}

// Commit 提交阶段。
//
// op 成功时把计时器状态置为 commit，执行事务处理器，
// 无条件释放资源栈。op 自身失败时改道 Error 阶段并原样返回错误。
// 实体处于 idle 状态（无计时器）时是安全的 no-op。
func (m *TransactionManager) Commit(ctx context.Context, txn TrackedTransaction, op func(context.Context) error) error {
	if txn == nil {
		return ErrNilTransaction
	}
	if op != nil {
		if err := op(ctx); err != nil {
			// 提交操作自身失败
			m.Error(ctx, txn, err)
			return err
		}
	}
	m.finalize(ctx, txn, TransactionCommit, nil)
	return nil
}

// Rollback 回滚阶段。
//
// 与 Commit 对称，状态置为 rollback；cause 是触发回滚的原始错误
// （可为 nil），会转发给资源栈清理，使清理逻辑看到正确的错误。
// op 自身失败时改道 Error 阶段并原样返回错误。
func (m *TransactionManager) Rollback(ctx context.Context, txn TrackedTransaction, cause error, op func(context.Context) error) error {
	if txn == nil {
		return ErrNilTransaction
	}
	if op != nil {
		if err := op(ctx); err != nil {
			// 回滚操作自身失败
			m.Error(ctx, txn, err)
			return err
		}
	}
	m.finalize(ctx, txn, TransactionRollback, cause)
	return nil
}

// Error 异常终止阶段。
//
// 状态置为 error，执行事务处理器，带着 cause 释放资源栈。
// 幂等：实体无计时器/资源栈时是安全的 no-op。
func (m *TransactionManager) Error(ctx context.Context, txn TrackedTransaction, cause error) {
	if txn == nil {
		return
	}
	m.finalize(ctx, txn, TransactionError, cause)
}

// finalize 终态处理：结束计时器、执行处理器、释放资源栈，
// 并花费掉实体上的引用，使重复的终态调用成为 no-op。
func (m *TransactionManager) finalize(ctx context.Context, txn TrackedTransaction, status TransactionStatus, cause error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if timer := txn.Tracker(); timer != nil {
		timer.ProcessResult(status)
		// 记录结束时间与错误类型名；状态粘滞，归类不会覆盖显式结果
		timer.Exit(cause)
		m.runProcessors(ctx, timer)
		txn.SetTracker(nil)
	}

	if scope := txn.TrackingScope(); scope != nil {
		scope.Close(cause)
		txn.SetTrackingScope(nil)
	}
}
