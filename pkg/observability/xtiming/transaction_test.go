package xtiming_test

import (
	"context"
	"errors"
	"testing"

	"github.com/omeyang/xtrack/pkg/context/xctx"
	"github.com/omeyang/xtrack/pkg/observability/xtiming"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Start Tests
// =============================================================================

func TestTransaction_StartAttachesTimerAndScope(t *testing.T) {
	m := xtiming.NewTransactionManager("transaction complete",
		xtiming.WithProcessors())
	txn := newTrackedTxn()

	_, err := m.Start(context.Background(), txn, func(context.Context) error { return nil })

	require.NoError(t, err)
	assert.NotNil(t, txn.Tracker())
	assert.NotNil(t, txn.TrackingScope())
	assert.False(t, txn.TrackingScope().Closed())
}

func TestTransaction_StartInjectsTransactionName(t *testing.T) {
	m := xtiming.NewTransactionManager("transaction complete",
		xtiming.WithCallerName("github.com/acme/payin/repo", "create_cart_payment"),
		xtiming.WithProcessors())
	txn := newTrackedTxn()

	txnCtx, err := m.Start(context.Background(), txn, func(context.Context) error { return nil })

	require.NoError(t, err)
	assert.Equal(t, "create_cart_payment", xctx.TransactionName(txnCtx))
}

func TestTransaction_StartFailureRoutesToErrorOnce(t *testing.T) {
	captured := &capturedTimers{}
	m := xtiming.NewTransactionManager("transaction complete",
		xtiming.WithProcessors(captured.processor))
	txn := newTrackedTxn()

	boom := errors.New("begin failed")
	_, err := m.Start(context.Background(), txn, func(context.Context) error { return boom })

	// 原始错误原样返回，Error 阶段恰好执行一次
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, captured.count())
	assert.Equal(t, string(xtiming.TransactionError), captured.last(t).RequestStatus())
	assert.Nil(t, txn.Tracker())
	assert.Nil(t, txn.TrackingScope())
}

func TestTransaction_StartNilTransaction(t *testing.T) {
	m := xtiming.NewTransactionManager("transaction complete")

	_, err := m.Start(context.Background(), nil, func(context.Context) error { return nil })

	assert.ErrorIs(t, err, xtiming.ErrNilTransaction)
}

// =============================================================================
// Commit Tests
// =============================================================================

func TestTransaction_CommitFinalizes(t *testing.T) {
	captured := &capturedTimers{}
	m := xtiming.NewTransactionManager("transaction complete",
		xtiming.WithProcessors(captured.processor))
	txn := newTrackedTxn()

	ctx, err := m.Start(context.Background(), txn, func(context.Context) error { return nil })
	require.NoError(t, err)

	released := 0
	txn.TrackingScope().Push(func(error) { released++ })

	require.NoError(t, m.Commit(ctx, txn, func(context.Context) error { return nil }))

	assert.Equal(t, 1, captured.count())
	timer := captured.last(t)
	assert.Equal(t, string(xtiming.TransactionCommit), timer.RequestStatus())
	assert.True(t, timer.Completed())
	assert.Equal(t, 1, released)
	assert.Nil(t, txn.Tracker())
	assert.Nil(t, txn.TrackingScope())
}

func TestTransaction_DoubleCommitIsNoOp(t *testing.T) {
	captured := &capturedTimers{}
	m := xtiming.NewTransactionManager("transaction complete",
		xtiming.WithProcessors(captured.processor))
	txn := newTrackedTxn()

	ctx, err := m.Start(context.Background(), txn, func(context.Context) error { return nil })
	require.NoError(t, err)

	released := 0
	txn.TrackingScope().Push(func(error) { released++ })

	require.NoError(t, m.Commit(ctx, txn, func(context.Context) error { return nil }))
	require.NoError(t, m.Commit(ctx, txn, func(context.Context) error { return nil }))

	// 释放逻辑只在第一次执行，第二次是安全的 no-op
	assert.Equal(t, 1, released)
	assert.Equal(t, 1, captured.count())
}

func TestTransaction_CommitWhenIdleIsNoOp(t *testing.T) {
	captured := &capturedTimers{}
	m := xtiming.NewTransactionManager("transaction complete",
		xtiming.WithProcessors(captured.processor))
	txn := newTrackedTxn()

	require.NoError(t, m.Commit(context.Background(), txn, func(context.Context) error { return nil }))

	assert.Zero(t, captured.count())
}

func TestTransaction_CommitOperationFailureRoutesToError(t *testing.T) {
	captured := &capturedTimers{}
	m := xtiming.NewTransactionManager("transaction complete",
		xtiming.WithProcessors(captured.processor))
	txn := newTrackedTxn()

	ctx, err := m.Start(context.Background(), txn, func(context.Context) error { return nil })
	require.NoError(t, err)

	boom := errors.New("commit failed")
	err = m.Commit(ctx, txn, func(context.Context) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, string(xtiming.TransactionError), captured.last(t).RequestStatus())
	assert.NotEmpty(t, captured.last(t).ExceptionName())
}

// =============================================================================
// Rollback Tests
// =============================================================================

func TestTransaction_RollbackForwardsCause(t *testing.T) {
	captured := &capturedTimers{}
	m := xtiming.NewTransactionManager("transaction complete",
		xtiming.WithProcessors(captured.processor))
	txn := newTrackedTxn()

	ctx, err := m.Start(context.Background(), txn, func(context.Context) error { return nil })
	require.NoError(t, err)

	cause := errors.New("payment declined")
	var seen error
	txn.TrackingScope().Push(func(err error) { seen = err })

	require.NoError(t, m.Rollback(ctx, txn, cause, func(context.Context) error { return nil }))

	// 清理逻辑看到触发回滚的原始错误
	assert.ErrorIs(t, seen, cause)
	timer := captured.last(t)
	assert.Equal(t, string(xtiming.TransactionRollback), timer.RequestStatus())
	assert.NotEmpty(t, timer.ExceptionName())
}

func TestTransaction_RollbackWhenIdleIsNoOp(t *testing.T) {
	m := xtiming.NewTransactionManager("transaction complete",
		xtiming.WithProcessors())
	txn := newTrackedTxn()

	assert.NoError(t, m.Rollback(context.Background(), txn, nil, func(context.Context) error { return nil }))
}

// =============================================================================
// Error Tests
// =============================================================================

func TestTransaction_ErrorIdempotent(t *testing.T) {
	captured := &capturedTimers{}
	m := xtiming.NewTransactionManager("transaction complete",
		xtiming.WithProcessors(captured.processor))
	txn := newTrackedTxn()

	ctx, err := m.Start(context.Background(), txn, func(context.Context) error { return nil })
	require.NoError(t, err)

	cause := errors.New("boom")
	m.Error(ctx, txn, cause)
	m.Error(ctx, txn, cause)
	m.Error(ctx, txn, nil)

	assert.Equal(t, 1, captured.count())
	assert.Equal(t, string(xtiming.TransactionError), captured.last(t).RequestStatus())
}

func TestTransaction_ErrorWithoutStart(t *testing.T) {
	m := xtiming.NewTransactionManager("transaction complete",
		xtiming.WithProcessors())

	// 无活跃跨度时是安全的 no-op
	m.Error(context.Background(), newTrackedTxn(), errors.New("boom"))
	m.Error(context.Background(), nil, errors.New("boom"))
}

// =============================================================================
// 状态机 Tests
// =============================================================================

func TestTransaction_RestartAfterTerminal(t *testing.T) {
	captured := &capturedTimers{}
	m := xtiming.NewTransactionManager("transaction complete",
		xtiming.WithProcessors(captured.processor))
	txn := newTrackedTxn()

	ctx, err := m.Start(context.Background(), txn, func(context.Context) error { return nil })
	require.NoError(t, err)
	require.NoError(t, m.Commit(ctx, txn, func(context.Context) error { return nil }))

	// 新的 Start 开启新周期
	ctx, err = m.Start(context.Background(), txn, func(context.Context) error { return nil })
	require.NoError(t, err)
	require.NoError(t, m.Rollback(ctx, txn, nil, func(context.Context) error { return nil }))

	assert.Equal(t, 2, captured.count())
	assert.Equal(t, string(xtiming.TransactionRollback), captured.last(t).RequestStatus())
}
