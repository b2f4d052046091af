package xctx

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// WithBreadcrumb Tests
// =============================================================================

func TestWithBreadcrumb_NilContext(t *testing.T) {
	ctx, err := WithBreadcrumb(nil, Breadcrumb{ApplicationName: "payin"}) //nolint:staticcheck // 测试 nil ctx 防御
	assert.Nil(t, ctx)
	assert.ErrorIs(t, err, ErrNilContext)
}

func TestWithBreadcrumb_RoundTrip(t *testing.T) {
	crumb := Breadcrumb{
		ApplicationName: "payin",
		ProcessorName:   "cart_payment_processor",
	}

	ctx, err := WithBreadcrumb(context.Background(), crumb)
	assert.NoError(t, err)
	assert.Equal(t, crumb, GetBreadcrumb(ctx))
}

func TestWithBreadcrumb_MergeKeepsOuterFields(t *testing.T) {
	ctx, err := WithBreadcrumb(context.Background(), Breadcrumb{ApplicationName: "payin"})
	assert.NoError(t, err)

	// 内层只补充事务名，应用名保留外层值
	ctx, err = WithBreadcrumb(ctx, Breadcrumb{TransactionName: "create_cart_payment"})
	assert.NoError(t, err)

	got := GetBreadcrumb(ctx)
	assert.Equal(t, "payin", got.ApplicationName)
	assert.Equal(t, "create_cart_payment", got.TransactionName)
}

func TestWithBreadcrumb_OverrideNonEmpty(t *testing.T) {
	ctx, _ := WithBreadcrumb(context.Background(), Breadcrumb{RepositoryName: "cart_payment_repo"})
	ctx, _ = WithBreadcrumb(ctx, Breadcrumb{RepositoryName: "payer_repo"})

	assert.Equal(t, "payer_repo", RepositoryName(ctx))
}

func TestGetBreadcrumb_Missing(t *testing.T) {
	assert.Equal(t, Breadcrumb{}, GetBreadcrumb(context.Background()))
	assert.Equal(t, Breadcrumb{}, GetBreadcrumb(nil)) //nolint:staticcheck // 测试 nil ctx 防御
}

// =============================================================================
// 单字段读取 Tests
// =============================================================================

func TestFieldGetters(t *testing.T) {
	ctx, _ := WithBreadcrumb(context.Background(), Breadcrumb{
		ApplicationName: "payin",
		ProcessorName:   "processor",
		RepositoryName:  "repo",
		TransactionName: "txn",
	})

	assert.Equal(t, "payin", ApplicationName(ctx))
	assert.Equal(t, "processor", ProcessorName(ctx))
	assert.Equal(t, "repo", RepositoryName(ctx))
	assert.Equal(t, "txn", TransactionName(ctx))
}

func TestFieldGetters_EmptyContext(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, ApplicationName(ctx))
	assert.Empty(t, ProcessorName(ctx))
	assert.Empty(t, RepositoryName(ctx))
	assert.Empty(t, TransactionName(ctx))
}

// =============================================================================
// slog 集成 Tests
// =============================================================================

func TestBreadcrumbAttrs_AllEmpty(t *testing.T) {
	assert.Nil(t, BreadcrumbAttrs(context.Background()))
	assert.Nil(t, BreadcrumbAttrs(nil)) //nolint:staticcheck // 测试 nil ctx 防御
}

func TestBreadcrumbAttrs_OnlyNonEmptyFields(t *testing.T) {
	ctx, _ := WithBreadcrumb(context.Background(), Breadcrumb{
		ApplicationName: "payin",
		TransactionName: "txn",
	})

	attrs := BreadcrumbAttrs(ctx)
	assert.Equal(t, []slog.Attr{
		slog.String(KeyApplicationName, "payin"),
		slog.String(KeyTransactionName, "txn"),
	}, attrs)
}

func TestAppendBreadcrumbAttrs_PreallocatedSlice(t *testing.T) {
	ctx, _ := WithBreadcrumb(context.Background(), Breadcrumb{ProcessorName: "processor"})

	var buf [breadcrumbFieldCount]slog.Attr
	attrs := AppendBreadcrumbAttrs(buf[:0], ctx)

	assert.Len(t, attrs, 1)
	assert.Equal(t, slog.String(KeyProcessorName, "processor"), attrs[0])
}
