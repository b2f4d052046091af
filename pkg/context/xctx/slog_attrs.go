package xctx

import (
	"context"
	"log/slog"
)

// =============================================================================
// Breadcrumb slog 集成
// =============================================================================

// breadcrumbFieldCount 面包屑字段数量（用于 slog 属性预分配，不导出以避免脆弱的 API 契约）
const breadcrumbFieldCount = 4

// AppendBreadcrumbAttrs 将 context 中的面包屑字段追加到现有切片。
// 零分配热路径优化：传入预分配的切片，只追加非空字段。
func AppendBreadcrumbAttrs(attrs []slog.Attr, ctx context.Context) []slog.Attr {
	if ctx == nil {
		return attrs
	}

	crumb := GetBreadcrumb(ctx)
	if crumb.ApplicationName != "" {
		attrs = append(attrs, slog.String(KeyApplicationName, crumb.ApplicationName))
	}
	if crumb.ProcessorName != "" {
		attrs = append(attrs, slog.String(KeyProcessorName, crumb.ProcessorName))
	}
	if crumb.RepositoryName != "" {
		attrs = append(attrs, slog.String(KeyRepositoryName, crumb.RepositoryName))
	}
	if crumb.TransactionName != "" {
		attrs = append(attrs, slog.String(KeyTransactionName, crumb.TransactionName))
	}

	return attrs
}

// BreadcrumbAttrs 从 context 提取面包屑，转换为 slog.Attr 切片。
//
// 只返回非空字段，如果都为空则返回 nil。
// 注意：每次调用会分配新切片。热路径建议使用 AppendBreadcrumbAttrs。
func BreadcrumbAttrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}

	attrs := AppendBreadcrumbAttrs(make([]slog.Attr, 0, breadcrumbFieldCount), ctx)
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}
