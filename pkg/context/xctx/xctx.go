package xctx

import (
	"context"
	"errors"
)

// =============================================================================
// Context Key 类型定义
// =============================================================================

// 设计决策: contextKey 使用 string 而非 int+iota，理由如下：
//   - 作为包私有类型，不会与其他包的 context key 冲突（Go context 比较包含类型信息）
//   - 字符串值在调试/日志中可读性高，便于排查 context 传播问题
type contextKey string

const keyBreadcrumb = contextKey("xctx:breadcrumb")

// =============================================================================
// 错误定义
// =============================================================================

var (
	// ErrNilContext 表示传入的 context 为 nil。
	ErrNilContext = errors.New("xctx: nil context")
)

// =============================================================================
// Breadcrumb
// =============================================================================

// 面包屑字段的日志属性 Key 常量，遵循下划线分隔的命名约定。
const (
	KeyApplicationName = "application_name"
	KeyProcessorName   = "processor_name"
	KeyRepositoryName  = "repository_name"
	KeyTransactionName = "transaction_name"
)

// Breadcrumb 描述一次请求在业务分层中的位置。
// 所有字段均可为空；空字段在 WithBreadcrumb 合并时不覆盖已有值。
type Breadcrumb struct {
	// ApplicationName 应用名，请求入口注入。
	ApplicationName string
	// ProcessorName 处理器名（业务用例层）。
	ProcessorName string
	// RepositoryName 仓储名（数据访问层）。
	RepositoryName string
	// TransactionName 当前活跃的数据库事务名。
	// 由 xtiming.TransactionManager 在事务开始时注入。
	TransactionName string
}

// merge 返回以 b 为基础、用 next 的非空字段覆盖后的面包屑。
func (b Breadcrumb) merge(next Breadcrumb) Breadcrumb {
	if next.ApplicationName != "" {
		b.ApplicationName = next.ApplicationName
	}
	if next.ProcessorName != "" {
		b.ProcessorName = next.ProcessorName
	}
	if next.RepositoryName != "" {
		b.RepositoryName = next.RepositoryName
	}
	if next.TransactionName != "" {
		b.TransactionName = next.TransactionName
	}
	return b
}

// =============================================================================
// Breadcrumb 操作
// =============================================================================

// WithBreadcrumb 将面包屑合并注入 context。
//
// 合并语义：crumb 的非空字段覆盖外层值，空字段保留外层值。
// 面包屑逐层补充：入口注入应用名，内层注入处理器/仓储/事务名。
//
// 设计决策: 返回 error 而非 panic（项目规范：构造函数统一返回 error），
// 唯一错误条件是 nil ctx，保持 WithXxx 签名一致，便于调用链统一处理。
func WithBreadcrumb(ctx context.Context, crumb Breadcrumb) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	merged := GetBreadcrumb(ctx).merge(crumb)
	return context.WithValue(ctx, keyBreadcrumb, merged), nil
}

// GetBreadcrumb 从 context 提取面包屑，不存在返回零值。
func GetBreadcrumb(ctx context.Context) Breadcrumb {
	if ctx == nil {
		return Breadcrumb{}
	}
	if v, ok := ctx.Value(keyBreadcrumb).(Breadcrumb); ok {
		return v
	}
	return Breadcrumb{}
}

// =============================================================================
// 单字段读取
// =============================================================================

// ApplicationName 从 context 提取应用名，不存在返回空字符串。
func ApplicationName(ctx context.Context) string {
	return GetBreadcrumb(ctx).ApplicationName
}

// ProcessorName 从 context 提取处理器名，不存在返回空字符串。
func ProcessorName(ctx context.Context) string {
	return GetBreadcrumb(ctx).ProcessorName
}

// RepositoryName 从 context 提取仓储名，不存在返回空字符串。
func RepositoryName(ctx context.Context) string {
	return GetBreadcrumb(ctx).RepositoryName
}

// TransactionName 从 context 提取事务名，不存在返回空字符串。
func TransactionName(ctx context.Context) string {
	return GetBreadcrumb(ctx).TransactionName
}
