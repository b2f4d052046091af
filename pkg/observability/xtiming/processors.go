package xtiming

import (
	"context"
	"log/slog"
	"math"

	"github.com/omeyang/xtrack/pkg/context/xctx"
)

// statDBLatency 数据库延迟统计的指标名。
const statDBLatency = "io.db.latency"

// =============================================================================
// 日志处理器
// =============================================================================

// LogQueryTiming 为完成的查询跨度发射一条结构化日志。
// 计时器目标不具备数据库身份时静默跳过。
func LogQueryTiming(ctx context.Context, m *TimingManager, t *QueryTimer) {
	logTiming(ctx, m, t, "query", true)
}

// LogTransactionTiming 为完成的事务跨度发射一条结构化日志。
// 与查询日志的差异：名称键为 transaction，且不重复输出事务名字段
// （事务跨度自身就是事务）。
func LogTransactionTiming(ctx context.Context, m *TimingManager, t *QueryTimer) {
	logTiming(ctx, m, t, "transaction", false)
}

func logTiming(ctx context.Context, m *TimingManager, t *QueryTimer, nameKey string, includeTransaction bool) {
	db := t.Database()
	if db == nil {
		return
	}

	crumb := xctx.GetBreadcrumb(ctx)

	database := make([]slog.Attr, 0, 6)
	database = append(database,
		slog.String("database_name", db.DatabaseName()),
		slog.String("instance_name", db.InstanceName()),
	)
	if includeTransaction {
		database = append(database,
			slog.Bool("transaction", crumb.TransactionName != ""),
			slog.String("transaction_name", crumb.TransactionName),
		)
	}
	database = append(database, slog.String("request_status", t.RequestStatus()))
	if name := t.ExceptionName(); name != "" {
		database = append(database, slog.String("exception_name", name))
	}

	caller := make([]slog.Attr, 0, 4)
	if crumb.ApplicationName != "" {
		caller = append(caller, slog.String(xctx.KeyApplicationName, crumb.ApplicationName))
	}
	if crumb.ProcessorName != "" {
		caller = append(caller, slog.String(xctx.KeyProcessorName, crumb.ProcessorName))
	}
	if crumb.RepositoryName != "" {
		caller = append(caller, slog.String(xctx.KeyRepositoryName, crumb.RepositoryName))
	}
	if mod := t.CallingModuleName(); mod != "" {
		caller = append(caller, slog.String("module_name", mod))
	}

	m.Logger().Info(ctx, m.Message(),
		slog.String(nameKey, t.CallingFunctionName()),
		slog.Float64("latency_ms", roundMS(t.ElapsedMS())),
		slog.Attr{Key: "database", Value: slog.GroupValue(database...)},
		slog.Attr{Key: "caller", Value: slog.GroupValue(caller...)},
	)
}

// roundMS 保留 3 位小数。
func roundMS(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// =============================================================================
// 统计处理器
// =============================================================================

// StatQueryTiming 为完成的查询跨度发射一次耗时观测。
// 计时器目标不具备数据库身份时静默跳过。
func StatQueryTiming(ctx context.Context, m *TimingManager, t *QueryTimer) {
	statTiming(ctx, m, t, QueryTypeUnknown)
}

// StatTransactionTiming 为完成的事务跨度发射一次耗时观测，
// 带 query_type=transaction 标签。
func StatTransactionTiming(ctx context.Context, m *TimingManager, t *QueryTimer) {
	statTiming(ctx, m, t, QueryTypeTransaction)
}

func statTiming(ctx context.Context, m *TimingManager, t *QueryTimer, queryType QueryType) {
	db := t.Database()
	if db == nil {
		return
	}

	crumb := xctx.GetBreadcrumb(ctx)

	tags := make(map[string]string, 7)
	if crumb.ApplicationName != "" {
		tags[xctx.KeyApplicationName] = crumb.ApplicationName
	}
	if crumb.TransactionName != "" {
		tags[xctx.KeyTransactionName] = crumb.TransactionName
	}
	if queryType != QueryTypeUnknown {
		tags["query_type"] = string(queryType)
	}
	if name := t.CallingFunctionName(); name != "" {
		tags["query_name"] = name
	}
	if name := db.DatabaseName(); name != "" {
		tags["database_name"] = name
	}
	if name := db.InstanceName(); name != "" {
		tags["instance_name"] = name
	}
	if status := t.RequestStatus(); status != "" {
		tags["request_status"] = status
	}

	m.Stats().Timing(ctx, statDBLatency, t.ElapsedMS(), tags)
	m.Logger().Debug(ctx, "statsd: "+statDBLatency,
		slog.Float64("latency_ms", t.ElapsedMS()),
		slog.Any("tags", tags))
}
