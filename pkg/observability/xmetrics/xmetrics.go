package xmetrics

import "context"

// StatsClient 定义统计指标发射接口。
type StatsClient interface {
	// Timing 记录一次耗时观测。
	// name 是指标名（如 "io.db.latency"），valueMS 是毫秒值，
	// tags 是维度标签（database_name、request_status 等）。
	Timing(ctx context.Context, name string, valueMS float64, tags map[string]string)
}

// NoopStats 是 StatsClient 的空实现。
type NoopStats struct{}

// Timing 空实现，不做任何处理。
func (NoopStats) Timing(context.Context, string, float64, map[string]string) {}

// 编译时接口检查
var _ StatsClient = NoopStats{}
