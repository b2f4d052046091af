// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xlog: 结构化日志，基于 log/slog 扩展
//   - xmetrics: 统计指标发射（OpenTelemetry 后端）
//   - xtiming: 数据库查询与事务的延迟测量和状态归类
//
// 设计原则：
//   - 遵循 OpenTelemetry 语义规范
//   - 自动从 context 中提取面包屑信息注入日志
//   - 测量不侵入被测操作：包装器组合，而非运行时反射
package observability
