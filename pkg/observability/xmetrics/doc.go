// Package xmetrics 提供统计指标发射的统一接口。
//
// StatsClient 是 xtiming 处理器使用的统计出口：每个完成的测量跨度
// 产生一次带标签的耗时观测（如 io.db.latency）。
//
// 实现：
//   - NewOTelStats: 基于 OpenTelemetry Float64Histogram
//   - NoopStats: 空实现，调用方不关心统计时使用
//
// 设计原则：
//   - 发射方只构造 (name, value, tags)，不感知后端的存储与上报格式
//   - 发射失败不影响业务调用链
package xmetrics
