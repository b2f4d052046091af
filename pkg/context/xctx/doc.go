// Package xctx 提供调用方面包屑（Breadcrumb）的 context 传播。
//
// 面包屑记录一次请求在业务分层中的位置：应用名、处理器名、仓储名，
// 以及当前活跃的事务名。xtiming 的处理器从 context 读取面包屑，
// 为日志记录和统计观测打标签。
//
// # 使用方式
//
// 请求入口注入应用级字段，事务开始时由 xtiming 补充事务名：
//
//	ctx, _ = xctx.WithBreadcrumb(ctx, xctx.Breadcrumb{
//	    ApplicationName: "payin",
//	    ProcessorName:   "cart_payment_processor",
//	})
//
// # 校验策略
//
// xctx 是纯存取层：不校验字段值（如空字符串），缺失时 Get 返回零值。
// WithBreadcrumb 合并非空字段，空字段保留外层 context 中已有的值，
// 与面包屑的"逐层补充"语义一致。
package xctx
