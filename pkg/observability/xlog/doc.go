// Package xlog 提供基于 log/slog 的结构化日志。
//
// 设计理念：
//   - 强制 context 传递，确保面包屑信息传播
//   - 动态级别控制，支持运行时调整
//   - Handler 装饰链，自动注入 xctx 面包屑字段
//   - 类型安全，方法签名只接受 slog.Attr
//
// # 基本使用
//
//	logger, err := xlog.New(slog.NewJSONHandler(os.Stdout, nil))
//	if err != nil {
//	    return err
//	}
//	logger.Info(ctx, "query complete", slog.String("query", "get_payer"))
//
// # 面包屑注入
//
// 使用 NewEnrichHandler 包装底层 handler 后，每条日志自动携带
// context 中的 application_name、processor_name 等字段。
package xlog
