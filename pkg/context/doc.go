// Package context 提供上下文传播相关的子包。
//
// 子包列表：
//   - xctx: Context 增强，注入/提取调用方面包屑（应用、处理器、仓储、事务名）
//
// 设计原则：
//   - 所有上下文信息通过 context.Context 传递，不使用全局变量
//   - xctx 是纯存取层，不校验字段值，缺失时返回零值
package context
