// Package xtiming 提供数据库查询与事务的延迟测量和状态归类。
//
// 核心是包装器组合：被测操作对测量无感知，管理器在调用前后创建并
// 结束 QueryTimer，把完成的计时器交给处理器列表发射日志和统计。
//
// # 单阶段测量
//
// TimingManager 包装一次完整的查询操作：
//
//	m := xtiming.NewTimingManager("query complete",
//	    xtiming.WithLogger(logger), xtiming.WithStats(stats))
//	err := m.Execute(ctx, db, func(ctx context.Context) error {
//	    return repo.insertPayer(ctx, payer)
//	})
//
// # 多阶段测量
//
// TransactionManager 跟踪 start/commit/rollback/error 四个阶段，
// 各阶段可以来自不同调用点，共享同一个计时器和资源释放栈：
//
//	tm := xtiming.NewTransactionManager("transaction complete")
//	ctx, err := tm.Start(ctx, txn, beginFn)
//	...
//	err = tm.Commit(ctx, txn, commitFn)
//
// 状态机：idle →(Start) active →(Commit/Rollback/Error 之一) terminal。
// 终态阶段花费掉计时器和资源栈引用，重复的终态调用是安全的 no-op；
// idle 状态下调用 Commit/Rollback 同样是 no-op。
//
// # 操作名发现
//
// 优先通过 WithCallerName 显式命名（性能敏感路径应显式命名）；
// 未显式命名时沿调用栈向外查找第一个不属于本框架的帧，
// 取其包路径与函数名。全部被忽略时返回 "?" 哨兵。
//
// # 并发模型
//
// 管理器跨调用无状态，一个实例可装饰任意多个调用点。
// 事务实体的计时器/资源栈在一个 start→terminal 周期内由单一任务独占，
// 本包不加锁保证多任务并发驱动同一事务的正确性，约定由外围驱动维护。
// 处理器在完成跨度的任务上同步执行，必须快速且不阻塞。
//
// # 错误传播
//
// 测量绝不吞掉被测操作的错误：归类只是观测副作用，原错误原样返回。
// 处理器 panic 被捕获并记录日志，不影响被测操作的结果。
package xtiming
