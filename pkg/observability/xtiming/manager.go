package xtiming

import (
	"context"
	"log/slog"

	"github.com/omeyang/xtrack/pkg/observability/xlog"
	"github.com/omeyang/xtrack/pkg/observability/xmetrics"
)

// Processor 消费一个完成的计时器，发射观测信号。
// 处理器对计时器只读；panic 被管理器捕获并记录，不影响被测操作的结果。
type Processor func(ctx context.Context, m *TimingManager, t *QueryTimer)

// TimingManager 单阶段测量的配置对象。
//
// 跨调用无状态：一个实例可装饰任意多个调用点，每次调用产生一个计时器。
type TimingManager struct {
	message    string
	processors []Processor

	logger xlog.Logger
	stats  xmetrics.StatsClient

	// 显式命名；为空时走栈发现
	callingModuleName   string
	callingFunctionName string
	additionalIgnores   []string

	timeoutPredicates []func(error) bool
}

// ManagerOption 定义管理器的配置选项函数类型。
type ManagerOption func(*TimingManager)

// WithLogger 设置日志出口，默认丢弃。
func WithLogger(logger xlog.Logger) ManagerOption {
	return func(m *TimingManager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithStats 设置统计出口，默认丢弃。
func WithStats(stats xmetrics.StatsClient) ManagerOption {
	return func(m *TimingManager) {
		if stats != nil {
			m.stats = stats
		}
	}
}

// WithProcessors 替换处理器列表，按注册顺序执行。
func WithProcessors(processors ...Processor) ManagerOption {
	return func(m *TimingManager) {
		m.processors = processors
	}
}

// WithCallerName 显式指定操作名，跳过栈走查。
// 性能敏感的调用点应使用此选项。
func WithCallerName(moduleName, functionName string) ManagerOption {
	return func(m *TimingManager) {
		m.callingModuleName = moduleName
		m.callingFunctionName = functionName
	}
}

// WithAdditionalIgnores 追加栈走查时忽略的包路径前缀。
// 典型用法：忽略调用方自己的数据库封装层，让操作名落在业务仓储上。
func WithAdditionalIgnores(prefixes ...string) ManagerOption {
	return func(m *TimingManager) {
		m.additionalIgnores = append(m.additionalIgnores, prefixes...)
	}
}

// WithTimeoutClassifier 注册额外的超时类错误判定。
// 用于驱动层的查询取消信号等本包不感知的错误类型。
func WithTimeoutClassifier(pred func(error) bool) ManagerOption {
	return func(m *TimingManager) {
		if pred != nil {
			m.timeoutPredicates = append(m.timeoutPredicates, pred)
		}
	}
}

// NewTimingManager 创建单阶段测量管理器。
// 默认处理器为 LogQueryTiming + StatQueryTiming。
func NewTimingManager(message string, opts ...ManagerOption) *TimingManager {
	m := &TimingManager{
		message:    message,
		processors: []Processor{LogQueryTiming, StatQueryTiming},
		logger:     xlog.Nop(),
		stats:      xmetrics.NoopStats{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Message 返回人类可读的消息标签。
func (m *TimingManager) Message() string { return m.message }

// Logger 返回日志出口。
func (m *TimingManager) Logger() xlog.Logger { return m.logger }

// Stats 返回统计出口。
func (m *TimingManager) Stats() xmetrics.StatsClient { return m.stats }

// newTimer 创建一个计时器，按配置解析操作名。
func (m *TimingManager) newTimer(db Database, initialStatus string) *QueryTimer {
	moduleName, functionName := m.callingModuleName, m.callingFunctionName
	if functionName == "" {
		moduleName, functionName = discoverCaller(m.additionalIgnores)
	}
	return &QueryTimer{
		database:            db,
		callingModuleName:   moduleName,
		callingFunctionName: functionName,
		requestStatus:       initialStatus,
		timeoutPredicates:   m.timeoutPredicates,
	}
}

// runProcessors 按注册顺序同步执行处理器。
// 处理器 panic 被逐个隔离并记录日志，绝不传播给被测操作的调用方。
func (m *TimingManager) runProcessors(ctx context.Context, timer *QueryTimer) {
	for _, p := range m.processors {
		if p == nil {
			continue
		}
		m.runProcessor(ctx, p, timer)
	}
}

func (m *TimingManager) runProcessor(ctx context.Context, p Processor, timer *QueryTimer) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error(ctx, "timing processor panic",
				slog.Any("panic", r),
				slog.String("query", timer.CallingFunctionName()))
		}
	}()
	p(ctx, m, timer)
}

// Execute 测量一次单阶段操作。
//
// 创建并进入计时器，执行 op，用 op 的错误结束计时器，
// 按注册顺序执行处理器，然后原样返回 op 的错误。
func (m *TimingManager) Execute(ctx context.Context, db Database, op func(context.Context) error) error {
	if op == nil {
		return ErrNilOperation
	}
	_, err := ExecuteValue(ctx, m, db, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// Wrap 把被测操作包装为同签名的函数，测量在每次调用时发生。
// 这是装饰器的显式组合形式，在装配期而非运行期构造。
func (m *TimingManager) Wrap(db Database, op func(context.Context) error) func(context.Context) error {
	return func(ctx context.Context) error {
		return m.Execute(ctx, db, op)
	}
}

// ExecuteValue 测量一次带返回值的单阶段操作。
//
// 与 [TimingManager.Execute] 语义相同；op 的返回值与错误原样透传。
// op 内部可以挂起（等待 IO），挂起点在被测操作内，不在计时器或处理器中。
func ExecuteValue[T any](ctx context.Context, m *TimingManager, db Database, op func(context.Context) (T, error)) (T, error) {
	var zero T
	if op == nil {
		return zero, ErrNilOperation
	}
	if ctx == nil {
		ctx = context.Background()
	}

	timer := m.newTimer(db, string(QueryStatusSuccess))
	timer.Enter()

	val, err := op(ctx)

	timer.Exit(err)
	m.runProcessors(ctx, timer)
	return val, err
}
