package xlog

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// 编译时接口检查
var (
	_ Logger          = (*xlogger)(nil)
	_ Leveler         = (*xlogger)(nil)
	_ LoggerWithLevel = (*xlogger)(nil)
)

// ErrNilBaseHandler 当 New 的 handler 为 nil 时返回
var ErrNilBaseHandler = errors.New("xlog: nil handler")

// xlogger Logger 接口的实现
type xlogger struct {
	handler  slog.Handler
	levelVar *slog.LevelVar // 派生 logger 共享，动态级别同步生效
}

// Option 定义 Logger 的配置选项函数类型。
type Option func(*loggerOptions)

type loggerOptions struct {
	level  slog.Level
	enrich bool
}

func defaultLoggerOptions() *loggerOptions {
	return &loggerOptions{
		level:  slog.LevelInfo,
		enrich: true,
	}
}

// WithLevel 设置初始日志级别，默认 Info。
func WithLevel(level slog.Level) Option {
	return func(o *loggerOptions) {
		o.level = level
	}
}

// WithEnrich 控制是否自动注入 xctx 面包屑字段，默认开启。
func WithEnrich(enable bool) Option {
	return func(o *loggerOptions) {
		o.enrich = enable
	}
}

// New 基于底层 slog.Handler 创建 Logger。
//
// 默认包装 EnrichHandler 自动注入面包屑字段；可用 WithEnrich(false) 关闭。
// 级别控制通过共享的 slog.LevelVar 实现，handler 自身的级别设置会被忽略，
// 统一以 xlog 的级别为准。
func New(handler slog.Handler, opts ...Option) (LoggerWithLevel, error) {
	if handler == nil {
		return nil, ErrNilBaseHandler
	}

	options := defaultLoggerOptions()
	for _, opt := range opts {
		opt(options)
	}

	if options.enrich {
		enriched, err := NewEnrichHandler(handler)
		if err != nil {
			return nil, err
		}
		handler = enriched
	}

	levelVar := new(slog.LevelVar)
	levelVar.Set(options.level)

	return &xlogger{
		handler:  handler,
		levelVar: levelVar,
	}, nil
}

// log 通用日志方法。
// 级别检查在 handler.Handle 之前完成，禁用级别上的调用只付属性构造的开销。
func (l *xlogger) log(ctx context.Context, level slog.Level, msg string, attrs []slog.Attr) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.Enabled(ctx, level) {
		return
	}

	r := slog.NewRecord(time.Now(), level, msg, 0)
	r.AddAttrs(attrs...)
	// handler 错误不反馈给业务调用链：日志子系统遵循"失败不扩散"原则
	_ = l.handler.Handle(ctx, r)
}

// Debug 记录 Debug 级别日志
func (l *xlogger) Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, slog.LevelDebug, msg, attrs)
}

// Info 记录 Info 级别日志
func (l *xlogger) Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, slog.LevelInfo, msg, attrs)
}

// Warn 记录 Warn 级别日志
func (l *xlogger) Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, slog.LevelWarn, msg, attrs)
}

// Error 记录 Error 级别日志
func (l *xlogger) Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, slog.LevelError, msg, attrs)
}

// With 返回带额外属性的派生 Logger，与父级共享 LevelVar
func (l *xlogger) With(attrs ...slog.Attr) Logger {
	if len(attrs) == 0 {
		return l
	}
	return &xlogger{
		handler:  l.handler.WithAttrs(attrs),
		levelVar: l.levelVar,
	}
}

// SetLevel 动态设置日志级别
func (l *xlogger) SetLevel(level slog.Level) {
	l.levelVar.Set(level)
}

// GetLevel 获取当前日志级别
func (l *xlogger) GetLevel() slog.Level {
	return l.levelVar.Level()
}

// Enabled 检查指定级别是否启用
func (l *xlogger) Enabled(_ context.Context, level slog.Level) bool {
	return level >= l.levelVar.Level()
}

// =============================================================================
// Nop Logger
// =============================================================================

// nopLogger 丢弃所有日志的空实现。
type nopLogger struct{}

// Nop 返回丢弃所有日志的 Logger。
// 用于调用方未提供 logger 时的兜底，避免散落的 nil 检查。
func Nop() Logger { return nopLogger{} }

func (nopLogger) Debug(context.Context, string, ...slog.Attr) {}
func (nopLogger) Info(context.Context, string, ...slog.Attr)  {}
func (nopLogger) Warn(context.Context, string, ...slog.Attr)  {}
func (nopLogger) Error(context.Context, string, ...slog.Attr) {}
func (n nopLogger) With(...slog.Attr) Logger                  { return n }
