package xmetrics

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const defaultInstrumentationName = "github.com/omeyang/xtrack/xmetrics"

type otelConfig struct {
	instrumentationName string
	meterProvider       metric.MeterProvider
}

// Option 定义 OTel StatsClient 的配置选项。
type Option func(*otelConfig)

// WithInstrumentationName 设置 OTel instrumentation 名称。
func WithInstrumentationName(name string) Option {
	return func(cfg *otelConfig) {
		if name != "" {
			cfg.instrumentationName = name
		}
	}
}

// WithMeterProvider 设置 MeterProvider。
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(cfg *otelConfig) {
		if provider != nil {
			cfg.meterProvider = provider
		}
	}
}

// NewOTelStats 创建基于 OpenTelemetry 的 StatsClient。
//
// 每个指标名对应一个 Float64Histogram（单位 ms），按需创建并缓存。
// 创建 histogram 失败时该次观测被丢弃：统计发射是 best-effort，
// 不向调用链反馈错误。
func NewOTelStats(opts ...Option) StatsClient {
	cfg := &otelConfig{
		instrumentationName: defaultInstrumentationName,
		meterProvider:       otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &otelStats{
		meter:      cfg.meterProvider.Meter(cfg.instrumentationName),
		histograms: make(map[string]metric.Float64Histogram),
	}
}

type otelStats struct {
	meter metric.Meter

	mu         sync.RWMutex
	histograms map[string]metric.Float64Histogram
}

// Timing 记录一次耗时观测。
func (s *otelStats) Timing(ctx context.Context, name string, valueMS float64, tags map[string]string) {
	if ctx == nil {
		ctx = context.Background()
	}

	hist, err := s.histogram(name)
	if err != nil {
		return
	}

	attrs := make([]attribute.KeyValue, 0, len(tags))
	for k, v := range tags {
		attrs = append(attrs, attribute.String(k, v))
	}

	hist.Record(ctx, valueMS, metric.WithAttributes(attrs...))
}

// histogram 返回指标名对应的 histogram，不存在则创建。
func (s *otelStats) histogram(name string) (metric.Float64Histogram, error) {
	s.mu.RLock()
	hist, ok := s.histograms[name]
	s.mu.RUnlock()
	if ok {
		return hist, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// double-check：等锁期间其他 goroutine 可能已创建
	if hist, ok := s.histograms[name]; ok {
		return hist, nil
	}

	hist, err := s.meter.Float64Histogram(
		name,
		metric.WithDescription("timing observation"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("xmetrics: create histogram %q failed: %w", name, err)
	}

	s.histograms[name] = hist
	return hist, nil
}

// 编译时接口检查
var _ StatsClient = (*otelStats)(nil)
