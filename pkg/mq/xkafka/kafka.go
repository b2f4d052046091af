package xkafka

import (
	"context"
	"fmt"
	"time"

	"github.com/omeyang/xtrack/pkg/observability/xlog"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// =============================================================================
// AsyncProducer 接口
// =============================================================================

// AsyncProducer 定义异步 Kafka 生产者接口。
// 通过 Producer() 方法暴露底层 *kafka.Producer，可使用所有原生 API。
type AsyncProducer interface {
	// Producer 返回底层的 *kafka.Producer。
	// 用于执行本接口未覆盖的原生操作。
	Producer() *kafka.Producer

	// Produce 异步提交一条消息并返回可等待的投递 Future。
	// 提交失败（生产者已关闭、本地队列已满等）立即返回错误，不产生 Future。
	Produce(topic string, payload []byte) (*DeliveryFuture, error)

	// Health 执行健康检查。
	// 通过获取 Broker 元数据验证连接状态。
	Health(ctx context.Context) error

	// Stats 返回生产者统计信息。
	Stats() AsyncProducerStats

	// Close 优雅关闭生产者。
	// 停止后台 goroutine 并等待所有消息发送完成（受 JoinTimeout/FlushTimeout 限制）。
	Close() error
}

// AsyncProducerStats 包含异步生产者的统计信息。
type AsyncProducerStats struct {
	// MessagesProduced 已成功入队的消息数量。
	// 设计决策: kafka.Producer.Produce() 是异步的，入队成功不等于发送到 Broker 成功。
	// 实际发送结果需通过投递事件确认。此字段统计入队数，非最终投递数。
	MessagesProduced int64
	// MessagesDelivered 已收到 Broker 投递确认的消息数量。
	MessagesDelivered int64
	// BytesProduced 已成功入队的消息字节数。
	BytesProduced int64
	// Errors 入队失败与投递失败的消息数量之和。
	Errors int64
	// QueueLength 当前队列中等待发送的消息数量。
	QueueLength int
}

// kafkaClient 抽象底层生产者，便于测试时注入 mock。
// *kafka.Producer 天然满足此接口。
type kafkaClient interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	GetMetadata(topic *string, allTopics bool, timeoutMs int) (*kafka.Metadata, error)
	Len() int
	Flush(timeoutMs int) int
	Close()
}

// =============================================================================
// 工厂函数
// =============================================================================

// NewAsyncProducer 创建异步 Kafka 生产者实例并启动投递分发 goroutine。
// config 必须包含 "bootstrap.servers" 配置项。
func NewAsyncProducer(config *kafka.ConfigMap, opts ...AsyncProducerOption) (AsyncProducer, error) {
	if config == nil {
		return nil, ErrNilConfig
	}

	// 复制配置，避免修改调用方传入的 ConfigMap
	clonedConfig := &kafka.ConfigMap{}
	for k, v := range *config {
		if err := clonedConfig.SetKey(k, v); err != nil {
			return nil, fmt.Errorf("clone config key %q: %w", k, err)
		}
	}

	producer, err := kafka.NewProducer(clonedConfig)
	if err != nil {
		return nil, err
	}

	wrapper, err := newAsyncProducer(producer, producer, opts...)
	if err != nil {
		producer.Close()
		return nil, err
	}
	return wrapper, nil
}

// =============================================================================
// 选项
// =============================================================================

// asyncProducerOptions 包含异步生产者的配置选项。
type asyncProducerOptions struct {
	Logger        xlog.Logger
	DeliveryDepth int
	JoinTimeout   time.Duration
	FlushTimeout  time.Duration
	HealthTimeout time.Duration
}

func defaultAsyncProducerOptions() *asyncProducerOptions {
	return &asyncProducerOptions{
		Logger:        xlog.Nop(),
		DeliveryDepth: 1000,
		JoinTimeout:   3 * time.Second,
		FlushTimeout:  10 * time.Second,
		HealthTimeout: 5 * time.Second,
	}
}

// AsyncProducerOption 定义异步生产者的配置选项函数类型。
type AsyncProducerOption func(*asyncProducerOptions)

// WithProducerLogger 设置日志记录器，用于记录非投递类事件与内部告警。
func WithProducerLogger(logger xlog.Logger) AsyncProducerOption {
	return func(o *asyncProducerOptions) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// WithDeliveryDepth 设置投递事件通道的缓冲深度。
func WithDeliveryDepth(n int) AsyncProducerOption {
	return func(o *asyncProducerOptions) {
		if n > 0 {
			o.DeliveryDepth = n
		}
	}
}

// WithJoinTimeout 设置关闭时等待后台 goroutine 退出的超时时间。
func WithJoinTimeout(d time.Duration) AsyncProducerOption {
	return func(o *asyncProducerOptions) {
		if d > 0 {
			o.JoinTimeout = d
		}
	}
}

// WithFlushTimeout 设置关闭时的刷新超时时间。
func WithFlushTimeout(d time.Duration) AsyncProducerOption {
	return func(o *asyncProducerOptions) {
		if d > 0 {
			o.FlushTimeout = d
		}
	}
}

// WithHealthTimeout 设置健康检查超时时间。
func WithHealthTimeout(d time.Duration) AsyncProducerOption {
	return func(o *asyncProducerOptions) {
		if d > 0 {
			o.HealthTimeout = d
		}
	}
}
