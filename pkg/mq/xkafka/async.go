package xkafka

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// asyncProducer 实现 AsyncProducer 接口。
type asyncProducer struct {
	// producer 底层原生生产者；测试注入 mock 时为 nil。
	producer *kafka.Producer
	client   kafkaClient
	options  *asyncProducerOptions

	// deliveries 所有消息共用的投递事件通道，由 dispatchLoop 独占消费。
	deliveries chan kafka.Event
	stopCh     chan struct{}
	doneCh     chan struct{}

	// mu 保护 GetMetadata、Flush、Close 等管理操作的并发访问。
	// 注意：Producer.Produce() 本身是线程安全的，不需要加锁。
	mu     sync.Mutex
	closed atomic.Bool // 防止重复关闭

	// 统计信息
	messagesProduced  atomic.Int64
	messagesDelivered atomic.Int64
	bytesProduced     atomic.Int64
	errors            atomic.Int64
}

func newAsyncProducer(producer *kafka.Producer, client kafkaClient, opts ...AsyncProducerOption) (*asyncProducer, error) {
	if client == nil {
		return nil, ErrNilClient
	}

	options := defaultAsyncProducerOptions()
	for _, opt := range opts {
		opt(options)
	}

	p := &asyncProducer{
		producer:   producer,
		client:     client,
		options:    options,
		deliveries: make(chan kafka.Event, options.DeliveryDepth),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
	go p.dispatchLoop()
	return p, nil
}

// Producer 返回底层的 *kafka.Producer。
func (p *asyncProducer) Producer() *kafka.Producer {
	return p.producer
}

// Produce 异步提交一条消息并返回可等待的投递 Future。
//
// 消息通过 Opaque 字段携带 Future，后台 goroutine 收到投递事件后据此
// 终结对应的 Future。提交失败立即返回错误，不产生 Future。
func (p *asyncProducer) Produce(topic string, payload []byte) (*DeliveryFuture, error) {
	if p.closed.Load() {
		return nil, ErrClosed
	}
	if topic == "" {
		return nil, ErrEmptyTopic
	}

	fut := newDeliveryFuture()
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          payload,
		Opaque:         fut,
	}

	if err := p.client.Produce(msg, p.deliveries); err != nil {
		p.errors.Add(1)
		return nil, fmt.Errorf("xkafka: produce to %q: %w", topic, err)
	}

	p.messagesProduced.Add(1)
	p.bytesProduced.Add(int64(len(payload)))
	return fut, nil
}

// dispatchLoop 排空投递事件通道并终结对应的 Future。
// 每个生产者实例恰好一个 dispatchLoop，随 Close 退出。
func (p *asyncProducer) dispatchLoop() {
	defer close(p.doneCh)
	for {
		select {
		case <-p.stopCh:
			return
		case ev := <-p.deliveries:
			p.dispatch(ev)
		}
	}
}

func (p *asyncProducer) dispatch(ev kafka.Event) {
	switch e := ev.(type) {
	case *kafka.Message:
		fut, ok := e.Opaque.(*DeliveryFuture)
		if !ok {
			return
		}
		if e.TopicPartition.Error != nil {
			p.errors.Add(1)
			fut.reject(&DeliveryError{Topic: topicOf(e), Err: e.TopicPartition.Error})
			return
		}
		p.messagesDelivered.Add(1)
		fut.resolve(e)
	case kafka.Error:
		// 非投递类事件：记录后继续，不影响任何 Future
		p.errors.Add(1)
		p.options.Logger.Warn(context.Background(), "kafka producer event error",
			slog.String("code", e.Code().String()),
			slog.String("error", e.Error()))
	}
}

func topicOf(msg *kafka.Message) string {
	if msg.TopicPartition.Topic == nil {
		return ""
	}
	return *msg.TopicPartition.Topic
}

// Health 执行健康检查。
// 通过获取 Broker 元数据验证连接状态。
//
// 设计决策: Health 内部启动 goroutine 获取元数据，当外部 ctx 取消时会立即返回，
// 但后台 goroutine 仍持有 mu 锁直到 GetMetadata 超时（受 HealthTimeout 限制）。
// 在此期间 Close() 会被短暂阻塞。这是可接受的权衡：HealthTimeout 默认 5s，
// 且 GetMetadata 通常在毫秒级完成。
func (p *asyncProducer) Health(ctx context.Context) error {
	if p.closed.Load() {
		return ErrClosed
	}

	timeoutMs := int(p.options.HealthTimeout.Milliseconds())

	done := make(chan error, 1)
	go func() {
		p.mu.Lock()
		defer p.mu.Unlock()

		// 再次检查 closed，防止在等待锁期间 Close() 已执行
		if p.closed.Load() {
			done <- ErrClosed
			return
		}

		_, err := p.client.GetMetadata(nil, true, timeoutMs)
		if err != nil {
			done <- fmt.Errorf("xkafka: health check failed: %w", err)
			return
		}
		done <- nil
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// Stats 返回生产者统计信息。
// 如果生产者已关闭，QueueLength 返回 0。
func (p *asyncProducer) Stats() AsyncProducerStats {
	var queueLen int
	if !p.closed.Load() {
		p.mu.Lock()
		if !p.closed.Load() {
			queueLen = p.client.Len()
		}
		p.mu.Unlock()
	}

	return AsyncProducerStats{
		MessagesProduced:  p.messagesProduced.Load(),
		MessagesDelivered: p.messagesDelivered.Load(),
		BytesProduced:     p.bytesProduced.Load(),
		Errors:            p.errors.Load(),
		QueueLength:       queueLen,
	}
}

// Close 优雅关闭生产者。
// 停止后台 goroutine（受 JoinTimeout 限制，超时放弃等待而不强制终止），
// 等待所有消息发送完成（受 FlushTimeout 限制），再排空残留投递事件，
// 保证已收到确认的 Future 都被终结。重复调用 Close 安全返回 ErrClosed。
func (p *asyncProducer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	close(p.stopCh)
	joined := true
	select {
	case <-p.doneCh:
	case <-time.After(p.options.JoinTimeout):
		joined = false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	timeoutMs := int(p.options.FlushTimeout.Milliseconds())
	remaining := p.client.Flush(timeoutMs)

	// 后台 goroutine 已退出时，排空通道里残留的投递事件，
	// 避免已确认的消息留下永不终结的 Future。
	if joined {
		p.drainDeliveries()
	}

	p.client.Close()

	if !joined {
		return ErrJoinTimeout
	}
	if remaining > 0 {
		return fmt.Errorf("%w: %d messages still in queue", ErrFlushTimeout, remaining)
	}
	return nil
}

func (p *asyncProducer) drainDeliveries() {
	for {
		select {
		case ev := <-p.deliveries:
			p.dispatch(ev)
		default:
			return
		}
	}
}

// 确保实现接口
var _ AsyncProducer = (*asyncProducer)(nil)
