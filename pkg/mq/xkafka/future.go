package xkafka

import (
	"context"
	"sync"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// DeliveryFuture 是一次投递结果的一次性单元。
//
// Future 由 Produce 创建并绑定到提交的消息上，后台 goroutine 在收到
// 投递确认后恰好终结一次。终结通过关闭 done 通道发布，之后 msg/err
// 不再变化，任意数量的 goroutine 可并发 Wait。
type DeliveryFuture struct {
	once sync.Once
	done chan struct{}

	// 仅在 done 关闭前由终结方写入一次
	msg *kafka.Message
	err error
}

func newDeliveryFuture() *DeliveryFuture {
	return &DeliveryFuture{done: make(chan struct{})}
}

// Wait 阻塞等待投递结果。
//
// 投递成功返回带最终分区与偏移量的消息；投递失败返回 *DeliveryError。
// ctx 取消时返回 ctx.Err()，Future 本身不受影响，可再次 Wait。
func (f *DeliveryFuture) Wait(ctx context.Context) (*kafka.Message, error) {
	select {
	case <-f.done:
		return f.msg, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Done 返回终结信号通道，适合在 select 中组合使用。
func (f *DeliveryFuture) Done() <-chan struct{} {
	return f.done
}

// resolve 以成功结果终结 Future，重复调用是 no-op。
func (f *DeliveryFuture) resolve(msg *kafka.Message) {
	f.once.Do(func() {
		f.msg = msg
		close(f.done)
	})
}

// reject 以失败结果终结 Future，重复调用是 no-op。
func (f *DeliveryFuture) reject(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}
