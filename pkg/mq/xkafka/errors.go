package xkafka

import (
	"errors"
	"fmt"
)

var (
	// ErrNilConfig 表示传入的配置为空。
	ErrNilConfig = errors.New("xkafka: nil config")

	// ErrNilClient 表示传入的客户端为空。
	ErrNilClient = errors.New("xkafka: nil client")

	// ErrClosed 表示生产者已关闭。
	ErrClosed = errors.New("xkafka: closed")

	// ErrEmptyTopic 表示目标 topic 为空。
	ErrEmptyTopic = errors.New("xkafka: empty topic")

	// ErrFlushTimeout 表示消息刷新超时。
	ErrFlushTimeout = errors.New("xkafka: flush timeout")

	// ErrJoinTimeout 表示等待后台 goroutine 退出超时。
	// 超时后该 goroutine 被放弃，不会被强制终止。
	ErrJoinTimeout = errors.New("xkafka: dispatcher join timeout")
)

// DeliveryError 表示一次投递失败，包装客户端上报的错误。
type DeliveryError struct {
	// Topic 目标 topic。
	Topic string
	// Err 客户端上报的原始错误。
	Err error
}

// Error 实现 error 接口。
func (e *DeliveryError) Error() string {
	return fmt.Sprintf("xkafka: delivery to %q failed: %v", e.Topic, e.Err)
}

// Unwrap 返回底层错误，支持 errors.Is/As 链式判断。
func (e *DeliveryError) Unwrap() error {
	return e.Err
}
