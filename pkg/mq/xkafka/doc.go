// Package xkafka 提供 Kafka 异步生产者桥接。
//
// 本包基于 confluent-kafka-go 封装，把"提交后在内部线程回调确认"的
// 投递模型桥接为可等待的操作：Produce 返回一次性 DeliveryFuture，
// 每个生产者实例持有一个后台 goroutine 负责排空投递事件通道并终结
// 对应的 Future。
//
// # 基本使用
//
//	producer, err := xkafka.NewAsyncProducer(&kafka.ConfigMap{
//	    "bootstrap.servers": "localhost:9092",
//	})
//	if err != nil {
//	    return err
//	}
//	defer producer.Close()
//
//	fut, err := producer.Produce("payin.events", payload)
//	if err != nil {
//	    return err
//	}
//	msg, err := fut.Wait(ctx)
//
// # 并发模型
//
// 任意数量的调用方可并发 Produce，各自获得独立的 Future。
// 每个实例恰好一个后台 goroutine 终结 Future；终结通过关闭 done
// 通道交接，调用方在自己的执行上下文里等待，后台 goroutine 绝不
// 直接改写调用方状态。
//
// # 关闭语义
//
// Close 幂等：设置停止标志，有界等待后台 goroutine 退出（超过
// JoinTimeout 则放弃等待，不强制终止），刷新未发送消息后关闭底层
// 客户端。Close 之后的 Produce 立即返回 ErrClosed，不会悬挂。
// Close 不取消已提交的在途消息，投递语义由调用方负责。
//
// # 失败语义
//
// 投递失败以 *DeliveryError 交给 Future 的消费方；每个 Future
// 恰好被履行或拒绝一次。本包不做重试，不保证 exactly-once。
package xkafka
