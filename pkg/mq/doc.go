// Package mq 提供消息队列相关的子包。
//
// 子包列表：
//   - xkafka: Kafka 异步生产者桥接，把回调式投递确认封装为可等待的 Future
//
// 设计原则：
//   - 透明封装：通过 Producer() 暴露底层客户端，不限制原生 API
//   - 投递结果通过一次性 Future 交付，绝不跨 goroutine 直接改写调用方状态
//   - 投递语义由调用方负责，本包不做重试也不保证 exactly-once
package mq
