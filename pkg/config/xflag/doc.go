// Package xflag 提供运行时特性开关。
//
// 开关定义存放在 YAML 或 JSON 文件中，进程内读取是纯内存操作；
// 文件变更通过 Reload 或 Watch 热更新，读取方无须重启即可感知。
//
// # 基本使用
//
//	flags, err := xflag.New("/etc/payin/flags.yaml")
//	if err != nil {
//	    return err
//	}
//
//	if flags.GetBool("payin.use_new_processor", false) {
//	    // 新路径
//	}
//
// # 读取语义
//
// 所有 Get* 方法在键不存在时返回调用方给定的默认值，绝不返回错误：
// 特性开关的退化路径永远是"保持默认行为"，而不是让业务失败。
//
// # 热更新
//
// Reload 重新读取文件并整体替换快照；Watch 监控文件变更并自动
// Reload。读取与替换通过读写锁隔离，读取方看到的始终是完整一致的
// 某一版快照。
package xflag
