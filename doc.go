// Package dispatch 实现进程内类型安全事件分发器
//
// 生产者发布强类型事件对象，消费者按具体事件类型注册回调并只收到
// 该类型的事件。Publish 在发布方的执行上下文中同步调用全部回调后
// 返回；Subscribe 返回独占持有的订阅句柄，句柄被取消（或随所属
// 作用域退出被 defer Cancel）后回调不会再被调用。
//
// # 快速开始
//
//	// 定义事件类型（内嵌 EventBase 满足事件能力）
//	type SomeEvent struct {
//	    dispatch.EventBase
//	    Value int
//	}
//
//	// 创建分发器
//	d := dispatch.New()
//	defer d.Close()
//
//	// 订阅事件
//	sub, _ := dispatch.Subscribe(d, func(ev *SomeEvent) {
//	    fmt.Println("value:", ev.Value)
//	})
//	defer sub.Cancel()
//
//	// 发布事件（同步分发，返回时所有回调已执行完毕）
//	dispatch.Publish(d, &SomeEvent{Value: 42})
//
// # Fx 模块
//
//	import "go.uber.org/fx"
//
//	app := fx.New(
//	    dispatch.Module(),
//	    fx.Invoke(func(d *dispatch.Dispatcher) {
//	        sub, _ := dispatch.Subscribe(d, handler)
//	        // ...
//	    }),
//	)
//
// 应用停止时模块自动关闭分发器，级联取消所有仍然活跃的订阅。
//
// # 并发模型
//
// 分发器按单执行上下文设计，内部不加锁：Subscribe、Publish、Cancel
// 都是普通的同步调用，不挂起、不做 I/O、不让出控制权。嵌入多线程
// 宿主时由调用方对整个分发器做外部同步；缺失同步属于数据竞争，
// 后果是运行时故障（竞争检测报告或 map 并发访问崩溃），不属于
// 分发器的安全契约。
//
// # 重入
//
// 回调在 Publish 的迭代过程中修改同类型的订阅集合（取消某条订阅、
// 取消自身、或新增订阅）是已文档化的调用方风险：当次 Publish 剩余
// 回调的分发顺序与可见性不作保证，但不会破坏分发器内部状态。
//
// # 错误语义
//
// 正常运行中不存在可恢复错误：重复 Cancel、对已失效句柄的操作都是
// 安全空操作；唯一设计内的错误是对已 Close 的分发器调用
// Subscribe/Publish 返回的 ErrClosed。回调内的 panic 不被捕获，
// 直接传播到发布方调用点并中断当次剩余分发。
//
// # 架构定位
//
// 纯内存通知机制：无持久化、无网络传输、无事件队列。事件的生命
// 周期由 GC 管理，回调可在分发结束后继续持有事件指针。
package dispatch
