package dispatch

import (
	"context"

	"go.uber.org/fx"
)

// ============================================================================
// Fx 模块
// ============================================================================

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	Dispatcher *Dispatcher
}

// Module 返回 Fx 模块
//
// 提供 *Dispatcher 实例并注册生命周期：应用停止时关闭分发器，
// 级联取消所有仍然活跃的订阅。
func Module(opts ...Option) fx.Option {
	return fx.Module("dispatch",
		fx.Provide(func() Result {
			return ProvideDispatcher(opts...)
		}),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideDispatcher 提供 Dispatcher 实例
func ProvideDispatcher(opts ...Option) Result {
	return Result{
		Dispatcher: New(opts...),
	}
}

// lifecycleInput 生命周期输入参数
type lifecycleInput struct {
	fx.In

	LC         fx.Lifecycle
	Dispatcher *Dispatcher
}

// registerLifecycle 注册生命周期
func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			// 分发器无需特殊启动逻辑
			return nil
		},
		OnStop: func(_ context.Context) error {
			return input.Dispatcher.Close()
		},
	})
}

// ============================================================================
// 模块元信息
// ============================================================================

const (
	// Version 模块版本
	Version = "1.0.0"
	// Name 模块名称
	Name = "dispatch"
	// Description 模块描述
	Description = "进程内事件分发模块，提供类型安全的同步发布/订阅机制"
)
