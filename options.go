package dispatch

// ============================================================================
// 选项定义
// ============================================================================

// Option Dispatcher 配置选项函数类型
type Option func(*Dispatcher)

// WithName 设置分发器实例名称
//
// 名称用于日志与指标标签，便于同一进程内区分多个分发器实例。
// 不设置时为空字符串。
func WithName(name string) Option {
	return func(d *Dispatcher) {
		d.name = name
	}
}

// WithMetricsTracer 设置指标追踪器
//
// 不设置时不产生任何指标开销。
func WithMetricsTracer(tracer MetricsTracer) Option {
	return func(d *Dispatcher) {
		d.tracer = tracer
	}
}
