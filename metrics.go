package dispatch

import (
	"reflect"

	"github.com/prometheus/client_golang/prometheus"
)

// ============================================================================
// 指标追踪
// ============================================================================

const metricNamespace = "dispatch"

// MetricsTracer 指标追踪能力
//
// 分发器在关键路径上回调该接口；通过 WithMetricsTracer 注入。
type MetricsTracer interface {
	// EventPublished 记录一次指定类型事件的发布
	EventPublished(typ reflect.Type)

	// SubscriberAdded 记录指定类型新增一条订阅
	SubscriberAdded(typ reflect.Type)

	// SubscriberRemoved 记录指定类型移除一条订阅
	SubscriberRemoved(typ reflect.Type)
}

// metricsTracer 基于 Prometheus 的 MetricsTracer 实现
type metricsTracer struct {
	eventsPublished *prometheus.CounterVec
	subscribers     *prometheus.GaugeVec
}

var _ MetricsTracer = (*metricsTracer)(nil)

// MetricsTracerOption 指标追踪器选项函数类型
type MetricsTracerOption func(*metricsTracerSettings)

// metricsTracerSettings 指标追踪器设置
type metricsTracerSettings struct {
	reg prometheus.Registerer
}

// WithRegisterer 设置指标注册器
//
// 不设置时使用 prometheus.DefaultRegisterer。
func WithRegisterer(reg prometheus.Registerer) MetricsTracerOption {
	return func(s *metricsTracerSettings) {
		s.reg = reg
	}
}

// NewMetricsTracer 创建基于 Prometheus 的指标追踪器
func NewMetricsTracer(opts ...MetricsTracerOption) MetricsTracer {
	settings := &metricsTracerSettings{
		reg: prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(settings)
	}

	t := &metricsTracer{
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "events_published_total",
			Help:      "按事件类型统计的事件发布总数",
		}, []string{"event"}),
		subscribers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Name:      "subscribers",
			Help:      "按事件类型统计的当前订阅数",
		}, []string{"event"}),
	}
	settings.reg.MustRegister(t.eventsPublished, t.subscribers)

	return t
}

// typeLabel 事件类型的指标标签
func typeLabel(typ reflect.Type) string {
	return typ.String()
}

// EventPublished 记录一次事件发布
func (t *metricsTracer) EventPublished(typ reflect.Type) {
	t.eventsPublished.WithLabelValues(typeLabel(typ)).Inc()
}

// SubscriberAdded 记录新增订阅
func (t *metricsTracer) SubscriberAdded(typ reflect.Type) {
	t.subscribers.WithLabelValues(typeLabel(typ)).Inc()
}

// SubscriberRemoved 记录移除订阅
func (t *metricsTracer) SubscriberRemoved(typ reflect.Type) {
	t.subscribers.WithLabelValues(typeLabel(typ)).Dec()
}
