// Package dispatch 实现进程内类型安全事件分发器
package dispatch

import (
	"errors"
	"reflect"

	"github.com/dep2p/go-dispatch/pkg/lib/log"
)

var logger = log.Logger("dispatch")

// ============================================================================
// 错误定义
// ============================================================================

var (
	// ErrClosed 分发器已关闭
	ErrClosed = errors.New("dispatch: dispatcher closed")
)

// ============================================================================
// Dispatcher 实现
// ============================================================================

// Dispatcher 中央事件分发器
//
// 持有事件类型到类型节点的完整映射，并按事件类型将 Subscribe/Publish
// 调用路由到对应节点。同一事件类型在 Dispatcher 的整个生命周期内
// 至多存在一个节点，节点在首次 Subscribe 或 Publish 时惰性创建。
//
// 全部状态挂在实例上，没有任何包级全局状态。
//
// Dispatcher 非并发安全：整个分发器按单执行上下文设计，Subscribe、
// Publish、Cancel 都是普通的同步调用。嵌入多线程宿主时，调用方需要
// 对整个分发器做外部同步（见包文档"并发模型"一节）。
type Dispatcher struct {
	name string

	// nodes 类型节点映射，以事件类型的 reflect.Type 为键
	nodes map[reflect.Type]anyNode

	tracer MetricsTracer
	closed bool
}

// anyNode 类型节点的非泛型能力接口
//
// 中央映射以 reflect.Type 为键持有异构的 *node[T]。除按类型取回
// 具体节点外，级联关闭只需要这个最小能力，类型擦除细节不外泄。
type anyNode interface {
	close()
	size() int
}

// New 创建事件分发器
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		nodes: make(map[reflect.Type]anyNode),
	}

	// 应用选项
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Close 关闭分发器
//
// 级联关闭所有类型节点：每个节点仍然跟踪的订阅句柄都会被强制取消，
// 句柄转为 Inactive 状态，之后对这些句柄调用 Cancel 是安全的空操作。
// Close 幂等，可重复调用。
//
// 关闭后 Subscribe 和 Publish 返回 ErrClosed。
func (d *Dispatcher) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true

	remaining := 0
	for _, n := range d.nodes {
		remaining += n.size()
		n.close()
	}
	d.nodes = nil

	if remaining > 0 {
		logger.Warn("关闭时强制取消剩余订阅",
			"name", d.name,
			"subscriptions", remaining)
	}

	return nil
}

// EventTypes 返回所有已注册的事件类型
func (d *Dispatcher) EventTypes() []reflect.Type {
	types := make([]reflect.Type, 0, len(d.nodes))
	for typ := range d.nodes {
		types = append(types, typ)
	}
	return types
}

// ============================================================================
// 泛型入口
// ============================================================================

// Subscribe 订阅指定类型的事件
//
// 回调在 Publish 调用方的执行上下文中被同步调用，入参是指向事件的
// 共享指针，回调可以在调用返回后继续持有该事件。对同一类型重复订阅
// 不去重、无容量上限；该类型的节点不存在时惰性创建。
//
// 返回的订阅句柄初始即为活跃状态，由订阅方独占持有。
//
// 在回调内部修改同类型的订阅集合（取消订阅或新增订阅）时，当次
// Publish 剩余回调的分发顺序不作保证，见包文档"重入"一节。
func Subscribe[T Event](d *Dispatcher, fn func(*T)) (*Subscription[T], error) {
	if d.closed {
		return nil, ErrClosed
	}
	return nodeFor[T](d).subscribe(fn), nil
}

// Publish 发布事件
//
// 同步调用该类型当前注册的全部回调后返回，调用顺序为节点当前的
// 持有顺序。该类型尚无节点时是合法的空操作（没有订阅者，什么都
// 不会发生）。
//
// 回调内的 panic 不会被分发器捕获，直接传播到发布方调用点并中断
// 当次剩余分发：分发器不在订阅者之间提供任何隔离。
func Publish[T Event](d *Dispatcher, event *T) error {
	if d.closed {
		return ErrClosed
	}

	typ := reflect.TypeOf((*T)(nil)).Elem()
	n, ok := d.nodes[typ]
	if !ok {
		// 无订阅者，直接返回
		return nil
	}

	// reflect.Type 键映射保证已存节点的具体类型与 T 一致，
	// 此处断言不会失败，热路径上无需运行时类型校验。
	n.(*node[T]).publish(event)

	if d.tracer != nil {
		d.tracer.EventPublished(typ)
	}
	return nil
}

// nodeFor 获取或惰性创建指定事件类型的节点
func nodeFor[T Event](d *Dispatcher) *node[T] {
	typ := reflect.TypeOf((*T)(nil)).Elem()

	if n, ok := d.nodes[typ]; ok {
		// 同 Publish：键即类型证明，断言必然成立
		return n.(*node[T])
	}

	n := &node[T]{dispatcher: d, typ: typ}
	d.nodes[typ] = n

	logger.Debug("创建类型节点",
		"name", d.name,
		"type", typ.String())
	return n
}

// ============================================================================
// node 实现（单一事件类型的分发节点）
// ============================================================================

// node 持有单一事件类型的全部订阅
//
// sinks 按订阅加入顺序持有记录，移除时保持剩余记录的相对顺序，
// 因此一次 Publish 的回调调用顺序是确定的。
type node[T Event] struct {
	dispatcher *Dispatcher
	typ        reflect.Type
	sinks      []sink[T]
}

// sink 一条订阅记录：句柄身份 + 回调
//
// 节点不拥有句柄对象，只按句柄指针身份作为移除时的键，
// 并在节点关闭时借助该指针把句柄的反向引用置空。
type sink[T Event] struct {
	sub *Subscription[T]
	fn  func(*T)
}

// subscribe 登记回调并返回绑定到本节点的新句柄
func (n *node[T]) subscribe(fn func(*T)) *Subscription[T] {
	sub := &Subscription[T]{node: n}
	n.sinks = append(n.sinks, sink[T]{sub: sub, fn: fn})

	if n.dispatcher.tracer != nil {
		n.dispatcher.tracer.SubscriberAdded(n.typ)
	}
	return sub
}

// publish 按当前持有顺序同步调用全部回调
func (n *node[T]) publish(event *T) {
	// 不做快照：回调在迭代中修改订阅集合属于已文档化的调用方风险
	for _, s := range n.sinks {
		s.fn(event)
	}
}

// unsubscribe 按句柄身份移除订阅记录
//
// 仅由句柄自身的 Cancel 调用；记录不存在时为空操作。
func (n *node[T]) unsubscribe(sub *Subscription[T]) {
	for i, s := range n.sinks {
		if s.sub == sub {
			n.sinks = append(n.sinks[:i], n.sinks[i+1:]...)
			if n.dispatcher.tracer != nil {
				n.dispatcher.tracer.SubscriberRemoved(n.typ)
			}
			return
		}
	}
}

// close 关闭节点，强制取消所有剩余句柄
//
// 把每个句柄的反向引用置空，使之后对句柄的 Cancel 或丢弃都是
// 安全的空操作，绝不会触达已关闭的节点。
func (n *node[T]) close() {
	for _, s := range n.sinks {
		s.sub.node = nil
		if n.dispatcher.tracer != nil {
			n.dispatcher.tracer.SubscriberRemoved(n.typ)
		}
	}
	n.sinks = nil
}

// size 返回当前订阅数
func (n *node[T]) size() int {
	return len(n.sinks)
}
