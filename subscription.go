package dispatch

// ============================================================================
// Subscription 实现
// ============================================================================

// Subscription 订阅句柄
//
// 代表一条回调对一个事件类型的注册，由订阅方独占持有。句柄只能由
// Subscribe 创建；不要复制句柄结构体，传递时始终使用指针。零值句柄
// 处于 Inactive 状态，对其调用 Active/Cancel 是安全的。
//
// 状态为单向转换：Active（反向引用指向所属节点）→ Inactive（引用
// 置空）。三条路径触发该转换且彼此幂等：
//  1. 手动调用 Cancel
//  2. 所属作用域退出时的 defer Cancel（析构路径的 Go 写法）
//  3. 分发器 Close 时节点的级联强制取消
type Subscription[T Event] struct {
	// node 所属类型节点的反向引用，nil 表示已取消
	node *node[T]
}

// Active 返回句柄是否处于活跃状态
//
// 纯查询，无副作用。活跃当且仅当反向引用非空，当且仅当所属节点
// 仍持有以本句柄为键的订阅记录。
func (s *Subscription[T]) Active() bool {
	return s != nil && s.node != nil
}

// Cancel 取消订阅
//
// 活跃时：调用所属节点的 unsubscribe 移除回调，然后把反向引用置空，
// 转为 Inactive，之后被守护的回调不会再被调用。已经 Inactive 时
// （含被分发器 Close 级联取消后）为空操作，重复 Cancel 不是错误。
func (s *Subscription[T]) Cancel() {
	if s == nil || s.node == nil {
		return
	}
	s.node.unsubscribe(s)
	s.node = nil
}
