package dispatch

// Event 事件标记能力
//
// 任何可发布/可订阅的具体事件载荷类型都必须满足该能力。
// 能力本身不要求任何行为，仅用于在类型层面圈定合法的事件类型：
// 通过内嵌 EventBase 即可满足。
//
//	type PeerConnected struct {
//	    dispatch.EventBase
//	    PeerID string
//	}
//
// 事件的字段形状完全由调用方定义，分发器不做任何约束。
type Event interface {
	isEvent()
}

// EventBase 事件基座
//
// 零尺寸结构体，具体事件类型内嵌后即满足 Event 能力。
type EventBase struct{}

func (EventBase) isEvent() {}
