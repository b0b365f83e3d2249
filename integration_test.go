package dispatch

import (
	"context"
	"testing"

	"go.uber.org/fx"
)

// 测试事件类型定义
type EvtPeerConnected struct {
	EventBase
	Peer string
}

type EvtPeerDisconnected struct {
	EventBase
	Peer   string
	Reason string
}

type EvtLocalAddrsUpdated struct {
	EventBase
	Current []string
	Added   []string
}

// ============================================================================
// 场景集成测试
// ============================================================================

// TestIntegration_ConnectionTracking 测试多组件按类型消费事件
func TestIntegration_ConnectionTracking(t *testing.T) {
	d := New(WithName("integration"))
	defer func() { _ = d.Close() }()

	// 连接跟踪组件：同时订阅连接与断开事件
	connected := make(map[string]bool)

	subConn, err := Subscribe(d, func(ev *EvtPeerConnected) {
		connected[ev.Peer] = true
	})
	if err != nil {
		t.Fatalf("Subscribe(EvtPeerConnected) failed: %v", err)
	}
	defer subConn.Cancel()

	subDisc, err := Subscribe(d, func(ev *EvtPeerDisconnected) {
		delete(connected, ev.Peer)
	})
	if err != nil {
		t.Fatalf("Subscribe(EvtPeerDisconnected) failed: %v", err)
	}
	defer subDisc.Cancel()

	// 发布一组有序事件
	_ = Publish(d, &EvtPeerConnected{Peer: "QmPeerA"})
	_ = Publish(d, &EvtPeerConnected{Peer: "QmPeerB"})
	_ = Publish(d, &EvtPeerDisconnected{Peer: "QmPeerA", Reason: "timeout"})

	if len(connected) != 1 || !connected["QmPeerB"] {
		t.Errorf("connected = %v, want only QmPeerB", connected)
	}

	// 地址事件与连接事件互不串扰
	if len(d.EventTypes()) != 2 {
		t.Errorf("EventTypes() = %d, want 2", len(d.EventTypes()))
	}
}

// TestIntegration_CallbackRetainsEvent 测试回调保留事件指针
func TestIntegration_CallbackRetainsEvent(t *testing.T) {
	d := New()
	defer func() { _ = d.Close() }()

	// 回调把事件指针存起来，在分发结束后继续使用
	var retained *EvtLocalAddrsUpdated
	sub, _ := Subscribe(d, func(ev *EvtLocalAddrsUpdated) {
		retained = ev
	})
	defer sub.Cancel()

	_ = Publish(d, &EvtLocalAddrsUpdated{
		Current: []string{"/ip4/1.2.3.4/udp/4001"},
		Added:   []string{"/ip4/1.2.3.4/udp/4001"},
	})

	if retained == nil {
		t.Fatal("callback did not receive event")
	}
	if len(retained.Current) != 1 || retained.Current[0] != "/ip4/1.2.3.4/udp/4001" {
		t.Errorf("retained event = %+v, want original payload", retained)
	}
}

// TestIntegration_FxApplication 测试 Fx 应用中的完整流程
func TestIntegration_FxApplication(t *testing.T) {
	var (
		d   *Dispatcher
		sub *Subscription[EvtPeerConnected]
		got []string
	)

	app := fx.New(
		Module(WithName("fx-integration")),
		fx.NopLogger,
		fx.Invoke(func(disp *Dispatcher) {
			d = disp
			sub, _ = Subscribe(d, func(ev *EvtPeerConnected) {
				got = append(got, ev.Peer)
			})
		}),
	)

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		t.Fatalf("app.Start() failed: %v", err)
	}

	_ = Publish(d, &EvtPeerConnected{Peer: "QmPeerC"})

	if len(got) != 1 || got[0] != "QmPeerC" {
		t.Fatalf("got = %v, want [QmPeerC]", got)
	}

	if err := app.Stop(ctx); err != nil {
		t.Fatalf("app.Stop() failed: %v", err)
	}

	// 应用停止后：分发器已关闭，句柄失效，发布返回 ErrClosed
	if sub.Active() {
		t.Error("subscription still active after app.Stop()")
	}
	if err := Publish(d, &EvtPeerConnected{Peer: "QmPeerD"}); err != ErrClosed {
		t.Errorf("Publish() after stop error = %v, want ErrClosed", err)
	}
}
