package system

import (
	"errors"
	"testing"

	"go.uber.org/zap"
)

type fakeConn struct {
	Events []PolicyEvent
	Err    error
	Closed bool
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	if f.Err != nil {
		return f.Err
	}
	f.Events = append(f.Events, v.(PolicyEvent))
	return nil
}

func (f *fakeConn) Close() error {
	f.Closed = true
	return nil
}

func TestHubBroadcastsToAllSubscribers(t *testing.T) {
	hub := NewPolicyHub(zap.NewNop())
	first := &fakeConn{}
	second := &fakeConn{}
	hub.Register(first)
	hub.Register(second)

	hub.PolicyUpdated("role-1", "storefront", "orders")

	for _, conn := range []*fakeConn{first, second} {
		if len(conn.Events) != 1 {
			t.Fatalf("got %d events, want 1", len(conn.Events))
		}
		event := conn.Events[0]
		if event.Type != EventPolicyUpdated || event.RoleID != "role-1" || event.ModuleKey != "storefront" || event.FeatureKey != "orders" {
			t.Errorf("unexpected event %+v", event)
		}
	}
}

func TestHubDropsDeadConnections(t *testing.T) {
	hub := NewPolicyHub(zap.NewNop())
	alive := &fakeConn{}
	dead := &fakeConn{Err: errors.New("broken pipe")}
	hub.Register(alive)
	hub.Register(dead)

	hub.PolicyUpdated("role-1", "storefront", "orders")

	if hub.Subscribers() != 1 {
		t.Fatalf("got %d subscribers, want 1", hub.Subscribers())
	}
	if !dead.Closed {
		t.Error("dead connection was not closed")
	}

	hub.PolicyUpdated("role-1", "storefront", "orders")
	if len(alive.Events) != 2 {
		t.Errorf("surviving connection got %d events, want 2", len(alive.Events))
	}
}

func TestHubUnregisterIsIdempotent(t *testing.T) {
	hub := NewPolicyHub(zap.NewNop())
	conn := &fakeConn{}
	hub.Register(conn)
	hub.Unregister(conn)
	hub.Unregister(conn)

	hub.PolicyUpdated("role-1", "storefront", "orders")
	if len(conn.Events) != 0 {
		t.Error("unregistered connection still received events")
	}
}
