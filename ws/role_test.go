package ws

import (
	"testing"

	"github.com/lguibr/pongrelay/events"
)

func TestRole_ReadFilter(t *testing.T) {
	tests := []struct {
		role Role
		want []events.Topic
	}{
		{Host, []events.Topic{events.Input, events.Session}},
		{Peer, []events.Topic{events.HostTick, events.Input, events.Status, events.Session}},
		{Observer, []events.Topic{events.HostTick, events.Input, events.Status, events.Session}},
	}
	for _, tt := range tests {
		got := tt.role.ReadFilter()
		if len(got) != len(tt.want) {
			t.Fatalf("%s: ReadFilter() = %v, want %v", tt.role, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%s: ReadFilter()[%d] = %s, want %s", tt.role, i, got[i], tt.want[i])
			}
		}
	}
}

func TestRole_CanWrite(t *testing.T) {
	if !Host.CanWrite(events.HostTick) {
		t.Error("expected Host to be allowed to write host_tick")
	}
	if Host.CanWrite(events.Input) {
		t.Error("expected Host to be disallowed from writing input")
	}
	if !Peer.CanWrite(events.Input) {
		t.Error("expected Peer to be allowed to write input")
	}
	if !Observer.CanWrite(events.Session) {
		t.Error("expected Observer to be allowed to write session (for close)")
	}
	if Observer.CanWrite(events.Input) {
		t.Error("expected Observer to be disallowed from writing input")
	}
}
