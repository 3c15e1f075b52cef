package offline

import "testing"

func TestMonitorNotifiesOnlyOnTransition(t *testing.T) {
	m := NewMonitor(false, testLogger())

	var events []bool
	m.OnChange(func(online bool) {
		events = append(events, online)
	})

	m.SetOnline(false) // no-op, already offline
	m.SetOnline(true)
	m.SetOnline(true) // no-op
	m.SetOnline(false)

	want := []bool{true, false}
	if len(events) != len(want) {
		t.Fatalf("got %d notifications, want %d", len(events), len(want))
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("notification %d = %v, want %v", i, events[i], want[i])
		}
	}
	if m.IsOnline() {
		t.Error("IsOnline() = true, want false")
	}
}

func TestMonitorInitialState(t *testing.T) {
	if !NewMonitor(true, testLogger()).IsOnline() {
		t.Error("monitor created online reports offline")
	}
	if NewMonitor(false, testLogger()).IsOnline() {
		t.Error("monitor created offline reports online")
	}
}
