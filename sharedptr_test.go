package sharedptr

import "testing"

func TestEventKind_String(t *testing.T) {
	tests := []struct {
		kind EventKind
		want string
	}{
		{EventCreated, "created"},
		{EventRetained, "retained"},
		{EventReleased, "released"},
		{EventWeakRetained, "weak_retained"},
		{EventWeakReleased, "weak_released"},
		{EventPayloadFreed, "payload_freed"},
		{EventBlockFreed, "block_freed"},
		{EventKind(255), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("EventKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
