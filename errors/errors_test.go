package errors

import (
	"errors"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:       PhaseNew,
				Kind:        KindAllocation,
				Handle:      42,
				PayloadType: "*errors.payload",
				Detail:      "tracker refused registration",
			},
			contains: []string{"[new]", "allocation", "block 42", "*errors.payload", "tracker refused registration"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhasePromote,
				Kind:  KindExpiredWeak,
			},
			contains: []string{"[promote]", "expired_weak"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseRegistry,
				Kind:   KindCapacity,
				Detail: "limit reached",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[registry]", "capacity", "limit reached", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !containsSubstring(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseNew,
		Kind:  KindAllocation,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	// Test with errors.Unwrap
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase:  PhasePromote,
		Kind:   KindExpiredWeak,
		Handle: 7,
	}

	// Same phase and kind
	if !err.Is(&Error{Phase: PhasePromote, Kind: KindExpiredWeak}) {
		t.Error("Is should match same phase and kind")
	}

	// Different phase
	if err.Is(&Error{Phase: PhaseNew, Kind: KindExpiredWeak}) {
		t.Error("Is should not match different phase")
	}

	// Different kind
	if err.Is(&Error{Phase: PhasePromote, Kind: KindAllocation}) {
		t.Error("Is should not match different kind")
	}

	// Test with errors.Is
	target := &Error{Phase: PhasePromote, Kind: KindExpiredWeak}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseNew, KindAllocation).
		Handle(9).
		PayloadType("*main.Conn").
		Cause(cause).
		Detail("refused by %s", "registry").
		Build()

	if err.Phase != PhaseNew {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseNew)
	}
	if err.Kind != KindAllocation {
		t.Errorf("Kind = %v, want %v", err.Kind, KindAllocation)
	}
	if err.Handle != 9 {
		t.Errorf("Handle = %v, want 9", err.Handle)
	}
	if err.PayloadType != "*main.Conn" {
		t.Errorf("PayloadType = %v, want '*main.Conn'", err.PayloadType)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "refused by registry" {
		t.Errorf("Detail = %v, want 'refused by registry'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("Allocation", func(t *testing.T) {
		cause := errors.New("at capacity")
		err := Allocation(PhaseNew, "*main.Buf", cause)
		if err.Kind != KindAllocation {
			t.Errorf("Kind = %v, want %v", err.Kind, KindAllocation)
		}
		if err.PayloadType != "*main.Buf" {
			t.Errorf("PayloadType = %v, want '*main.Buf'", err.PayloadType)
		}
		if !errors.Is(err.Cause, cause) {
			t.Error("cause not preserved")
		}
	})

	t.Run("ExpiredWeak", func(t *testing.T) {
		err := ExpiredWeak(13)
		if err.Kind != KindExpiredWeak {
			t.Errorf("Kind = %v, want %v", err.Kind, KindExpiredWeak)
		}
		if err.Handle != 13 {
			t.Errorf("Handle = %v, want 13", err.Handle)
		}
	})

	t.Run("Capacity", func(t *testing.T) {
		err := Capacity(128)
		if err.Kind != KindCapacity {
			t.Errorf("Kind = %v, want %v", err.Kind, KindCapacity)
		}
		if !containsSubstring(err.Detail, "128") {
			t.Errorf("Detail = %v, should contain limit", err.Detail)
		}
	})

	t.Run("Closed", func(t *testing.T) {
		err := Closed()
		if err.Kind != KindClosed {
			t.Errorf("Kind = %v, want %v", err.Kind, KindClosed)
		}
	})

	t.Run("Leak", func(t *testing.T) {
		err := Leak(21, "*main.Conn", 2, 1)
		if err.Kind != KindLeak {
			t.Errorf("Kind = %v, want %v", err.Kind, KindLeak)
		}
		if !containsSubstring(err.Detail, "strong 2") {
			t.Errorf("Detail = %v, should contain counts", err.Detail)
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		cause := errors.New("inner")
		err := Wrap(PhaseRuntime, KindDoubleRelease, cause, "stake returned twice")
		if err.Kind != KindDoubleRelease {
			t.Errorf("Kind = %v, want %v", err.Kind, KindDoubleRelease)
		}
		if !errors.Is(err, cause) {
			t.Error("wrapped cause should match with errors.Is")
		}
	})
}

func containsSubstring(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(substr) == 0 ||
		(len(s) > 0 && containsSubstringHelper(s, substr)))
}

func containsSubstringHelper(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
