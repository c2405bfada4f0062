package errors

import (
	"fmt"
	"testing"
)

func TestDashError(t *testing.T) {
	// Test basic error creation
	err := New(ErrCodeServerRejected, "server rejected the change")
	if err.Code != ErrCodeServerRejected {
		t.Errorf("expected code %s, got %s", ErrCodeServerRejected, err.Code)
	}

	// Test error wrapping
	cause := fmt.Errorf("underlying error")
	wrapped := Wrap(cause, ErrCodeNetwork, "request failed")

	if wrapped.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	// Test Is function
	if !Is(wrapped, ErrCodeNetwork) {
		t.Error("Is should return true for matching code")
	}

	if Is(wrapped, ErrCodeServerRejected) {
		t.Error("Is should return false for non-matching code")
	}

	// Test WithDetail
	detailed := err.WithDetail("operation", "start F001").WithDetail("status", 500)
	if detailed.Details["operation"] != "start F001" {
		t.Error("WithDetail should add details")
	}
}

func TestErrorConstructors(t *testing.T) {
	// Test ServerRejected with a server-supplied detail
	err := ServerRejected("verify F002", 409, "feature has unmet dependencies")
	if err.Code != ErrCodeServerRejected {
		t.Errorf("expected code %s, got %s", ErrCodeServerRejected, err.Code)
	}
	if err.Details["status"] != 409 {
		t.Error("ServerRejected should include status detail")
	}
	if err.Message != "feature has unmet dependencies" {
		t.Errorf("ServerRejected should prefer the server-supplied detail, got %q", err.Message)
	}

	// Test ServerRejected without a detail
	err = ServerRejected("start F001", 500, "")
	if err.Message == "" {
		t.Error("ServerRejected should synthesize a message when the server supplies none")
	}

	// Test MutationInFlight
	err = MutationInFlight("F003")
	if err.Code != ErrCodeMutationInFlight {
		t.Errorf("expected code %s, got %s", ErrCodeMutationInFlight, err.Code)
	}
	if err.Details["entityId"] != "F003" {
		t.Error("MutationInFlight should include entityId detail")
	}

	// Test Network preserves the cause
	cause := fmt.Errorf("dial tcp: connection refused")
	err = Network("list features", cause)
	if err.Unwrap() != cause {
		t.Error("Network should wrap the transport error")
	}
	if !Is(err, ErrCodeNetwork) {
		t.Error("Network should carry ErrCodeNetwork")
	}
}
