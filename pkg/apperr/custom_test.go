package apperr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestValidationError(t *testing.T) {
	t.Run("Error message format", func(t *testing.T) {
		err := NewValidationError("mac", "must be 6 hex octets")
		got := err.Error()
		if !strings.Contains(got, "validation error") {
			t.Errorf("error message should contain 'validation error': %s", got)
		}
		if !strings.Contains(got, "field=mac") {
			t.Errorf("error message should contain 'field=mac': %s", got)
		}
		if !strings.Contains(got, "message=must be 6 hex octets") {
			t.Errorf("error message should contain 'message=must be 6 hex octets': %s", got)
		}
	})

	t.Run("Unwrap cause", func(t *testing.T) {
		err := NewValidationErrorWithCause("custom_expiry", "must be in the future", ErrInvalidExpiry)
		if !errors.Is(err, ErrInvalidExpiry) {
			t.Error("errors.Is should find ErrInvalidExpiry")
		}
		if err.Field != "custom_expiry" {
			t.Errorf("Field = %q, want %q", err.Field, "custom_expiry")
		}
	})

	t.Run("errors.As through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("approve: %w", NewValidationError("ip", "empty"))
		var ve *ValidationError
		if !errors.As(wrapped, &ve) {
			t.Fatal("errors.As should find ValidationError")
		}
		if ve.Field != "ip" {
			t.Errorf("Field = %q, want %q", ve.Field, "ip")
		}
	})
}

func TestNotAuthorizedError(t *testing.T) {
	err := NewNotAuthorizedError("u2", "revoke", "AA:BB:CC:DD:EE:FF|10.0.0.5")
	got := err.Error()
	if !strings.Contains(got, "principal=u2") {
		t.Errorf("error message should contain 'principal=u2': %s", got)
	}
	if !strings.Contains(got, "operation=revoke") {
		t.Errorf("error message should contain 'operation=revoke': %s", got)
	}
	if !errors.Is(err, ErrNotAuthorized) {
		t.Error("errors.Is should find ErrNotAuthorized")
	}
}

func TestStorageError(t *testing.T) {
	t.Run("Error message without cause", func(t *testing.T) {
		err := NewStorageError("GET", "dev:abc", nil)
		got := err.Error()
		if !strings.Contains(got, "storage error") {
			t.Errorf("error message should contain 'storage error': %s", got)
		}
		if !strings.Contains(got, "operation=GET") {
			t.Errorf("error message should contain 'operation=GET': %s", got)
		}
		if strings.Contains(got, "cause=") {
			t.Errorf("error message should not contain 'cause=' when cause is nil: %s", got)
		}
	})

	t.Run("Unwrap cause", func(t *testing.T) {
		err := NewStorageError("PUT", "dev:abc", ErrValkeyConnection)
		if !errors.Is(err, ErrValkeyConnection) {
			t.Error("errors.Is should find ErrValkeyConnection")
		}
		if !strings.Contains(err.Error(), "cause=valkey connection error") {
			t.Errorf("error message should contain cause: %s", err.Error())
		}
	})
}

func TestAdapterError(t *testing.T) {
	err := NewAdapterError("identity", 502, ErrCircuitOpen)
	got := err.Error()
	if !strings.Contains(got, "adapter=identity") {
		t.Errorf("error message should contain 'adapter=identity': %s", got)
	}
	if !strings.Contains(got, "statusCode=502") {
		t.Errorf("error message should contain 'statusCode=502': %s", got)
	}
	if !errors.Is(err, ErrCircuitOpen) {
		t.Error("errors.Is should find ErrCircuitOpen")
	}

	noCause := NewAdapterError("vendor", 500, nil)
	if strings.Contains(noCause.Error(), "cause=") {
		t.Errorf("error message should not contain 'cause=': %s", noCause.Error())
	}
}
