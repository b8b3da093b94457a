package breaker

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sony/gobreaker"

	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/config"
)

func TestNew_TripsAfterThreshold(t *testing.T) {
	cb := New("test")
	fail := errors.New("boom")

	for i := 0; i < config.CBFailureThreshold; i++ {
		_, _ = cb.Execute(func() (any, error) { return nil, fail })
	}
	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("State() = %v, want open", cb.State())
	}

	_, err := cb.Execute(func() (any, error) { return "ok", nil })
	if !IsOpen(err) {
		t.Errorf("Execute() error = %v, want open state error", err)
	}
}

func TestIsOpen(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"open", gobreaker.ErrOpenState, true},
		{"too many", gobreaker.ErrTooManyRequests, true},
		{"wrapped", fmt.Errorf("x: %w", gobreaker.ErrOpenState), true},
		{"other", errors.New("x"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOpen(tt.err); got != tt.want {
				t.Errorf("IsOpen() = %v, want %v", got, tt.want)
			}
		})
	}
}
