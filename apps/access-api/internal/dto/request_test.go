package dto

import (
	"errors"
	"testing"

	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/identity"
	"github.com/oyaguma3/captive-portal-access/pkg/apperr"
	"github.com/oyaguma3/captive-portal-access/pkg/model"
)

func TestLoginRequest_Credential(t *testing.T) {
	tests := []struct {
		name string
		req  LoginRequest
		want identity.Method
	}{
		{"default ldap", LoginRequest{Username: "a", Password: "b"}, identity.MethodLDAP},
		{"otp", LoginRequest{Method: "OTP", Code: "123456"}, identity.MethodOTP},
		{"oauth", LoginRequest{Method: " oauth ", Code: "xyz"}, identity.MethodOAuth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.Credential().Method; got != tt.want {
				t.Errorf("Method = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApproveRequest_ToEngine(t *testing.T) {
	t.Run("network detected", func(t *testing.T) {
		r := ApproveRequest{IP: " 10.0.0.5 ", MAC: "aa:bb:cc:dd:ee:ff", ExpiryOption: "1d", Shared: true, Type: "router"}
		got, err := r.ToEngine()
		if err != nil {
			t.Fatalf("ToEngine() error = %v", err)
		}
		if got.IP != "10.0.0.5" {
			t.Errorf("IP = %q", got.IP)
		}
		if got.Kind != model.KindNetworkDetected || got.Sharing != model.SharingShared {
			t.Errorf("Kind/Sharing = %q/%q", got.Kind, got.Sharing)
		}
		if got.Expiry != model.ExpiryOneDay {
			t.Errorf("Expiry = %q, want %q", got.Expiry, model.ExpiryOneDay)
		}
		if got.Metadata.DeviceType != model.DeviceTypeRouter {
			t.Errorf("DeviceType = %q", got.Metadata.DeviceType)
		}
	})

	t.Run("legacy expiry field", func(t *testing.T) {
		r := ApproveRequest{MAC: "aa:bb:cc:dd:ee:ff", Expiry: "custom", CustomExpiry: "2026-01-01T10:00"}
		got, err := r.ToEngine()
		if err != nil {
			t.Fatalf("ToEngine() error = %v", err)
		}
		if got.Expiry != model.ExpiryCustom || got.CustomExpiry != "2026-01-01T10:00" {
			t.Errorf("Expiry/Custom = %q/%q", got.Expiry, got.CustomExpiry)
		}
	})

	t.Run("added by user", func(t *testing.T) {
		r := ApproveRequest{MAC: "aa:bb:cc:dd:ee:ff", AddedByUser: true, Name: " Laptop ", OS: "Linux"}
		got, err := r.ToEngine()
		if err != nil {
			t.Fatalf("ToEngine() error = %v", err)
		}
		if got.Kind != model.KindUserRegistered {
			t.Errorf("Kind = %q", got.Kind)
		}
		if got.Metadata.Name != "Laptop" || got.Metadata.OS != "Linux" {
			t.Errorf("Metadata = %+v", got.Metadata)
		}
	})

	t.Run("invalid type", func(t *testing.T) {
		r := ApproveRequest{MAC: "aa:bb:cc:dd:ee:ff", Type: "switch"}
		_, err := r.ToEngine()
		var ve *apperr.ValidationError
		if !errors.As(err, &ve) || ve.Field != "type" {
			t.Errorf("ToEngine() error = %v, want ValidationError(type)", err)
		}
	})
}
