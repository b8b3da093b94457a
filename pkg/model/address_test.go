package model

import (
	"errors"
	"testing"

	"github.com/oyaguma3/captive-portal-access/pkg/apperr"
)

func TestNormalizeMAC(t *testing.T) {
	tests := []struct {
		name    string
		mac     string
		want    string
		wantErr bool
	}{
		{"colon upper", "AA:BB:CC:DD:EE:FF", "AA:BB:CC:DD:EE:FF", false},
		{"colon lower", "aa:bb:cc:dd:ee:ff", "AA:BB:CC:DD:EE:FF", false},
		{"dash mixed", "aA-bB-0c-1D-e2-F3", "AA:BB:0C:1D:E2:F3", false},
		{"surrounding spaces", "  00:11:22:33:44:55 ", "00:11:22:33:44:55", false},
		{"empty", "", "", true},
		{"too short", "AA:BB:CC:DD:EE", "", true},
		{"no separator", "AABBCCDDEEFF", "", true},
		{"mixed separators", "AA:BB-CC:DD:EE:FF", "", true},
		{"dot separator", "AA.BB.CC.DD.EE.FF", "", true},
		{"non hex", "GG:BB:CC:DD:EE:FF", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeMAC(tt.mac)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeMAC(%q) error = %v, wantErr %v", tt.mac, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, apperr.ErrInvalidMAC) {
					t.Errorf("error should wrap ErrInvalidMAC, got %v", err)
				}
				var ve *apperr.ValidationError
				if !errors.As(err, &ve) {
					t.Errorf("error should be ValidationError, got %T", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("NormalizeMAC(%q) = %q, want %q", tt.mac, got, tt.want)
			}
		})
	}
}

func TestNormalizeIP(t *testing.T) {
	tests := []struct {
		name    string
		ip      string
		want    string
		wantErr bool
	}{
		{"ipv4", "10.0.0.5", "10.0.0.5", false},
		{"ipv6", "2001:DB8::1", "2001:db8::1", false},
		{"empty", "", "", true},
		{"hostname", "gateway.local", "", true},
		{"out of range", "10.0.0.256", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeIP(tt.ip)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeIP(%q) error = %v, wantErr %v", tt.ip, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, apperr.ErrInvalidIP) {
					t.Errorf("error should wrap ErrInvalidIP, got %v", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("NormalizeIP(%q) = %q, want %q", tt.ip, got, tt.want)
			}
		})
	}
}

func TestNewClientAddress(t *testing.T) {
	addr, err := NewClientAddress("10.0.0.5", "aa-bb-cc-dd-ee-ff")
	if err != nil {
		t.Fatalf("NewClientAddress() error = %v", err)
	}
	if addr.MAC != "AA:BB:CC:DD:EE:FF" || addr.IP != "10.0.0.5" {
		t.Errorf("NewClientAddress() = %+v", addr)
	}

	// 番兵値はIPリテラルではない
	_, err = NewClientAddress(ManualIP, "AA:BB:CC:DD:EE:FF")
	if !errors.Is(err, apperr.ErrInvalidIP) {
		t.Errorf("NewClientAddress(Manual) error = %v, want ErrInvalidIP", err)
	}

	if _, err := NewClientAddress("", "AA:BB:CC:DD:EE:FF"); err == nil {
		t.Error("NewClientAddress() with empty ip should fail")
	}
	if !addr.Matches(DeviceKey{MAC: "AA:BB:CC:DD:EE:FF", IP: "10.0.0.5"}) {
		t.Error("Matches() = false, want true")
	}
}

func TestNewManualAddress(t *testing.T) {
	addr, err := NewManualAddress("aa:bb:cc:dd:ee:ff")
	if err != nil {
		t.Fatalf("NewManualAddress() error = %v", err)
	}
	if addr.IP != ManualIP || addr.MAC != "AA:BB:CC:DD:EE:FF" {
		t.Errorf("NewManualAddress() = %+v", addr)
	}
	if _, err := NewManualAddress("not-a-mac"); !errors.Is(err, apperr.ErrInvalidMAC) {
		t.Errorf("NewManualAddress(invalid) error = %v, want ErrInvalidMAC", err)
	}
}

func TestNewLookupAddress(t *testing.T) {
	tests := []struct {
		name    string
		ip      string
		wantIP  string
		wantErr error
	}{
		{"IPv4", "10.0.0.5", "10.0.0.5", nil},
		{"手動登録の番兵値", ManualIP, ManualIP, nil},
		{"空IP", "", "", apperr.ErrInvalidIP},
		{"不正IP", "manual", "", apperr.ErrInvalidIP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := NewLookupAddress(tt.ip, "AA:BB:CC:DD:EE:FF")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NewLookupAddress() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewLookupAddress() error = %v", err)
			}
			if addr.IP != tt.wantIP {
				t.Errorf("IP = %q, want %q", addr.IP, tt.wantIP)
			}
		})
	}
}

func TestOUI(t *testing.T) {
	tests := []struct {
		mac  string
		want string
	}{
		{"AA:BB:CC:DD:EE:FF", "AA:BB:CC"},
		{"aa-bb-cc-dd-ee-ff", "AA:BB:CC"},
		{"aa:bb:cc", "AA:BB:CC"},
		{"aabbccddeeff", "AA:BB:CC"},
		{"AABBCC", "AA:BB:CC"},
		{"aa:bb", ""},
		{"", ""},
		{"zzzzzzzz", ""},
		{"hello-world", ""},
		{"aa:bb-cc:dd", ""},
		{"aa:bb:ccdd", ""},
		{"aabbccxx", ""},
		{"aabbccddeeff00", ""},
	}

	for _, tt := range tests {
		t.Run(tt.mac, func(t *testing.T) {
			if got := OUI(tt.mac); got != tt.want {
				t.Errorf("OUI(%q) = %q, want %q", tt.mac, got, tt.want)
			}
		})
	}
}
