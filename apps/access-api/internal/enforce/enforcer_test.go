package enforce

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"layeh.com/radius"
	"layeh.com/radius/rfc2865"
	"layeh.com/radius/rfc3576"

	"github.com/oyaguma3/captive-portal-access/pkg/apperr"
	"github.com/oyaguma3/captive-portal-access/pkg/model"
	"github.com/oyaguma3/captive-portal-access/pkg/registry"
)

var coaSecret = []byte("coa-secret")

func revokedEvent(ip string) *registry.Event {
	return &registry.Event{
		Type:     registry.EventTransition,
		RecordID: "rec-1",
		MAC:      "AA:BB:CC:DD:EE:FF",
		IP:       ip,
		From:     model.StatusActive,
		To:       model.StatusRevoked,
		At:       time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
	}
}

// startNAS はDisconnect-Requestに固定応答を返すテスト用NASを起動する
func startNAS(t *testing.T, code radius.Code, received chan<- *radius.Packet) string {
	t.Helper()
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenPacket() error = %v", err)
	}
	srv := &radius.PacketServer{
		SecretSource: radius.StaticSecretSource(coaSecret),
		Handler: radius.HandlerFunc(func(w radius.ResponseWriter, r *radius.Request) {
			if received != nil {
				received <- r.Packet
			}
			resp := r.Response(code)
			if code == radius.CodeDisconnectNAK {
				_ = rfc3576.ErrorCause_Set(resp, rfc3576.ErrorCause(503))
			}
			_ = w.Write(resp)
		}),
	}
	go func() { _ = srv.Serve(conn) }()
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return conn.LocalAddr().String()
}

func TestBuildDisconnectRequest(t *testing.T) {
	tests := []struct {
		name   string
		ip     string
		wantIP net.IP
	}{
		{"ipv4", "10.0.0.5", net.IPv4(10, 0, 0, 5)},
		{"manual", model.ManualIP, nil},
		{"ipv6 omitted", "2001:db8::1", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BuildDisconnectRequest(revokedEvent(tt.ip), coaSecret)
			if p.Code != radius.CodeDisconnectRequest {
				t.Errorf("Code = %v, want %v", p.Code, radius.CodeDisconnectRequest)
			}
			if got := rfc2865.CallingStationID_GetString(p); got != "AA:BB:CC:DD:EE:FF" {
				t.Errorf("Calling-Station-Id = %q, want %q", got, "AA:BB:CC:DD:EE:FF")
			}
			got, err := rfc2865.FramedIPAddress_Lookup(p)
			if tt.wantIP == nil {
				if err == nil {
					t.Errorf("Framed-IP-Address = %v, want absent", got)
				}
				return
			}
			if err != nil || !got.Equal(tt.wantIP) {
				t.Errorf("Framed-IP-Address = %v (err=%v), want %v", got, err, tt.wantIP)
			}
		})
	}
}

func TestDisconnectEnforcer_ACK(t *testing.T) {
	received := make(chan *radius.Packet, 1)
	addr := startNAS(t, radius.CodeDisconnectACK, received)
	e := NewDisconnectEnforcer(addr, string(coaSecret), 0)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := e.Disconnect(ctx, revokedEvent("10.0.0.5")); err != nil {
		t.Fatalf("Disconnect() error = %v", err)
	}

	select {
	case p := <-received:
		if got := rfc2865.CallingStationID_GetString(p); got != "AA:BB:CC:DD:EE:FF" {
			t.Errorf("NAS received Calling-Station-Id = %q", got)
		}
	default:
		t.Error("NAS did not receive Disconnect-Request")
	}
}

func TestDisconnectEnforcer_NAK(t *testing.T) {
	addr := startNAS(t, radius.CodeDisconnectNAK, nil)
	e := NewDisconnectEnforcer(addr, string(coaSecret), 0)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := e.Disconnect(ctx, revokedEvent("10.0.0.5"))
	if !errors.Is(err, ErrDisconnectRejected) {
		t.Fatalf("Disconnect() error = %v, want %v", err, ErrDisconnectRejected)
	}
	var adapterErr *apperr.AdapterError
	if !errors.As(err, &adapterErr) {
		t.Fatalf("error type = %T, want *apperr.AdapterError", err)
	}
	if adapterErr.Adapter != AdapterCoA {
		t.Errorf("Adapter = %q, want %q", adapterErr.Adapter, AdapterCoA)
	}
	if adapterErr.StatusCode != int(radius.CodeDisconnectNAK) {
		t.Errorf("StatusCode = %d, want %d", adapterErr.StatusCode, radius.CodeDisconnectNAK)
	}
}

func TestDisconnectEnforcer_Unreachable(t *testing.T) {
	// 応答しないポート
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	e := NewDisconnectEnforcer(conn.LocalAddr().String(), string(coaSecret), 0)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err = e.Disconnect(ctx, revokedEvent("10.0.0.5"))

	var adapterErr *apperr.AdapterError
	if !errors.As(err, &adapterErr) {
		t.Fatalf("Disconnect() error = %v, want *apperr.AdapterError", err)
	}
	if adapterErr.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0", adapterErr.StatusCode)
	}
}

func TestNoopEnforcer(t *testing.T) {
	if err := NewNoopEnforcer(nil).Disconnect(context.Background(), revokedEvent("10.0.0.5")); err != nil {
		t.Errorf("Disconnect() error = %v, want nil", err)
	}
}
