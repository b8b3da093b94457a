package radius

import (
	"crypto/hmac"
	"crypto/md5"
	"errors"
	"net"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
	"layeh.com/radius"
	"layeh.com/radius/rfc2865"
	"layeh.com/radius/rfc2869"

	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/query"
	"github.com/oyaguma3/captive-portal-access/pkg/model"
)

var testSecret = []byte("mab-secret")

// mockResponseWriter はradius.ResponseWriterのモック
type mockResponseWriter struct {
	written  []*radius.Packet
	writeErr error
}

func (m *mockResponseWriter) Write(packet *radius.Packet) error {
	m.written = append(m.written, packet)
	return m.writeErr
}

// setValidMessageAuthenticator はパケットに有効なMessage-Authenticatorを設定する
func setValidMessageAuthenticator(p *radius.Packet, secret []byte) {
	_ = rfc2869.MessageAuthenticator_Set(p, make([]byte, 16))
	data, err := p.MarshalBinary()
	if err != nil {
		return
	}
	mac := hmac.New(md5.New, secret)
	mac.Write(data)
	_ = rfc2869.MessageAuthenticator_Set(p, mac.Sum(nil))
}

// buildMABRequest はテスト用Access-Requestを構築する
func buildMABRequest(stationID, framedIP string, withMA bool) *radius.Request {
	p := radius.New(radius.CodeAccessRequest, testSecret)
	if stationID != "" {
		_ = rfc2865.CallingStationID_SetString(p, stationID)
	}
	if framedIP != "" {
		_ = rfc2865.FramedIPAddress_Set(p, net.ParseIP(framedIP))
	}
	if withMA {
		setValidMessageAuthenticator(p, testSecret)
	}
	return &radius.Request{
		LocalAddr:  &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 1812},
		RemoteAddr: &net.UDPAddr{IP: net.IPv4(192, 168, 1, 1), Port: 40000},
		Packet:     p,
	}
}

func TestCanonicalStationID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"aabbccddeeff", "aa:bb:cc:dd:ee:ff"},
		{"aabb.ccdd.eeff", "aa:bb:cc:dd:ee:ff"},
		{"AA-BB-CC-DD-EE-FF", "AA-BB-CC-DD-EE-FF"},
		{" AA:BB:CC:DD:EE:FF ", "AA:BB:CC:DD:EE:FF"},
		{"alice", "alice"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := canonicalStationID(tt.in); got != tt.want {
				t.Errorf("canonicalStationID(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractStationAttributes(t *testing.T) {
	t.Run("calling station id and framed ip", func(t *testing.T) {
		r := buildMABRequest("aa-bb-cc-dd-ee-ff", "10.0.0.5", false)
		got, err := ExtractStationAttributes(r.Packet)
		if err != nil {
			t.Fatalf("ExtractStationAttributes() error = %v", err)
		}
		if got.MAC != "AA:BB:CC:DD:EE:FF" {
			t.Errorf("MAC = %q, want %q", got.MAC, "AA:BB:CC:DD:EE:FF")
		}
		if got.IP != "10.0.0.5" {
			t.Errorf("IP = %q, want %q", got.IP, "10.0.0.5")
		}
	})

	t.Run("user-name fallback without ip", func(t *testing.T) {
		p := radius.New(radius.CodeAccessRequest, testSecret)
		_ = rfc2865.UserName_SetString(p, "aabbccddeeff")
		got, err := ExtractStationAttributes(p)
		if err != nil {
			t.Fatalf("ExtractStationAttributes() error = %v", err)
		}
		if got.MAC != "AA:BB:CC:DD:EE:FF" {
			t.Errorf("MAC = %q, want %q", got.MAC, "AA:BB:CC:DD:EE:FF")
		}
		if got.IP != model.ManualIP {
			t.Errorf("IP = %q, want %q", got.IP, model.ManualIP)
		}
	})

	t.Run("no station id", func(t *testing.T) {
		p := radius.New(radius.CodeAccessRequest, testSecret)
		_ = rfc2865.UserName_SetString(p, "alice")
		if _, err := ExtractStationAttributes(p); !errors.Is(err, ErrNoStationID) {
			t.Errorf("error = %v, want %v", err, ErrNoStationID)
		}
	})
}

func TestSessionTimeout(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want uint32
	}{
		{"zero", 0, 0},
		{"negative", -time.Second, 0},
		{"round up", 1500 * time.Millisecond, 2},
		{"one hour", time.Hour, 3600},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sessionTimeout(tt.in); got != tt.want {
				t.Errorf("sessionTimeout(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestMessageAuthenticatorRoundTrip(t *testing.T) {
	req := radius.New(radius.CodeAccessRequest, testSecret)
	_ = rfc2865.CallingStationID_SetString(req, "AA:BB:CC:DD:EE:FF")
	setValidMessageAuthenticator(req, testSecret)

	if !VerifyMessageAuthenticator(req, testSecret) {
		t.Error("VerifyMessageAuthenticator() = false, want true")
	}
	if VerifyMessageAuthenticator(req, []byte("wrong")) {
		t.Error("VerifyMessageAuthenticator() with wrong secret = true, want false")
	}

	// 応答のMessage-AuthenticatorはRequest Authenticatorで計算される
	resp := BuildAccessReject(req, testSecret, nil)
	if resp.Authenticator != req.Authenticator {
		t.Fatal("response does not carry the request authenticator")
	}
	if !VerifyMessageAuthenticator(resp, testSecret) {
		t.Error("response Message-Authenticator mismatch")
	}
}

func TestServeRADIUS_AccessRequest(t *testing.T) {
	tests := []struct {
		name        string
		stationID   string
		framedIP    string
		setup       func(m *MockAccessDecider)
		wantCode    radius.Code
		wantTimeout rfc2865.SessionTimeout
	}{
		{
			name:      "authorized",
			stationID: "AA:BB:CC:DD:EE:FF",
			framedIP:  "10.0.0.5",
			setup: func(m *MockAccessDecider) {
				m.EXPECT().Decide(gomock.Any(), "AA:BB:CC:DD:EE:FF", "10.0.0.5").
					Return(query.Decision{Authorized: true, Remaining: time.Hour, RecordID: "rec-1"}, nil)
			},
			wantCode:    radius.CodeAccessAccept,
			wantTimeout: 3600,
		},
		{
			name:      "not authorized",
			stationID: "AA:BB:CC:DD:EE:FF",
			framedIP:  "10.0.0.5",
			setup: func(m *MockAccessDecider) {
				m.EXPECT().Decide(gomock.Any(), "AA:BB:CC:DD:EE:FF", "10.0.0.5").Return(query.Decision{}, nil)
			},
			wantCode: radius.CodeAccessReject,
		},
		{
			name:      "decision error fails closed",
			stationID: "AA:BB:CC:DD:EE:FF",
			framedIP:  "10.0.0.5",
			setup: func(m *MockAccessDecider) {
				m.EXPECT().Decide(gomock.Any(), gomock.Any(), gomock.Any()).Return(query.Decision{}, errors.New("valkey down"))
			},
			wantCode: radius.CodeAccessReject,
		},
		{
			name:      "no framed ip queries manual key",
			stationID: "aabbccddeeff",
			setup: func(m *MockAccessDecider) {
				m.EXPECT().Decide(gomock.Any(), "AA:BB:CC:DD:EE:FF", model.ManualIP).
					Return(query.Decision{Authorized: true, Remaining: 90 * time.Second}, nil)
			},
			wantCode:    radius.CodeAccessAccept,
			wantTimeout: 90,
		},
		{
			name:     "missing station id",
			framedIP: "10.0.0.5",
			setup:    func(m *MockAccessDecider) {},
			wantCode: radius.CodeAccessReject,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			decider := NewMockAccessDecider(ctrl)
			tt.setup(decider)

			h := NewHandler(decider, nil, time.Second)
			w := &mockResponseWriter{}
			r := buildMABRequest(tt.stationID, tt.framedIP, true)
			r.Secret = testSecret
			h.ServeRADIUS(w, r)

			if len(w.written) != 1 {
				t.Fatalf("written packets = %d, want 1", len(w.written))
			}
			resp := w.written[0]
			if resp.Code != tt.wantCode {
				t.Errorf("Code = %v, want %v", resp.Code, tt.wantCode)
			}
			if got := rfc2865.SessionTimeout_Get(resp); got != tt.wantTimeout {
				t.Errorf("Session-Timeout = %d, want %d", got, tt.wantTimeout)
			}
			if !HasMessageAuthenticator(resp) {
				t.Error("response has no Message-Authenticator")
			}
		})
	}
}

func TestServeRADIUS_InvalidMessageAuthenticator(t *testing.T) {
	ctrl := gomock.NewController(t)
	decider := NewMockAccessDecider(ctrl)

	h := NewHandler(decider, nil, time.Second)
	w := &mockResponseWriter{}
	r := buildMABRequest("AA:BB:CC:DD:EE:FF", "10.0.0.5", false)
	bad := make([]byte, 16)
	bad[0] = 0xFF
	_ = rfc2869.MessageAuthenticator_Set(r.Packet, bad)
	r.Secret = testSecret
	h.ServeRADIUS(w, r)

	// 検証失敗時は無応答で破棄
	if len(w.written) != 0 {
		t.Errorf("written packets = %d, want 0", len(w.written))
	}
}

func TestServeRADIUS_ProxyStatePreserved(t *testing.T) {
	ctrl := gomock.NewController(t)
	decider := NewMockAccessDecider(ctrl)
	decider.EXPECT().Decide(gomock.Any(), gomock.Any(), gomock.Any()).Return(query.Decision{}, nil)

	h := NewHandler(decider, nil, time.Second)
	w := &mockResponseWriter{}
	r := buildMABRequest("AA:BB:CC:DD:EE:FF", "10.0.0.5", false)
	_ = rfc2865.ProxyState_Add(r.Packet, []byte("proxy-1"))
	_ = rfc2865.ProxyState_Add(r.Packet, []byte("proxy-2"))
	r.Secret = testSecret
	h.ServeRADIUS(w, r)

	if len(w.written) != 1 {
		t.Fatalf("written packets = %d, want 1", len(w.written))
	}
	states, _ := rfc2865.ProxyState_Gets(w.written[0])
	if len(states) != 2 || string(states[0]) != "proxy-1" || string(states[1]) != "proxy-2" {
		t.Errorf("Proxy-State = %q, want [proxy-1 proxy-2]", states)
	}
}

func TestServeRADIUS_StatusServer(t *testing.T) {
	tests := []struct {
		name      string
		validMA   bool
		wantReply bool
	}{
		{"valid", true, true},
		{"invalid", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(nil, nil, time.Second)
			p := radius.New(radius.CodeStatusServer, testSecret)
			if tt.validMA {
				setValidMessageAuthenticator(p, testSecret)
			} else {
				_ = rfc2869.MessageAuthenticator_Set(p, make([]byte, 16))
			}
			w := &mockResponseWriter{}
			h.ServeRADIUS(w, &radius.Request{
				RemoteAddr: &net.UDPAddr{IP: net.IPv4(192, 168, 1, 1), Port: 40000},
				Packet:     p,
			})

			if got := len(w.written) == 1; got != tt.wantReply {
				t.Fatalf("replied = %v, want %v", got, tt.wantReply)
			}
			if tt.wantReply && w.written[0].Code != radius.CodeAccessAccept {
				t.Errorf("Code = %v, want %v", w.written[0].Code, radius.CodeAccessAccept)
			}
		})
	}
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		name string
		addr net.Addr
		want string
	}{
		{"nil", nil, ""},
		{"udp", &net.UDPAddr{IP: net.IPv4(10, 1, 2, 3), Port: 1812}, "10.1.2.3"},
		{"tcp", &net.TCPAddr{IP: net.IPv4(10, 1, 2, 4), Port: 1812}, "10.1.2.4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractIP(tt.addr); got != tt.want {
				t.Errorf("extractIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
