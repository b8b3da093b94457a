package model

import (
	"fmt"
	"net"
	"strings"

	"github.com/oyaguma3/captive-portal-access/pkg/apperr"
)

// ManualIP は手動登録デバイスのIPとして使用する番兵値。
// ネットワーク上でまだ観測されていないことを意味する。
const ManualIP = "Manual"

// ClientAddress はクライアントのネットワークアドレス（IP, MAC）の組を表す。
type ClientAddress struct {
	IP  string `json:"ip"`
	MAC string `json:"mac"` // 正規化済み（大文字・コロン区切り）
}

// NormalizeMAC はMACアドレスを検証し、大文字コロン区切り形式に正規化する。
// 6オクテットの16進数で、区切り文字はコロンまたはハイフンのみ許可する。
func NormalizeMAC(mac string) (string, error) {
	s := strings.TrimSpace(mac)
	if len(s) != 17 {
		return "", apperr.NewValidationErrorWithCause("mac", "must be 6 hex octets separated by ':' or '-'", apperr.ErrInvalidMAC)
	}
	sep := s[2]
	if sep != ':' && sep != '-' {
		return "", apperr.NewValidationErrorWithCause("mac", "must be 6 hex octets separated by ':' or '-'", apperr.ErrInvalidMAC)
	}

	octets := strings.Split(s, string(sep))
	if len(octets) != 6 {
		return "", apperr.NewValidationErrorWithCause("mac", "must be 6 hex octets separated by ':' or '-'", apperr.ErrInvalidMAC)
	}
	for _, o := range octets {
		if len(o) != 2 || !isHex(o[0]) || !isHex(o[1]) {
			return "", apperr.NewValidationErrorWithCause("mac", fmt.Sprintf("invalid octet %q", o), apperr.ErrInvalidMAC)
		}
	}

	return strings.ToUpper(strings.Join(octets, ":")), nil
}

// NormalizeIP はIPv4またはIPv6リテラルを検証し、正規形式で返す。
func NormalizeIP(ip string) (string, error) {
	s := strings.TrimSpace(ip)
	if s == "" {
		return "", apperr.NewValidationErrorWithCause("ip", "must not be empty", apperr.ErrInvalidIP)
	}
	parsed := net.ParseIP(s)
	if parsed == nil {
		return "", apperr.NewValidationErrorWithCause("ip", "must be an IPv4 or IPv6 literal", apperr.ErrInvalidIP)
	}
	return parsed.String(), nil
}

// NewClientAddress はIPとMACを検証・正規化してClientAddressを生成する。
// ipはIPv4またはIPv6リテラルでなければならない。
func NewClientAddress(ip, mac string) (ClientAddress, error) {
	normMAC, err := NormalizeMAC(mac)
	if err != nil {
		return ClientAddress{}, err
	}
	normIP, err := NormalizeIP(ip)
	if err != nil {
		return ClientAddress{}, err
	}
	return ClientAddress{IP: normIP, MAC: normMAC}, nil
}

// NewManualAddress は手動登録デバイス用のClientAddress（IPはManualIP）を生成する。
func NewManualAddress(mac string) (ClientAddress, error) {
	normMAC, err := NormalizeMAC(mac)
	if err != nil {
		return ClientAddress{}, err
	}
	return ClientAddress{IP: ManualIP, MAC: normMAC}, nil
}

// NewLookupAddress は照会・取消用のClientAddressを生成する。
// 既存の手動登録レコードを指せるよう、ipにManualIPを許可する。
func NewLookupAddress(ip, mac string) (ClientAddress, error) {
	if strings.TrimSpace(ip) == ManualIP {
		return NewManualAddress(mac)
	}
	return NewClientAddress(ip, mac)
}

// Key はデバイスキーを返す。
func (a ClientAddress) Key() DeviceKey {
	return DeviceKey{MAC: a.MAC, IP: a.IP}
}

// Matches はデバイスキーと一致するかを返す。
func (a ClientAddress) Matches(key DeviceKey) bool {
	return a.MAC == key.MAC && a.IP == key.IP
}

// OUI はMACアドレスの先頭3オクテット（ベンダー識別子）を"AA:BB:CC"形式で返す。
// 区切りはコロン、ハイフン、なしのいずれか。16進数として解釈できない場合は空文字列を返す。
func OUI(mac string) string {
	s := strings.TrimSpace(mac)
	var digits string
	switch {
	case len(s) >= 8 && (s[2] == ':' || s[2] == '-'):
		if s[5] != s[2] || (len(s) > 8 && s[8] != s[2]) {
			return ""
		}
		digits = s[0:2] + s[3:5] + s[6:8]
	case len(s) >= 6 && len(s) <= 12:
		// 区切りなしは全体が16進数であること
		for i := 6; i < len(s); i++ {
			if !isHex(s[i]) {
				return ""
			}
		}
		digits = s[:6]
	default:
		return ""
	}
	for i := 0; i < len(digits); i++ {
		if !isHex(digits[i]) {
			return ""
		}
	}
	digits = strings.ToUpper(digits)
	return digits[0:2] + ":" + digits[2:4] + ":" + digits[4:6]
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
