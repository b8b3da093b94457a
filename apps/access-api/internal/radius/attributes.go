package radius

import (
	"errors"
	"strings"

	"layeh.com/radius"
	"layeh.com/radius/rfc2865"

	"github.com/oyaguma3/captive-portal-access/pkg/model"
)

// ErrNoStationID はCalling-Station-IdとUser-Nameのどちらからも端末MACを得られない場合のエラー
var ErrNoStationID = errors.New("no station id in request")

// StationAttributes はAccess-Requestから抽出した端末情報
type StationAttributes struct {
	MAC string // 正規化済み
	IP  string // Framed-IP-Addressがない場合はmodel.ManualIP
	// ProxyStates はリクエストのProxy-State属性（応答にそのまま戻す）
	ProxyStates *ProxyStates
}

// ExtractStationAttributes はAccess-Requestから端末のMAC/IPを抽出する。
// MACはCalling-Station-Idを優先し、なければUser-Nameを使う。
// Framed-IP-Addressがない場合（DHCP前のMAB）は手動登録レコードの照会キーを使う。
func ExtractStationAttributes(p *radius.Packet) (*StationAttributes, error) {
	attrs := &StationAttributes{ProxyStates: ExtractProxyStates(p)}

	var mac string
	for _, candidate := range []string{
		rfc2865.CallingStationID_GetString(p),
		rfc2865.UserName_GetString(p),
	} {
		if m, err := model.NormalizeMAC(canonicalStationID(candidate)); err == nil {
			mac = m
			break
		}
	}
	if mac == "" {
		return nil, ErrNoStationID
	}
	attrs.MAC = mac

	if ip, err := rfc2865.FramedIPAddress_Lookup(p); err == nil && ip != nil {
		attrs.IP = ip.String()
	} else {
		attrs.IP = model.ManualIP
	}
	return attrs, nil
}

// canonicalStationID は区切りなし（aabbccddeeff）やドット区切り（aabb.ccdd.eeff）の
// 表記をコロン区切りに揃える。それ以外の表記はそのまま返す。
func canonicalStationID(s string) string {
	s = strings.TrimSpace(s)
	hex := strings.ReplaceAll(s, ".", "")
	if len(hex) != 12 || strings.ContainsAny(hex, ":-") {
		return s
	}
	var b strings.Builder
	for i := 0; i < 12; i += 2 {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(hex[i : i+2])
	}
	return b.String()
}
