package radius

import (
	"layeh.com/radius"
	"layeh.com/radius/rfc2865"
)

// ProxyStates はリクエストから抽出したProxy-State属性値の順序付きリスト。
type ProxyStates struct {
	Values [][]byte
}

// ExtractProxyStates はパケットから全Proxy-State属性を順序を保って抽出する。
func ExtractProxyStates(p *radius.Packet) *ProxyStates {
	values, _ := rfc2865.ProxyState_Gets(p)
	return &ProxyStates{Values: values}
}

// Apply はProxy-State属性を抽出時と同じ順序で応答パケットに追加する。
func (ps *ProxyStates) Apply(p *radius.Packet) {
	if ps == nil {
		return
	}
	for _, v := range ps.Values {
		_ = rfc2865.ProxyState_Add(p, v)
	}
}
