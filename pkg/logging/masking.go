// Package logging はログ関連のユーティリティを提供する。
package logging

// MaskMAC はMACアドレスをマスキングする。
// 先頭3オクテット（OUI）を保持し、NIC固有部分を '*' に置換する。区切り文字は保持する。
// 例: AA:BB:CC:DD:EE:FF → AA:BB:CC:**:**:**
// enabled=false の場合はマスキングせずにそのまま返す。
func MaskMAC(mac string, enabled bool) string {
	if !enabled || len(mac) <= 8 {
		return mac
	}
	runes := []rune(mac)
	for i := 8; i < len(runes); i++ {
		if runes[i] != ':' && runes[i] != '-' {
			runes[i] = '*'
		}
	}
	return string(runes)
}

// MaskPartial は文字列の一部をマスキングする。
// keepPrefix: 先頭から保持する文字数
// keepSuffix: 末尾から保持する文字数
// maskChar: マスキングに使用する文字
func MaskPartial(s string, keepPrefix, keepSuffix int, maskChar rune) string {
	runes := []rune(s)
	length := len(runes)

	// 文字列が短すぎる場合はそのまま返す
	if length <= keepPrefix+keepSuffix {
		return s
	}

	result := make([]rune, length)
	copy(result, runes[:keepPrefix])
	for i := keepPrefix; i < length-keepSuffix; i++ {
		result[i] = maskChar
	}
	copy(result[length-keepSuffix:], runes[length-keepSuffix:])

	return string(result)
}

// MaskToken はセッショントークンを先頭4文字のみ残してマスキングする。
func MaskToken(token string) string {
	return MaskPartial(token, 4, 0, '*')
}

// Masker はマスキング設定を保持する構造体。
type Masker struct {
	enabled bool
}

// NewMasker は新しいMaskerを生成する。
func NewMasker(enabled bool) *Masker {
	return &Masker{enabled: enabled}
}

// MAC はMACアドレスをマスキングする。
func (m *Masker) MAC(mac string) string {
	if m == nil {
		return mac
	}
	return MaskMAC(mac, m.enabled)
}

// IsEnabled はマスキングが有効かどうかを返す。
func (m *Masker) IsEnabled() bool {
	return m != nil && m.enabled
}
