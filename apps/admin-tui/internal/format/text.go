// Package format は画面表示用の整形ヘルパーを提供する。
package format

import "unicode/utf8"

// Truncate は文字列を最大maxLen文字（rune単位）に切り詰める。
// 切り詰めた場合は末尾を "…" にする。
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// OrDash は空文字列を "-" に置き換える。
func OrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
