package format

import (
	"fmt"
	"time"
)

// DateTime は時刻を "2006-01-02 15:04:05" 形式（ローカルタイムゾーン）にフォーマットする。
// ゼロ値は "-" を返す。
func DateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// DateTimeShort は時刻を "01-02 15:04" 形式にフォーマットする。
func DateTimeShort(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("01-02 15:04")
}

// DateTimePtr はnil許容の時刻をフォーマットする。
func DateTimePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return DateTime(*t)
}

// Duration は期間を人間が読みやすい形式にフォーマットする。
// 例: 3661s -> "1h 1m 1s", 26h -> "1d 2h"
func Duration(d time.Duration) string {
	if d < 0 {
		return "-"
	}

	total := int64(d / time.Second)
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, secs)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, secs)
	}
	return fmt.Sprintf("%ds", secs)
}

// Remaining は有効期限までの残り時間をフォーマットする。
// 期限を過ぎている場合は "expired" を返す。
func Remaining(expiresAt, now time.Time) string {
	if !now.Before(expiresAt) {
		return "expired"
	}
	return Duration(expiresAt.Sub(now))
}
