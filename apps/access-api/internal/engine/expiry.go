package engine

import (
	"strings"
	"time"

	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/config"
	"github.com/oyaguma3/captive-portal-access/pkg/apperr"
	"github.com/oyaguma3/captive-portal-access/pkg/model"
)

// customExpiryLayouts はカスタム有効期限として受け付ける書式。
// タイムゾーンを含まない書式はUTCとして解釈する。
var customExpiryLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ComputeExpiry は承認時刻nowに対する有効期限を計算する。
//
//   - UserRegistered: now + 1年（オプションは無視）
//   - Shared: now + 1日（オプション・カスタム値は無視）
//   - 1h / 1d / 1m: それぞれ1時間・1日・1か月後
//   - custom: custom を解釈し、nowより厳密に未来であること
//
// オプションが空の場合は1時間とする。
func ComputeExpiry(now time.Time, kind model.Kind, sharing model.Sharing, option model.ExpiryOption, custom string) (time.Time, error) {
	now = now.UTC()

	if kind == model.KindUserRegistered {
		return now.Add(config.UserRegisteredExpiry), nil
	}
	if sharing == model.SharingShared {
		return now.Add(config.ExpiryOneDay), nil
	}

	switch option {
	case "", model.ExpiryOneHour:
		return now.Add(config.ExpiryOneHour), nil
	case model.ExpiryOneDay:
		return now.Add(config.ExpiryOneDay), nil
	case model.ExpiryOneMonth:
		return now.AddDate(0, 1, 0), nil
	case model.ExpiryCustom:
		t, err := ParseCustomExpiry(custom)
		if err != nil {
			return time.Time{}, err
		}
		if !t.After(now) {
			return time.Time{}, apperr.NewValidationErrorWithCause("custom_expiry", "must be in the future", apperr.ErrInvalidExpiry)
		}
		return t, nil
	default:
		return time.Time{}, apperr.NewValidationErrorWithCause("expiry_option", "must be one of 1h, 1d, 1m, custom", apperr.ErrInvalidExpiry)
	}
}

// ParseCustomExpiry はカスタム有効期限の文字列を解釈する。
func ParseCustomExpiry(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, apperr.NewValidationErrorWithCause("custom_expiry", "required when expiry_option is custom", apperr.ErrInvalidExpiry)
	}
	for _, layout := range customExpiryLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC().Truncate(time.Millisecond), nil
		}
	}
	return time.Time{}, apperr.NewValidationErrorWithCause("custom_expiry", "must be RFC 3339 or YYYY-MM-DDTHH:MM", apperr.ErrInvalidExpiry)
}
