// Package breaker は外部連携用のサーキットブレーカーを提供する。
package breaker

import (
	"errors"
	"log/slog"

	"github.com/sony/gobreaker"

	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/config"
)

// New は状態遷移をログ出力するサーキットブレーカーを生成する。
// 連続失敗がCBFailureThresholdに達するとOpenになる。
func New(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: config.CBMaxRequests,
		Interval:    config.CBInterval,
		Timeout:     config.CBTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(config.CBFailureThreshold)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			switch to {
			case gobreaker.StateOpen:
				slog.Warn("circuit breaker opened",
					"event_id", "CB_OPEN",
					"cb_name", name,
					"from", from.String(),
				)
			case gobreaker.StateHalfOpen:
				slog.Info("circuit breaker half-open",
					"event_id", "CB_HALF_OPEN",
					"cb_name", name,
				)
			case gobreaker.StateClosed:
				slog.Info("circuit breaker closed",
					"event_id", "CB_CLOSE",
					"cb_name", name,
				)
			}
		},
	})
}

// IsOpen はサーキットブレーカーが要求を拒否したエラーかどうかを判定する。
func IsOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
