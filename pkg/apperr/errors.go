// Package apperr は共通エラー定義を提供する。
package apperr

import "errors"

// 認証関連エラー
var (
	// ErrNotAuthenticated は未認証（セッション無効、認証情報不正）エラー
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNotAuthorized は操作権限がない場合のエラー
	ErrNotAuthorized = errors.New("not authorized")
	// ErrSessionNotFound はセッションが見つからない場合のエラー
	ErrSessionNotFound = errors.New("session not found")
)

// レジストリ関連エラー
var (
	// ErrConflict は同一キーにActiveレコードが既に存在する場合のエラー
	ErrConflict = errors.New("active record already exists")
	// ErrRecordNotFound はレコードが見つからない場合のエラー
	ErrRecordNotFound = errors.New("device record not found")
	// ErrInvalidTransition は許可されていない状態遷移のエラー
	ErrInvalidTransition = errors.New("invalid status transition")
)

// インフラ関連エラー
var (
	// ErrValkeyConnection はValkey接続エラー
	ErrValkeyConnection = errors.New("valkey connection error")
	// ErrValkeyCommand はValkeyコマンド実行エラー
	ErrValkeyCommand = errors.New("valkey command error")
	// ErrCircuitOpen は外部連携先のサーキットブレーカーがOpenの場合のエラー
	ErrCircuitOpen = errors.New("circuit breaker open")
)

// バリデーション関連エラー
var (
	// ErrInvalidMAC は不正なMACアドレス形式エラー
	ErrInvalidMAC = errors.New("invalid MAC address")
	// ErrInvalidIP は不正なIPアドレス形式エラー
	ErrInvalidIP = errors.New("invalid IP address")
	// ErrInvalidExpiry は不正な有効期限エラー
	ErrInvalidExpiry = errors.New("invalid expiry")
	// ErrInvalidRequest は不正なリクエストエラー
	ErrInvalidRequest = errors.New("invalid request")
)
