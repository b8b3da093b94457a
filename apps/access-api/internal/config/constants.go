package config

import "time"

// Valkey接続設定
const (
	ValkeyConnectTimeout = 3 * time.Second

	// イベント購読の再接続間隔（指数バックオフ）
	SubscribeMinRetryDelay = 100 * time.Millisecond
	SubscribeMaxRetryDelay = 5 * time.Second
)

// 外部連携（Identity Provider / Vendor Lookup）接続設定
const (
	IdPRequestTimeout    = 5 * time.Second
	VendorRequestTimeout = 3 * time.Second
)

// Circuit Breaker設定
const (
	CBNameIdP          = "identity-provider"
	CBNameVendor       = "vendor-lookup"
	CBMaxRequests      = 3
	CBInterval         = 10 * time.Second
	CBTimeout          = 30 * time.Second
	CBFailureThreshold = 5
)

// ベンダー名キャッシュ
const (
	VendorCacheTTL     = 7 * 24 * time.Hour
	VendorNegativeTTL  = time.Hour
	VendorMinMACLength = 8
)

// 有効期限ポリシー
const (
	ExpiryOneHour        = time.Hour
	ExpiryOneDay         = 24 * time.Hour
	UserRegisteredExpiry = 365 * 24 * time.Hour
)

// エンジン設定
const (
	// ApproveMaxAttempts は競合時の再読込リトライ上限
	ApproveMaxAttempts = 3
	MinSweepInterval   = time.Second
)

// サーバーシャットダウン設定
const (
	ShutdownTimeout = 5 * time.Second
)

// HTTPヘッダー
const (
	HeaderSessionToken = "X-Session-Token"
	HeaderTraceID      = "X-Trace-ID"
)
