package model

import "time"

// Status はデバイス承認レコードの状態を表す。
// 遷移は Active → Expired / Active → Revoked のみ。Expired, Revokedは終端状態。
type Status string

const (
	// StatusActive はアクセス許可中
	StatusActive Status = "active"
	// StatusExpired は期限切れ
	StatusExpired Status = "expired"
	// StatusRevoked は明示的に取り消し済み
	StatusRevoked Status = "revoked"
)

// IsTerminal は終端状態かどうかを返す。
func (s Status) IsTerminal() bool {
	return s == StatusExpired || s == StatusRevoked
}

// Valid は既知の状態かどうかを返す。
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusExpired, StatusRevoked:
		return true
	}
	return false
}

// CanTransitionTo は from → to の遷移が許可されているかを返す。
func (s Status) CanTransitionTo(to Status) bool {
	return s == StatusActive && to.IsTerminal()
}

// Kind はレコードの登録経路を表す。
type Kind string

const (
	// KindNetworkDetected はネットワーク上で観測された(IP, MAC)から作成されたレコード
	KindNetworkDetected Kind = "network_detected"
	// KindUserRegistered はユーザーが手動登録した個人デバイス
	KindUserRegistered Kind = "user_registered"
)

// Sharing はデバイスの共有区分を表す。
type Sharing string

const (
	// SharingPersonal は個人デバイス
	SharingPersonal Sharing = "personal"
	// SharingShared は共有/公共デバイス（有効期限は常に1日）
	SharingShared Sharing = "shared"
)

// DeviceType はデバイス種別を表す。
type DeviceType string

const (
	DeviceTypeRouter    DeviceType = "router"
	DeviceTypeNonRouter DeviceType = "non-router"
)

// ExpiryOption は承認時に要求される有効期限オプションを表す。
type ExpiryOption string

const (
	// ExpiryOneHour は1時間
	ExpiryOneHour ExpiryOption = "1h"
	// ExpiryOneDay は1日
	ExpiryOneDay ExpiryOption = "1d"
	// ExpiryOneMonth は1か月
	ExpiryOneMonth ExpiryOption = "1m"
	// ExpiryCustom は呼び出し側指定の日時
	ExpiryCustom ExpiryOption = "custom"
)

// DeviceKey はデバイスを識別する (MAC, IP) の組。
type DeviceKey struct {
	MAC string `json:"mac"`
	IP  string `json:"ip"`
}

// String は "MAC|IP" 形式の文字列を返す。Valkeyキーの構成要素として使用する。
func (k DeviceKey) String() string {
	return k.MAC + "|" + k.IP
}

// DeviceMetadata はデバイスの任意属性を表す。
type DeviceMetadata struct {
	Name       string     `json:"name,omitempty"`
	DeviceType DeviceType `json:"type,omitempty"`
	OS         string     `json:"os,omitempty"`
	Vendor     string     `json:"vendor,omitempty"`
	Location   string     `json:"location,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}

// IsZero は全フィールドが空かどうかを返す。
func (m *DeviceMetadata) IsZero() bool {
	return m == nil || *m == DeviceMetadata{}
}

// DeviceRecord はデバイス承認レコードを表す。
// Valkeyキー: dev:{ID}
// 物理削除は行わない（監査用に保持）。
type DeviceRecord struct {
	ID         string          `json:"id"`                    // レコード識別子（UUID）
	MAC        string          `json:"mac"`                   // 正規化済みMACアドレス
	IP         string          `json:"ip"`                    // IPアドレスまたは "Manual"
	Owner      string          `json:"owner,omitempty"`       // 承認したPrincipal.ID（共有デバイスは空）
	ApprovedBy string          `json:"approved_by,omitempty"` // 承認操作を行ったPrincipal.ID（監査用）
	Kind       Kind            `json:"kind"`                  // 登録経路
	Sharing    Sharing         `json:"sharing"`               // 共有区分
	Status     Status          `json:"status"`                // 状態
	ExpiresAt  time.Time       `json:"expiry"`                // 有効期限（UTC）
	CreatedAt  time.Time       `json:"created_at"`            // 作成時刻（UTC）
	ExpiredAt  *time.Time      `json:"expired_at,omitempty"`  // 期限切れ遷移時刻
	RevokedAt  *time.Time      `json:"revoked_at,omitempty"`  // 取り消し時刻
	Metadata   *DeviceMetadata `json:"metadata,omitempty"`    // 任意属性
}

// Key はレコードのデバイスキーを返す。
func (r *DeviceRecord) Key() DeviceKey {
	return DeviceKey{MAC: r.MAC, IP: r.IP}
}

// IsShared は共有デバイスかどうかを返す。
func (r *DeviceRecord) IsShared() bool {
	return r.Sharing == SharingShared
}

// IsExpiredAt は時刻nowにおいて有効期限を過ぎているかを返す。
// now >= expiry で期限切れとみなす。
func (r *DeviceRecord) IsExpiredAt(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// IsAuthorizedAt は時刻nowにおいてアクセスが許可されているかを返す。
func (r *DeviceRecord) IsAuthorizedAt(now time.Time) bool {
	return r.Status == StatusActive && !r.IsExpiredAt(now)
}

// Remaining は有効期限までの残り時間を返す。期限切れの場合は0。
func (r *DeviceRecord) Remaining(now time.Time) time.Duration {
	d := r.ExpiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
