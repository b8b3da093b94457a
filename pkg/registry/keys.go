package registry

import "github.com/oyaguma3/captive-portal-access/pkg/model"

// Valkeyキープレフィックス
const (
	KeyPrefixRecord      = "dev:"        // デバイスレコード本体（HASH）
	KeyPrefixActiveIndex = "dev:active:" // (MAC|IP) → Activeレコードid（STRING）
	KeyPrefixHistory     = "dev:hist:"   // (MAC|IP) → レコードid、作成時刻順（ZSET）
	KeyPrefixOwner       = "dev:owner:"  // 所有者 → レコードid、作成時刻順（ZSET）
	KeySharedIndex       = "dev:shared"  // 所有者なしレコード、作成時刻順（ZSET）
	KeyAllIndex          = "dev:all"     // 全レコード、作成時刻順（ZSET）
	KeyActiveSet         = "dev:active"  // Activeレコード、有効期限順（ZSET）
)

// DefaultEventChannel はレコード変更イベントを配信するPub/Subチャネル名。
const DefaultEventChannel = "device:events"

func recordKey(id string) string {
	return KeyPrefixRecord + id
}

func activeIndexKey(k model.DeviceKey) string {
	return KeyPrefixActiveIndex + k.String()
}

func historyKey(k model.DeviceKey) string {
	return KeyPrefixHistory + k.String()
}

// ownerKey は所有者インデックスのキーを返す。所有者なしは共有インデックス。
func ownerKey(owner string) string {
	if owner == "" {
		return KeySharedIndex
	}
	return KeyPrefixOwner + owner
}
