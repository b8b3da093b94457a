// Package engine はデバイスアクセス認可のビジネスロジックを提供する。
package engine

//go:generate mockgen -source=interfaces.go -destination=mock_interfaces.go -package=engine

import (
	"context"

	"github.com/oyaguma3/captive-portal-access/pkg/model"
)

// Registry はデバイスレジストリのインターフェース。
type Registry interface {
	Put(ctx context.Context, record *model.DeviceRecord) error
	Get(ctx context.Context, key model.DeviceKey) (*model.DeviceRecord, error)
	GetByID(ctx context.Context, id string) (*model.DeviceRecord, error)
	ListByOwner(ctx context.Context, owner string) ([]*model.DeviceRecord, error)
	TransitionStatus(ctx context.Context, id string, from, to model.Status) (bool, error)
}

// VendorLookup はMACアドレスからベンダー名を引くインターフェース。
// 失敗時は空文字列を返す（エラーを返さない）。
type VendorLookup interface {
	Lookup(ctx context.Context, mac string) string
}
