//go:generate mockgen -source=interfaces.go -destination=mock_interfaces.go -package=query

package query

import (
	"context"

	"github.com/oyaguma3/captive-portal-access/pkg/model"
)

// Checker はアクセス判定の読み取り操作を定義する。
// 書き込み操作（承認・取り消し）は含まない。
type Checker interface {
	Check(ctx context.Context, mac, ip string) (*model.DeviceRecord, error)
	ListForOwner(ctx context.Context, p *model.Principal, includeHistory bool) ([]*model.DeviceRecord, error)
}
