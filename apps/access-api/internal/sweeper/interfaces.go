//go:generate mockgen -source=interfaces.go -destination=mock_interfaces.go -package=sweeper

package sweeper

import (
	"context"

	"github.com/oyaguma3/captive-portal-access/pkg/model"
	"github.com/oyaguma3/captive-portal-access/pkg/registry"
)

// Registry はSweeperが使用するレジストリ操作を定義する。
type Registry interface {
	ListAll(ctx context.Context, filter registry.Filter) ([]*model.DeviceRecord, error)
	TransitionStatus(ctx context.Context, id string, from, to model.Status) (bool, error)
}
