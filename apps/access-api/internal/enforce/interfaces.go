//go:generate mockgen -source=interfaces.go -destination=mock_interfaces.go -package=enforce

package enforce

import (
	"context"

	"github.com/oyaguma3/captive-portal-access/pkg/registry"
)

// Enforcer はアクセス終了をネットワーク制御層へ通知するインターフェース
type Enforcer interface {
	Disconnect(ctx context.Context, ev *registry.Event) error
}
