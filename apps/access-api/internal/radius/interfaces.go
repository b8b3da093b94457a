//go:generate mockgen -source=interfaces.go -destination=mock_interfaces.go -package=radius

package radius

import (
	"context"

	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/query"
)

// AccessDecider はアクセス判定のインターフェース
type AccessDecider interface {
	Decide(ctx context.Context, mac, ip string) (query.Decision, error)
}
