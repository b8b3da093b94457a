//go:generate mockgen -source=interfaces.go -destination=mock_interfaces.go -package=handler

package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/engine"
	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/identity"
	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/query"
	"github.com/oyaguma3/captive-portal-access/pkg/model"
)

// Authenticator はログイン情報をPrincipalに交換する。
type Authenticator interface {
	Authenticate(ctx context.Context, cred identity.Credential) (*model.Principal, error)
}

// SessionStore はポータルセッションを管理する。
type SessionStore interface {
	Create(ctx context.Context, p *model.Principal) (string, error)
	Get(ctx context.Context, token string) (*model.Principal, error)
	Delete(ctx context.Context, token string) error
}

// DeviceService はデバイスの承認・取り消しを行う。
type DeviceService interface {
	Approve(ctx context.Context, p *model.Principal, req engine.ApproveRequest) (*model.DeviceRecord, error)
	Revoke(ctx context.Context, p *model.Principal, caller model.ClientAddress, mac, ip string) error
	ListForOwner(ctx context.Context, p *model.Principal, includeHistory bool) ([]*model.DeviceRecord, error)
	ListShared(ctx context.Context) ([]*model.DeviceRecord, error)
	IsAdmin(p *model.Principal) bool
}

// AccessQuery は読み取り専用のアクセス判定を行う。
type AccessQuery interface {
	Decide(ctx context.Context, mac, ip string) (query.Decision, error)
}

// VendorLookup はMACアドレスのベンダー名を解決する。
type VendorLookup interface {
	Lookup(ctx context.Context, mac string) string
}

// AddressResolver は接続元アドレスを解決する。
type AddressResolver interface {
	Resolve(c *gin.Context) model.ClientAddress
}
