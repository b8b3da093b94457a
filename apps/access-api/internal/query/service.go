// Package query は外部のネットワーク制御層やダッシュボード向けの読み取り専用アクセス判定を提供する。
package query

import (
	"context"
	"time"

	"github.com/oyaguma3/captive-portal-access/pkg/model"
)

// Decision はアクセス判定結果。
type Decision struct {
	Authorized bool
	ExpiresAt  time.Time     // Authorized=trueの場合のみ
	Remaining  time.Duration // Authorized=trueの場合のみ
	RecordID   string
}

// Service はアクセス判定の読み取り専用ファサード。
type Service struct {
	checker Checker
	now     func() time.Time
}

// NewService は新しいServiceを生成する。
func NewService(checker Checker) *Service {
	return &Service{
		checker: checker,
		now:     time.Now,
	}
}

// IsAuthorized は(mac, ip)が現在アクセスを許可されているかを返す。
func (s *Service) IsAuthorized(ctx context.Context, mac, ip string) (bool, error) {
	d, err := s.Decide(ctx, mac, ip)
	if err != nil {
		return false, err
	}
	return d.Authorized, nil
}

// Decide は(mac, ip)のアクセス判定結果を残り有効時間付きで返す。
func (s *Service) Decide(ctx context.Context, mac, ip string) (Decision, error) {
	rec, err := s.checker.Check(ctx, mac, ip)
	if err != nil {
		return Decision{}, err
	}
	if rec == nil {
		return Decision{}, nil
	}
	return Decision{
		Authorized: true,
		ExpiresAt:  rec.ExpiresAt,
		Remaining:  rec.Remaining(s.now()),
		RecordID:   rec.ID,
	}, nil
}

// ListForOwner はPrincipalのレコードを返す。
func (s *Service) ListForOwner(ctx context.Context, p *model.Principal, includeHistory bool) ([]*model.DeviceRecord, error) {
	return s.checker.ListForOwner(ctx, p, includeHistory)
}
