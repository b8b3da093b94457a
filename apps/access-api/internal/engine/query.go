package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/oyaguma3/captive-portal-access/pkg/apperr"
	"github.com/oyaguma3/captive-portal-access/pkg/logging"
	"github.com/oyaguma3/captive-portal-access/pkg/model"
)

// IsAuthorized は(mac, ip)が現在アクセスを許可されているかを返す。
func (e *Engine) IsAuthorized(ctx context.Context, mac, ip string) (bool, error) {
	rec, err := e.Check(ctx, mac, ip)
	if err != nil {
		return false, err
	}
	return rec != nil, nil
}

// Check は(mac, ip)のアクセス可否を判定し、許可されている場合はレコードを返す。
// 有効期限を過ぎたActiveレコードはその場でExpiredに遷移させてから判定する。
func (e *Engine) Check(ctx context.Context, mac, ip string) (*model.DeviceRecord, error) {
	addr, err := model.NewLookupAddress(ip, mac)
	if err != nil {
		return nil, err
	}

	rctx, cancel := e.readContext(ctx)
	defer cancel()

	rec, err := e.lookupActive(rctx, addr.Key())
	if err != nil || rec == nil {
		return nil, err
	}

	now := e.now().UTC()
	if _, err := e.expireIfDue(ctx, rec, now); err != nil {
		return nil, err
	}
	if !rec.IsAuthorizedAt(now) {
		return nil, nil
	}
	return rec, nil
}

// ListForOwner はPrincipalのレコードを作成時刻の昇順で返す。
// includeHistory=false の場合はActiveのみを返す。
func (e *Engine) ListForOwner(ctx context.Context, p *model.Principal, includeHistory bool) ([]*model.DeviceRecord, error) {
	if p == nil || p.ID == "" {
		return nil, apperr.ErrNotAuthenticated
	}
	rctx, cancel := e.readContext(ctx)
	defer cancel()

	records, err := e.registry.ListByOwner(rctx, p.ID)
	if err != nil {
		return nil, err
	}
	return e.correctExpired(ctx, records, includeHistory), nil
}

// ListShared はActiveな共有（所有者なし）レコードを返す。
func (e *Engine) ListShared(ctx context.Context) ([]*model.DeviceRecord, error) {
	rctx, cancel := e.readContext(ctx)
	defer cancel()

	records, err := e.registry.ListByOwner(rctx, "")
	if err != nil {
		return nil, err
	}
	return e.correctExpired(ctx, records, false), nil
}

// correctExpired は一覧中の期限切れActiveレコードを遷移させ、必要に応じて終端レコードを除外する。
// 遷移の失敗は一覧取得を失敗させず、表示上のみExpiredとして扱う。
func (e *Engine) correctExpired(ctx context.Context, records []*model.DeviceRecord, includeHistory bool) []*model.DeviceRecord {
	now := e.now().UTC()
	out := make([]*model.DeviceRecord, 0, len(records))
	for _, rec := range records {
		if _, err := e.expireIfDue(ctx, rec, now); err != nil {
			slog.Warn("lazy expiry failed during listing",
				append(e.fields.DeviceLogFields("LAZY_EXPIRE_ERR", rec.MAC, rec.IP),
					logging.WithRecordID(rec.ID),
					logging.WithError(err),
				)...,
			)
			rec.Status = model.StatusExpired
		}
		if !includeHistory && rec.Status != model.StatusActive {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Remaining はレコードの残り有効時間を現在時刻基準で返す。
func (e *Engine) Remaining(rec *model.DeviceRecord) time.Duration {
	return rec.Remaining(e.now())
}
