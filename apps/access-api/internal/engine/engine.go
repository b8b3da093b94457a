package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/config"
	"github.com/oyaguma3/captive-portal-access/pkg/apperr"
	"github.com/oyaguma3/captive-portal-access/pkg/logging"
	"github.com/oyaguma3/captive-portal-access/pkg/model"
)

// Engine はデバイスの承認・取り消し・アクセス判定を行う。
// 同一キーに対する直列化はRegistryのcompare-and-setに委ね、Engine自身はロックを持たない。
type Engine struct {
	registry   Registry
	vendors    VendorLookup // nilの場合はベンダー補完なし
	adminRoles []string
	timeout    time.Duration
	now        func() time.Time
	fields     *logging.CommonFields
}

// Option はEngineの設定を変更する。
type Option func(*Engine)

// WithNow は現在時刻の取得関数を差し替える。
func WithNow(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine は新しいEngineを生成する。
func NewEngine(registry Registry, vendors VendorLookup, cfg *config.Config, opts ...Option) *Engine {
	e := &Engine{
		registry:   registry,
		vendors:    vendors,
		adminRoles: cfg.AdminRoles,
		timeout:    cfg.RegistryTimeout,
		now:        time.Now,
		fields:     logging.NewCommonFields(logging.NewMasker(cfg.LogMaskMAC)),
	}
	if e.timeout <= 0 {
		e.timeout = 2 * time.Second
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// IsAdmin はPrincipalが管理者ロールを持つかどうかを返す。
func (e *Engine) IsAdmin(p *model.Principal) bool {
	return p.HasRole(e.adminRoles)
}

// readContext はレジストリ読み取り用のタイムアウト付きコンテキストを返す。
func (e *Engine) readContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, e.timeout)
}

// writeContext はレジストリ書き込み用のコンテキストを返す。
// 呼び出し元のキャンセルは伝播させず、タイムアウトのみで打ち切る。
func (e *Engine) writeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
}

// lookupActive はキーのActiveレコードを返す。Activeでない場合はnil。
func (e *Engine) lookupActive(ctx context.Context, key model.DeviceKey) (*model.DeviceRecord, error) {
	rec, err := e.registry.Get(ctx, key)
	if errors.Is(err, apperr.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if rec.Status != model.StatusActive {
		return nil, nil
	}
	return rec, nil
}

// expireIfDue は有効期限を過ぎたActiveレコードをExpiredに遷移させる。
// CASに負けた場合も含め、遷移後のレコードの状態をrecに反映する。
// 戻り値は遷移対象だったかどうか。
func (e *Engine) expireIfDue(ctx context.Context, rec *model.DeviceRecord, now time.Time) (bool, error) {
	if rec.Status != model.StatusActive || !rec.IsExpiredAt(now) {
		return false, nil
	}

	wctx, cancel := e.writeContext(ctx)
	defer cancel()

	won, err := e.registry.TransitionStatus(wctx, rec.ID, model.StatusActive, model.StatusExpired)
	if err != nil {
		return true, err
	}
	if won {
		slog.Info("device expired lazily",
			append(e.fields.DeviceLogFields("LAZY_EXPIRE", rec.MAC, rec.IP),
				logging.WithRecordID(rec.ID))...,
		)
		at := now
		rec.ExpiredAt = &at
		rec.Status = model.StatusExpired
		return true, nil
	}

	// 他の経路（Sweeper, revoke）が先に遷移させた
	latest, err := e.registry.GetByID(wctx, rec.ID)
	if err != nil {
		return true, err
	}
	*rec = *latest
	return true, nil
}
