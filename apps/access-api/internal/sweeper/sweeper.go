// Package sweeper は有効期限切れレコードの定期的な失効処理を提供する。
package sweeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/oyaguma3/captive-portal-access/pkg/logging"
	"github.com/oyaguma3/captive-portal-access/pkg/model"
	"github.com/oyaguma3/captive-portal-access/pkg/registry"
)

// Result は1回のスイープの集計結果。
type Result struct {
	Scanned int
	Expired int
	Lost    int // 他の経路が先に遷移させた件数
	Failed  int
}

// Sweeper はActiveレコードを走査し、期限切れをExpiredに遷移させる。
type Sweeper struct {
	registry Registry
	interval time.Duration
	timeout  time.Duration
	now      func() time.Time
	fields   *logging.CommonFields
}

// Option はSweeperの設定を変更する。
type Option func(*Sweeper)

// WithNow は現在時刻の取得関数を差し替える。
func WithNow(now func() time.Time) Option {
	return func(s *Sweeper) {
		s.now = now
	}
}

// WithFields はログ出力用の共通フィールドを設定する。
func WithFields(fields *logging.CommonFields) Option {
	return func(s *Sweeper) {
		s.fields = fields
	}
}

// New は新しいSweeperを生成する。
// timeoutは1レコードあたりのレジストリ呼び出しの上限。
func New(reg Registry, interval, timeout time.Duration, opts ...Option) *Sweeper {
	s := &Sweeper{
		registry: reg,
		interval: interval,
		timeout:  timeout,
		now:      time.Now,
		fields:   logging.NewCommonFields(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run はctxがキャンセルされるまで一定間隔でスイープを実行する。
// 起動直後に1回実行する。
func (s *Sweeper) Run(ctx context.Context) {
	slog.Info("sweeper started", "interval", s.interval.String())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
			slog.Error("sweep failed",
				logging.WithEventID("SWEEP_ERR"),
				logging.WithError(err),
			)
		}

		select {
		case <-ctx.Done():
			slog.Info("sweeper stopped")
			return
		case <-ticker.C:
		}
	}
}

// RunOnce はスイープを1回実行する。
// 個々のレコードの遷移失敗はスイープ全体を失敗させない。
func (s *Sweeper) RunOnce(ctx context.Context) (Result, error) {
	var res Result

	lctx, cancel := context.WithTimeout(ctx, s.timeout)
	records, err := s.registry.ListAll(lctx, registry.FilterActive)
	cancel()
	if err != nil {
		return res, err
	}

	now := s.now().UTC()
	for _, rec := range records {
		if ctx.Err() != nil {
			break
		}
		res.Scanned++
		if rec.Status != model.StatusActive || !rec.IsExpiredAt(now) {
			continue
		}
		s.expire(ctx, rec, &res)
	}

	if res.Expired > 0 || res.Failed > 0 {
		slog.Info("sweep completed",
			logging.WithEventID("SWEEP_DONE"),
			"scanned", res.Scanned,
			"expired", res.Expired,
			"lost", res.Lost,
			"failed", res.Failed,
		)
	} else {
		slog.Debug("sweep completed",
			logging.WithEventID("SWEEP_DONE"),
			"scanned", res.Scanned,
		)
	}
	return res, nil
}

func (s *Sweeper) expire(ctx context.Context, rec *model.DeviceRecord, res *Result) {
	// 書き込みは呼び出し元のキャンセルで中断しない
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	won, err := s.registry.TransitionStatus(wctx, rec.ID, model.StatusActive, model.StatusExpired)
	switch {
	case err != nil:
		res.Failed++
		slog.Warn("sweep transition failed",
			append(s.fields.DeviceLogFields("SWEEP_EXPIRE_ERR", rec.MAC, rec.IP),
				logging.WithRecordID(rec.ID),
				logging.WithError(err),
			)...,
		)
	case won:
		res.Expired++
		slog.Info("device expired",
			append(s.fields.DeviceLogFields("SWEEP_EXPIRE", rec.MAC, rec.IP),
				logging.WithRecordID(rec.ID),
			)...,
		)
	default:
		res.Lost++
	}
}
