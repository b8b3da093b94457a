package engine

import (
	"context"
	"log/slog"

	"github.com/oyaguma3/captive-portal-access/pkg/apperr"
	"github.com/oyaguma3/captive-portal-access/pkg/logging"
	"github.com/oyaguma3/captive-portal-access/pkg/model"
)

// Revoke は(mac, ip)のActiveレコードを取り消す。
//
// Activeレコードが存在しない場合は何もせず成功とする。
// 所有者ありのレコードは所有者または管理者のみ、所有者なし（共有）のレコードは
// 管理者または接続元アドレスがキーと一致するPrincipalのみ取り消せる。
// callerは接続元から導出したアドレスで、MACが不明な場合は空でよい。
func (e *Engine) Revoke(ctx context.Context, p *model.Principal, caller model.ClientAddress, mac, ip string) error {
	if p == nil || p.ID == "" {
		return apperr.ErrNotAuthenticated
	}
	addr, err := model.NewLookupAddress(ip, mac)
	if err != nil {
		return err
	}
	key := addr.Key()

	wctx, cancel := e.writeContext(ctx)
	defer cancel()

	rec, err := e.lookupActive(wctx, key)
	if err != nil {
		return err
	}
	if rec == nil {
		slog.Info("revoke target not active",
			append(e.fields.DeviceLogFields("REVOKE_NOOP", addr.MAC, addr.IP),
				logging.WithPrincipal(p.ID),
			)...,
		)
		return nil
	}

	if !e.canRevoke(p, caller, rec) {
		slog.Warn("revoke not authorized",
			append(e.fields.DeviceLogFields("REVOKE_DENIED", rec.MAC, rec.IP),
				logging.WithRecordID(rec.ID),
				logging.WithPrincipal(p.ID),
			)...,
		)
		return apperr.NewNotAuthorizedError(p.ID, "revoke", key.String())
	}

	won, err := e.registry.TransitionStatus(wctx, rec.ID, model.StatusActive, model.StatusRevoked)
	if err != nil {
		slog.Error("revoke failed",
			append(e.fields.DeviceLogFields("REVOKE_ERR", rec.MAC, rec.IP),
				logging.WithRecordID(rec.ID),
				logging.WithError(err),
			)...,
		)
		return err
	}

	eventID := "REVOKE_OK"
	if !won {
		// Sweeperや他の取り消しが先に遷移させた。Activeでない状態は既に成立している
		eventID = "REVOKE_RACE_LOST"
	}
	slog.Info("device revoked",
		append(e.fields.DeviceLogFields(eventID, rec.MAC, rec.IP),
			logging.WithRecordID(rec.ID),
			logging.WithPrincipal(p.ID),
		)...,
	)
	return nil
}

func (e *Engine) canRevoke(p *model.Principal, caller model.ClientAddress, rec *model.DeviceRecord) bool {
	if e.IsAdmin(p) {
		return true
	}
	if rec.Owner != "" {
		return rec.Owner == p.ID
	}
	return caller.MAC != "" && caller.Matches(rec.Key())
}
