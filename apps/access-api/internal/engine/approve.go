package engine

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/config"
	"github.com/oyaguma3/captive-portal-access/pkg/apperr"
	"github.com/oyaguma3/captive-portal-access/pkg/logging"
	"github.com/oyaguma3/captive-portal-access/pkg/model"
)

// ApproveRequest は承認リクエストを表す。
type ApproveRequest struct {
	IP           string
	MAC          string
	Kind         model.Kind
	Sharing      model.Sharing
	Expiry       model.ExpiryOption
	CustomExpiry string
	Metadata     *model.DeviceMetadata
}

// Approve はデバイスにアクセスを許可する。
//
// 同一キーにActiveレコードが既に存在する場合は新規作成せずにそれを返す。
// 並行した承認と競合した場合は先に書き込まれたレコードを返す。
func (e *Engine) Approve(ctx context.Context, p *model.Principal, req ApproveRequest) (*model.DeviceRecord, error) {
	if p == nil || p.ID == "" {
		return nil, apperr.ErrNotAuthenticated
	}

	kind := req.Kind
	if kind == "" {
		kind = model.KindNetworkDetected
	}
	sharing := req.Sharing
	if sharing == "" {
		sharing = model.SharingPersonal
	}

	meta := cloneMetadata(req.Metadata)
	switch kind {
	case model.KindUserRegistered:
		// 手動登録は個人デバイスのみ。IPは未観測を表す番兵値
		sharing = model.SharingPersonal
		if meta == nil || strings.TrimSpace(meta.Name) == "" {
			return nil, apperr.NewValidationError("name", "required for user registered devices")
		}
	case model.KindNetworkDetected:
	default:
		return nil, apperr.NewValidationError("kind", "must be network_detected or user_registered")
	}
	if sharing != model.SharingPersonal && sharing != model.SharingShared {
		return nil, apperr.NewValidationError("sharing", "must be personal or shared")
	}

	var addr model.ClientAddress
	var err error
	if kind == model.KindUserRegistered {
		addr, err = model.NewManualAddress(req.MAC)
	} else {
		addr, err = model.NewClientAddress(req.IP, req.MAC)
	}
	if err != nil {
		return nil, err
	}

	now := e.now().UTC().Truncate(time.Millisecond)
	expiresAt, err := ComputeExpiry(now, kind, sharing, req.Expiry, req.CustomExpiry)
	if err != nil {
		return nil, err
	}

	if kind == model.KindUserRegistered && meta.Vendor == "" && e.vendors != nil {
		meta.Vendor = e.vendors.Lookup(ctx, addr.MAC)
	}

	key := addr.Key()
	wctx, cancel := e.writeContext(ctx)
	defer cancel()

	for attempt := 1; attempt <= config.ApproveMaxAttempts; attempt++ {
		existing, err := e.lookupActive(wctx, key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			expired, err := e.expireIfDue(wctx, existing, now)
			if err != nil {
				return nil, err
			}
			if !expired && existing.Status == model.StatusActive {
				e.logExisting(p, existing)
				return existing, nil
			}
		}

		rec := &model.DeviceRecord{
			ID:         uuid.NewString(),
			MAC:        addr.MAC,
			IP:         addr.IP,
			ApprovedBy: p.ID,
			Kind:       kind,
			Sharing:    sharing,
			Status:     model.StatusActive,
			CreatedAt:  now,
			ExpiresAt:  expiresAt,
			Metadata:   meta,
		}
		if sharing == model.SharingPersonal {
			rec.Owner = p.ID
		}

		err = e.registry.Put(wctx, rec)
		if err == nil {
			slog.Info("device approved",
				append(e.fields.DeviceLogFields("APPROVE_OK", rec.MAC, rec.IP),
					logging.WithRecordID(rec.ID),
					logging.WithPrincipal(p.ID),
					"sharing", string(rec.Sharing),
					"expiry", rec.ExpiresAt.Format(time.RFC3339),
				)...,
			)
			return rec, nil
		}
		if !errors.Is(err, apperr.ErrConflict) {
			slog.Error("device approve failed",
				append(e.fields.DeviceLogFields("APPROVE_ERR", addr.MAC, addr.IP),
					logging.WithPrincipal(p.ID),
					logging.WithError(err),
				)...,
			)
			return nil, err
		}

		// 並行した承認が先に書き込んだ。再読込して勝者を返す
		slog.Debug("approve lost race, re-reading",
			append(e.fields.DeviceLogFields("APPROVE_CONFLICT", addr.MAC, addr.IP),
				"attempt", attempt,
			)...,
		)
	}

	return nil, apperr.NewStorageError("APPROVE", key.String(), apperr.ErrConflict)
}

func (e *Engine) logExisting(p *model.Principal, existing *model.DeviceRecord) {
	eventID := "APPROVE_EXISTING"
	if existing.Owner != "" && existing.Owner != p.ID {
		eventID = "APPROVE_EXISTING_OTHER_OWNER"
	}
	slog.Info("device already approved",
		append(e.fields.DeviceLogFields(eventID, existing.MAC, existing.IP),
			logging.WithRecordID(existing.ID),
			logging.WithPrincipal(p.ID),
		)...,
	)
}

func cloneMetadata(m *model.DeviceMetadata) *model.DeviceMetadata {
	if m.IsZero() {
		return nil
	}
	c := *m
	return &c
}
