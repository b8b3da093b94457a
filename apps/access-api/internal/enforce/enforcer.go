// Package enforce はレジストリの状態遷移をネットワーク制御層へ伝搬する。
// エンジンは判定主体にとどまり、切断の成否はエンジンへ戻さない。
package enforce

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"layeh.com/radius"
	"layeh.com/radius/rfc2865"
	"layeh.com/radius/rfc3576"

	"github.com/oyaguma3/captive-portal-access/pkg/apperr"
	"github.com/oyaguma3/captive-portal-access/pkg/logging"
	"github.com/oyaguma3/captive-portal-access/pkg/model"
	"github.com/oyaguma3/captive-portal-access/pkg/registry"
)

// AdapterCoA はDisconnect送信先を表すAdapterErrorの識別子
const AdapterCoA = "coa"

// ErrDisconnectRejected はNASがDisconnect-NAKを返した場合のエラー
var ErrDisconnectRejected = errors.New("disconnect rejected by NAS")

// NoopEnforcer は通知をログ出力のみで済ませる。
type NoopEnforcer struct {
	fields *logging.CommonFields
}

// NewNoopEnforcer は新しいNoopEnforcerを生成する。
func NewNoopEnforcer(fields *logging.CommonFields) *NoopEnforcer {
	if fields == nil {
		fields = logging.NewCommonFields(nil)
	}
	return &NoopEnforcer{fields: fields}
}

// Disconnect はログを出力して常に成功する。
func (n *NoopEnforcer) Disconnect(_ context.Context, ev *registry.Event) error {
	slog.Info("access ended (no enforcement configured)",
		append(n.fields.DeviceLogFields("ENFORCE_NOOP", ev.MAC, ev.IP),
			logging.WithRecordID(ev.RecordID),
			logging.WithStatus(string(ev.To)),
		)...)
	return nil
}

// DisconnectEnforcer はRFC 5176 Disconnect-RequestをNASへ送信する。
type DisconnectEnforcer struct {
	addr   string
	secret []byte
	client *radius.Client
}

// NewDisconnectEnforcer は新しいDisconnectEnforcerを生成する。
// retry はUDP再送間隔（0で再送なし）。
func NewDisconnectEnforcer(addr, secret string, retry time.Duration) *DisconnectEnforcer {
	return &DisconnectEnforcer{
		addr:   addr,
		secret: []byte(secret),
		client: &radius.Client{Retry: retry},
	}
}

// Disconnect はイベント対象端末のDisconnect-Requestを送信する。
// NASがDisconnect-NAKを返した場合はError-Causeを含むAdapterErrorを返す。
func (d *DisconnectEnforcer) Disconnect(ctx context.Context, ev *registry.Event) error {
	packet := BuildDisconnectRequest(ev, d.secret)

	resp, err := d.client.Exchange(ctx, packet, d.addr)
	if err != nil {
		return apperr.NewAdapterError(AdapterCoA, 0, err)
	}

	switch resp.Code {
	case radius.CodeDisconnectACK:
		return nil
	case radius.CodeDisconnectNAK:
		cause := rfc3576.ErrorCause_Get(resp)
		return apperr.NewAdapterError(AdapterCoA, int(resp.Code),
			fmt.Errorf("%w: Error-Cause=%d", ErrDisconnectRejected, cause))
	default:
		return apperr.NewAdapterError(AdapterCoA, int(resp.Code),
			fmt.Errorf("unexpected response code %v", resp.Code))
	}
}

// BuildDisconnectRequest はDisconnect-Requestパケットを構築する。
// 手動登録（IP未観測）の場合はFramed-IP-Addressを含めない。
func BuildDisconnectRequest(ev *registry.Event, secret []byte) *radius.Packet {
	packet := radius.New(radius.CodeDisconnectRequest, secret)
	_ = rfc2865.CallingStationID_SetString(packet, ev.MAC)
	if ev.IP != "" && ev.IP != model.ManualIP {
		if ip := net.ParseIP(ev.IP); ip != nil {
			if v4 := ip.To4(); v4 != nil {
				_ = rfc2865.FramedIPAddress_Set(packet, v4)
			}
		}
	}
	return packet
}
