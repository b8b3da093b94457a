package logging

import "log/slog"

// ログフィールド名の定数
const (
	FieldTraceID    = "trace_id"
	FieldEventID    = "event_id"
	FieldError      = "error"
	FieldSrcIP      = "src_ip"
	FieldLatencyMs  = "latency_ms"
	FieldHTTPStatus = "http_status"
	FieldMAC        = "mac"
	FieldIP         = "ip"
	FieldRecordID   = "record_id"
	FieldPrincipal  = "principal"
	FieldStatus     = "status"
)

// WithTraceID はトレースIDのslog.Attrを返す。
func WithTraceID(traceID string) slog.Attr {
	return slog.String(FieldTraceID, traceID)
}

// WithEventID はイベントIDのslog.Attrを返す。
func WithEventID(eventID string) slog.Attr {
	return slog.String(FieldEventID, eventID)
}

// WithError はエラーのslog.Attrを返す。
func WithError(err error) slog.Attr {
	if err == nil {
		return slog.String(FieldError, "")
	}
	return slog.String(FieldError, err.Error())
}

// WithSrcIP はソースIPアドレスのslog.Attrを返す。
func WithSrcIP(ip string) slog.Attr {
	return slog.String(FieldSrcIP, ip)
}

// WithLatency はレイテンシ（ミリ秒）のslog.Attrを返す。
func WithLatency(ms int64) slog.Attr {
	return slog.Int64(FieldLatencyMs, ms)
}

// WithHTTPStatus はHTTPステータスコードのslog.Attrを返す。
func WithHTTPStatus(status int) slog.Attr {
	return slog.Int(FieldHTTPStatus, status)
}

// WithRecordID はレコードIDのslog.Attrを返す。
func WithRecordID(id string) slog.Attr {
	return slog.String(FieldRecordID, id)
}

// WithPrincipal はPrincipal IDのslog.Attrを返す。
func WithPrincipal(id string) slog.Attr {
	return slog.String(FieldPrincipal, id)
}

// WithStatus はレコード状態のslog.Attrを返す。
func WithStatus(status string) slog.Attr {
	return slog.String(FieldStatus, status)
}

// CommonFields はマスキング設定を保持するログフィールド生成器。
type CommonFields struct {
	masker *Masker
}

// NewCommonFields は新しいCommonFieldsを生成する。
func NewCommonFields(masker *Masker) *CommonFields {
	if masker == nil {
		masker = NewMasker(false)
	}
	return &CommonFields{masker: masker}
}

// WithMAC はマスキングされたMACアドレスのslog.Attrを返す。
func (cf *CommonFields) WithMAC(mac string) slog.Attr {
	return slog.String(FieldMAC, cf.masker.MAC(mac))
}

// DeviceLogFields はデバイス操作ログ用の共通フィールドを返す。
func (cf *CommonFields) DeviceLogFields(eventID, mac, ip string) []any {
	return []any{
		WithEventID(eventID),
		cf.WithMAC(mac),
		slog.String(FieldIP, ip),
	}
}
