package radius

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/google/uuid"
	"layeh.com/radius"

	"github.com/oyaguma3/captive-portal-access/pkg/logging"
)

// Handler はMAC認証のAccess-RequestとStatus-Serverを処理する。
type Handler struct {
	access  AccessDecider
	fields  *logging.CommonFields
	timeout time.Duration
}

// NewHandler は新しいHandlerを生成する。
func NewHandler(access AccessDecider, fields *logging.CommonFields, timeout time.Duration) *Handler {
	if fields == nil {
		fields = logging.NewCommonFields(nil)
	}
	return &Handler{access: access, fields: fields, timeout: timeout}
}

// ServeRADIUS はRADIUSリクエストを処理する。
func (h *Handler) ServeRADIUS(w radius.ResponseWriter, r *radius.Request) {
	traceID := uuid.New().String()
	srcIP := extractIP(r.RemoteAddr)

	switch r.Code {
	case radius.CodeAccessRequest:
		h.handleAccessRequest(w, r, traceID, srcIP)
	case radius.CodeStatusServer:
		h.handleStatusServer(w, r, traceID, srcIP)
	default:
		slog.Warn("unsupported RADIUS code",
			"event_id", "RADIUS_UNKNOWN_CODE",
			"trace_id", traceID,
			"src_ip", srcIP,
			"code", r.Code,
		)
	}
}

func (h *Handler) handleAccessRequest(w radius.ResponseWriter, r *radius.Request, traceID, srcIP string) {
	secret := r.Secret

	// Message-Authenticatorは存在する場合のみ検証
	if HasMessageAuthenticator(r.Packet) && !VerifyMessageAuthenticator(r.Packet, secret) {
		slog.Warn("Message-Authenticator verification failed",
			"event_id", "RADIUS_AUTH_ERR",
			"trace_id", traceID,
			"src_ip", srcIP,
		)
		return
	}

	attrs, err := ExtractStationAttributes(r.Packet)
	if err != nil {
		slog.Warn("station attributes missing",
			"event_id", "RADIUS_PARSE_ERR",
			"trace_id", traceID,
			"src_ip", srcIP,
			"reason", err.Error(),
		)
		h.write(w, BuildAccessReject(r.Packet, secret, ExtractProxyStates(r.Packet)), traceID)
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	decision, err := h.access.Decide(ctx, attrs.MAC, attrs.IP)
	if err != nil {
		// 判定不能時はフェイルクローズ
		slog.Error("access decision failed",
			append(h.logFields("RADIUS_DECIDE_ERR", attrs, traceID, srcIP), logging.WithError(err))...)
		h.write(w, BuildAccessReject(r.Packet, secret, attrs.ProxyStates), traceID)
		return
	}

	if !decision.Authorized {
		slog.Info("MAB rejected", h.logFields("RADIUS_REJECT", attrs, traceID, srcIP)...)
		h.write(w, BuildAccessReject(r.Packet, secret, attrs.ProxyStates), traceID)
		return
	}

	slog.Info("MAB accepted", append(h.logFields("RADIUS_ACCEPT", attrs, traceID, srcIP),
		logging.WithRecordID(decision.RecordID),
		"remaining_sec", int64(decision.Remaining.Seconds()),
	)...)
	h.write(w, BuildAccessAccept(r.Packet, secret, decision.Remaining, attrs.ProxyStates), traceID)
}

func (h *Handler) logFields(eventID string, attrs *StationAttributes, traceID, srcIP string) []any {
	return append(h.fields.DeviceLogFields(eventID, attrs.MAC, attrs.IP),
		logging.WithTraceID(traceID),
		logging.WithSrcIP(srcIP),
	)
}

func (h *Handler) handleStatusServer(w radius.ResponseWriter, r *radius.Request, traceID, srcIP string) {
	if !VerifyMessageAuthenticator(r.Packet, r.Secret) {
		slog.Warn("Status-Server: Message-Authenticator verification failed",
			"event_id", "RADIUS_STATUS_AUTH_FAIL",
			"trace_id", traceID,
			"src_ip", srcIP,
		)
		return
	}
	h.write(w, BuildStatusResponse(r.Packet, r.Secret), traceID)
}

func (h *Handler) write(w radius.ResponseWriter, resp *radius.Packet, traceID string) {
	if err := w.Write(resp); err != nil {
		slog.Error("failed to send RADIUS response",
			"event_id", "PKT_SEND_ERR",
			"trace_id", traceID,
			"error", err,
		)
	}
}

// extractIP はnet.AddrからIPアドレス文字列を抽出する
func extractIP(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	if udpAddr, ok := addr.(*net.UDPAddr); ok {
		return udpAddr.IP.String()
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return ""
	}
	return host
}
