package radius

import (
	"math"
	"time"

	"layeh.com/radius"
	"layeh.com/radius/rfc2865"
)

// BuildAccessAccept はAccess-Acceptパケットを構築する。
// remaining が正の場合はSession-Timeoutに残り秒数（切り上げ）を設定する。
func BuildAccessAccept(request *radius.Packet, secret []byte, remaining time.Duration, ps *ProxyStates) *radius.Packet {
	resp := request.Response(radius.CodeAccessAccept)

	if secs := sessionTimeout(remaining); secs > 0 {
		_ = rfc2865.SessionTimeout_Set(resp, rfc2865.SessionTimeout(secs))
		_ = rfc2865.TerminationAction_Set(resp, rfc2865.TerminationAction_Value_RADIUSRequest)
	}

	ps.Apply(resp)
	SetMessageAuthenticator(resp, secret, request.Authenticator)
	return resp
}

// BuildAccessReject はAccess-Rejectパケットを構築する。
func BuildAccessReject(request *radius.Packet, secret []byte, ps *ProxyStates) *radius.Packet {
	resp := request.Response(radius.CodeAccessReject)
	ps.Apply(resp)
	SetMessageAuthenticator(resp, secret, request.Authenticator)
	return resp
}

// BuildStatusResponse はStatus-Serverに対するAccess-Acceptを構築する。
func BuildStatusResponse(request *radius.Packet, secret []byte) *radius.Packet {
	resp := request.Response(radius.CodeAccessAccept)
	ExtractProxyStates(request).Apply(resp)
	SetMessageAuthenticator(resp, secret, request.Authenticator)
	return resp
}

func sessionTimeout(remaining time.Duration) uint32 {
	if remaining <= 0 {
		return 0
	}
	secs := math.Ceil(remaining.Seconds())
	if secs > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(secs)
}
