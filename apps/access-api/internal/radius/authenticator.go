// Package radius はMAC認証（MAB）向けのRADIUSフロントエンドを提供する。
// アクセス判定は読み取り専用の照会サービスに委譲し、書き込み能力は持たない。
package radius

import (
	"crypto/hmac"
	"crypto/md5"

	"layeh.com/radius"
	"layeh.com/radius/rfc2869"
)

// HasMessageAuthenticator はMessage-Authenticator属性の有無を返す。
func HasMessageAuthenticator(packet *radius.Packet) bool {
	_, err := rfc2869.MessageAuthenticator_Lookup(packet)
	return err == nil
}

// VerifyMessageAuthenticator はMessage-Authenticator属性を検証する。
// 属性値をゼロに置換したパケットのHMAC-MD5と比較する。
func VerifyMessageAuthenticator(packet *radius.Packet, secret []byte) bool {
	origMA, err := rfc2869.MessageAuthenticator_Lookup(packet)
	if err != nil || len(origMA) != 16 {
		return false
	}

	_ = rfc2869.MessageAuthenticator_Set(packet, make([]byte, 16))
	data, err := packet.MarshalBinary()
	_ = rfc2869.MessageAuthenticator_Set(packet, origMA)
	if err != nil {
		return false
	}

	mac := hmac.New(md5.New, secret)
	mac.Write(data)
	return hmac.Equal(mac.Sum(nil), origMA)
}

// SetMessageAuthenticator は応答パケットにMessage-Authenticator属性を設定する。
// requestAuth はリクエストのAuthenticator（応答の計算にはこちらを使う）。
func SetMessageAuthenticator(packet *radius.Packet, secret []byte, requestAuth [16]byte) {
	_ = rfc2869.MessageAuthenticator_Set(packet, make([]byte, 16))

	savedAuth := packet.Authenticator
	packet.Authenticator = requestAuth
	data, err := packet.MarshalBinary()
	packet.Authenticator = savedAuth
	if err != nil {
		return
	}

	mac := hmac.New(md5.New, secret)
	mac.Write(data)
	_ = rfc2869.MessageAuthenticator_Set(packet, mac.Sum(nil))
}
