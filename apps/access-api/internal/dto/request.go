// Package dto はリクエスト・レスポンスのデータ転送オブジェクトを定義する。
package dto

import (
	"strings"

	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/engine"
	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/identity"
	"github.com/oyaguma3/captive-portal-access/pkg/apperr"
	"github.com/oyaguma3/captive-portal-access/pkg/model"
)

// LoginRequest はログインリクエストを表す。
type LoginRequest struct {
	Method   string `json:"method"`
	Username string `json:"username"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

// Credential はIdentity Providerに渡すログイン情報に変換する。
// methodが空の場合はLDAPとして扱う。
func (r *LoginRequest) Credential() identity.Credential {
	method := identity.Method(strings.ToLower(strings.TrimSpace(r.Method)))
	if method == "" {
		method = identity.MethodLDAP
	}
	return identity.Credential{
		Method:   method,
		Username: strings.TrimSpace(r.Username),
		Password: r.Password,
		Code:     strings.TrimSpace(r.Code),
	}
}

// ApproveRequest は承認リクエストを表す。
// ip/macが空の場合は接続元アドレスで補完する。
type ApproveRequest struct {
	IP           string `json:"ip"`
	MAC          string `json:"mac"`
	Shared       bool   `json:"shared"`
	ExpiryOption string `json:"expiry_option"`
	Expiry       string `json:"expiry"` // expiry_optionの旧名
	CustomExpiry string `json:"custom_expiry"`
	AddedByUser  bool   `json:"added_by_user"`

	Name     string `json:"name"`
	Type     string `json:"type"`
	OS       string `json:"os"`
	Vendor   string `json:"vendor"`
	Location string `json:"location"`
	Notes    string `json:"notes"`
}

// ToEngine はエンジンの承認リクエストに変換する。
func (r *ApproveRequest) ToEngine() (engine.ApproveRequest, error) {
	option := r.ExpiryOption
	if option == "" {
		option = r.Expiry
	}

	deviceType := model.DeviceType(strings.TrimSpace(r.Type))
	switch deviceType {
	case "", model.DeviceTypeRouter, model.DeviceTypeNonRouter:
	default:
		return engine.ApproveRequest{}, apperr.NewValidationError("type", "must be router or non-router")
	}

	req := engine.ApproveRequest{
		IP:           strings.TrimSpace(r.IP),
		MAC:          strings.TrimSpace(r.MAC),
		Kind:         model.KindNetworkDetected,
		Sharing:      model.SharingPersonal,
		Expiry:       model.ExpiryOption(strings.TrimSpace(option)),
		CustomExpiry: strings.TrimSpace(r.CustomExpiry),
		Metadata: &model.DeviceMetadata{
			Name:       strings.TrimSpace(r.Name),
			DeviceType: deviceType,
			OS:         strings.TrimSpace(r.OS),
			Vendor:     strings.TrimSpace(r.Vendor),
			Location:   strings.TrimSpace(r.Location),
			Notes:      strings.TrimSpace(r.Notes),
		},
	}
	if r.Shared {
		req.Sharing = model.SharingShared
	}
	if r.AddedByUser {
		req.Kind = model.KindUserRegistered
	}
	return req, nil
}

// RevokeRequest は取り消しリクエストを表す。
type RevokeRequest struct {
	MAC string `json:"mac" binding:"required"`
	IP  string `json:"ip" binding:"required"`
}
