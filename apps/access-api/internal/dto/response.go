package dto

import (
	"time"

	"github.com/oyaguma3/captive-portal-access/pkg/model"
)

// HealthResponse はヘルスチェックレスポンスを表す。
type HealthResponse struct {
	Status string `json:"status"`
}

// StatusResponse は処理結果のみを返すレスポンスを表す。
type StatusResponse struct {
	Status string `json:"status"`
}

// PrincipalResponse は認証済みユーザーを表す。
type PrincipalResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role,omitempty"`
	Department string `json:"department,omitempty"`
	Admin      bool   `json:"admin"`
}

// NewPrincipalResponse はPrincipalからレスポンスを生成する。
func NewPrincipalResponse(p *model.Principal, admin bool) PrincipalResponse {
	return PrincipalResponse{
		ID:         p.ID,
		Name:       p.Name,
		Email:      p.Email,
		Role:       p.Role,
		Department: p.Department,
		Admin:      admin,
	}
}

// LoginResponse はログインレスポンスを表す。
type LoginResponse struct {
	Token     string            `json:"token"`
	Principal PrincipalResponse `json:"principal"`
}

// ClientInfoResponse は接続元アドレスを表す。
type ClientInfoResponse struct {
	IP  string `json:"ip"`
	MAC string `json:"mac"`
}

// DeviceResponse はデバイスレコードを表す。
type DeviceResponse struct {
	*model.DeviceRecord
	RemainingSeconds int64 `json:"remaining_seconds"`
}

// NewDeviceResponse はレコードからレスポンスを生成する。
func NewDeviceResponse(rec *model.DeviceRecord, now time.Time) DeviceResponse {
	var remaining int64
	if rec.Status == model.StatusActive {
		remaining = int64(rec.Remaining(now) / time.Second)
	}
	return DeviceResponse{DeviceRecord: rec, RemainingSeconds: remaining}
}

// NewDeviceResponses はレコード列からレスポンスを生成する。
func NewDeviceResponses(recs []*model.DeviceRecord, now time.Time) []DeviceResponse {
	out := make([]DeviceResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, NewDeviceResponse(rec, now))
	}
	return out
}

// DevicesResponse はデバイス一覧レスポンスを表す。
type DevicesResponse struct {
	Devices []DeviceResponse `json:"devices"`
}

// ApproveResponse は承認レスポンスを表す。
type ApproveResponse struct {
	Status string         `json:"status"`
	Device DeviceResponse `json:"device"`
}

// VendorResponse はベンダー名解決レスポンスを表す。
type VendorResponse struct {
	Vendor string `json:"vendor"`
}

// AccessResponse はアクセス判定レスポンスを表す。
type AccessResponse struct {
	Authorized       bool       `json:"authorized"`
	Expiry           *time.Time `json:"expiry,omitempty"`
	RemainingSeconds int64      `json:"remaining_seconds,omitempty"`
}
