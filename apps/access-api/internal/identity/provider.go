// Package identity はIdentity Provider連携とポータルセッション管理を提供する。
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/breaker"
	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/config"
	"github.com/oyaguma3/captive-portal-access/pkg/apperr"
	"github.com/oyaguma3/captive-portal-access/pkg/logging"
	"github.com/oyaguma3/captive-portal-access/pkg/model"
)

const adapterName = "identity"

// Provider はIdentity ProviderのHTTPクライアント。
type Provider struct {
	httpClient *resty.Client
	cb         *gobreaker.CircuitBreaker
	baseURL    string
}

// NewProvider は新しいProviderを生成する。
func NewProvider(cfg *config.Config) *Provider {
	httpClient := resty.New().
		SetTimeout(config.IdPRequestTimeout).
		SetHeader("Content-Type", "application/json")

	return &Provider{
		httpClient: httpClient,
		cb:         breaker.New(config.CBNameIdP),
		baseURL:    strings.TrimRight(cfg.IdPURL, "/"),
	}
}

// Authenticate はログイン情報を検証し、認証済みPrincipalを返す。
// 認証失敗はErrNotAuthenticated、連携先の障害はAdapterErrorを返す。
func (p *Provider) Authenticate(ctx context.Context, cred Credential) (*model.Principal, error) {
	if !cred.Method.Valid() {
		return nil, apperr.NewValidationError("method", "must be ldap, oauth or otp")
	}
	if cred.Method == MethodLDAP && (cred.Username == "" || cred.Password == "") {
		return nil, apperr.NewValidationError("username", "username and password are required")
	}
	if cred.Method != MethodLDAP && cred.Code == "" {
		return nil, apperr.NewValidationError("code", "required")
	}

	start := time.Now()
	result, err := p.cb.Execute(func() (any, error) {
		req := p.httpClient.R().
			SetContext(ctx).
			SetBody(cred)
		if traceID, ok := ctx.Value(traceIDKey{}).(string); ok && traceID != "" {
			req.SetHeader(config.HeaderTraceID, traceID)
		}
		resp, err := req.Post(p.baseURL + "/authenticate")
		if err != nil {
			return nil, apperr.NewAdapterError(adapterName, 0, err)
		}

		status := resp.StatusCode()
		latency := time.Since(start).Milliseconds()
		switch {
		case status >= 500:
			slog.Error("identity provider error",
				logging.WithEventID("IDP_ERR"),
				logging.WithHTTPStatus(status),
				logging.WithLatency(latency),
			)
			return nil, apperr.NewAdapterError(adapterName, status, fmt.Errorf("unexpected status %d", status))
		case status == http.StatusUnauthorized, status == http.StatusForbidden, status == http.StatusBadRequest:
			// 認証失敗はCBの失敗として数えない
			return rejected{status: status}, nil
		case status != http.StatusOK:
			return nil, apperr.NewAdapterError(adapterName, status, fmt.Errorf("unexpected status %d", status))
		}

		slog.Debug("identity provider success", logging.WithLatency(latency))
		return resp.Body(), nil
	})
	if err != nil {
		if breaker.IsOpen(err) {
			return nil, apperr.NewAdapterError(adapterName, 0, apperr.ErrCircuitOpen)
		}
		return nil, err
	}

	if r, ok := result.(rejected); ok {
		slog.Info("login rejected",
			logging.WithEventID("LOGIN_REJECTED"),
			"method", string(cred.Method),
			logging.WithHTTPStatus(r.status),
		)
		return nil, apperr.ErrNotAuthenticated
	}

	body, _ := result.([]byte)
	var pj principalJSON
	if err := json.Unmarshal(body, &pj); err != nil {
		return nil, apperr.NewAdapterError(adapterName, http.StatusOK, fmt.Errorf("decode response: %w", err))
	}
	if pj.ID == "" {
		return nil, apperr.NewAdapterError(adapterName, http.StatusOK, errors.New("principal id missing"))
	}
	return pj.toPrincipal(), nil
}

// rejected はCB対象外の認証拒否レスポンス。
type rejected struct {
	status int
}

// traceIDKey はコンテキストからTrace IDを取得するためのキー型
type traceIDKey struct{}

// WithTraceID はコンテキストにTrace IDを設定する。
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}
