// Package httputil はHTTP関連のユーティリティを提供する。
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/oyaguma3/captive-portal-access/pkg/apperr"
)

// ProblemDetail はRFC 7807準拠のエラーレスポンス構造体。
type ProblemDetail struct {
	Type     string `json:"type"`               // エラータイプのURI
	Title    string `json:"title"`              // エラータイトル
	Status   int    `json:"status"`             // HTTPステータスコード
	Detail   string `json:"detail,omitempty"`   // 詳細説明
	Instance string `json:"instance,omitempty"` // 発生したリクエストパス
}

// NewProblemDetail は新しいProblemDetailを生成する。
func NewProblemDetail(status int, title, detail string) *ProblemDetail {
	return &ProblemDetail{
		Type:   "about:blank",
		Title:  title,
		Status: status,
		Detail: detail,
	}
}

// BadRequest は400 Bad Requestのエラーレスポンスを生成する。
func BadRequest(detail string) *ProblemDetail {
	return NewProblemDetail(http.StatusBadRequest, "Bad Request", detail)
}

// Unauthorized は401 Unauthorizedのエラーレスポンスを生成する。
func Unauthorized(detail string) *ProblemDetail {
	return NewProblemDetail(http.StatusUnauthorized, "Unauthorized", detail)
}

// Forbidden は403 Forbiddenのエラーレスポンスを生成する。
func Forbidden(detail string) *ProblemDetail {
	return NewProblemDetail(http.StatusForbidden, "Forbidden", detail)
}

// NotFound は404 Not Foundのエラーレスポンスを生成する。
func NotFound(detail string) *ProblemDetail {
	return NewProblemDetail(http.StatusNotFound, "Not Found", detail)
}

// InternalServerError は500 Internal Server Errorのエラーレスポンスを生成する。
func InternalServerError(detail string) *ProblemDetail {
	return NewProblemDetail(http.StatusInternalServerError, "Internal Server Error", detail)
}

// ServiceUnavailable は503 Service Unavailableのエラーレスポンスを生成する。
func ServiceUnavailable(detail string) *ProblemDetail {
	return NewProblemDetail(http.StatusServiceUnavailable, "Service Unavailable", detail)
}

// FromError はアプリケーションエラーを対応するProblemDetailに変換する。
// ストレージや外部連携の内部詳細はDetailに含めない。
func FromError(err error) *ProblemDetail {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		return BadRequest(ve.Error())
	}

	var nae *apperr.NotAuthorizedError
	switch {
	case errors.Is(err, apperr.ErrNotAuthenticated), errors.Is(err, apperr.ErrSessionNotFound):
		return Unauthorized("authentication required")
	case errors.As(err, &nae), errors.Is(err, apperr.ErrNotAuthorized):
		return Forbidden("operation not permitted for this principal")
	case errors.Is(err, apperr.ErrInvalidRequest):
		return BadRequest("invalid request")
	}

	var se *apperr.StorageError
	if errors.As(err, &se) {
		return ServiceUnavailable("device registry temporarily unavailable")
	}
	var ae *apperr.AdapterError
	if errors.As(err, &ae) {
		return ServiceUnavailable("upstream service temporarily unavailable")
	}

	return InternalServerError("internal error")
}

// JSON はProblemDetailをJSON形式にエンコードする。
func (p *ProblemDetail) JSON() ([]byte, error) {
	return json.Marshal(p)
}

// ContentType はRFC 7807で定義されたContent-Typeヘッダー値。
const ContentType = "application/problem+json"
