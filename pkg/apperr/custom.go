package apperr

import "fmt"

// ValidationError はバリデーションエラーを表す。
// 呼び出し側の誤りであり、リトライしない。
type ValidationError struct {
	Field   string // エラーが発生したフィールド名
	Message string // エラーメッセージ
	Cause   error  // 分類用のセンチネル（ErrInvalidMAC等）
}

// Error はerrorインターフェースを実装する。
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: field=%s, message=%s", e.Field, e.Message)
}

// Unwrap は根本原因を返す。
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// NewValidationError はValidationErrorを生成する。
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewValidationErrorWithCause は原因付きのValidationErrorを生成する。
func NewValidationErrorWithCause(field, message string, cause error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}

// NotAuthorizedError は操作権限エラーを表す。
type NotAuthorizedError struct {
	Principal string // 操作を試みたPrincipal.ID
	Operation string // 操作名（revoke等）
	Target    string // 操作対象（デバイスキー等）
}

// Error はerrorインターフェースを実装する。
func (e *NotAuthorizedError) Error() string {
	return fmt.Sprintf("not authorized: principal=%s, operation=%s, target=%s",
		e.Principal, e.Operation, e.Target)
}

// Unwrap はErrNotAuthorizedを返す。
func (e *NotAuthorizedError) Unwrap() error {
	return ErrNotAuthorized
}

// NewNotAuthorizedError はNotAuthorizedErrorを生成する。
func NewNotAuthorizedError(principal, operation, target string) *NotAuthorizedError {
	return &NotAuthorizedError{
		Principal: principal,
		Operation: operation,
		Target:    target,
	}
}

// StorageError はレジストリ（Valkey）との操作エラーを表す。
// 一時的な障害であり、呼び出し側はバックオフ付きでリトライできる。
type StorageError struct {
	Operation string // 操作名（GET, PUT, TRANSITION等）
	Key       string // 操作対象のキー
	Cause     error  // 根本原因
}

// Error はerrorインターフェースを実装する。
func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("storage error: operation=%s, key=%s, cause=%v",
			e.Operation, e.Key, e.Cause)
	}
	return fmt.Sprintf("storage error: operation=%s, key=%s", e.Operation, e.Key)
}

// Unwrap は根本原因を返す。
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError はStorageErrorを生成する。
func NewStorageError(operation, key string, cause error) *StorageError {
	return &StorageError{
		Operation: operation,
		Key:       key,
		Cause:     cause,
	}
}

// AdapterError は外部連携先（Identity Provider, Vendor Lookup, CoA）との通信エラーを表す。
type AdapterError struct {
	Adapter    string // 連携先の識別子（identity, vendor, coa）
	StatusCode int    // HTTPステータスコードまたはRADIUS Code（通信不能時は0）
	Cause      error  // 根本原因
}

// Error はerrorインターフェースを実装する。
func (e *AdapterError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("adapter error: adapter=%s, statusCode=%d, cause=%v",
			e.Adapter, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("adapter error: adapter=%s, statusCode=%d",
		e.Adapter, e.StatusCode)
}

// Unwrap は根本原因を返す。
func (e *AdapterError) Unwrap() error {
	return e.Cause
}

// NewAdapterError はAdapterErrorを生成する。
func NewAdapterError(adapter string, statusCode int, cause error) *AdapterError {
	return &AdapterError{
		Adapter:    adapter,
		StatusCode: statusCode,
		Cause:      cause,
	}
}
