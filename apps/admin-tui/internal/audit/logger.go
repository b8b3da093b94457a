// Package audit は監査ログ機能を提供する。
package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Operation は監査ログの操作種別を表す。
type Operation string

const (
	// OpRevoke はアクセス取り消し操作
	OpRevoke Operation = "revoke"
	// OpView は詳細参照操作
	OpView Operation = "view"
	// OpSearch は一覧の絞り込み操作
	OpSearch Operation = "search"
)

// TargetType は監査ログの対象種別を表す。
type TargetType string

const (
	// TargetDevice はデバイスレコード
	TargetDevice TargetType = "device"
)

// Entry は監査ログエントリを表す。
type Entry struct {
	Time       string     `json:"time"`                 // RFC3339形式のタイムスタンプ
	Level      string     `json:"level"`                // ログレベル
	App        string     `json:"app"`                  // アプリケーション名（常に"admin-tui"）
	EventID    string     `json:"event_id"`             // イベントID
	Msg        string     `json:"msg"`                  // メッセージ
	Operation  Operation  `json:"operation"`            // 操作種別
	TargetType TargetType `json:"target_type"`          // 対象種別
	TargetKey  string     `json:"target_key,omitempty"` // 対象レコードID
	TargetMAC  string     `json:"target_mac,omitempty"` // 対象MAC（該当時のみ）
	TargetIP   string     `json:"target_ip,omitempty"`  // 対象IP（該当時のみ）
	AdminUser  string     `json:"admin_user"`           // 管理者ユーザー
	Details    string     `json:"details,omitempty"`    // 追加詳細情報
}

// Logger は監査ログを出力する。
type Logger struct {
	writer    io.Writer
	adminUser string
	now       func() time.Time
	mu        sync.Mutex
}

// NewLogger は標準出力に書き出すLoggerを生成する。
func NewLogger(adminUser string) *Logger {
	return NewLoggerWithWriter(os.Stdout, adminUser)
}

// NewLoggerWithWriter は指定されたWriterを使用するLoggerを生成する。
func NewLoggerWithWriter(writer io.Writer, adminUser string) *Logger {
	return &Logger{
		writer:    writer,
		adminUser: adminUser,
		now:       time.Now,
	}
}

// Log は監査ログエントリを出力する。
func (l *Logger) Log(entry Entry) {
	entry.Time = l.now().UTC().Format(time.RFC3339)
	if entry.Level == "" {
		entry.Level = "INFO"
	}
	if entry.EventID == "" {
		entry.EventID = "AUDIT_LOG"
	}
	entry.App = "admin-tui"
	entry.AdminUser = l.adminUser

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.writer.Write(append(data, '\n'))
}

// LogRevoke は取り消し操作のログを出力する。
// revoked=false は既に終端状態で遷移が発生しなかったことを表す。
func (l *Logger) LogRevoke(recordID, mac, ip string, revoked bool) {
	msg := "device revoked"
	details := ""
	if !revoked {
		msg = "device already terminal"
		details = "no transition"
	}
	l.Log(Entry{
		Msg:        msg,
		Operation:  OpRevoke,
		TargetType: TargetDevice,
		TargetKey:  recordID,
		TargetMAC:  mac,
		TargetIP:   ip,
		Details:    details,
	})
}

// LogRevokeFailed は取り消し失敗のログを出力する。
func (l *Logger) LogRevokeFailed(recordID string, err error) {
	l.Log(Entry{
		Level:      "WARN",
		EventID:    "AUDIT_LOG_ERR",
		Msg:        "device revoke failed",
		Operation:  OpRevoke,
		TargetType: TargetDevice,
		TargetKey:  recordID,
		Details:    err.Error(),
	})
}

// LogView は詳細参照のログを出力する。
func (l *Logger) LogView(recordID, mac, ip string) {
	l.Log(Entry{
		Msg:        "device viewed",
		Operation:  OpView,
		TargetType: TargetDevice,
		TargetKey:  recordID,
		TargetMAC:  mac,
		TargetIP:   ip,
	})
}

// LogSearch は絞り込み操作のログを出力する。
func (l *Logger) LogSearch(query string, resultCount int) {
	l.Log(Entry{
		Msg:        "device searched",
		Operation:  OpSearch,
		TargetType: TargetDevice,
		Details:    fmt.Sprintf("query=%q results=%d", query, resultCount),
	})
}
