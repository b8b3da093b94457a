package ui

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Level はステータスメッセージの重要度。
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

// flashDuration はメッセージ表示後にヒントへ戻るまでの時間
const flashDuration = 5 * time.Second

// StatusBar は画面下部の1行表示。通常はキーヒントと接続先を表示する。
type StatusBar struct {
	view     *tview.TextView
	app      *tview.Application
	endpoint string

	mu    sync.Mutex
	hint  string
	timer *time.Timer
}

// NewStatusBar は新しいStatusBarを生成する。
func NewStatusBar(endpoint string) *StatusBar {
	view := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	view.SetBackgroundColor(tcell.ColorDarkBlue)
	view.SetTextColor(tcell.ColorWhite)

	s := &StatusBar{
		view:     view,
		endpoint: endpoint,
		hint:     Hint(GlobalBindings()...),
	}
	s.view.SetText(s.idleText())
	return s
}

// Attach は再描画に使うtview.Applicationを設定する。
func (s *StatusBar) Attach(app *tview.Application) {
	s.app = app
}

// SetHint はキーヒントを差し替えて表示する。
func (s *StatusBar) SetHint(hint string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hint = hint
	s.stopTimer()
	s.view.SetText(s.idleText())
}

// Flash はメッセージを一定時間表示した後ヒント表示に戻す。
func (s *StatusBar) Flash(level Level, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTimer()
	s.view.SetText(decorate(level, message))
	s.timer = time.AfterFunc(flashDuration, func() {
		if s.app == nil {
			return
		}
		s.app.QueueUpdateDraw(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.view.SetText(s.idleText())
		})
	})
}

// Success は成功メッセージを表示する。
func (s *StatusBar) Success(message string) { s.Flash(LevelSuccess, message) }

// Warn は警告メッセージを表示する。
func (s *StatusBar) Warn(message string) { s.Flash(LevelWarning, message) }

// Error はエラーメッセージを表示する。
func (s *StatusBar) Error(message string) { s.Flash(LevelError, message) }

// Text は現在の表示内容（色タグなし）を返す。
func (s *StatusBar) Text() string {
	return s.view.GetText(true)
}

func (s *StatusBar) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *StatusBar) idleText() string {
	text := " " + s.hint
	if s.endpoint != "" {
		text += "  [gray]" + tview.Escape("["+s.endpoint+"]") + "[-]"
	}
	return text
}

func decorate(level Level, message string) string {
	message = tview.Escape(message)
	switch level {
	case LevelSuccess:
		return "[green::b] ✓ " + message + " [-::-]"
	case LevelWarning:
		return "[yellow::b] ⚠ " + message + " [-::-]"
	case LevelError:
		return "[red::b] ✗ " + message + " [-::-]"
	}
	return "[cyan] ℹ " + message + " [-]"
}
