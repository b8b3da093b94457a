package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// キー定義
const (
	KeyHelp    = tcell.KeyF1
	KeyRevoke  = tcell.KeyF4
	KeyRefresh = tcell.KeyF5
	KeyFilter  = tcell.KeyF6
	KeyQuit    = tcell.KeyCtrlQ
)

// 文字キー定義
const (
	RuneRevoke     = 'x'
	RuneActiveOnly = 'a'
	RuneSort       = 's'
	RuneRefresh    = 'r'
	RuneFilter     = '/'
	RuneQuit       = 'q'
)

// Binding は1つのキー操作とその説明。
// Keyが0の場合はRuneを使用する。
type Binding struct {
	Key   tcell.Key
	Rune  rune
	Label string
}

// Name はキーの表示名を返す。
func (b Binding) Name() string {
	if b.Key == 0 {
		return string(b.Rune)
	}
	if name, ok := keyNames[b.Key]; ok {
		return name
	}
	return "?"
}

// Matches はイベントがこのキーに該当するかを返す。
func (b Binding) Matches(event *tcell.EventKey) bool {
	if b.Key != 0 {
		return event.Key() == b.Key
	}
	return event.Key() == tcell.KeyRune && event.Rune() == b.Rune
}

var keyNames = map[tcell.Key]string{
	tcell.KeyF1:      "F1",
	tcell.KeyF4:      "F4",
	tcell.KeyF5:      "F5",
	tcell.KeyF6:      "F6",
	tcell.KeyUp:      "↑",
	tcell.KeyDown:    "↓",
	tcell.KeyPgUp:    "PgUp",
	tcell.KeyPgDn:    "PgDn",
	tcell.KeyHome:    "Home",
	tcell.KeyEnd:     "End",
	tcell.KeyEnter:   "Enter",
	tcell.KeyEsc:     "Esc",
	tcell.KeyCtrlQ:   "Ctrl+Q",
	tcell.KeyTab:     "Tab",
	tcell.KeyBacktab: "Shift+Tab",
}

// GlobalBindings は全画面共通のキー操作。
func GlobalBindings() []Binding {
	return []Binding{
		{KeyHelp, 0, "Help"},
		{0, RuneQuit, "Back"},
		{KeyQuit, 0, "Exit"},
	}
}

// DeviceListBindings はデバイス一覧画面のキー操作。
func DeviceListBindings() []Binding {
	return []Binding{
		{tcell.KeyEnter, 0, "Detail"},
		{0, RuneRevoke, "Revoke"},
		{0, RuneActiveOnly, "Active only"},
		{0, RuneSort, "Sort"},
		{0, RuneFilter, "Filter"},
		{0, RuneRefresh, "Refresh"},
	}
}

// DeviceDetailBindings はデバイス詳細画面のキー操作。
func DeviceDetailBindings() []Binding {
	return []Binding{
		{0, RuneRevoke, "Revoke"},
		{tcell.KeyEsc, 0, "Back"},
	}
}

// Hint はキー操作の一覧を1行のヒント文字列にする。
func Hint(bindings ...Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, b.Name()+":"+b.Label)
	}
	return strings.Join(parts, " | ")
}
