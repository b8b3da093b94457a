package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// DialogKind はダイアログの種類。
type DialogKind int

const (
	DialogConfirm DialogKind = iota
	DialogWarning
	DialogInfo
	DialogError
)

// buttons は種類ごとのボタンラベルを返す。先頭が肯定側。
func (k DialogKind) buttons() []string {
	switch k {
	case DialogConfirm:
		return []string{"Yes", "No"}
	case DialogWarning:
		return []string{"Continue", "Cancel"}
	}
	return []string{"OK"}
}

func (k DialogKind) style() (prefix string, color tcell.Color) {
	switch k {
	case DialogWarning:
		return "⚠ WARNING ⚠\n\n", tcell.ColorYellow
	case DialogError:
		return "✗ ERROR\n\n", tcell.ColorRed
	case DialogInfo:
		return "", tcell.ColorTeal
	}
	return "", tcell.ColorWhite
}

// NewDialog はモーダルダイアログを生成する。
// 肯定側ボタン（Info/ErrorではOK）でonAccept、それ以外でonDismissを呼ぶ。
func NewDialog(kind DialogKind, title, message string, onAccept, onDismiss func()) *tview.Modal {
	buttons := kind.buttons()
	prefix, color := kind.style()

	modal := tview.NewModal().
		SetText(prefix + message).
		AddButtons(buttons).
		SetDoneFunc(func(_ int, label string) {
			if label == buttons[0] {
				if onAccept != nil {
					onAccept()
				}
				return
			}
			if onDismiss != nil {
				onDismiss()
			}
		})

	modal.SetTitle(" " + title + " ").
		SetBorder(true).
		SetBorderColor(color)
	return modal
}

// NewConnectionError はValkeyへの接続失敗時に表示するダイアログを生成する。
func NewConnectionError(addr string, err error, onRetry, onExit func()) *tview.Modal {
	message := "Failed to connect to Valkey at " + addr + ":\n\n" + err.Error() +
		"\n\nPlease check:\n- Valkey is reachable at VALKEY_ADDR\n- VALKEY_PASSWORD is set correctly"

	modal := tview.NewModal().
		SetText(message).
		AddButtons([]string{"Retry", "Exit"}).
		SetDoneFunc(func(_ int, label string) {
			if label == "Retry" {
				if onRetry != nil {
					onRetry()
				}
				return
			}
			if onExit != nil {
				onExit()
			}
		})

	modal.SetTitle(" Connection Error ").
		SetBorder(true).
		SetBorderColor(tcell.ColorRed)
	modal.SetBackgroundColor(tcell.ColorBlack)
	return modal
}

// NewInputForm は1項目の入力フォームを生成する。
func NewInputForm(title, label, value string, onSubmit func(value string), onCancel func()) *tview.Form {
	form := tview.NewForm()
	input := tview.NewInputField().
		SetLabel(label).
		SetText(value).
		SetFieldWidth(24)
	form.AddFormItem(input)

	form.AddButton("OK", func() {
		if onSubmit != nil {
			onSubmit(input.GetText())
		}
	})
	form.AddButton("Cancel", func() {
		if onCancel != nil {
			onCancel()
		}
	})
	form.SetCancelFunc(func() {
		if onCancel != nil {
			onCancel()
		}
	})

	form.SetBorder(true).
		SetTitle(" " + title + " ").
		SetTitleAlign(tview.AlignCenter).
		SetBorderColor(tcell.ColorWhite)
	return form
}
