package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// HelpSection はヘルプの1区分。
type HelpSection struct {
	Title    string
	Bindings []Binding
}

// HelpSections はヘルプに表示する全区分を返す。
func HelpSections() []HelpSection {
	return []HelpSection{
		{
			Title: "Navigation",
			Bindings: []Binding{
				{tcell.KeyUp, 0, "Move up"},
				{tcell.KeyDown, 0, "Move down"},
				{tcell.KeyPgUp, 0, "Previous page"},
				{tcell.KeyPgDn, 0, "Next page"},
				{tcell.KeyHome, 0, "First page"},
				{tcell.KeyEnd, 0, "Last page"},
				{tcell.KeyEsc, 0, "Back / clear filter"},
			},
		},
		{
			Title: "Device List",
			Bindings: append(DeviceListBindings(),
				Binding{KeyRevoke, 0, "Revoke"},
				Binding{KeyRefresh, 0, "Refresh"},
				Binding{KeyFilter, 0, "Filter"},
			),
		},
		{
			Title:    "Global",
			Bindings: GlobalBindings(),
		},
	}
}

// FormatHelp はヘルプ本文を生成する。
func FormatHelp(sections []HelpSection) string {
	var b strings.Builder
	for i, section := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("[yellow::b]" + section.Title + "[-::-]\n")
		for _, binding := range section.Bindings {
			fmt.Fprintf(&b, "  [cyan]%-10s[-] %s\n", binding.Name(), binding.Label)
		}
	}
	return b.String()
}

// NewHelpView はヘルプ表示を生成する。Esc/Enter/qでonCloseを呼ぶ。
func NewHelpView(onClose func()) tview.Primitive {
	view := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetText(FormatHelp(HelpSections()))

	view.SetTitle(" Help ").
		SetTitleAlign(tview.AlignCenter).
		SetBorder(true).
		SetBorderColor(tcell.ColorTeal)

	view.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc || event.Key() == tcell.KeyEnter || event.Rune() == RuneQuit {
			if onClose != nil {
				onClose()
			}
			return nil
		}
		return event
	})

	return Centered(view, 56, 30)
}
