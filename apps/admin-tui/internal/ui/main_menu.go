package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// MenuItem はメニュー項目を表す。
type MenuItem struct {
	Label       string
	Description string
	Key         rune
	Action      func()
}

// NewMenu はメニュー画面を生成する。Esc/qでonQuitを呼ぶ。
func NewMenu(title string, items []MenuItem, onQuit func()) *tview.List {
	list := tview.NewList().ShowSecondaryText(true)
	for _, item := range items {
		list.AddItem(item.Label, item.Description, item.Key, item.Action)
	}

	list.SetTitle(" " + title + " ").
		SetTitleAlign(tview.AlignCenter).
		SetBorder(true).
		SetBorderColor(tcell.ColorBlue)

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc || event.Rune() == RuneQuit {
			if onQuit != nil {
				onQuit()
			}
			return nil
		}
		return event
	})
	return list
}

// MainMenuItems はメインメニューの項目を返す。
func MainMenuItems(onDevices, onStatistics, onExit func()) []MenuItem {
	return []MenuItem{
		{
			Label:       "Device Access",
			Description: "List, inspect and revoke authorized devices",
			Key:         '1',
			Action:      onDevices,
		},
		{
			Label:       "Statistics",
			Description: "Registry counts by status, sharing and kind",
			Key:         '2',
			Action:      onStatistics,
		},
		{
			Label:       "Exit",
			Description: "Exit the application",
			Key:         'q',
			Action:      onExit,
		},
	}
}
