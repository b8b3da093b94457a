// Package ui はTUIアプリケーションのUI層を提供する。
package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// App はページ構成とステータスバーを持つTUIアプリケーション。
type App struct {
	app    *tview.Application
	pages  *tview.Pages
	status *StatusBar
	layout *tview.Flex
}

// NewApp は新しいAppを生成する。endpointはステータスバー右端に表示する接続先。
func NewApp(endpoint string) *App {
	app := tview.NewApplication()
	pages := tview.NewPages()
	status := NewStatusBar(endpoint)
	status.Attach(app)

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(pages, 0, 1, true).
		AddItem(status.view, 1, 0, false)

	return &App{
		app:    app,
		pages:  pages,
		status: status,
		layout: layout,
	}
}

// Run はアプリケーションを実行する。
func (a *App) Run() error {
	return a.app.SetRoot(a.layout, true).EnableMouse(false).Run()
}

// Stop はアプリケーションを停止する。
func (a *App) Stop() {
	a.app.Stop()
}

// Status はステータスバーを返す。
func (a *App) Status() *StatusBar {
	return a.status
}

// Show は画面を追加（同名があれば置換）して前面に切り替える。
func (a *App) Show(name string, p tview.Primitive) {
	a.pages.AddAndSwitchToPage(name, p, true)
	a.app.SetFocus(p)
}

// Open は現在の画面の上にオーバーレイを表示する。
func (a *App) Open(name string, p tview.Primitive) {
	a.pages.AddPage(name, p, true, true)
	a.app.SetFocus(p)
}

// Close は画面を削除する。
func (a *App) Close(name string) {
	a.pages.RemovePage(name)
}

// SwitchTo は既存の画面に切り替える。
func (a *App) SwitchTo(name string) {
	a.pages.SwitchToPage(name)
}

// HasPage は画面が存在するかを返す。
func (a *App) HasPage(name string) bool {
	return a.pages.HasPage(name)
}

// Focus はフォーカスを設定する。
func (a *App) Focus(p tview.Primitive) {
	a.app.SetFocus(p)
}

// QueueUpdateDraw はUIの更新をキューに追加する。
func (a *App) QueueUpdateDraw(f func()) {
	a.app.QueueUpdateDraw(f)
}

// SetInputCapture はグローバルなキー入力ハンドラを設定する。
func (a *App) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	a.app.SetInputCapture(capture)
}

// Centered はプリミティブを画面中央に配置する。
func Centered(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 1, true).
			AddItem(nil, 0, 1, false), width, 1, true).
		AddItem(nil, 0, 1, false)
}
