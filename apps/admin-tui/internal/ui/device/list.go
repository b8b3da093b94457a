// Package device はデバイス承認レコードの一覧・詳細画面を提供する。
package device

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/oyaguma3/captive-portal-access/apps/admin-tui/internal/format"
	"github.com/oyaguma3/captive-portal-access/apps/admin-tui/internal/store"
	"github.com/oyaguma3/captive-portal-access/apps/admin-tui/internal/ui"
	"github.com/oyaguma3/captive-portal-access/pkg/model"
)

// Lister はデバイス一覧を取得するインターフェース
type Lister interface {
	List(ctx context.Context, activeOnly bool, order store.SortOrder) ([]*model.DeviceRecord, error)
}

var listHeaders = []string{"MAC", "IP", "Owner", "Status", "Sharing", "Remaining", "Name"}

const statusColumn = 3

// ListScreen はデバイス一覧画面を表す。
type ListScreen struct {
	table      *tview.Table
	app        *ui.App
	devices    Lister
	view       *ui.ListView[*model.DeviceRecord]
	activeOnly bool
	order      store.SortOrder
	timeout    time.Duration
	now        func() time.Time

	onSelect func(rec *model.DeviceRecord)
	onRevoke func(rec *model.DeviceRecord)
	onSearch func(query string, results int)
	onBack   func()
}

// NewListScreen は新しいListScreenを生成する。初期表示は有効レコードのみ・作成順。
func NewListScreen(app *ui.App, devices Lister, timeout time.Duration) *ListScreen {
	table := tview.NewTable().
		SetBorders(false).
		SetSelectable(true, false).
		SetFixed(1, 0)

	table.SetTitleAlign(tview.AlignCenter).
		SetBorder(true).
		SetBorderColor(tcell.ColorBlue)

	s := &ListScreen{
		table:      table,
		app:        app,
		devices:    devices,
		view:       ui.NewListView(ui.DefaultPageSize, searchValues),
		activeOnly: true,
		order:      store.SortByCreated,
		timeout:    timeout,
		now:        time.Now,
	}
	table.SetInputCapture(s.handleKey)
	return s
}

// SetOnSelect はレコード選択時のコールバックを設定する。
func (s *ListScreen) SetOnSelect(handler func(rec *model.DeviceRecord)) { s.onSelect = handler }

// SetOnRevoke は取り消し要求時のコールバックを設定する。
func (s *ListScreen) SetOnRevoke(handler func(rec *model.DeviceRecord)) { s.onRevoke = handler }

// SetOnSearch は絞り込み確定時のコールバックを設定する。
func (s *ListScreen) SetOnSearch(handler func(query string, results int)) { s.onSearch = handler }

// SetOnBack は戻る時のコールバックを設定する。
func (s *ListScreen) SetOnBack(handler func()) { s.onBack = handler }

// Primitive は画面のルート要素を返す。
func (s *ListScreen) Primitive() tview.Primitive {
	return s.table
}

// Load はレジストリから一覧を読み込んで再描画する。
func (s *ListScreen) Load(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	records, err := s.devices.List(ctx, s.activeOnly, s.order)
	if err != nil {
		return err
	}
	s.view.SetItems(records)
	s.render()
	return nil
}

// SetFilter は絞り込み文字列を設定する。
func (s *ListScreen) SetFilter(query string) {
	s.view.SetQuery(query)
	s.render()
	if s.onSearch != nil && s.view.Filtering() {
		s.onSearch(s.view.Query(), len(s.view.Visible()))
	}
}

// ToggleActiveOnly は有効レコードのみ表示を切り替えて再読み込みする。
func (s *ListScreen) ToggleActiveOnly(ctx context.Context) error {
	s.activeOnly = !s.activeOnly
	s.view.FirstPage()
	return s.Load(ctx)
}

// ToggleSort は並び順を切り替えて再読み込みする。
func (s *ListScreen) ToggleSort(ctx context.Context) error {
	if s.order == store.SortByCreated {
		s.order = store.SortByExpiry
	} else {
		s.order = store.SortByCreated
	}
	return s.Load(ctx)
}

// Selected は選択行のレコードを返す。
func (s *ListScreen) Selected() *model.DeviceRecord {
	row, _ := s.table.GetSelection()
	rec, ok := s.view.At(row - 1)
	if !ok {
		return nil
	}
	return rec
}

func searchValues(rec *model.DeviceRecord) []string {
	values := []string{rec.MAC, rec.IP, rec.Owner}
	if rec.Metadata != nil {
		values = append(values, rec.Metadata.Name, rec.Metadata.Vendor)
	}
	return values
}

// RowValues は一覧の1行分の表示値を返す。
func RowValues(rec *model.DeviceRecord, now time.Time) []string {
	remaining := "-"
	if rec.Status == model.StatusActive {
		remaining = format.Remaining(rec.ExpiresAt, now)
	}
	name := ""
	if rec.Metadata != nil {
		name = rec.Metadata.Name
	}
	return []string{
		rec.MAC,
		rec.IP,
		format.Truncate(format.OrDash(rec.Owner), 24),
		string(rec.Status),
		string(rec.Sharing),
		remaining,
		format.Truncate(format.OrDash(name), 20),
	}
}

func statusColor(rec *model.DeviceRecord, now time.Time) tcell.Color {
	switch {
	case rec.IsAuthorizedAt(now):
		return tcell.ColorGreen
	case rec.Status == model.StatusRevoked:
		return tcell.ColorRed
	}
	return tcell.ColorGray
}

func (s *ListScreen) render() {
	s.table.Clear()
	for col, header := range listHeaders {
		s.table.SetCell(0, col, tview.NewTableCell(header).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false).
			SetExpansion(1))
	}

	now := s.now()
	page := s.view.Page()
	for i, rec := range page {
		for col, value := range RowValues(rec, now) {
			color := tcell.ColorWhite
			if col == statusColumn {
				color = statusColor(rec, now)
			}
			s.table.SetCell(i+1, col, tview.NewTableCell(tview.Escape(value)).
				SetTextColor(color).
				SetExpansion(1))
		}
	}

	s.table.SetTitle(s.Title())
	if len(page) > 0 {
		s.table.Select(1, 0)
	}
}

// Title は現在の表示条件を含むタイトルを返す。
func (s *ListScreen) Title() string {
	scope := "[green]active[-]"
	if !s.activeOnly {
		scope = "[gray]all[-]"
	}
	title := " Device Access (" + scope + ", sort:" + s.order.String() + ") "
	if s.view.Filtering() {
		title += "[yellow]filter:\"" + tview.Escape(s.view.Query()) + "\"[-] "
	}
	return title + "[gray]" + s.view.Info() + "[-] "
}

// async はUIスレッド上でfnを実行し、失敗をステータスバーに表示する。
func (s *ListScreen) async(fn func(ctx context.Context) error) {
	go s.app.QueueUpdateDraw(func() {
		if err := fn(context.Background()); err != nil {
			s.app.Status().Error("Failed to load: " + err.Error())
		}
	})
}

func (s *ListScreen) withSelected(fn func(rec *model.DeviceRecord)) {
	if rec := s.Selected(); rec != nil && fn != nil {
		fn(rec)
	}
}

var (
	bindRevoke  = []ui.Binding{{Key: ui.KeyRevoke}, {Rune: ui.RuneRevoke}}
	bindRefresh = []ui.Binding{{Key: ui.KeyRefresh}, {Rune: ui.RuneRefresh}}
	bindFilter  = []ui.Binding{{Key: ui.KeyFilter}, {Rune: ui.RuneFilter}}
)

func matchesAny(event *tcell.EventKey, bindings []ui.Binding) bool {
	for _, b := range bindings {
		if b.Matches(event) {
			return true
		}
	}
	return false
}

func (s *ListScreen) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch {
	case matchesAny(event, bindRevoke):
		s.withSelected(s.onRevoke)
	case matchesAny(event, bindRefresh):
		s.async(s.Load)
	case matchesAny(event, bindFilter):
		s.showFilterForm()
	case event.Key() == tcell.KeyEnter:
		s.withSelected(s.onSelect)
	case event.Key() == tcell.KeyEsc && s.view.Filtering():
		s.view.SetQuery("")
		s.render()
	case event.Key() == tcell.KeyEsc || event.Rune() == ui.RuneQuit:
		if s.onBack != nil {
			s.onBack()
		}
	case event.Key() == tcell.KeyPgDn:
		if s.view.NextPage() {
			s.render()
		}
	case event.Key() == tcell.KeyPgUp:
		if s.view.PrevPage() {
			s.render()
		}
	case event.Key() == tcell.KeyHome:
		s.view.FirstPage()
		s.render()
	case event.Key() == tcell.KeyEnd:
		s.view.LastPage()
		s.render()
	case event.Rune() == ui.RuneActiveOnly:
		s.async(s.ToggleActiveOnly)
	case event.Rune() == ui.RuneSort:
		s.async(s.ToggleSort)
	default:
		return event
	}
	return nil
}

func (s *ListScreen) showFilterForm() {
	const page = "device-filter"
	closeForm := func() {
		s.app.Close(page)
		s.app.Focus(s.table)
	}
	form := ui.NewInputForm("Filter Devices", "MAC/IP/Owner/Name: ", s.view.Query(),
		func(value string) {
			closeForm()
			s.SetFilter(value)
		},
		closeForm,
	)
	s.app.Open(page, ui.Centered(form, 56, 7))
}
