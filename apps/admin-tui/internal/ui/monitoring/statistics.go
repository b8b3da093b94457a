// Package monitoring は監視系画面を提供する。
package monitoring

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/oyaguma3/captive-portal-access/apps/admin-tui/internal/format"
	"github.com/oyaguma3/captive-portal-access/apps/admin-tui/internal/store"
	"github.com/oyaguma3/captive-portal-access/apps/admin-tui/internal/ui"
	"github.com/oyaguma3/captive-portal-access/pkg/model"
)

// Source は統計情報の取得元。
type Source interface {
	Get(ctx context.Context) (*store.Statistics, error)
	Refresh(ctx context.Context) (*store.Statistics, error)
}

// StatisticsScreen は統計ダッシュボード画面を表す。
type StatisticsScreen struct {
	textView *tview.TextView
	app      *ui.App
	source   Source
	onBack   func()
}

// NewStatisticsScreen は新しいStatisticsScreenを生成する。
func NewStatisticsScreen(app *ui.App, source Source) *StatisticsScreen {
	textView := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)

	textView.SetTitle(" Statistics ").
		SetTitleAlign(tview.AlignCenter).
		SetBorder(true).
		SetBorderColor(tcell.ColorBlue)

	screen := &StatisticsScreen{
		textView: textView,
		app:      app,
		source:   source,
	}
	textView.SetInputCapture(screen.handleKey)
	return screen
}

// SetOnBack は戻る時のコールバックを設定する。
func (s *StatisticsScreen) SetOnBack(handler func()) {
	s.onBack = handler
}

// Primitive は画面のルート要素を返す。
func (s *StatisticsScreen) Primitive() tview.Primitive {
	return s.textView
}

// Load は統計情報を表示する（キャッシュ有効時はキャッシュを使う）。
func (s *StatisticsScreen) Load(ctx context.Context) error {
	return s.show(s.source.Get(ctx))
}

// Refresh はキャッシュを無視して再集計する。
func (s *StatisticsScreen) Refresh(ctx context.Context) error {
	return s.show(s.source.Refresh(ctx))
}

func (s *StatisticsScreen) show(stats *store.Statistics, err error) error {
	if err != nil {
		s.textView.SetText("[red]Error loading statistics: " + tview.Escape(err.Error()) + "[-]")
		return err
	}
	s.render(stats)
	return nil
}

func (s *StatisticsScreen) render(stats *store.Statistics) {
	s.textView.SetText(FormatStatistics(stats))
}

// FormatStatistics は統計情報の表示テキストを生成する。
func FormatStatistics(stats *store.Statistics) string {
	var b strings.Builder

	b.WriteString("[yellow::b]Device Registry[-::-]\n\n")
	fmt.Fprintf(&b, "  [cyan]Records:[-]          %d\n", stats.Total)
	fmt.Fprintf(&b, "  [cyan]Authorized now:[-]   %d\n", stats.Live)

	b.WriteString("\n[yellow::b]By Status[-::-]\n")
	for _, st := range []model.Status{model.StatusActive, model.StatusExpired, model.StatusRevoked} {
		fmt.Fprintf(&b, "  %-18s %d\n", string(st)+":", stats.ByStatus[st])
	}

	b.WriteString("\n[yellow::b]By Sharing[-::-]\n")
	for _, sh := range []model.Sharing{model.SharingPersonal, model.SharingShared} {
		fmt.Fprintf(&b, "  %-18s %d\n", string(sh)+":", stats.BySharing[sh])
	}

	b.WriteString("\n[yellow::b]By Kind[-::-]\n")
	for _, k := range []model.Kind{model.KindNetworkDetected, model.KindUserRegistered} {
		fmt.Fprintf(&b, "  %-18s %d\n", string(k)+":", stats.ByKind[k])
	}

	fmt.Fprintf(&b, "\n[gray]Updated %s (cached 1m)[-]\n", format.DateTime(time.Unix(stats.UpdatedAt, 0)))
	b.WriteString("[gray]r: Refresh | q/Esc: Back[-]\n")
	return b.String()
}

func (s *StatisticsScreen) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch {
	case event.Key() == tcell.KeyEsc || event.Rune() == ui.RuneQuit:
		if s.onBack != nil {
			s.onBack()
		}
	case event.Key() == ui.KeyRefresh || event.Rune() == ui.RuneRefresh:
		go s.app.QueueUpdateDraw(func() {
			if err := s.Refresh(context.Background()); err != nil {
				s.app.Status().Error("Failed to refresh: " + err.Error())
				return
			}
			s.app.Status().Success("Statistics refreshed")
		})
	default:
		return event
	}
	return nil
}
