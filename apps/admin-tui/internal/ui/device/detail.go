package device

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/oyaguma3/captive-portal-access/apps/admin-tui/internal/format"
	"github.com/oyaguma3/captive-portal-access/apps/admin-tui/internal/ui"
	"github.com/oyaguma3/captive-portal-access/pkg/model"
)

// DetailScreen はデバイスレコードの詳細画面を表す。
type DetailScreen struct {
	textView *tview.TextView
	record   *model.DeviceRecord
	now      func() time.Time
	onRevoke func(rec *model.DeviceRecord)
	onBack   func()
}

// NewDetailScreen は新しいDetailScreenを生成する。
func NewDetailScreen(rec *model.DeviceRecord) *DetailScreen {
	textView := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)

	textView.SetTitle(" Device Detail ").
		SetTitleAlign(tview.AlignCenter).
		SetBorder(true).
		SetBorderColor(tcell.ColorBlue)

	screen := &DetailScreen{
		textView: textView,
		record:   rec,
		now:      time.Now,
	}
	screen.setupKeyBindings()
	screen.render()
	return screen
}

// SetOnRevoke は取り消し要求時のコールバックを設定する。
func (s *DetailScreen) SetOnRevoke(handler func(rec *model.DeviceRecord)) {
	s.onRevoke = handler
}

// SetOnBack は戻る時のコールバックを設定する。
func (s *DetailScreen) SetOnBack(handler func()) {
	s.onBack = handler
}

// Primitive は画面のルート要素を返す。
func (s *DetailScreen) Primitive() tview.Primitive {
	return s.textView
}

// SetRecord は表示対象のレコードを差し替える。
func (s *DetailScreen) SetRecord(rec *model.DeviceRecord) {
	s.record = rec
	s.render()
}

func (s *DetailScreen) render() {
	s.textView.SetText(FormatDetail(s.record, s.now()))
}

// FormatDetail はレコードの詳細表示テキストを生成する。
func FormatDetail(rec *model.DeviceRecord, now time.Time) string {
	var b strings.Builder
	field := func(label, value string) {
		fmt.Fprintf(&b, "  [cyan]%-12s[-] %s\n", label+":", tview.Escape(format.OrDash(value)))
	}

	b.WriteString("[yellow::b]Device[-::-]\n\n")
	field("ID", rec.ID)
	field("MAC", rec.MAC)
	field("IP", rec.IP)
	field("Owner", rec.Owner)
	field("Approved by", rec.ApprovedBy)
	field("Kind", string(rec.Kind))
	field("Sharing", string(rec.Sharing))

	b.WriteString("\n[yellow::b]Status[-::-]\n\n")
	status := string(rec.Status)
	if rec.Status == model.StatusActive && rec.IsExpiredAt(now) {
		status += " (past expiry, awaiting sweep)"
	}
	field("Status", status)
	field("Created", format.DateTime(rec.CreatedAt))
	field("Expires", format.DateTime(rec.ExpiresAt))
	if rec.Status == model.StatusActive {
		field("Remaining", format.Remaining(rec.ExpiresAt, now))
	}
	if rec.ExpiredAt != nil {
		field("Expired at", format.DateTimePtr(rec.ExpiredAt))
	}
	if rec.RevokedAt != nil {
		field("Revoked at", format.DateTimePtr(rec.RevokedAt))
	}

	if !rec.Metadata.IsZero() {
		m := rec.Metadata
		b.WriteString("\n[yellow::b]Metadata[-::-]\n\n")
		field("Name", m.Name)
		field("Type", string(m.DeviceType))
		field("OS", m.OS)
		field("Vendor", m.Vendor)
		field("Location", m.Location)
		field("Notes", m.Notes)
	}

	b.WriteString("\n[gray]" + ui.Hint(ui.DeviceDetailBindings()...) + "[-]\n")
	return b.String()
}

func (s *DetailScreen) setupKeyBindings() {
	s.textView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyEsc || event.Rune() == ui.RuneQuit:
			if s.onBack != nil {
				s.onBack()
			}
		case event.Key() == ui.KeyRevoke || event.Rune() == ui.RuneRevoke:
			if s.onRevoke != nil && s.record != nil {
				s.onRevoke(s.record)
			}
		default:
			return event
		}
		return nil
	})
}
