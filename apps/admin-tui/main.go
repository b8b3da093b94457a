// Admin TUI - キャプティブポータル デバイス承認管理コンソール
package main

import (
	"context"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/oyaguma3/captive-portal-access/apps/admin-tui/internal/audit"
	"github.com/oyaguma3/captive-portal-access/apps/admin-tui/internal/config"
	"github.com/oyaguma3/captive-portal-access/apps/admin-tui/internal/store"
	"github.com/oyaguma3/captive-portal-access/apps/admin-tui/internal/ui"
	"github.com/oyaguma3/captive-portal-access/apps/admin-tui/internal/ui/device"
	"github.com/oyaguma3/captive-portal-access/apps/admin-tui/internal/ui/monitoring"
	"github.com/oyaguma3/captive-portal-access/pkg/model"
	"github.com/oyaguma3/captive-portal-access/pkg/valkey"
)

// operationTimeout はTUIからの1操作あたりのタイムアウト
const operationTimeout = 5 * time.Second

// ページ名
const (
	pageMenu       = "main-menu"
	pageDevices    = "device-list"
	pageDetail     = "device-detail"
	pageStatistics = "statistics"
	pageDialog     = "dialog"
	pageHelp       = "help"
	pageConnError  = "connection-error"
)

// Application はアプリケーション全体を管理する。
type Application struct {
	app         *ui.App
	cfg         *config.Config
	auditLogger *audit.Logger

	devices    *store.DeviceStore
	statistics *store.StatisticsStore
	deviceList *device.ListScreen
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	a := &Application{
		app:         ui.NewApp(cfg.ValkeyAddr),
		cfg:         cfg,
		auditLogger: audit.NewLogger(cfg.AdminUser),
	}
	a.app.SetInputCapture(a.globalKeys)

	if err := a.connect(); err != nil {
		a.showConnectionError(err)
	} else {
		a.showMainMenu()
	}

	if err := a.app.Run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
	a.cleanup()
}

func (a *Application) connect() error {
	opts := valkey.TUIOptions().
		WithAddr(a.cfg.ValkeyAddr).
		WithPassword(a.cfg.ValkeyPassword)

	client, err := valkey.NewClient(opts)
	if err != nil {
		return err
	}

	a.devices = store.NewDeviceStore(client)
	a.statistics = store.NewStatisticsStore(a.devices)
	return nil
}

func (a *Application) showConnectionError(err error) {
	a.app.Open(pageConnError, ui.NewConnectionError(a.cfg.ValkeyAddr, err,
		func() {
			if err := a.connect(); err != nil {
				a.app.Status().Error("Connection failed: " + err.Error())
				return
			}
			a.app.Close(pageConnError)
			a.showMainMenu()
		},
		a.app.Stop,
	))
}

func (a *Application) showMainMenu() {
	a.app.Status().SetHint(ui.Hint(ui.GlobalBindings()...))
	a.app.Show(pageMenu, ui.NewMenu("Captive Portal Admin",
		ui.MainMenuItems(a.showDeviceList, a.showStatistics, a.confirmExit),
		a.confirmExit,
	))
}

func (a *Application) globalKeys(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case ui.KeyQuit:
		a.app.Stop()
		return nil
	case ui.KeyHelp:
		if !a.app.HasPage(pageHelp) {
			a.app.Open(pageHelp, ui.NewHelpView(func() { a.app.Close(pageHelp) }))
		}
		return nil
	}
	return event
}

// Device Access
func (a *Application) showDeviceList() {
	screen := device.NewListScreen(a.app, a.devices, operationTimeout)
	a.deviceList = screen

	screen.SetOnSelect(func(rec *model.DeviceRecord) {
		a.showDeviceDetail(rec.ID)
	})
	screen.SetOnRevoke(func(rec *model.DeviceRecord) {
		a.confirmRevoke(rec, func() {
			a.reloadDeviceList()
			a.app.Focus(screen.Primitive())
		})
	})
	screen.SetOnSearch(a.auditLogger.LogSearch)
	screen.SetOnBack(func() {
		a.app.Close(pageDevices)
		a.deviceList = nil
		a.showMainMenu()
	})

	a.app.Status().SetHint(ui.Hint(ui.DeviceListBindings()...))
	a.app.Show(pageDevices, screen.Primitive())
	go a.app.QueueUpdateDraw(a.reloadDeviceList)
}

func (a *Application) reloadDeviceList() {
	if a.deviceList == nil {
		return
	}
	if err := a.deviceList.Load(context.Background()); err != nil {
		a.app.Status().Error("Failed to load: " + err.Error())
	}
}

func (a *Application) showDeviceDetail(id string) {
	rec, err := a.getDevice(id)
	if err != nil {
		a.showDialog(ui.DialogError, "Load Failed", err.Error(), nil)
		return
	}
	a.auditLogger.LogView(rec.ID, rec.MAC, rec.IP)

	screen := device.NewDetailScreen(rec)
	screen.SetOnRevoke(func(target *model.DeviceRecord) {
		a.confirmRevoke(target, func() {
			if updated, err := a.getDevice(target.ID); err == nil {
				screen.SetRecord(updated)
			}
			a.app.Focus(screen.Primitive())
		})
	})
	screen.SetOnBack(func() {
		a.app.Close(pageDetail)
		a.app.SwitchTo(pageDevices)
		a.reloadDeviceList()
		if a.deviceList != nil {
			a.app.Focus(a.deviceList.Primitive())
		}
	})

	a.app.Show(pageDetail, screen.Primitive())
}

func (a *Application) getDevice(id string) (*model.DeviceRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()
	return a.devices.Get(ctx, id)
}

// confirmRevoke は確認後にレコードをRevokedへ遷移させ、ダイアログを閉じた後にonDoneを呼ぶ。
func (a *Application) confirmRevoke(rec *model.DeviceRecord, onDone func()) {
	if rec.Status.IsTerminal() {
		a.showDialog(ui.DialogInfo, "Revoke", "This device is already "+string(rec.Status)+".", onDone)
		return
	}

	message := "Revoke network access for this device?\n\n" + rec.MAC + "  " + rec.IP +
		"\n\nThe device will be disconnected."
	a.app.Open(pageDialog, ui.NewDialog(ui.DialogWarning, "Confirm Revoke", message,
		func() {
			a.app.Close(pageDialog)
			a.revoke(rec)
			onDone()
		},
		func() {
			a.app.Close(pageDialog)
			onDone()
		},
	))
}

func (a *Application) revoke(rec *model.DeviceRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	revoked, err := a.devices.Revoke(ctx, rec.ID)
	if err != nil {
		a.auditLogger.LogRevokeFailed(rec.ID, err)
		a.app.Status().Error("Failed to revoke: " + err.Error())
		return
	}
	a.auditLogger.LogRevoke(rec.ID, rec.MAC, rec.IP, revoked)
	a.statistics.ClearCache()

	if !revoked {
		a.app.Status().Warn("Device was already expired or revoked")
		return
	}
	a.app.Status().Success("Device revoked: " + rec.MAC)
}

// Statistics
func (a *Application) showStatistics() {
	screen := monitoring.NewStatisticsScreen(a.app, a.statistics)
	screen.SetOnBack(func() {
		a.app.Close(pageStatistics)
		a.showMainMenu()
	})

	a.app.Show(pageStatistics, screen.Primitive())
	go a.app.QueueUpdateDraw(func() {
		ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
		defer cancel()
		if err := screen.Load(ctx); err != nil {
			a.app.Status().Error("Failed to load: " + err.Error())
		}
	})
}

// showDialog は1ボタンのダイアログを表示し、閉じた後にonCloseを呼ぶ。
func (a *Application) showDialog(kind ui.DialogKind, title, message string, onClose func()) {
	closeDialog := func() {
		a.app.Close(pageDialog)
		if onClose != nil {
			onClose()
		}
	}
	a.app.Open(pageDialog, ui.NewDialog(kind, title, message, closeDialog, closeDialog))
}

func (a *Application) confirmExit() {
	a.app.Open(pageDialog, ui.NewDialog(ui.DialogConfirm, "Exit", "Exit the admin console?",
		a.app.Stop,
		func() { a.app.Close(pageDialog) },
	))
}

func (a *Application) cleanup() {
	if a.devices != nil {
		_ = a.devices.Close()
	}
}
