// Package main はAccess API（デバイスアクセス認可エンジン）のエントリーポイント。
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/config"
	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/enforce"
	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/engine"
	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/handler"
	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/identity"
	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/netinfo"
	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/query"
	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/radius"
	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/server"
	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/sweeper"
	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/vendor"
	"github.com/oyaguma3/captive-portal-access/pkg/logging"
	"github.com/oyaguma3/captive-portal-access/pkg/registry"
	"github.com/oyaguma3/captive-portal-access/pkg/valkey"
)

func main() {
	// 1. 設定読み込み
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// 2. ロガー初期化
	initLogger(cfg)

	slog.Info("starting access-api",
		"listen_addr", cfg.ListenAddr,
		"log_level", cfg.LogLevel,
		"radius_enabled", cfg.RadiusEnabled(),
		"coa_enabled", cfg.CoAEnabled(),
	)

	// 3. Valkey接続
	opts := valkey.DefaultOptions().
		WithAddr(cfg.RedisAddr()).
		WithPassword(cfg.RedisPass).
		WithConnectTimeout(config.ValkeyConnectTimeout).
		WithCommandTimeout(cfg.RegistryTimeout)
	valkeyClient, err := valkey.NewClient(opts)
	if err != nil {
		slog.Error("failed to connect to Valkey",
			"event_id", "VALKEY_CONN_ERR",
			"error", err,
		)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	slog.Info("connected to Valkey", "addr", cfg.RedisAddr())

	// 4. 依存オブジェクト生成
	fields := logging.NewCommonFields(logging.NewMasker(cfg.LogMaskMAC))
	store := registry.New(valkeyClient)
	vendors := vendor.New(cfg, valkeyClient)
	eng := engine.NewEngine(store, vendors, cfg)
	access := query.NewService(eng)

	h := handler.NewHandler(
		identity.NewProvider(cfg),
		identity.NewSessionStore(valkeyClient, cfg.SessionTTL),
		eng,
		access,
		vendors,
		netinfo.NewResolver(cfg.ARPTablePath),
	)

	srv, err := server.New(cfg, h)
	if err != nil {
		slog.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	// 5. バックグラウンド処理
	bgCtx, stopBackground := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	sw := sweeper.New(store, cfg.SweepInterval, cfg.RegistryTimeout, sweeper.WithFields(fields))
	wg.Add(1)
	go func() {
		defer wg.Done()
		sw.Run(bgCtx)
	}()

	var enforcer enforce.Enforcer = enforce.NewNoopEnforcer(fields)
	if cfg.CoAEnabled() {
		enforcer = enforce.NewDisconnectEnforcer(cfg.CoAAddr, cfg.CoASecret, time.Second)
	}
	sub := enforce.NewSubscriber(valkeyClient, store.Channel(), enforcer, cfg.RegistryTimeout, fields)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := sub.Run(bgCtx); err != nil {
			slog.Error("enforcement subscriber error", "error", err)
		}
	}()

	var radiusSrv *radius.Server
	if cfg.RadiusEnabled() {
		radiusSrv = radius.NewServer(cfg.RadiusListenAddr,
			radius.NewHandler(access, fields, cfg.RegistryTimeout), cfg.RadiusSecret)
		go func() {
			slog.Info("starting RADIUS server", "addr", cfg.RadiusListenAddr)
			if err := radiusSrv.ListenAndServe(); err != nil {
				slog.Error("RADIUS server error", "error", err)
			}
		}()
	}

	// 6. HTTPサーバー起動
	go func() {
		if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// 7. シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutting down server...", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	if radiusSrv != nil {
		if err := radiusSrv.Shutdown(ctx); err != nil {
			slog.Warn("RADIUS server shutdown error", "error", err)
		}
	}

	stopBackground()
	wg.Wait()

	slog.Info("server stopped")
}

// initLogger はロガーを初期化する。
func initLogger(cfg *config.Config) {
	level := slog.LevelInfo
	switch strings.ToUpper(cfg.LogLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewJSONHandler(os.Stdout, opts)
	logger := slog.New(handler).With("app", "access-api")
	slog.SetDefault(logger)
}
