package config

import (
	"os"
	"testing"
)

// unsetenv はテスト終了時に復元される形で環境変数を未設定にする
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		unsetenv(t, "VALKEY_ADDR")
		unsetenv(t, "VALKEY_PASSWORD")
		unsetenv(t, "ADMIN_USER")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.ValkeyAddr != "127.0.0.1:6379" {
			t.Errorf("ValkeyAddr = %q, want %q", cfg.ValkeyAddr, "127.0.0.1:6379")
		}
		if cfg.ValkeyPassword != "" {
			t.Errorf("ValkeyPassword = %q, want empty", cfg.ValkeyPassword)
		}
		if cfg.AdminUser != "admin" {
			t.Errorf("AdminUser = %q, want %q", cfg.AdminUser, "admin")
		}
	})

	t.Run("from environment", func(t *testing.T) {
		t.Setenv("VALKEY_ADDR", "valkey:6380")
		t.Setenv("VALKEY_PASSWORD", "secret")
		t.Setenv("ADMIN_USER", "ops")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.ValkeyAddr != "valkey:6380" {
			t.Errorf("ValkeyAddr = %q, want %q", cfg.ValkeyAddr, "valkey:6380")
		}
		if cfg.ValkeyPassword != "secret" {
			t.Errorf("ValkeyPassword = %q, want %q", cfg.ValkeyPassword, "secret")
		}
		if cfg.AdminUser != "ops" {
			t.Errorf("AdminUser = %q, want %q", cfg.AdminUser, "ops")
		}
	})
}
