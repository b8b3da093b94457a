package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("REDIS_PASS", "testpass")
	t.Setenv("IDP_URL", "http://idp.local:9000")
}

func TestLoad(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.RedisHost != "localhost" {
		t.Errorf("RedisHost = %q, want %q", cfg.RedisHost, "localhost")
	}
	if cfg.RedisAddr() != "localhost:6379" {
		t.Errorf("RedisAddr() = %q, want %q", cfg.RedisAddr(), "localhost:6379")
	}
	if cfg.IdPURL != "http://idp.local:9000" {
		t.Errorf("IdPURL = %q, want %q", cfg.IdPURL, "http://idp.local:9000")
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, ":8080")
	}
	if cfg.LogLevel != "INFO" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "INFO")
	}
	if !cfg.LogMaskMAC {
		t.Error("LogMaskMAC = false, want true")
	}
	if cfg.GinMode != "release" {
		t.Errorf("GinMode = %q, want %q", cfg.GinMode, "release")
	}
	if cfg.VendorAPIURL != "https://api.macvendors.com" {
		t.Errorf("VendorAPIURL = %q", cfg.VendorAPIURL)
	}
	if len(cfg.AdminRoles) != 1 || cfg.AdminRoles[0] != "admin" {
		t.Errorf("AdminRoles = %v, want [admin]", cfg.AdminRoles)
	}
	if cfg.SessionTTL != 12*time.Hour {
		t.Errorf("SessionTTL = %v, want %v", cfg.SessionTTL, 12*time.Hour)
	}
	if cfg.SweepInterval != 60*time.Second {
		t.Errorf("SweepInterval = %v, want %v", cfg.SweepInterval, 60*time.Second)
	}
	if cfg.RegistryTimeout != 2*time.Second {
		t.Errorf("RegistryTimeout = %v, want %v", cfg.RegistryTimeout, 2*time.Second)
	}
	if cfg.ARPTablePath != "/proc/net/arp" {
		t.Errorf("ARPTablePath = %q", cfg.ARPTablePath)
	}
	if cfg.RadiusEnabled() || cfg.CoAEnabled() {
		t.Error("RADIUS and CoA should be disabled by default")
	}
}

func TestLoadLists(t *testing.T) {
	setRequired(t)
	t.Setenv("ADMIN_ROLES", "admin,netops")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1,10.0.0.2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.AdminRoles) != 2 || cfg.AdminRoles[1] != "netops" {
		t.Errorf("AdminRoles = %v", cfg.AdminRoles)
	}
	if len(cfg.TrustedProxies) != 2 {
		t.Errorf("TrustedProxies = %v", cfg.TrustedProxies)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_PORT", "")
	t.Setenv("REDIS_PASS", "")
	t.Setenv("IDP_URL", "")

	if _, err := Load(); err == nil {
		t.Error("Load() expected error for missing required env vars")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"idp scheme", map[string]string{"IDP_URL": "idp.local"}, "IDP_URL"},
		{"vendor scheme", map[string]string{"VENDOR_API_URL": "ftp://x"}, "VENDOR_API_URL"},
		{"sweep too short", map[string]string{"SWEEP_INTERVAL": "10ms"}, "SWEEP_INTERVAL"},
		{"registry timeout", map[string]string{"REGISTRY_TIMEOUT": "0s"}, "REGISTRY_TIMEOUT"},
		{"radius secret", map[string]string{"RADIUS_LISTEN_ADDR": ":1812"}, "RADIUS_SECRET"},
		{"coa secret", map[string]string{"COA_ADDR": "10.0.0.1:3799"}, "COA_SECRET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatal("Load() expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want to contain %q", err, tt.wantErr)
			}
		})
	}
}
