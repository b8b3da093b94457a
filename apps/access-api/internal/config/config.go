// Package config は環境変数から設定を読み込む。
package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config はAccess APIの設定を保持する。
type Config struct {
	// Valkey設定
	RedisHost string `envconfig:"REDIS_HOST" required:"true"`
	RedisPort string `envconfig:"REDIS_PORT" required:"true"`
	RedisPass string `envconfig:"REDIS_PASS" required:"true"`

	// サーバー設定
	ListenAddr     string   `envconfig:"LISTEN_ADDR" default:":8080"`
	LogLevel       string   `envconfig:"LOG_LEVEL" default:"INFO"`
	LogMaskMAC     bool     `envconfig:"LOG_MASK_MAC" default:"true"`
	GinMode        string   `envconfig:"GIN_MODE" default:"release"`
	TrustedProxies []string `envconfig:"TRUSTED_PROXIES"`
	ARPTablePath   string   `envconfig:"ARP_TABLE_PATH" default:"/proc/net/arp"`

	// 外部連携設定
	IdPURL       string `envconfig:"IDP_URL" required:"true"`
	VendorAPIURL string `envconfig:"VENDOR_API_URL" default:"https://api.macvendors.com"`

	// 認可設定
	AdminRoles []string      `envconfig:"ADMIN_ROLES" default:"admin"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"12h"`

	// エンジン設定
	SweepInterval   time.Duration `envconfig:"SWEEP_INTERVAL" default:"60s"`
	RegistryTimeout time.Duration `envconfig:"REGISTRY_TIMEOUT" default:"2s"`

	// RADIUS設定（空の場合は無効）
	RadiusListenAddr string `envconfig:"RADIUS_LISTEN_ADDR"`
	RadiusSecret     string `envconfig:"RADIUS_SECRET"`
	CoAAddr          string `envconfig:"COA_ADDR"`
	CoASecret        string `envconfig:"COA_SECRET"`
}

// Load は環境変数から設定を読み込む。
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// RedisAddr はValkey接続文字列を返す。
func (c *Config) RedisAddr() string {
	return net.JoinHostPort(c.RedisHost, c.RedisPort)
}

// RadiusEnabled はRADIUS MAC認証フロントエンドが有効かどうかを返す。
func (c *Config) RadiusEnabled() bool {
	return c.RadiusListenAddr != ""
}

// CoAEnabled はDisconnect-Requestによる強制切断が有効かどうかを返す。
func (c *Config) CoAEnabled() bool {
	return c.CoAAddr != ""
}

// validate は設定値のバリデーションを行う。
func (c *Config) validate() error {
	if !isHTTPURL(c.IdPURL) {
		return fmt.Errorf("IDP_URL must start with http:// or https://")
	}
	if !isHTTPURL(c.VendorAPIURL) {
		return fmt.Errorf("VENDOR_API_URL must start with http:// or https://")
	}
	if c.SweepInterval < MinSweepInterval {
		return fmt.Errorf("SWEEP_INTERVAL must be at least %s", MinSweepInterval)
	}
	if c.RegistryTimeout <= 0 {
		return fmt.Errorf("REGISTRY_TIMEOUT must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.RadiusEnabled() && c.RadiusSecret == "" {
		return fmt.Errorf("RADIUS_SECRET is required when RADIUS_LISTEN_ADDR is set")
	}
	if c.CoAEnabled() && c.CoASecret == "" {
		return fmt.Errorf("COA_SECRET is required when COA_ADDR is set")
	}
	return nil
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
