// Package config はAdmin TUIの設定管理を提供する。
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config はAdmin TUIの設定を表す。
type Config struct {
	ValkeyAddr     string `envconfig:"VALKEY_ADDR" default:"127.0.0.1:6379"`
	ValkeyPassword string `envconfig:"VALKEY_PASSWORD"`
	// AdminUser は監査ログに記録する操作者名
	AdminUser string `envconfig:"ADMIN_USER" default:"admin"`
}

// Load は環境変数から設定を読み込む。
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
