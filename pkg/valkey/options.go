// Package valkey はValkeyクライアントの共通機能を提供する。
package valkey

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// Options はValkeyクライアントの接続オプション。
type Options struct {
	Addr           string        // 接続先アドレス（host:port形式）
	Password       string        // 認証パスワード
	ConnectTimeout time.Duration // 接続タイムアウト（起動時のPINGにも使用）
	ReadTimeout    time.Duration // 読み取りタイムアウト
	WriteTimeout   time.Duration // 書き込みタイムアウト
	PoolSize       int           // コネクションプールサイズ
	MinIdleConns   int           // 最小アイドルコネクション数
}

// DefaultOptions はaccess-api向けのOptionsを返す。
// 承認・照会リクエスト、Sweeper、RADIUS照会が同じプールを共有する。
// イベント購読はプール外の専用接続を使う。
func DefaultOptions() *Options {
	return &Options{
		Addr:           "localhost:6379",
		ConnectTimeout: 3 * time.Second,
		ReadTimeout:    2 * time.Second,
		WriteTimeout:   2 * time.Second,
		PoolSize:       20,
		MinIdleConns:   4,
	}
}

// TUIOptions はadmin-tui向けのOptionsを返す。操作者1人分の小さなプール。
func TUIOptions() *Options {
	return &Options{
		Addr:           "localhost:6379",
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
		PoolSize:       5,
		MinIdleConns:   1,
	}
}

// WithAddr はアドレスを設定する。
func (o *Options) WithAddr(addr string) *Options {
	o.Addr = addr
	return o
}

// WithPassword はパスワードを設定する。
func (o *Options) WithPassword(password string) *Options {
	o.Password = password
	return o
}

// WithConnectTimeout は接続タイムアウトを設定する。0以下の場合は変更しない。
func (o *Options) WithConnectTimeout(d time.Duration) *Options {
	if d > 0 {
		o.ConnectTimeout = d
	}
	return o
}

// WithCommandTimeout は読み書き両方のタイムアウトを同じ値に設定する。
// 0以下の場合は変更しない。
func (o *Options) WithCommandTimeout(d time.Duration) *Options {
	if d > 0 {
		o.ReadTimeout = d
		o.WriteTimeout = d
	}
	return o
}

func (o *Options) redisOptions() *redis.Options {
	return &redis.Options{
		Addr:         o.Addr,
		Password:     o.Password,
		DialTimeout:  o.ConnectTimeout,
		ReadTimeout:  o.ReadTimeout,
		WriteTimeout: o.WriteTimeout,
		PoolSize:     o.PoolSize,
		MinIdleConns: o.MinIdleConns,
	}
}
