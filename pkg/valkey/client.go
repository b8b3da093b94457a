package valkey

import (
	"context"
	"errors"
	"net"

	"github.com/redis/go-redis/v9"

	"github.com/oyaguma3/captive-portal-access/pkg/apperr"
)

// NewClient はValkeyクライアントを生成し、ConnectTimeout以内にPINGが通ることを確認する。
// optsがnilの場合はDefaultOptionsを使う。
func NewClient(opts *Options) (*redis.Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()
	return Connect(ctx, opts)
}

// Connect はctxの期限内で接続確認を行う。失敗時はクライアントを閉じてエラーを返す。
func Connect(ctx context.Context, opts *Options) (*redis.Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	client := redis.NewClient(opts.redisOptions())
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, WrapError("PING", "", err)
	}
	return client, nil
}

// IsConnectionError は接続断・タイムアウト系のエラーかどうかを判定する。
func IsConnectionError(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return true
	case errors.Is(err, redis.ErrClosed):
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsKeyNotFound はキーが見つからないエラーかどうかを判定する。
func IsKeyNotFound(err error) bool {
	return errors.Is(err, redis.Nil)
}

// WrapError はValkey操作のエラーをStorageErrorに変換する。
// 上位には分類（ErrValkeyConnection / ErrValkeyCommand）のみを伝える。
func WrapError(operation, key string, err error) error {
	if err == nil {
		return nil
	}
	cause := apperr.ErrValkeyCommand
	if IsConnectionError(err) {
		cause = apperr.ErrValkeyConnection
	}
	return apperr.NewStorageError(operation, key, cause)
}
